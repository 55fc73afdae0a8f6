package server

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/config"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/logger"
	"github.com/at-ishikawa/coursely/internal/recommend"
	"github.com/at-ishikawa/coursely/internal/statistics"
)

//go:generate mockgen -source=learner_handler.go -destination=../mocks/server/mock_learner_handler.go -package=mock_server

// Recommender ranks courses for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int) ([]recommend.Recommendation, error)
}

// LearnerHandler serves per-learner features: recommendations, leaderboard, interactions and analytics.
type LearnerHandler struct {
	cfg          *config.Config
	recommender  Recommender
	users        account.UserRepository
	courses      course.CourseRepository
	interactions interaction.Repository
	lifecycle    Lifecycle
	validator    *requestValidator
	log          *logger.Logger
}

// NewLearnerHandler creates a new LearnerHandler.
func NewLearnerHandler(
	cfg *config.Config,
	recommender Recommender,
	users account.UserRepository,
	courses course.CourseRepository,
	interactions interaction.Repository,
	lifecycle Lifecycle,
	log *logger.Logger,
) (*LearnerHandler, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	return &LearnerHandler{
		cfg:          cfg,
		recommender:  recommender,
		users:        users,
		courses:      courses,
		interactions: interactions,
		lifecycle:    lifecycle,
		validator:    v,
		log:          log,
	}, nil
}

// Register mounts the LearnerService procedures on mux.
func (h *LearnerHandler) Register(mux *http.ServeMux) {
	opts := handlerOptions()
	recommendPath := Procedure(LearnerServiceName, "Recommend")
	mux.Handle(recommendPath, connect.NewUnaryHandler(recommendPath, h.Recommend, opts...))
	leaderboard := Procedure(LearnerServiceName, "GetLeaderboard")
	mux.Handle(leaderboard, connect.NewUnaryHandler(leaderboard, h.GetLeaderboard, opts...))
	recordInteraction := Procedure(LearnerServiceName, "RecordInteraction")
	mux.Handle(recordInteraction, connect.NewUnaryHandler(recordInteraction, h.RecordInteraction, opts...))
	analytics := Procedure(LearnerServiceName, "GetUserAnalytics")
	mux.Handle(analytics, connect.NewUnaryHandler(analytics, h.GetUserAnalytics, opts...))
}

// Recommend returns course recommendations for the caller.
func (h *LearnerHandler) Recommend(
	ctx context.Context,
	req *connect.Request[RecommendRequest],
) (*connect.Response[RecommendResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit == 0 {
		limit = h.cfg.Recommendation.DefaultLimit
	}
	recommendations, err := h.recommender.Recommend(ctx, userID, limit)
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	if recommendations == nil {
		recommendations = []recommend.Recommendation{}
	}
	return connect.NewResponse(&RecommendResponse{Recommendations: recommendations}), nil
}

// GetLeaderboard returns the top users by points. It does not require a caller identity.
func (h *LearnerHandler) GetLeaderboard(
	ctx context.Context,
	req *connect.Request[GetLeaderboardRequest],
) (*connect.Response[GetLeaderboardResponse], error) {
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit == 0 {
		limit = h.cfg.Leaderboard.DefaultLimit
	}
	entries, err := h.users.Leaderboard(ctx, limit)
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	if entries == nil {
		entries = []account.LeaderboardEntry{}
	}
	return connect.NewResponse(&GetLeaderboardResponse{Entries: entries}), nil
}

// RecordInteraction appends an interaction of the caller with a course.
func (h *LearnerHandler) RecordInteraction(
	ctx context.Context,
	req *connect.Request[RecordInteractionRequest],
) (*connect.Response[RecordInteractionResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}
	if !req.Msg.InteractionType.Valid() {
		return nil, toConnectError(h.log, req.Spec().Procedure, fmt.Errorf("%w: %q", interaction.ErrInvalidType, req.Msg.InteractionType))
	}

	if _, err := h.courses.FindByID(ctx, req.Msg.CourseID); err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	i := &interaction.Interaction{
		UserID:          userID,
		CourseID:        req.Msg.CourseID,
		InteractionType: req.Msg.InteractionType,
		TimeSpent:       req.Msg.TimeSpent,
	}
	if err := h.interactions.Create(ctx, i); err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&RecordInteractionResponse{Interaction: i}), nil
}

// GetUserAnalytics summarizes the caller's learning activity.
func (h *LearnerHandler) GetUserAnalytics(
	ctx context.Context,
	req *connect.Request[GetUserAnalyticsRequest],
) (*connect.Response[GetUserAnalyticsResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	withCourses, err := h.lifecycle.ListForUser(ctx, userID, "")
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	enrollments := make([]enrollment.Enrollment, 0, len(withCourses))
	for _, wc := range withCourses {
		enrollments = append(enrollments, wc.Enrollment)
	}
	return connect.NewResponse(&GetUserAnalyticsResponse{
		Analytics: statistics.Calculate(enrollments, req.Msg.Year, req.Msg.Month),
	}), nil
}
