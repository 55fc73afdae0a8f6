package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/logger"
)

//go:generate mockgen -source=enrollment_handler.go -destination=../mocks/server/mock_enrollment_handler.go -package=mock_server

// Lifecycle is the enrollment lifecycle the RPC layer drives.
type Lifecycle interface {
	Get(ctx context.Context, enrollmentID string) (*enrollment.Enrollment, error)
	Enroll(ctx context.Context, userID, courseID string) (*enrollment.Enrollment, error)
	MarkVideoComplete(ctx context.Context, enrollmentID, videoID string) (*enrollment.Enrollment, error)
	SubmitTest(ctx context.Context, enrollmentID string, score float64) (*enrollment.SubmitResult, error)
	ListForUser(ctx context.Context, userID string, status enrollment.Status) ([]enrollment.WithCourse, error)
}

const defaultConflictRetryDelay = 20 * time.Millisecond

// EnrollmentHandler serves enrollment lifecycle operations for the calling user.
type EnrollmentHandler struct {
	lifecycle Lifecycle
	validator *requestValidator
	retrier   conflictRetrier
	log       *logger.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler. Operations that hit a concurrency conflict
// are re-run up to retryAttempts times.
func NewEnrollmentHandler(lifecycle Lifecycle, retryAttempts uint, log *logger.Logger) (*EnrollmentHandler, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	return &EnrollmentHandler{
		lifecycle: lifecycle,
		validator: v,
		retrier: conflictRetrier{
			log:      log,
			attempts: retryAttempts,
			delay:    defaultConflictRetryDelay,
		},
		log: log,
	}, nil
}

// Register mounts the EnrollmentService procedures on mux.
func (h *EnrollmentHandler) Register(mux *http.ServeMux) {
	opts := handlerOptions()
	enroll := Procedure(EnrollmentServiceName, "Enroll")
	mux.Handle(enroll, connect.NewUnaryHandler(enroll, h.Enroll, opts...))
	listEnrollments := Procedure(EnrollmentServiceName, "ListEnrollments")
	mux.Handle(listEnrollments, connect.NewUnaryHandler(listEnrollments, h.ListEnrollments, opts...))
	markVideoComplete := Procedure(EnrollmentServiceName, "MarkVideoComplete")
	mux.Handle(markVideoComplete, connect.NewUnaryHandler(markVideoComplete, h.MarkVideoComplete, opts...))
	submitTest := Procedure(EnrollmentServiceName, "SubmitTest")
	mux.Handle(submitTest, connect.NewUnaryHandler(submitTest, h.SubmitTest, opts...))
}

// Enroll enrolls the caller in a course.
func (h *EnrollmentHandler) Enroll(
	ctx context.Context,
	req *connect.Request[EnrollRequest],
) (*connect.Response[EnrollResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	e, err := h.lifecycle.Enroll(ctx, userID, req.Msg.CourseID)
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	h.log.Info("enrolled", "user_id", userID, "course_id", e.CourseID, "enrollment_id", e.ID)
	return connect.NewResponse(&EnrollResponse{Enrollment: e}), nil
}

// ListEnrollments lists the caller's enrollments, optionally filtered by status.
func (h *EnrollmentHandler) ListEnrollments(
	ctx context.Context,
	req *connect.Request[ListEnrollmentsRequest],
) (*connect.Response[ListEnrollmentsResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	enrollments, err := h.lifecycle.ListForUser(ctx, userID, req.Msg.Status)
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&ListEnrollmentsResponse{Enrollments: enrollments}), nil
}

// MarkVideoComplete records a watched video on one of the caller's enrollments.
func (h *EnrollmentHandler) MarkVideoComplete(
	ctx context.Context,
	req *connect.Request[MarkVideoCompleteRequest],
) (*connect.Response[MarkVideoCompleteResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	var e *enrollment.Enrollment
	err = h.retrier.Do(ctx, func() error {
		if err := h.authorize(ctx, userID, req.Msg.EnrollmentID); err != nil {
			return err
		}
		var err error
		e, err = h.lifecycle.MarkVideoComplete(ctx, req.Msg.EnrollmentID, req.Msg.VideoID)
		return err
	})
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&MarkVideoCompleteResponse{Enrollment: e}), nil
}

// SubmitTest records a test score on one of the caller's enrollments.
func (h *EnrollmentHandler) SubmitTest(
	ctx context.Context,
	req *connect.Request[SubmitTestRequest],
) (*connect.Response[SubmitTestResponse], error) {
	userID, err := userIDFromHeader(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	var result *enrollment.SubmitResult
	err = h.retrier.Do(ctx, func() error {
		if err := h.authorize(ctx, userID, req.Msg.EnrollmentID); err != nil {
			return err
		}
		var err error
		result, err = h.lifecycle.SubmitTest(ctx, req.Msg.EnrollmentID, *req.Msg.Score)
		return err
	})
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	if result.PointsAwarded > 0 {
		h.log.Info("course completed", "user_id", userID, "enrollment_id", result.Enrollment.ID, "points", result.PointsAwarded)
	}
	return connect.NewResponse(&SubmitTestResponse{
		Enrollment:    result.Enrollment,
		Passed:        result.Passed,
		PointsAwarded: result.PointsAwarded,
	}), nil
}

func (h *EnrollmentHandler) authorize(ctx context.Context, userID, enrollmentID string) error {
	e, err := h.lifecycle.Get(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return connect.NewError(connect.CodePermissionDenied, errors.New("enrollment belongs to another user"))
	}
	return nil
}
