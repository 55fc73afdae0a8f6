// Package client calls the coursely Connect API over HTTP with JSON bodies.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/recommend"
	"github.com/at-ishikawa/coursely/internal/server"
	"github.com/at-ishikawa/coursely/internal/statistics"
)

// APIError is the Connect error body returned for failed calls.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client is a coursely API client acting on behalf of one user.
type Client struct {
	httpClient *resty.Client
}

// New creates a Client. userID is sent in the X-User-Id header and may be empty for anonymous calls.
func New(baseURL, userID string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Connect-Protocol-Version", "1")
	if userID != "" {
		client.SetHeader(server.UserIDHeader, userID)
	}
	return &Client{httpClient: client}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

func (c *Client) call(ctx context.Context, service, method string, req, res any) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(res).
		Post(server.Procedure(service, method))
	if err != nil {
		return fmt.Errorf("httpClient.Post(%s/%s) > %w", service, method, err)
	}
	if response.IsError() {
		var apiErr APIError
		if err := json.Unmarshal([]byte(response.String()), &apiErr); err == nil && apiErr.Code != "" {
			apiErr.StatusCode = response.StatusCode()
			return &apiErr
		}
		return &APIError{StatusCode: response.StatusCode(), Code: "unknown", Message: response.String()}
	}
	return nil
}

func (c *Client) ListCourses(ctx context.Context, req server.ListCoursesRequest) ([]course.Course, error) {
	var res server.ListCoursesResponse
	if err := c.call(ctx, server.CourseServiceName, "ListCourses", &req, &res); err != nil {
		return nil, err
	}
	return res.Courses, nil
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (*course.Course, error) {
	var res server.GetCourseResponse
	if err := c.call(ctx, server.CourseServiceName, "GetCourse", &server.GetCourseRequest{CourseID: courseID}, &res); err != nil {
		return nil, err
	}
	return res.Course, nil
}

func (c *Client) Enroll(ctx context.Context, courseID string) (*enrollment.Enrollment, error) {
	var res server.EnrollResponse
	if err := c.call(ctx, server.EnrollmentServiceName, "Enroll", &server.EnrollRequest{CourseID: courseID}, &res); err != nil {
		return nil, err
	}
	return res.Enrollment, nil
}

func (c *Client) ListEnrollments(ctx context.Context, status enrollment.Status) ([]enrollment.WithCourse, error) {
	var res server.ListEnrollmentsResponse
	if err := c.call(ctx, server.EnrollmentServiceName, "ListEnrollments", &server.ListEnrollmentsRequest{Status: status}, &res); err != nil {
		return nil, err
	}
	return res.Enrollments, nil
}

func (c *Client) MarkVideoComplete(ctx context.Context, enrollmentID, videoID string) (*enrollment.Enrollment, error) {
	var res server.MarkVideoCompleteResponse
	req := &server.MarkVideoCompleteRequest{EnrollmentID: enrollmentID, VideoID: videoID}
	if err := c.call(ctx, server.EnrollmentServiceName, "MarkVideoComplete", req, &res); err != nil {
		return nil, err
	}
	return res.Enrollment, nil
}

func (c *Client) SubmitTest(ctx context.Context, enrollmentID string, score float64) (*server.SubmitTestResponse, error) {
	var res server.SubmitTestResponse
	req := &server.SubmitTestRequest{EnrollmentID: enrollmentID, Score: &score}
	if err := c.call(ctx, server.EnrollmentServiceName, "SubmitTest", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Recommend(ctx context.Context, limit int) ([]recommend.Recommendation, error) {
	var res server.RecommendResponse
	if err := c.call(ctx, server.LearnerServiceName, "Recommend", &server.RecommendRequest{Limit: limit}, &res); err != nil {
		return nil, err
	}
	return res.Recommendations, nil
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]account.LeaderboardEntry, error) {
	var res server.GetLeaderboardResponse
	if err := c.call(ctx, server.LearnerServiceName, "GetLeaderboard", &server.GetLeaderboardRequest{Limit: limit}, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

func (c *Client) RecordInteraction(ctx context.Context, courseID string, interactionType interaction.Type, timeSpent *int) (*interaction.Interaction, error) {
	var res server.RecordInteractionResponse
	req := &server.RecordInteractionRequest{CourseID: courseID, InteractionType: interactionType, TimeSpent: timeSpent}
	if err := c.call(ctx, server.LearnerServiceName, "RecordInteraction", req, &res); err != nil {
		return nil, err
	}
	return res.Interaction, nil
}

func (c *Client) UserAnalytics(ctx context.Context, year, month int) (statistics.Analytics, error) {
	var res server.GetUserAnalyticsResponse
	req := &server.GetUserAnalyticsRequest{Year: year, Month: month}
	if err := c.call(ctx, server.LearnerServiceName, "GetUserAnalytics", req, &res); err != nil {
		return statistics.Analytics{}, err
	}
	return res.Analytics, nil
}
