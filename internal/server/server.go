// Package server provides Connect RPC handlers for the coursely services.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/avast/retry-go"
	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/coursely/internal/account"
	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
	"github.com/at-ishikawa/coursely/internal/logger"
	"github.com/at-ishikawa/coursely/internal/validation"
)

// UserIDHeader carries the authenticated caller's user id.
const UserIDHeader = "X-User-Id"

// Fully-qualified service names.
const (
	CourseServiceName     = "coursely.v1.CourseService"
	EnrollmentServiceName = "coursely.v1.EnrollmentService"
	LearnerServiceName    = "coursely.v1.LearnerService"
)

// Procedure returns the HTTP path of a method of a service, e.g. "/coursely.v1.CourseService/ListCourses".
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

// jsonCodec replaces connect's protobuf JSON codec so plain Go structs can be used as messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions() []connect.HandlerOption {
	return []connect.HandlerOption{connect.WithCodec(jsonCodec{})}
}

// requestValidator validates request messages and reports translated field violations.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate, trans, err := validation.New("json")
	if err != nil {
		return nil, err
	}
	return &requestValidator{validate: validate, trans: trans}, nil
}

func (v *requestValidator) Validate(msg any) *connect.Error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}
	violations := validation.Violations(err, v.trans)
	if violations == nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	descriptions := make([]string, 0, len(violations))
	for _, violation := range violations {
		descriptions = append(descriptions, violation.Description)
	}
	return invalidArgument(errors.New(strings.Join(descriptions, ", ")), violations)
}

func invalidArgument(err error, violations []validation.FieldViolation) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	var fieldViolations []*errdetails.BadRequest_FieldViolation
	for _, v := range violations {
		fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: v.Description,
		})
	}
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: fieldViolations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// toConnectError maps domain errors onto Connect codes. Unknown errors are logged and hidden from the caller.
func toConnectError(log *logger.Logger, procedure string, err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, enrollment.ErrNotFound),
		errors.Is(err, course.ErrNotFound),
		errors.Is(err, account.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, enrollment.ErrInvalidInput), errors.Is(err, interaction.ErrInvalidType):
		return invalidArgument(err, []validation.FieldViolation{{Description: err.Error()}})
	case errors.Is(err, enrollment.ErrConcurrencyConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	log.Error("request failed", "procedure", procedure, "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

func userIDFromHeader(header http.Header) (string, error) {
	userID := strings.TrimSpace(header.Get(UserIDHeader))
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New(UserIDHeader+" header is required"))
	}
	return userID, nil
}

// conflictRetrier re-runs lifecycle operations that lost an optimistic concurrency race.
type conflictRetrier struct {
	log      *logger.Logger
	attempts uint
	delay    time.Duration
}

func (r conflictRetrier) Do(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(r.attempts+1),
		retry.Delay(r.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, enrollment.ErrConcurrencyConflict)
		}),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn("retrying after concurrency conflict", "attempt", n+1, "error", err)
		}),
	)
}

// CORS allows browser clients from allowedOrigins to call the API.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, "+UserIDHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
