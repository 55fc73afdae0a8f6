package server

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/logger"
)

// CourseHandler serves the public course catalog.
type CourseHandler struct {
	courses   course.CourseRepository
	validator *requestValidator
	log       *logger.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses course.CourseRepository, log *logger.Logger) (*CourseHandler, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	return &CourseHandler{courses: courses, validator: v, log: log}, nil
}

// Register mounts the CourseService procedures on mux.
func (h *CourseHandler) Register(mux *http.ServeMux) {
	opts := handlerOptions()
	listCourses := Procedure(CourseServiceName, "ListCourses")
	mux.Handle(listCourses, connect.NewUnaryHandler(listCourses, h.ListCourses, opts...))
	getCourse := Procedure(CourseServiceName, "GetCourse")
	mux.Handle(getCourse, connect.NewUnaryHandler(getCourse, h.GetCourse, opts...))
}

// ListCourses returns active courses, highest rated first.
func (h *CourseHandler) ListCourses(
	ctx context.Context,
	req *connect.Request[ListCoursesRequest],
) (*connect.Response[ListCoursesResponse], error) {
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit == 0 {
		limit = defaultCoursesLimit
	}
	courses, err := h.courses.List(ctx, course.Filters{
		Category:   req.Msg.Category,
		Difficulty: req.Msg.Difficulty,
		Limit:      limit,
		Offset:     req.Msg.Offset,
	})
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return connect.NewResponse(&ListCoursesResponse{Courses: courses}), nil
}

// GetCourse returns one course with its videos.
func (h *CourseHandler) GetCourse(
	ctx context.Context,
	req *connect.Request[GetCourseRequest],
) (*connect.Response[GetCourseResponse], error) {
	if err := h.validator.Validate(req.Msg); err != nil {
		return nil, err
	}

	c, err := h.courses.FindByID(ctx, req.Msg.CourseID)
	if err != nil {
		return nil, toConnectError(h.log, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&GetCourseResponse{Course: c}), nil
}
