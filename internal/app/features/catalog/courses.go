package catalog

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/audit"
	coursestore "github.com/dalemusser/lessonhub/internal/app/store/courses"
	"github.com/dalemusser/lessonhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "create course")
	defer cancel()

	l, ok := h.resolveLabels(ctx, w, req.CategoryID, "", "")
	if !ok {
		return
	}

	c, err := h.Courses.Create(ctx, models.Course{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		CategoryID:  l.category,
		Status:      req.Status,
	})
	if err != nil {
		respond.Internal(w, h.Log, "create course failed", err)
		return
	}
	h.AuditLog.CatalogCreated(ctx, r, audit.EventCourseCreated, c.ID, c.Title)

	respond.Created(w, "course created", c)
}

func (h *Handler) ServeCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "courseID", "courseId")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "get course")
	defer cancel()

	c, err := h.Courses.GetByID(ctx, id)
	if errors.Is(err, coursestore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "course not found")
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "get course failed", err)
		return
	}
	respond.OK(w, "ok", c)
}

// ServeCourses lists courses by title. Supports ?q= prefix search,
// ?status= and keyset paging.
func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	base, ok := readListQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list courses")
	defer cancel()

	res, err := listPage(ctx, r, base, h.Courses.Find,
		func(c models.Course) string { return c.TitleCI },
		func(c models.Course) primitive.ObjectID { return c.ID })
	if err != nil {
		respond.Internal(w, h.Log, "list courses failed", err)
		return
	}
	respond.OK(w, "ok", res)
}
