package catalog

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/audit"
	classstore "github.com/dalemusser/lessonhub/internal/app/store/classes"
	"github.com/dalemusser/lessonhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) HandleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "create class")
	defer cancel()

	l, ok := h.resolveLabels(ctx, w, req.CategoryID, req.SectionID, req.TopicID)
	if !ok {
		return
	}

	cl, err := h.Classes.Create(ctx, models.Class{
		Title:           req.Title,
		Description:     htmlsanitize.Sanitize(req.Description),
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
		CategoryID:      l.category,
		SectionID:       l.section,
		TopicID:         l.topic,
		Status:          req.Status,
	})
	if err != nil {
		respond.Internal(w, h.Log, "create class failed", err)
		return
	}
	h.AuditLog.CatalogCreated(ctx, r, audit.EventClassCreated, cl.ID, cl.Title)

	respond.Created(w, "class created", cl)
}

func (h *Handler) ServeClass(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "classID", "classId")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "get class")
	defer cancel()

	cl, err := h.Classes.GetByID(ctx, id)
	if errors.Is(err, classstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "class not found")
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "get class failed", err)
		return
	}
	respond.OK(w, "ok", cl)
}

func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	base, ok := readListQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list classes")
	defer cancel()

	res, err := listPage(ctx, r, base, h.Classes.Find,
		func(c models.Class) string { return c.TitleCI },
		func(c models.Class) primitive.ObjectID { return c.ID })
	if err != nil {
		respond.Internal(w, h.Log, "list classes failed", err)
		return
	}
	respond.OK(w, "ok", res)
}
