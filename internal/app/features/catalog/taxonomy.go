package catalog

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/audit"
	taxonomystore "github.com/dalemusser/lessonhub/internal/app/store/taxonomy"
	"github.com/dalemusser/lessonhub/internal/app/system/inputval"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
)

// labelError maps taxonomy store errors. parent names the missing parent
// in the 404 message.
func (h *Handler) labelError(w http.ResponseWriter, op, parent string, err error) {
	switch {
	case errors.Is(err, taxonomystore.ErrDuplicateName):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, taxonomystore.ErrBlankName):
		respond.Validation(w, "validation failed", []inputval.FieldError{{Path: "name", Msg: "name is required"}})
	case errors.Is(err, taxonomystore.ErrParentNotFound):
		respond.Error(w, http.StatusNotFound, parent+" not found")
	default:
		respond.Internal(w, h.Log, op+" failed", err)
	}
}

func (h *Handler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "create category")
	defer cancel()

	c, err := h.Taxonomy.CreateCategory(ctx, req.Name)
	if err != nil {
		h.labelError(w, "create category", "", err)
		return
	}
	h.AuditLog.CatalogCreated(ctx, r, audit.EventCategoryCreated, c.ID, c.Name)
	respond.Created(w, "category created", c)
}

func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list categories")
	defer cancel()

	rows, err := h.Taxonomy.ListCategories(ctx)
	if err != nil {
		respond.Internal(w, h.Log, "list categories failed", err)
		return
	}
	respond.OK(w, "ok", rows)
}

func (h *Handler) HandleCreateSection(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := urlID(w, r, "categoryID", "categoryId")
	if !ok {
		return
	}
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "create section")
	defer cancel()

	s, err := h.Taxonomy.CreateSection(ctx, categoryID, req.Name)
	if err != nil {
		h.labelError(w, "create section", "category", err)
		return
	}
	h.AuditLog.CatalogCreated(ctx, r, audit.EventSectionCreated, s.ID, s.Name)
	respond.Created(w, "section created", s)
}

func (h *Handler) ServeSections(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := urlID(w, r, "categoryID", "categoryId")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list sections")
	defer cancel()

	rows, err := h.Taxonomy.ListSections(ctx, categoryID)
	if err != nil {
		respond.Internal(w, h.Log, "list sections failed", err)
		return
	}
	respond.OK(w, "ok", rows)
}

func (h *Handler) HandleCreateTopic(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := urlID(w, r, "sectionID", "sectionId")
	if !ok {
		return
	}
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "create topic")
	defer cancel()

	tp, err := h.Taxonomy.CreateTopic(ctx, sectionID, req.Name)
	if err != nil {
		h.labelError(w, "create topic", "section", err)
		return
	}
	h.AuditLog.CatalogCreated(ctx, r, audit.EventTopicCreated, tp.ID, tp.Name)
	respond.Created(w, "topic created", tp)
}

func (h *Handler) ServeTopics(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := urlID(w, r, "sectionID", "sectionId")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list topics")
	defer cancel()

	rows, err := h.Taxonomy.ListTopics(ctx, sectionID)
	if err != nil {
		respond.Internal(w, h.Log, "list topics failed", err)
		return
	}
	respond.OK(w, "ok", rows)
}
