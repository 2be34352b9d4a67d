package catalog

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/audit"
	pdfstore "github.com/dalemusser/lessonhub/internal/app/store/pdfs"
	"github.com/dalemusser/lessonhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) HandleCreatePdf(w http.ResponseWriter, r *http.Request) {
	var req pdfRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "create pdf")
	defer cancel()

	l, ok := h.resolveLabels(ctx, w, req.CategoryID, req.SectionID, req.TopicID)
	if !ok {
		return
	}

	p, err := h.Pdfs.Create(ctx, models.Pdf{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		CategoryID:  l.category,
		SectionID:   l.section,
		TopicID:     l.topic,
		Status:      req.Status,
	})
	if err != nil {
		respond.Internal(w, h.Log, "create pdf failed", err)
		return
	}
	h.AuditLog.CatalogCreated(ctx, r, audit.EventPdfCreated, p.ID, p.Title)

	respond.Created(w, "pdf created", p)
}

func (h *Handler) ServePdf(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "pdfID", "pdfId")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "get pdf")
	defer cancel()

	p, err := h.Pdfs.GetByID(ctx, id)
	if errors.Is(err, pdfstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "pdf not found")
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "get pdf failed", err)
		return
	}
	respond.OK(w, "ok", p)
}

func (h *Handler) ServePdfs(w http.ResponseWriter, r *http.Request) {
	base, ok := readListQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list pdfs")
	defer cancel()

	res, err := listPage(ctx, r, base, h.Pdfs.Find,
		func(p models.Pdf) string { return p.TitleCI },
		func(p models.Pdf) primitive.ObjectID { return p.ID })
	if err != nil {
		respond.Internal(w, h.Log, "list pdfs failed", err)
		return
	}
	respond.OK(w, "ok", res)
}
