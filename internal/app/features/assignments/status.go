package assignments

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
)

// HandleToggleStatus flips isActive on the row. Reactivation re-resolves
// the priority against the active rows.
func (h *Handler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "toggle status")
	defer cancel()

	a, err := h.Ledger.Toggle(ctx, courseID, memberID)
	if err != nil {
		h.storeError(w, "toggle status", err)
		return
	}
	h.AuditLog.AssignmentToggled(ctx, r, h.binding().Name, courseID, memberID, a.IsActive)

	msg := "assignment deactivated"
	if a.IsActive {
		msg = "assignment activated"
	}
	respond.OK(w, msg, toggleResponse{ID: a.ID, IsActive: a.IsActive, UpdatedAt: a.UpdatedAt})
}
