package assignments

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
)

// HandleUnassign hard-deletes the row. Remaining priorities keep their
// gaps.
func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "unassign")
	defer cancel()

	if err := h.Ledger.DeleteByContainerAndMember(ctx, courseID, memberID); err != nil {
		h.storeError(w, "unassign", err)
		return
	}
	h.AuditLog.MemberUnassigned(ctx, r, h.binding().Name, courseID, memberID)

	respond.OK(w, h.binding().MemberLabel+" unassigned", nil)
}
