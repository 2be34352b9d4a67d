package assignments

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/queries/ledgerviews"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleAssign attaches a member to the course. The stored priority may
// differ from the requested one when that slot is taken.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if !decode(w, r, &req) {
		return
	}
	memberID, _ := primitive.ObjectIDFromHex(req.MemberID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "assign")
	defer cancel()

	if !h.requireCourse(ctx, w, courseID) || !h.requireMember(ctx, w, memberID) {
		return
	}

	a, err := h.Ledger.Create(ctx, courseID, memberID, req.Priority)
	if err != nil {
		h.storeError(w, "assign", err)
		return
	}

	requested := 0
	if req.Priority != nil {
		requested = *req.Priority
	}
	h.AuditLog.MemberAssigned(ctx, r, h.binding().Name, courseID, memberID, requested, a.Priority)

	row, found, err := ledgerviews.Row(ctx, h.DB, h.binding(), a.ID)
	if err != nil {
		respond.Internal(w, h.Log, "load assignment failed", err)
		return
	}
	if !found {
		respond.Error(w, http.StatusNotFound, "assignment not found")
		return
	}
	respond.Created(w, h.binding().MemberLabel+" assigned", row)
}
