package assignments

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/app/store/queries/ledgerviews"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleSetPriority moves one member. A taken slot sends it to the end
// instead, as on create.
func (h *Handler) HandleSetPriority(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}
	var req priorityRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "set priority")
	defer cancel()

	a, err := h.Ledger.SetPriority(ctx, courseID, memberID, *req.Priority)
	if err != nil {
		h.storeError(w, "set priority", err)
		return
	}
	h.AuditLog.PriorityChanged(ctx, r, h.binding().Name, courseID, memberID, *req.Priority, a.Priority)

	row, found, err := ledgerviews.Row(ctx, h.DB, h.binding(), a.ID)
	if err != nil {
		respond.Internal(w, h.Log, "load assignment failed", err)
		return
	}
	if !found {
		respond.Error(w, http.StatusNotFound, "assignment not found")
		return
	}
	respond.OK(w, "priority updated", row)
}

// HandleReorder applies a batch of priorities atomically. Nothing changes
// when any item fails.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.MemberOrder) > h.MaxBatch {
		respond.Error(w, http.StatusBadRequest, "memberOrder exceeds the batch limit")
		return
	}

	items := make([]ledger.OrderItem, 0, len(req.MemberOrder))
	for _, it := range req.MemberOrder {
		id, _ := primitive.ObjectIDFromHex(it.MemberID)
		items = append(items, ledger.OrderItem{MemberID: id, Priority: it.Priority})
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Reorder(), h.Log, "reorder")
	defer cancel()

	if err := h.Ledger.Reorder(ctx, courseID, items); err != nil {
		if errors.Is(err, ledger.ErrTransactionAborted) {
			h.AuditLog.ReorderAborted(ctx, r, h.binding().Name, courseID, err.Error())
			h.Log.Warn("reorder aborted", zap.String("course_id", courseID.Hex()), zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.storeError(w, "reorder", err)
		return
	}
	h.AuditLog.MembersReordered(ctx, r, h.binding().Name, courseID, len(items))

	respond.OK(w, "priorities updated", reorderResponse{CourseID: courseID, Count: len(items)})
}
