package assignments

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/app/system/inputval"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// urlID parses the hex ObjectID held by chi URL parameter param. On failure
// it writes a 400 naming field and returns false.
func urlID(w http.ResponseWriter, r *http.Request, param, field string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		respond.Validation(w, "invalid id", []inputval.FieldError{{Path: field, Msg: field + " must be a valid id"}})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) courseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	return urlID(w, r, courseParam, "courseId")
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	return urlID(w, r, h.binding().MemberParam, h.binding().MemberLabel+"Id")
}

// decode reads and validates a JSON body. It writes the 400 itself and
// returns false when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := respond.DecodeJSON(r, dst); err != nil {
		respond.BadBody(w, err)
		return false
	}
	if errs := inputval.Struct(dst); len(errs) > 0 {
		respond.Validation(w, "validation failed", errs)
		return false
	}
	return true
}

// requireCourse writes a 404 when the course does not exist.
func (h *Handler) requireCourse(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) bool {
	ok, err := h.Ledger.ContainerExists(ctx, id)
	if err != nil {
		respond.Internal(w, h.Log, "course lookup failed", err)
		return false
	}
	if !ok {
		respond.Error(w, http.StatusNotFound, "course not found")
		return false
	}
	return true
}

// requireMember writes a 404 when the member does not exist.
func (h *Handler) requireMember(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) bool {
	ok, err := h.Ledger.MemberExists(ctx, id)
	if err != nil {
		respond.Internal(w, h.Log, h.binding().MemberLabel+" lookup failed", err)
		return false
	}
	if !ok {
		respond.Error(w, http.StatusNotFound, h.binding().MemberLabel+" not found")
		return false
	}
	return true
}

// storeError maps a ledger error onto the response envelope.
func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "assignment not found")
	case errors.Is(err, ledger.ErrDuplicateAssignment):
		respond.Error(w, http.StatusBadRequest, h.binding().MemberLabel+" is already assigned to this course")
	case errors.Is(err, ledger.ErrInvalidPriority), errors.Is(err, ledger.ErrPriorityExhausted):
		respond.Validation(w, "validation failed", []inputval.FieldError{{Path: "priority", Msg: err.Error()}})
	default:
		respond.Internal(w, h.Log, op+" failed", err)
	}
}
