package assignments

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/store/queries/ledgerviews"
	"github.com/dalemusser/lessonhub/internal/app/system/inputval"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

func readListQuery(w http.ResponseWriter, r *http.Request) (listQuery, bool) {
	q := listQuery{
		IncludeInactive: query.Get(r, "includeInactive"),
		SortBy:          query.Get(r, "sortBy"),
		GroupBy:         query.Get(r, "groupBy"),
	}
	if errs := inputval.Struct(q); len(errs) > 0 {
		respond.Validation(w, "invalid query", errs)
		return q, false
	}
	return q, true
}

// ServeList returns the course's members in priority order, flat or
// grouped by topic (?groupBy=topic).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	q, ok := readListQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list assignments")
	defer cancel()

	if !h.requireCourse(ctx, w, courseID) {
		return
	}

	rows, err := ledgerviews.FlatList(ctx, h.DB, h.binding(), courseID, ledgerviews.ListOptions{
		IncludeInactive: q.includeInactive(),
		SortBy:          q.SortBy,
	})
	if err != nil {
		respond.Internal(w, h.Log, "list assignments failed", err)
		return
	}

	if q.GroupBy == "topic" {
		respond.OK(w, "ok", ledgerviews.GroupByTopic(rows))
		return
	}
	respond.OK(w, "ok", rows)
}

// ServeAvailable lists members with no row under the course. Inactive rows
// still count as assigned.
func (h *Handler) ServeAvailable(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list available")
	defer cancel()

	if !h.requireCourse(ctx, w, courseID) {
		return
	}

	members, err := ledgerviews.Available(ctx, h.DB, h.binding(), courseID)
	if err != nil {
		respond.Internal(w, h.Log, "list available failed", err)
		return
	}
	respond.OK(w, "ok", members)
}

// ServeMemberCourses lists the courses a member is attached to.
func (h *Handler) ServeMemberCourses(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}
	q, ok := readListQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "list member courses")
	defer cancel()

	if !h.requireMember(ctx, w, memberID) {
		return
	}

	rows, err := ledgerviews.ContainersForMember(ctx, h.DB, h.binding(), memberID, q.includeInactive())
	if err != nil {
		respond.Internal(w, h.Log, "list member courses failed", err)
		return
	}
	respond.OK(w, "ok", rows)
}
