// internal/app/features/assignments/routes.go
package assignments

import "github.com/go-chi/chi/v5"

// MountRoutes registers the ledger routes on r. Patterns are registered
// directly rather than through r.Route so several ledgers can share the
// /courses/{courseID} prefix.
//
// For the course/pdf ledger this yields:
//
//	POST   /courses/{courseID}/pdfs
//	GET    /courses/{courseID}/pdfs
//	PUT    /courses/{courseID}/pdfs/reorder
//	PUT    /courses/{courseID}/pdfs/{pdfID}/priority
//	PATCH  /courses/{courseID}/pdfs/{pdfID}/toggle-status
//	DELETE /courses/{courseID}/pdfs/{pdfID}
//	GET    /courses/{courseID}/available-pdfs
//	GET    /pdfs/{pdfID}/courses
func MountRoutes(r chi.Router, h *Handler) {
	b := h.binding()
	base := "/courses/{" + courseParam + "}/" + b.Segment
	member := base + "/{" + b.MemberParam + "}"

	r.Post(base, h.HandleAssign)
	r.Get(base, h.ServeList)

	// reorder is registered before the member pattern; chi prefers the
	// static segment either way.
	r.Put(base+"/reorder", h.HandleReorder)

	r.Put(member+"/priority", h.HandleSetPriority)
	r.Patch(member+"/toggle-status", h.HandleToggleStatus)
	r.Delete(member, h.HandleUnassign)

	r.Get("/courses/{"+courseParam+"}/available-"+b.Segment, h.ServeAvailable)
	r.Get("/"+b.Segment+"/{"+b.MemberParam+"}/courses", h.ServeMemberCourses)
}
