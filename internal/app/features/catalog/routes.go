// internal/app/features/catalog/routes.go
package catalog

import "github.com/go-chi/chi/v5"

// MountRoutes registers the catalog routes on r. URL parameter names match
// the ones the assignment routes use on the same prefixes.
func MountRoutes(r chi.Router, h *Handler) {
	// LABELS
	r.Post("/categories", h.HandleCreateCategory)
	r.Get("/categories", h.ServeCategories)
	r.Post("/categories/{categoryID}/sections", h.HandleCreateSection)
	r.Get("/categories/{categoryID}/sections", h.ServeSections)
	r.Post("/sections/{sectionID}/topics", h.HandleCreateTopic)
	r.Get("/sections/{sectionID}/topics", h.ServeTopics)

	// COURSES
	r.Post("/courses", h.HandleCreateCourse)
	r.Get("/courses", h.ServeCourses)
	r.Get("/courses/{courseID}", h.ServeCourse)

	// PDFS
	r.Post("/pdfs", h.HandleCreatePdf)
	r.Get("/pdfs", h.ServePdfs)
	r.Get("/pdfs/{pdfID}", h.ServePdf)

	// CLASSES
	r.Post("/classes", h.HandleCreateClass)
	r.Get("/classes", h.ServeClasses)
	r.Get("/classes/{classID}", h.ServeClass)
}
