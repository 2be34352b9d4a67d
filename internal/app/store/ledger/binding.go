package ledger

// Binding names the collections one ledger links and how it is addressed
// over HTTP. Every ledger shares the same row shape and rules.
type Binding struct {
	// Name identifies the ledger in logs, metrics and audit events.
	Name string
	// Collection holds the ledger rows.
	Collection string
	// ContainerCollection and MemberCollection are the joined entities.
	ContainerCollection string
	MemberCollection    string
	// Segment is the URL path segment for the member kind ("pdfs").
	Segment string
	// MemberParam is the chi URL parameter naming a member id.
	MemberParam string
	// MemberLabel is the singular, human form used in messages ("pdf").
	MemberLabel string
}

// CoursePdfs links courses to PDFs.
var CoursePdfs = Binding{
	Name:                "course_pdfs",
	Collection:          "course_pdfs",
	ContainerCollection: "courses",
	MemberCollection:    "pdfs",
	Segment:             "pdfs",
	MemberParam:         "pdfID",
	MemberLabel:         "pdf",
}

// CourseClasses links courses to classes.
var CourseClasses = Binding{
	Name:                "course_classes",
	Collection:          "course_classes",
	ContainerCollection: "courses",
	MemberCollection:    "classes",
	Segment:             "classes",
	MemberParam:         "classID",
	MemberLabel:         "class",
}

// All lists every ledger the service runs.
var All = []Binding{CoursePdfs, CourseClasses}

// PairIndexName is the unique (container_id, member_id) index.
func (b Binding) PairIndexName() string {
	return "uniq_" + b.Collection + "_container_member"
}

// PriorityIndexName is the unique partial (container_id, priority) index
// covering active rows only.
func (b Binding) PriorityIndexName() string {
	return "uniq_" + b.Collection + "_container_priority_active"
}
