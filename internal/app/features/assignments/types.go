package assignments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignRequest struct {
	MemberID string `json:"memberId" validate:"required,objectid"`
	Priority *int   `json:"priority,omitempty" validate:"omitempty,min=1,max=1000000"`
}

type priorityRequest struct {
	Priority *int `json:"priority" validate:"required,min=1,max=1000000"`
}

type reorderItem struct {
	MemberID string `json:"memberId" validate:"required,objectid"`
	Priority int    `json:"priority" validate:"required,min=1,max=1000000"`
}

type reorderRequest struct {
	MemberOrder []reorderItem `json:"memberOrder" validate:"required,min=1,dive"`
}

// listQuery holds the raw query string of the list endpoints.
type listQuery struct {
	IncludeInactive string `query:"includeInactive" validate:"omitempty,oneof=true false 1 0"`
	SortBy          string `query:"sortBy" validate:"omitempty,oneof=priority recent"`
	GroupBy         string `query:"groupBy" validate:"omitempty,oneof=none topic"`
}

func (q listQuery) includeInactive() bool {
	return q.IncludeInactive == "true" || q.IncludeInactive == "1"
}

type toggleResponse struct {
	ID        primitive.ObjectID `json:"id"`
	IsActive  bool               `json:"isActive"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type reorderResponse struct {
	CourseID primitive.ObjectID `json:"courseId"`
	Count    int                `json:"count"`
}
