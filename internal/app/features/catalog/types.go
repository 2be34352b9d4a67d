package catalog

import (
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=120"`
}

type courseRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=20000"`
	CategoryID  string `json:"categoryId" validate:"omitempty,objectid"`
	Status      string `json:"status" validate:"omitempty,oneof=active disabled"`
}

type pdfRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=20000"`
	FileURL     string `json:"fileUrl" validate:"required,http_url"`
	FileName    string `json:"fileName" validate:"max=255"`
	FileSize    int64  `json:"fileSize" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=active disabled"`
	CategoryID  string `json:"categoryId" validate:"omitempty,objectid"`
	SectionID   string `json:"sectionId" validate:"omitempty,objectid"`
	TopicID     string `json:"topicId" validate:"omitempty,objectid"`
}

type classRequest struct {
	Title           string `json:"title" validate:"required,notblank,max=200"`
	Description     string `json:"description" validate:"max=20000"`
	VideoURL        string `json:"videoUrl" validate:"required,http_url"`
	DurationSeconds int    `json:"durationSeconds" validate:"gte=0"`
	Status          string `json:"status" validate:"omitempty,oneof=active disabled"`
	CategoryID      string `json:"categoryId" validate:"omitempty,objectid"`
	SectionID       string `json:"sectionId" validate:"omitempty,objectid"`
	TopicID         string `json:"topicId" validate:"omitempty,objectid"`
}

type listQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=active disabled"`
}

// listResult is the data payload of the paged list endpoints.
type listResult[T any] struct {
	Items []T         `json:"items"`
	Page  paging.Page `json:"page"`
}
