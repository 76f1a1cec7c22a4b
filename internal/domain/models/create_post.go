package model

type CreatePostDTO struct {
	CreatedBy *int64   `json:"created_by,omitempty"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags,omitempty"`
}
