package model

// Post is a stored post row. CreatedBy is a weak reference to a User and may be nil.
type Post struct {
	ID        int64  `json:"id"`
	CreatedBy *int64 `json:"created_by"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}
