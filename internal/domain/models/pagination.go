package model

type PaginationMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	From        int `json:"from"`
	To          int `json:"to"`
	TotalPages  int `json:"total_pages"`
	TotalDocs   int `json:"total_docs"`
}

type PaginatedPosts struct {
	Records []*PostWithTags `json:"records"`
	Meta    PaginationMeta  `json:"meta"`
}
