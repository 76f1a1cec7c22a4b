package model

// PostFilters selects a page of posts. An empty Search matches every post.
type PostFilters struct {
	Search string
	Offset int
	Limit  int
}

// ListPostsQuery is the page-number form accepted by the service.
type ListPostsQuery struct {
	Search string
	Page   int
	Limit  int
}
