package model

// PostWithTags is a read projection: a post plus the names of the tags
// linked to it, in link order. Tags is never nil.
type PostWithTags struct {
	Post *Post    `json:"post"`
	Tags []string `json:"tags"`
}
