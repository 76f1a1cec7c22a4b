package model

// PostTag links one post to one tag. The (PostID, TagID) pair is unique.
type PostTag struct {
	PostID int64 `json:"post_id"`
	TagID  int64 `json:"tag_id"`
}
