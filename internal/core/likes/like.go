package likes

// ToggleResult is the state of a post after a toggle
type ToggleResult struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"total_likes"`
}

// ListenResult is the listen counter after an increment
type ListenResult struct {
	PostID      int64 `json:"post_id"`
	ListenCount int   `json:"listen_count"`
}
