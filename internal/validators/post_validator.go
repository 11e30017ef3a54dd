package validators

type CreatePostRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	Caption     string `json:"caption"`
	MediaURL    string `json:"media_url" binding:"omitempty,url"`
}

type UpdatePostRequest struct {
	Caption  *string `json:"caption,omitempty"`
	MediaURL *string `json:"media_url,omitempty" binding:"omitempty,url"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
