package file

// UploadFileRequest is the metadata form accompanying a multipart upload.
type UploadFileRequest struct {
	Model     string `form:"model" binding:"required,min=1,max=100"`
	ModelID   uint   `form:"model_id" binding:"required,min=1"`
	Title     string `form:"title" binding:"omitempty,max=255"`
	Folder    string `form:"folder" binding:"omitempty,oneof=profiles documents"`
	IsPrivate *bool  `form:"is_private"`
	Details   string `form:"details"`
}

// UpdateFileRequest represents a partial metadata update. The storage key,
// name, and type reflect the stored content and change only through the
// content endpoint.
type UpdateFileRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=255"`
	Folder    *string `json:"folder" binding:"omitempty,oneof=profiles documents"`
	IsPrivate *bool   `json:"is_private"`
	Details   *string `json:"details"`
	Notes     *string `json:"notes" binding:"omitempty,max=500"`
}

func (r *UpdateFileRequest) patch() map[string]any {
	m := make(map[string]any)
	if r.Title != nil {
		m["title"] = *r.Title
	}
	if r.Folder != nil {
		m["folder"] = *r.Folder
	}
	if r.IsPrivate != nil {
		m["is_private"] = *r.IsPrivate
	}
	if r.Details != nil {
		m["details"] = *r.Details
	}
	if r.Notes != nil {
		m["notes"] = *r.Notes
	}
	return m
}
