package notification

// CreateNotificationRequest represents the input for creating a notification.
type CreateNotificationRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	Body     string `json:"body"`
	Priority string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	UserID   uint   `json:"user_id" binding:"required,min=1"`
}

// UpdateNotificationRequest represents a partial notification update.
type UpdateNotificationRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=255"`
	Body     *string `json:"body"`
	Priority *string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	IsRead   *bool   `json:"is_read"`
}

func (r *UpdateNotificationRequest) patch() map[string]any {
	m := make(map[string]any)
	if r.Title != nil {
		m["title"] = *r.Title
	}
	if r.Body != nil {
		m["body"] = *r.Body
	}
	if r.Priority != nil {
		m["priority"] = *r.Priority
	}
	if r.IsRead != nil {
		m["is_read"] = *r.IsRead
	}
	return m
}
