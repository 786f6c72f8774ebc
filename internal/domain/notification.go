package domain

// Notification priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Notification is an in-app message addressed to a user.
type Notification struct {
	Base
	Title    string `gorm:"size:255;not null" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	Priority string `gorm:"size:10;default:MEDIUM" json:"priority"`
	UserID   uint   `gorm:"index;not null" json:"user_id"`
	IsRead   bool   `json:"is_read"`

	Recipient *User `gorm:"foreignKey:UserID" json:"recipient,omitempty"`
}

// NotificationDescriptor declares the notification collection for the generic store.
func NotificationDescriptor() Descriptor {
	return Descriptor{
		Name:      "notification",
		ListJoins: []string{"Recipient"},
	}
}

// ValidPriority reports whether p is a declared notification priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
