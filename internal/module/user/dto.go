package user

// CreateUserRequest represents the input for creating a user as an admin.
// Unlike self-registration, the role is settable here.
type CreateUserRequest struct {
	Email          string `json:"email" form:"email" binding:"required,email"`
	Password       string `json:"password" form:"password" binding:"required,min=8,max=72"`
	FirstName      string `json:"first_name" form:"first_name" binding:"required,min=1,max=100"`
	LastName       string `json:"last_name" form:"last_name" binding:"omitempty,max=100"`
	Phone          string `json:"phone" form:"phone" binding:"omitempty,max=30"`
	Role           string `json:"role" form:"role" binding:"omitempty,oneof=admin user guest"`
	SystemLanguage string `json:"system_language" form:"system_language" binding:"omitempty,oneof=en tr de fr es it"`
}

// UpdateUserRequest represents a partial update. Only non-nil fields are
// applied; the password hash, audit columns, and email verification flag
// cannot be changed through this endpoint.
type UpdateUserRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,max=100"`
	Phone          *string `json:"phone" binding:"omitempty,max=30"`
	Role           *string `json:"role" binding:"omitempty,oneof=admin user guest"`
	ProfileImage   *string `json:"profile_image" binding:"omitempty,max=500"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	City           *string `json:"city" binding:"omitempty,max=100"`
	Country        *string `json:"country" binding:"omitempty,max=100"`
	SystemLanguage *string `json:"system_language" binding:"omitempty,oneof=en tr de fr es it"`
	IsActive       *bool   `json:"is_active"`
	Notes          *string `json:"notes" binding:"omitempty,max=500"`
	SortNumber     *int    `json:"sort_number"`
}

// patch converts the request into the column map the store applies.
func (r *UpdateUserRequest) patch() map[string]any {
	m := make(map[string]any)
	if r.FirstName != nil {
		m["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		m["last_name"] = *r.LastName
	}
	if r.Phone != nil {
		m["phone"] = *r.Phone
	}
	if r.Role != nil {
		m["role"] = *r.Role
	}
	if r.ProfileImage != nil {
		m["profile_image"] = *r.ProfileImage
	}
	if r.Address != nil {
		m["address"] = *r.Address
	}
	if r.City != nil {
		m["city"] = *r.City
	}
	if r.Country != nil {
		m["country"] = *r.Country
	}
	if r.SystemLanguage != nil {
		m["system_language"] = *r.SystemLanguage
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	if r.Notes != nil {
		m["notes"] = *r.Notes
	}
	if r.SortNumber != nil {
		m["sort_number"] = *r.SortNumber
	}
	return m
}

// ChangePasswordRequest represents the input for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" form:"new_password" binding:"required,min=8,max=72"`
}
