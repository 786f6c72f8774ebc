package domain

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// Supported system languages.
const (
	LanguageEN = "en"
	LanguageTR = "tr"
	LanguageDE = "de"
	LanguageES = "es"
	LanguageFR = "fr"
	LanguageIT = "it"
)

// User represents a user in the system.
type User struct {
	Base
	Email           string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName       string `gorm:"size:100;not null" json:"first_name"`
	LastName        string `gorm:"size:100" json:"last_name"`
	Phone           string `gorm:"size:30" json:"phone"`
	Role            string `gorm:"size:20;default:user" json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
	ProfileImage    string `gorm:"size:500" json:"profile_image"`
	Address         string `gorm:"size:500" json:"address"`
	City            string `gorm:"size:100" json:"city"`
	Country         string `gorm:"size:100" json:"country"`
	SystemLanguage  string `gorm:"size:5;default:en" json:"system_language"`
	PasswordHash    string `gorm:"size:255" json:"-"`
}

// UserDescriptor declares the user collection for the generic store.
func UserDescriptor() Descriptor {
	return Descriptor{Name: "user"}
}

// ValidRole reports whether role is one of the declared user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// ValidLanguage reports whether lang is a supported system language.
func ValidLanguage(lang string) bool {
	switch lang {
	case LanguageEN, LanguageTR, LanguageDE, LanguageES, LanguageFR, LanguageIT:
		return true
	}
	return false
}
