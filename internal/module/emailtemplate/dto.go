package emailtemplate

import "github.com/simp-lee/restbase/internal/domain"

// MailContentRequest is a subject/content pair in template payloads.
type MailContentRequest struct {
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Content string `json:"content"`
}

// CreateTemplateRequest represents the input for creating an email template.
type CreateTemplateRequest struct {
	EmailLanguage            string             `json:"email_language" binding:"required,oneof=en tr de fr es it"`
	EmailTemplateBody        string             `json:"email_template"`
	EmailConfirmation        MailContentRequest `json:"email_confirmation"`
	UpdatedEmailConfirmation MailContentRequest `json:"updated_email_confirmation"`
	PasswordConfirmation     MailContentRequest `json:"password_confirmation"`
	NotificationMail         MailContentRequest `json:"notification"`
}

func (r *CreateTemplateRequest) toModel() *domain.EmailTemplate {
	return &domain.EmailTemplate{
		EmailLanguage:            r.EmailLanguage,
		EmailTemplateBody:        r.EmailTemplateBody,
		EmailConfirmation:        domain.MailContent(r.EmailConfirmation),
		UpdatedEmailConfirmation: domain.MailContent(r.UpdatedEmailConfirmation),
		PasswordConfirmation:     domain.MailContent(r.PasswordConfirmation),
		NotificationMail:         domain.MailContent(r.NotificationMail),
	}
}

// UpdateTemplateRequest represents a partial template update.
type UpdateTemplateRequest struct {
	EmailLanguage            *string             `json:"email_language" binding:"omitempty,oneof=en tr de fr es it"`
	EmailTemplateBody        *string             `json:"email_template"`
	EmailConfirmation        *MailContentRequest `json:"email_confirmation"`
	UpdatedEmailConfirmation *MailContentRequest `json:"updated_email_confirmation"`
	PasswordConfirmation     *MailContentRequest `json:"password_confirmation"`
	NotificationMail         *MailContentRequest `json:"notification"`
}

func (r *UpdateTemplateRequest) patch() map[string]any {
	m := make(map[string]any)
	if r.EmailLanguage != nil {
		m["email_language"] = *r.EmailLanguage
	}
	if r.EmailTemplateBody != nil {
		m["email_template_body"] = *r.EmailTemplateBody
	}
	putMailContent(m, "email_confirmation_", r.EmailConfirmation)
	putMailContent(m, "updated_email_confirmation_", r.UpdatedEmailConfirmation)
	putMailContent(m, "password_confirmation_", r.PasswordConfirmation)
	putMailContent(m, "notification_", r.NotificationMail)
	return m
}

// putMailContent flattens an embedded pair to its prefixed columns.
func putMailContent(m map[string]any, prefix string, mc *MailContentRequest) {
	if mc == nil {
		return
	}
	m[prefix+"subject"] = mc.Subject
	m[prefix+"content"] = mc.Content
}
