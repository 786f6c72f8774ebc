package domain

// MailContent is a subject/content pair stored inside an email template.
type MailContent struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// EmailTemplate holds the per-language mail bodies the mail sender renders.
type EmailTemplate struct {
	Base
	EmailLanguage             string      `gorm:"size:5;default:en" json:"email_language"`
	EmailTemplateBody         string      `gorm:"type:text" json:"email_template"`
	EmailConfirmation         MailContent `gorm:"embedded;embeddedPrefix:email_confirmation_" json:"email_confirmation"`
	UpdatedEmailConfirmation  MailContent `gorm:"embedded;embeddedPrefix:updated_email_confirmation_" json:"updated_email_confirmation"`
	PasswordConfirmation      MailContent `gorm:"embedded;embeddedPrefix:password_confirmation_" json:"password_confirmation"`
	NotificationMail          MailContent `gorm:"embedded;embeddedPrefix:notification_" json:"notification"`
}

// EmailTemplateDescriptor declares the email template collection for the generic store.
func EmailTemplateDescriptor() Descriptor {
	return Descriptor{Name: "email template"}
}
