package domain

import (
	"testing"
	"time"
)

func TestBase_BeforeCreate(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	t.Run("stamps defaults", func(t *testing.T) {
		deleted := past
		b := &Base{DeletedAt: &deleted}
		if err := b.BeforeCreate(nil); err != nil {
			t.Fatalf("hook failed: %v", err)
		}
		if b.CreatedAt.IsZero() {
			t.Error("expected created_at stamped")
		}
		if !b.IsActive || !b.IsExists || !b.CanUpdate || !b.CanDelete {
			t.Errorf("expected audit defaults set, got %+v", b)
		}
		if b.DeletedAt != nil {
			t.Error("expected deleted_at cleared; records never enter pre-deleted")
		}
	})

	t.Run("keeps explicit created_at", func(t *testing.T) {
		b := &Base{CreatedAt: past}
		if err := b.BeforeCreate(nil); err != nil {
			t.Fatalf("hook failed: %v", err)
		}
		if !b.CreatedAt.Equal(past) {
			t.Errorf("expected created_at preserved, got %v", b.CreatedAt)
		}
	})
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleUser, RoleGuest} {
		if !ValidRole(role) {
			t.Errorf("expected %q valid", role)
		}
	}
	if ValidRole("root") || ValidRole("") {
		t.Error("expected unknown roles invalid")
	}
}

func TestValidLanguage(t *testing.T) {
	for _, lang := range []string{LanguageEN, LanguageTR, LanguageDE, LanguageES, LanguageFR, LanguageIT} {
		if !ValidLanguage(lang) {
			t.Errorf("expected %q valid", lang)
		}
	}
	if ValidLanguage("xx") || ValidLanguage("") {
		t.Error("expected unknown languages invalid")
	}
}
