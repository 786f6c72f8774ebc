package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/module/auth"
	"github.com/simp-lee/restbase/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth resolves every bearer token to the user registered under it.
type fakeAuth struct {
	auth.Service
	users map[string]*domain.User
}

func (f *fakeAuth) Validate(ctx context.Context, token, userAgent, ip string) (*domain.User, *auth.Claims, error) {
	user, ok := f.users[token]
	if !ok {
		return nil, nil, domain.ErrWrongToken
	}
	return user, &auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

type testEnv struct {
	router        *gin.Engine
	notifications *store.Store[domain.Notification]
	admin         *domain.User
	alice         *domain.User
	bob           *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users := store.New[domain.User](db, domain.UserDescriptor())
	admin := &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}
	alice := &domain.User{Email: "alice@example.com", Role: domain.RoleUser}
	bob := &domain.User{Email: "bob@example.com", Role: domain.RoleUser}
	for _, u := range []*domain.User{admin, alice, bob} {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	svc := &fakeAuth{users: map[string]*domain.User{
		"admin-token": admin,
		"alice-token": alice,
		"bob-token":   bob,
	}}

	notifications := store.New[domain.Notification](db, domain.NotificationDescriptor())

	r := gin.New()
	api := r.Group("/api/v1")
	NewModule(NewHandler(notifications), auth.Middleware(svc)).RegisterRoutes(api)

	return &testEnv{router: r, notifications: notifications, admin: admin, alice: alice, bob: bob}
}

func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) seedNotification(t *testing.T, userID uint, title string) *domain.Notification {
	t.Helper()
	notif := &domain.Notification{Title: title, Priority: domain.PriorityMedium, UserID: userID}
	if err := env.notifications.Create(context.Background(), notif); err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}
	return notif
}

func TestCreate_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	body := gin.H{"title": "Welcome", "body": "Hello", "user_id": env.alice.ID}

	w := env.request(t, http.MethodPost, "/api/v1/notifications", "admin-token", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	w = env.request(t, http.MethodPost, "/api/v1/notifications", "alice-token", body)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d for non-admin", w.Code, http.StatusUnauthorized)
	}
}

func TestCreate_DefaultsPriority(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/notifications", "admin-token",
		gin.H{"title": "Hi", "user_id": env.alice.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data domain.Notification `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Data.Priority != domain.PriorityMedium {
		t.Errorf("priority = %q, want %q", resp.Data.Priority, domain.PriorityMedium)
	}
}

func TestList_ScopedToRecipient(t *testing.T) {
	env := newTestEnv(t)
	env.seedNotification(t, env.alice.ID, "for alice")
	env.seedNotification(t, env.bob.ID, "for bob")

	w := env.request(t, http.MethodGet, "/api/v1/notifications", "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalRecords int64                 `json:"totalRecords"`
		Data         []domain.Notification `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.TotalRecords != 1 {
		t.Errorf("totalRecords = %d, want 1", resp.TotalRecords)
	}
	if len(resp.Data) != 1 || resp.Data[0].UserID != env.alice.ID {
		t.Errorf("expected only alice's notifications, got %+v", resp.Data)
	}
}

func TestList_HidesRemovedNotifications(t *testing.T) {
	env := newTestEnv(t)
	kept := env.seedNotification(t, env.alice.ID, "kept")
	removed := env.seedNotification(t, env.alice.ID, "removed")
	if _, err := env.notifications.Remove(context.Background(), removed.ID, nil); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	// The recipient restriction must not count as an explicit filter, so a
	// bare list keeps the default visibility rule and the removed
	// notification stays hidden.
	w := env.request(t, http.MethodGet, "/api/v1/notifications", "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalRecords int64                 `json:"totalRecords"`
		Filter       map[string]string     `json:"filter"`
		Data         []domain.Notification `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.TotalRecords != 1 || len(resp.Data) != 1 || resp.Data[0].ID != kept.ID {
		t.Errorf("expected only the live notification, got %s", w.Body.String())
	}
	if len(resp.Filter) != 0 {
		t.Errorf("expected the filter echo to stay the client's own, got %v", resp.Filter)
	}
}

func TestList_AdminSeesAll(t *testing.T) {
	env := newTestEnv(t)
	env.seedNotification(t, env.alice.ID, "for alice")
	env.seedNotification(t, env.bob.ID, "for bob")

	w := env.request(t, http.MethodGet, "/api/v1/notifications", "admin-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalRecords int64 `json:"totalRecords"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.TotalRecords != 2 {
		t.Errorf("totalRecords = %d, want 2", resp.TotalRecords)
	}
}

func TestGet_AccessControl(t *testing.T) {
	env := newTestEnv(t)
	notif := env.seedNotification(t, env.alice.ID, "for alice")
	path := fmt.Sprintf("/api/v1/notifications/%d", notif.ID)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"recipient reads own", "alice-token", http.StatusOK},
		{"other user rejected", "bob-token", http.StatusUnauthorized},
		{"admin reads any", "admin-token", http.StatusOK},
		{"anonymous rejected", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(t, http.MethodGet, path, tt.token, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestUpdate_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	notif := env.seedNotification(t, env.alice.ID, "for alice")
	path := fmt.Sprintf("/api/v1/notifications/%d", notif.ID)

	w := env.request(t, http.MethodPut, path, "alice-token", gin.H{"is_read": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data domain.Notification `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !resp.Data.IsRead {
		t.Error("expected is_read set")
	}
}

func TestUpdate_OtherUserRejected(t *testing.T) {
	env := newTestEnv(t)
	notif := env.seedNotification(t, env.alice.ID, "for alice")
	path := fmt.Sprintf("/api/v1/notifications/%d", notif.ID)

	w := env.request(t, http.MethodPut, path, "bob-token", gin.H{"is_read": true})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRemove(t *testing.T) {
	env := newTestEnv(t)
	notif := env.seedNotification(t, env.alice.ID, "for alice")
	path := fmt.Sprintf("/api/v1/notifications/%d", notif.ID)

	w := env.request(t, http.MethodDelete, path, "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	stored, err := env.notifications.Read(context.Background(), map[string]any{"id": notif.ID})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if stored.IsExists {
		t.Error("expected soft delete")
	}
}

func TestGet_Missing(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/notifications/999", "admin-token", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGet_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/notifications/abc", "admin-token", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
