package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, "/test", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestView_MergesPayload(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	View(c, http.StatusOK, map[string]any{"user": "alice", "count": 2})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["error"] != false {
		t.Errorf("error flag = %v, want false", body["error"])
	}
	if body["user"] != "alice" {
		t.Errorf("user = %v, want alice", body["user"])
	}
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestView_NilPayload(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	View(c, http.StatusOK, nil)

	body := decodeBody(t, w)
	if len(body) != 1 || body["error"] != false {
		t.Errorf("body = %v, want only error:false", body)
	}
}

func TestView_NonObjectPayload(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	View(c, http.StatusOK, []string{"a", "b"})

	body := decodeBody(t, w)
	if body["error"] != false {
		t.Errorf("error flag = %v, want false", body["error"])
	}
	if _, ok := body["data"]; !ok {
		t.Error("non-object payload not nested under data")
	}
}

func TestCreated(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "")

	Created(c, map[string]any{"id": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	body := decodeBody(t, w)
	if body["error"] != false {
		t.Errorf("error flag = %v, want false", body["error"])
	}
	if body["message"] != "Created successfully" {
		t.Errorf("message = %v, want Created successfully", body["message"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["id"] != float64(7) {
		t.Errorf("data = %v, want the stored record", body["data"])
	}
	ts, _ := body["timestamp"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp = %q, want RFC 3339: %v", ts, err)
	}
}

func TestError_CatalogMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{"duplicate", domain.ErrDuplicate, http.StatusBadRequest, "DUPLICATE_RECORD"},
		{"wrong login", domain.ErrWrongLogin, http.StatusUnauthorized, "AUTH_WRONG_DATA"},
		{"wrong token", domain.ErrWrongToken, http.StatusUnauthorized, "AUTH_WRONG_TOKEN"},
		{"no permission", domain.ErrNoPermission, http.StatusUnauthorized, "NO_PERMISSION"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "")

			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := decodeBody(t, w)
			if body["error"] != true {
				t.Errorf("error flag = %v, want true", body["error"])
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if body["method"] != http.MethodPost {
				t.Errorf("method = %v, want POST", body["method"])
			}
			if body["status"] != float64(tt.wantStatus) {
				t.Errorf("status field = %v, want %d", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestError_DebugModeIncludesStack(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	Error(c, domain.NewAppError(domain.CodeInternal, errors.New("db exploded")))

	body := decodeBody(t, w)
	if body["internal"] != "db exploded" {
		t.Errorf("internal = %v, want underlying error text", body["internal"])
	}
	if _, ok := body["stack"]; !ok {
		t.Error("stack missing outside release mode")
	}
}

func TestError_ReleaseModeSuppressesInternal(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	c, w := newTestContext(http.MethodGet, "")

	Error(c, domain.NewAppError(domain.CodeInternal, errors.New("db exploded")))

	body := decodeBody(t, w)
	if _, ok := body["internal"]; ok {
		t.Error("internal leaked in release mode")
	}
	if _, ok := body["stack"]; ok {
		t.Error("stack leaked in release mode")
	}
}

func TestError_ValidationDetails(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "")

	Error(c, domain.NewValidationError([]string{"email: required", "role: oneof=admin user guest"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	body := decodeBody(t, w)
	details, ok := body["details"].([]any)
	if !ok || len(details) != 2 {
		t.Fatalf("details = %v, want 2 entries", body["details"])
	}
}

func TestBindAndValidate(t *testing.T) {
	type req struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required"`
	}

	t.Run("valid body", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, `{"email":"a@b.co","name":"Alice"}`)

		var r req
		if !BindAndValidate(c, &r) {
			t.Fatal("BindAndValidate = false for valid body")
		}
		if r.Email != "a@b.co" {
			t.Errorf("Email = %q, want a@b.co", r.Email)
		}
	})

	t.Run("missing field uses json tag in details", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, `{"email":"a@b.co"}`)

		var r req
		if BindAndValidate(c, &r) {
			t.Fatal("BindAndValidate = true for invalid body")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		body := decodeBody(t, w)
		if body["code"] != "VALIDATION_FAILED" {
			t.Errorf("code = %v, want VALIDATION_FAILED", body["code"])
		}
		details, _ := body["details"].([]any)
		if len(details) != 1 || !strings.HasPrefix(details[0].(string), "name:") {
			t.Errorf("details = %v, want one entry for name", body["details"])
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, `{"email":`)

		var r req
		if BindAndValidate(c, &r) {
			t.Fatal("BindAndValidate = true for malformed body")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestNotFoundHandler(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	NotFoundHandler(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	body := decodeBody(t, w)
	if body["code"] != "PAGE_NOT_FOUND" {
		t.Errorf("code = %v, want PAGE_NOT_FOUND", body["code"])
	}
}
