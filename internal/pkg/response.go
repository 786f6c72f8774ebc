package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/restbase/internal/domain"
)

// View sends a success response: the payload's fields merged with
// {"error": false} at the top level. A nil payload sends the bare flag; a
// payload that is not a JSON object is nested under "data".
func View(c *gin.Context, status int, payload any) {
	body := gin.H{"error": false}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			Error(c, domain.NewAppError(domain.CodeInternal, err))
			return
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			body["data"] = payload
		} else {
			for k, v := range fields {
				if k != "error" {
					body[k] = v
				}
			}
		}
	}

	c.JSON(status, body)
}

// Created sends the 201 envelope for a freshly stored record: a confirmation
// message, the record under "data", and the server time in RFC 3339.
func Created(c *gin.Context, record any) {
	View(c, http.StatusCreated, gin.H{
		"message":   "Created successfully",
		"data":      record,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Error sends the error envelope for err. The code, status, message and cause
// come from the error catalog; unknown errors map to INTERNAL_ERROR. Outside
// release mode the envelope additionally carries the wrapped error text and a
// stack trace to ease debugging.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.NewAppError(domain.CodeInternal, err)
	}
	status := domain.HTTPStatusCode(appErr)

	body := gin.H{
		"error":   true,
		"method":  c.Request.Method,
		"code":    appErr.Code,
		"status":  status,
		"message": appErr.Message,
	}
	if cause := domain.CatalogCause(appErr); cause != "" {
		body["cause"] = cause
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}

	if gin.Mode() != gin.ReleaseMode {
		if appErr.Err != nil {
			body["internal"] = appErr.Err.Error()
		}
		body["stack"] = string(debug.Stack())
		if raw, readErr := c.GetRawData(); readErr == nil && len(raw) > 0 {
			body["body"] = string(raw)
		}
	}

	c.JSON(status, body)
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it sends a VALIDATION_FAILED envelope with per-field details and
// returns false. Because obj is available, JSON struct tags are used for
// field names when possible. Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		Error(c, domain.NewValidationError(fieldDetails(err, obj)))
		return false
	}
	return true
}

// fieldDetails flattens a binding error into human-readable per-field lines.
// Non-validator errors (malformed JSON and the like) produce a single line.
func fieldDetails(err error, obj any) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	jsonTags := buildJSONTagMap(obj)

	details := make([]string, 0, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		details = append(details, name+": "+msg)
	}
	return details
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns an empty map.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if name := parseJSONTagName(tag); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}

// NotFoundHandler is the fallback for unmatched routes.
func NotFoundHandler(c *gin.Context) {
	Error(c, domain.NewAppError(domain.CodePageNotFound, nil))
	c.Abort()
}
