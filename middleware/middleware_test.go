package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/middleware"
)

func userRegistry() *dtobj.Registry {
	decl := dtobj.NewDeclarations()
	decl.Declare("User").
		Property("name", "string").
		Property("nickName", "string|null")
	return dtobj.NewRegistry(decl)
}

func serve(t *testing.T, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := middleware.Validate(userRegistry(), "User")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o, ok := middleware.ObjectFromContext(r.Context())
		require.True(t, ok)
		b, err := o.Partial().ToJSON()
		require.NoError(t, err)
		_, _ = w.Write([]byte(b))
	}))
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestValidate_JSONAndYAML(t *testing.T) {
	rec := serve(t, "application/json", `{"nickName":"an","name":"Ann"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"name":"Ann","nick_name":"an"}`, rec.Body.String())

	rec = serve(t, "application/yaml; charset=utf-8", "name: Ann\n")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"name":"Ann"}`, rec.Body.String())
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing required", `{"nickName":"an"}`, http.StatusUnprocessableEntity, dtobj.CodeRequired},
		{"unknown key", `{"name":"Ann","age":3}`, http.StatusUnprocessableEntity, dtobj.CodeUnknownKey},
		{"duplicate key", `{"name":"Ann","name":"Bob"}`, http.StatusBadRequest, dtobj.CodeDuplicateKey},
		{"malformed", `{"name":`, http.StatusBadRequest, dtobj.CodeParseError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, "", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var payload struct {
				Issues []struct {
					Code string `json:"code"`
					Path string `json:"path"`
				} `json:"issues"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			require.Len(t, payload.Issues, 1)
			assert.Equal(t, tc.code, payload.Issues[0].Code)
		})
	}
}

func TestObjectFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.ObjectFromContext(req.Context())
	assert.False(t, ok)
}

func TestStatusAndPayload_PlainError(t *testing.T) {
	status, payload := middleware.StatusAndPayload(assert.AnError)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, assert.AnError.Error(), payload["error"])
}

func TestValidate_BodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", middleware.DefaultMaxBodyBytes) + `"}`
	rec := serve(t, "application/json", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload["error"], "request body too large")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	_, err := middleware.Decode(userRegistry(), "User", req)
	assert.ErrorIs(t, err, middleware.ErrBodyTooLarge)
}
