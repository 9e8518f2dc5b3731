// Package middleware binds HTTP request bodies to data objects. The
// framework adapters under echo/ and gin/ build on these helpers.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/dtobj"
)

// DefaultMaxBodyBytes bounds request bodies read by Decode.
const DefaultMaxBodyBytes = 1 << 20

type ctxKeyObject struct{}

// ContextWithObject attaches a constructed object to the context.
func ContextWithObject(ctx context.Context, o *dtobj.Object) context.Context {
	return context.WithValue(ctx, ctxKeyObject{}, o)
}

// ObjectFromContext retrieves the object stored by ContextWithObject.
func ObjectFromContext(ctx context.Context) (*dtobj.Object, bool) {
	o, ok := ctx.Value(ctxKeyObject{}).(*dtobj.Object)
	return o, ok && o != nil
}

// ErrBodyTooLarge is returned by Decode for bodies over DefaultMaxBodyBytes.
var ErrBodyTooLarge = errors.New("middleware: request body too large")

// Decode constructs typeName from the request body. YAML bodies
// (application/yaml, application/x-yaml, text/yaml) are decoded as YAML,
// everything else as JSON with the current JSON driver.
func Decode(reg *dtobj.Registry, typeName string, r *http.Request) (*dtobj.Object, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, DefaultMaxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, mbe.Limit)
		}
		return nil, fmt.Errorf("middleware: read body: %w", err)
	}
	var params dtobj.Params
	if isYAML(r.Header.Get("Content-Type")) {
		params, err = dtobj.ParseYAMLParams(body)
	} else {
		params, err = dtobj.ParseJSONParams(body)
	}
	if err != nil {
		return nil, err
	}
	return reg.New(typeName, params)
}

func isYAML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return false
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []dtobj.Issue) map[string]any {
	return map[string]any{"issues": issues}
}

// StatusAndPayload maps a Decode error to a response status and body.
func StatusAndPayload(err error) (int, map[string]any) {
	if iss, ok := dtobj.AsIssues(err); ok {
		status := http.StatusUnprocessableEntity
		if dtobj.IsCode(err, dtobj.CodeParseError) || dtobj.IsCode(err, dtobj.CodeDuplicateKey) {
			status = http.StatusBadRequest
		}
		return status, ErrorPayload(iss)
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge, map[string]any{"error": err.Error()}
	}
	return http.StatusBadRequest, map[string]any{"error": err.Error()}
}

// Validate returns net/http middleware that constructs typeName from the
// request body and stores it in the request context. Failures are answered
// with the StatusAndPayload response and next is not called.
func Validate(reg *dtobj.Registry, typeName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			o, err := Decode(reg, typeName, r)
			if err != nil {
				status, payload := StatusAndPayload(err)
				WriteJSON(w, status, payload)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithObject(r.Context(), o)))
		})
	}
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
