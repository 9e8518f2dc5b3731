package dtobj

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/dtobj/i18n"
)

// Issue codes.
const (
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeInvalidType  = "invalid_type"
	CodeImmutable    = "immutable"
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
)

// ErrInvalidState is matched by errors.Is for every Issues error returned by
// this package.
var ErrInvalidState = errors.New("dtobj: invalid data object state")

// Issue describes one rejected construction or write.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer of the property (for example: /email).
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
	Offset  int64  `json:"offset"` // Byte offset in JSON input (-1 when unknown).
	// Params carries structured parameters such as {"property": "email"}.
	// Values supplied by the caller are never recorded.
	Params map[string]any `json:"params,omitempty"`
}

// Property returns the property name the issue refers to.
func (it Issue) Property() string {
	if p, ok := it.Params["property"].(string); ok {
		return p
	}
	return strings.TrimPrefix(it.Path, "/")
}

// Issues implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Is reports ErrInvalidState for any non-empty Issues.
func (iss Issues) Is(target error) bool { return target == ErrInvalidState && len(iss) > 0 }

// Unwrap exposes the causes of the issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// CodeOf returns the code of the first issue carried by err, or "".
func CodeOf(err error) string {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return ""
	}
	return iss[0].Code
}

// IsCode reports whether err carries an issue with the given code.
func IsCode(err error, code string) bool {
	iss, _ := AsIssues(err)
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// propertyIssue builds the single-issue error used for every property-level
// violation.
func propertyIssue(code, property string) Issues {
	return Issues{{
		Path:    pointer(property),
		Code:    code,
		Message: i18n.T(code, map[string]string{"property": property}),
		Offset:  -1,
		Params:  map[string]any{"property": property},
	}}
}

func singleIssue(code, msg string, cause error) Issues {
	return Issues{{Path: "/", Code: code, Message: msg, Cause: cause, Offset: -1}}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(property string) string { return "/" + pointerEscaper.Replace(property) }
