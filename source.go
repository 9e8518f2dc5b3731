package dtobj

import (
	"io"
	"sync"

	eng "github.com/reoring/dtobj/internal/engine"
	drvgojson "github.com/reoring/dtobj/source/gojson"
	drvjson "github.com/reoring/dtobj/source/json"
)

// Token stream types shared with drivers.
type (
	TokenKind = eng.Kind
	Token     = eng.Token
	Source    = eng.TokenSource
)

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// JSONDriver turns JSON input into a token Source. The default driver is
// backed by goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = drvgojson.Driver()
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(drvgojson.Driver()) }

// UseStdlibJSONDriver switches to the encoding/json driver, which reports
// byte offsets in issues.
func UseStdlibJSONDriver() { SetJSONDriver(drvjson.Driver()) }

// CurrentJSONDriver returns the active driver.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// JSONDriverByName resolves "go-json" or "encoding/json" (alias "stdlib").
func JSONDriverByName(name string) (JSONDriver, bool) {
	switch name {
	case "", "go-json", "gojson":
		return drvgojson.Driver(), true
	case "encoding/json", "stdlib", "json":
		return drvjson.Driver(), true
	}
	return nil, false
}

// JSONBytes wraps a byte slice as a JSON Source using the current driver.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// JSONReader wraps an io.Reader as a JSON Source using the current driver.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }
