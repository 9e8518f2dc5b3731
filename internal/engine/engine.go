package engine

import (
	"encoding/json"
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Member is one key/value pair of a decoded object, in document order.
type Member struct {
	Key    string
	Value  any
	Offset int64
}

// ErrNotObject is returned by DecodeMembers when the document root is not a
// JSON object.
var ErrNotObject = errors.New("engine: document root is not an object")

// DecodeMembers decodes a JSON object from src and returns its top-level
// members in document order. Nested objects become map[string]any, arrays
// []any and numbers json.Number.
func DecodeMembers(src TokenSource) ([]Member, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if tok.Kind != KindBeginObject {
		return nil, ErrNotObject
	}
	var out []Member
	for {
		kt, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if kt.Kind == KindEndObject {
			break
		}
		if kt.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Key: kt.String, Value: v, Offset: kt.Offset})
	}
	if t, err := src.NextToken(); err == nil {
		return nil, &TrailingDataError{Offset: t.Offset}
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}

// TrailingDataError reports content after the root object.
type TrailingDataError struct{ Offset int64 }

func (e *TrailingDataError) Error() string { return "engine: trailing data after root object" }

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func decodeValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		m := make(map[string]any)
		for {
			kt, err := src.NextToken()
			if err != nil {
				return nil, unexpected(err)
			}
			if kt.Kind == KindEndObject {
				return m, nil
			}
			if kt.Kind != KindKey {
				return nil, io.ErrUnexpectedEOF
			}
			vt, err := src.NextToken()
			if err != nil {
				return nil, unexpected(err)
			}
			v, err := decodeValue(src, vt)
			if err != nil {
				return nil, err
			}
			m[kt.String] = v
		}
	case KindBeginArray:
		arr := []any{}
		for {
			t, err := src.NextToken()
			if err != nil {
				return nil, unexpected(err)
			}
			if t.Kind == KindEndArray {
				return arr, nil
			}
			v, err := decodeValue(src, t)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}
