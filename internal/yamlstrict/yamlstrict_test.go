package yamlstrict

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestDecoder_DuplicateKey_Root(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte("name: A\nname: B\n")))
	_, err := d.Next()
	var de *DuplicateKeyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateKeyError, got %T %v", err, err)
	}
	if de.Key != "name" || de.FirstLine != 1 || de.Line != 2 {
		t.Fatalf("unexpected error fields: %+v", de)
	}
}

func TestDecoder_DuplicateKey_InSequence(t *testing.T) {
	y := "types:\n  - name: A\n    properties:\n      id: int\n      id: string\n"
	_, err := NewDecoder(bytes.NewReader([]byte(y))).Next()
	var de *DuplicateKeyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateKeyError, got %T %v", err, err)
	}
	if de.Key != "id" || de.Line != 5 {
		t.Fatalf("unexpected error fields: %+v", de)
	}
}

func TestDecoder_MultiDocAndEOF(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte("a: 1\n---\nb: 2\n")))
	for i := 0; i < 2; i++ {
		n, err := d.Next()
		if err != nil || n == nil {
			t.Fatalf("doc %d: node=%v err=%v", i, n, err)
		}
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestMembers_OrderAndScalars(t *testing.T) {
	y := "zeta: 1\nalpha: 2.5\nflag: true\nnone: null\nlist: [1, x]\nnested: {k: v}\n"
	n, err := NewDecoder(bytes.NewReader([]byte(y))).Next()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ms, err := Members(n)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	keys := make([]string, len(ms))
	for i, m := range ms {
		keys[i] = m.Key
	}
	want := []string{"zeta", "alpha", "flag", "none", "list", "nested"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if v, ok := ms[0].Value.(int64); !ok || v != 1 {
		t.Fatalf("zeta = %#v", ms[0].Value)
	}
	if v, ok := ms[1].Value.(float64); !ok || v != 2.5 {
		t.Fatalf("alpha = %#v", ms[1].Value)
	}
	if v, ok := ms[2].Value.(bool); !ok || !v {
		t.Fatalf("flag = %#v", ms[2].Value)
	}
	if ms[3].Value != nil {
		t.Fatalf("none = %#v", ms[3].Value)
	}
	if l, ok := ms[4].Value.([]any); !ok || len(l) != 2 || l[1] != "x" {
		t.Fatalf("list = %#v", ms[4].Value)
	}
	if m, ok := ms[5].Value.(map[string]any); !ok || m["k"] != "v" {
		t.Fatalf("nested = %#v", ms[5].Value)
	}
	if ms[1].Line != 2 {
		t.Fatalf("alpha line = %d", ms[1].Line)
	}
}

func TestMembers_NotMapping(t *testing.T) {
	n, err := NewDecoder(bytes.NewReader([]byte("- a\n- b\n"))).Next()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := Members(n); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
}
