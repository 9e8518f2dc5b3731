package dtobj_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/i18n"
)

func TestParseTypeExpr(t *testing.T) {
	b, i, f, s, a, n, o := dtobj.Builtin(dtobj.KindBool), dtobj.Builtin(dtobj.KindInt), dtobj.Builtin(dtobj.KindFloat),
		dtobj.Builtin(dtobj.KindString), dtobj.Builtin(dtobj.KindArray), dtobj.Builtin(dtobj.KindNull), dtobj.Builtin(dtobj.KindObject)
	cases := []struct {
		expr string
		want []dtobj.Descriptor
	}{
		{"string", []dtobj.Descriptor{s}},
		{"string|int|null", []dtobj.Descriptor{s, i, n}},
		{" boolean | integer ", []dtobj.Descriptor{b, i}},
		{"double|float", []dtobj.Descriptor{f}},
		{"string[]|null", []dtobj.Descriptor{a, n}},
		{"[]int", []dtobj.Descriptor{a}},
		{"iterable|array", []dtobj.Descriptor{a}},
		{"object", []dtobj.Descriptor{o}},
		{`\App\Dto\Person|null`, []dtobj.Descriptor{dtobj.Class("Person"), n}},
		{"*models.Person", []dtobj.Descriptor{dtobj.Class("Person")}},
	}
	for _, tc := range cases {
		got, err := dtobj.ParseTypeExpr(tc.expr)
		if err != nil {
			t.Fatalf("%q: %v", tc.expr, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
	for _, bad := range []string{"", "int|", "?int", "mixed", "string|any", `App\`} {
		if _, err := dtobj.ParseTypeExpr(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestPropertySchema_Nullable(t *testing.T) {
	ps := dtobj.NewPropertySchema("age", dtobj.MustParseTypeExpr("int|null"))
	if !ps.Nullable || ps.TypeExpr() != "int|null" {
		t.Fatalf("unexpected schema: %+v", ps)
	}
	if dtobj.NewPropertySchema("name", dtobj.MustParseTypeExpr("string")).Nullable {
		t.Fatalf("string must not be nullable")
	}
}

func TestKindOf(t *testing.T) {
	type named int
	var nilMap map[string]any
	cases := []struct {
		v    any
		want dtobj.Kind
	}{
		{nil, dtobj.KindNull},
		{true, dtobj.KindBool},
		{3, dtobj.KindInt},
		{uint8(3), dtobj.KindInt},
		{named(3), dtobj.KindInt},
		{3.0, dtobj.KindFloat},
		{float32(3), dtobj.KindFloat},
		{json.Number("3"), dtobj.KindInt},
		{json.Number("3.5"), dtobj.KindFloat},
		{json.Number("1e3"), dtobj.KindFloat},
		{json.Number("12345678901234567890"), dtobj.KindInt},
		{json.Number("-9223372036854775809"), dtobj.KindInt},
		{json.Number("1E-2"), dtobj.KindFloat},
		{"s", dtobj.KindString},
		{[]int{1}, dtobj.KindArray},
		{[2]int{}, dtobj.KindArray},
		{map[string]any{}, dtobj.KindArray},
		{nilMap, dtobj.KindNull},
		{struct{}{}, dtobj.KindObject},
		{&CustomType{}, dtobj.KindObject},
		{(*CustomType)(nil), dtobj.KindNull},
	}
	for _, tc := range cases {
		if got := dtobj.KindOf(tc.v); got != tc.want {
			t.Fatalf("KindOf(%#v) = %s, want %s", tc.v, got, tc.want)
		}
	}
}

func TestMatches_SimpleNameOnly(t *testing.T) {
	ps := dtobj.NewPropertySchema("details", dtobj.MustParseTypeExpr(`\Vendor\Other\CustomType`))
	if !dtobj.Matches(CustomType{}, ps) {
		t.Fatalf("simple name should match across namespaces")
	}
	if dtobj.Matches(nil, ps) {
		t.Fatalf("non-nullable class must reject nil")
	}
	if got := dtobj.TypeName(&CustomType{}); got != "CustomType" {
		t.Fatalf("TypeName = %q", got)
	}
}

func TestDeclarations_Errors(t *testing.T) {
	decl := dtobj.NewDeclarations()
	if err := decl.Declare("A").Property("x", "int").Property("x", "string").Err(); err == nil {
		t.Fatalf("expected duplicate property error")
	}
	if err := decl.Declare("B").Property("x", "mixed").Property("y", "int").Err(); err == nil {
		t.Fatalf("expected bad type error")
	}
	if got := decl.Properties("B"); len(got) != 0 {
		t.Fatalf("properties after failed declaration: %v", got)
	}
	decl.Declare("C").PropertyOf("p", dtobj.Class("Point"), dtobj.Builtin(dtobj.KindNull)).SnakeKeys(false)
	if got := decl.TypeNames(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("type names = %v", got)
	}
	if o, _ := decl.Options("C"); o.SnakeKeys {
		t.Fatalf("snake keys should be off")
	}
}

func TestIssues_ErrorAndLocalization(t *testing.T) {
	iss := dtobj.Issues{
		{Path: "/a", Code: dtobj.CodeRequired, Message: "m1"},
		{Path: "/b", Code: dtobj.CodeRequired, Message: "m2"},
		{Path: "/c", Code: dtobj.CodeRequired, Message: "m3"},
		{Path: "/d", Code: dtobj.CodeRequired, Message: "m4"},
	}
	if got := iss.Error(); !strings.HasSuffix(got, "(total 4)") {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(iss, dtobj.ErrInvalidState) || errors.Is(dtobj.Issues{}, dtobj.ErrInvalidState) {
		t.Fatalf("errors.Is mismatch")
	}

	i18n.SetLanguage("ja")
	t.Cleanup(func() { i18n.SetLanguage("en") })
	reg := contactRegistry(t, true)
	_, err := reg.New("Contact", dtobj.Params{dtobj.P("name", "A")})
	got, _ := dtobj.AsIssues(err)
	if got[0].Message != "必須プロパティ 'email' が不足しています" {
		t.Fatalf("message = %q", got[0].Message)
	}
}
