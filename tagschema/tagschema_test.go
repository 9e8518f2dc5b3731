package tagschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/tagschema"
)

type CustomType struct {
	Nickname string `json:"nickname"`
}

type Contact struct {
	Name          string
	Email         string `json:"email"`
	Age           any    `dto:"types=string|int|null"`
	Phone         []string
	PersonDetails *CustomType `json:"personDetails"`
	Internal      string      `dto:"-"`
	Ignored       string      `json:"-"`
	hidden        string
}

type Raw struct {
	dtobj.Config `snake:"false"`
	FirstName    string  `dto:"name=firstName"`
	Score        float64 `dto:"nullable"`
}

func TestRegister_DerivesProperties(t *testing.T) {
	ex := tagschema.New()
	require.NoError(t, ex.Register(Contact{}, &CustomType{}))

	assert.Equal(t, []string{"Contact", "CustomType"}, ex.TypeNames())
	assert.Equal(t, []string{"Name", "email", "Age", "Phone", "personDetails"}, ex.Properties("Contact"))

	cases := map[string]string{
		"Name":          "string",
		"email":         "string",
		"Age":           "string|int|null",
		"Phone":         "array|null",
		"personDetails": "CustomType|null",
	}
	for prop, want := range cases {
		types, ok := ex.Types("Contact", prop)
		require.True(t, ok, prop)
		assert.Equal(t, want, dtobj.NewPropertySchema(prop, types).TypeExpr(), prop)
	}

	name, ok := ex.NameOf(&Contact{})
	require.True(t, ok)
	assert.Equal(t, "Contact", name)
}

func TestRegister_ConfigAndNameTag(t *testing.T) {
	ex := tagschema.New().MustRegister(Raw{})

	assert.Equal(t, []string{"firstName", "Score"}, ex.Properties("Raw"))
	o, ok := ex.Options("Raw")
	require.True(t, ok)
	assert.False(t, o.SnakeKeys)

	types, _ := ex.Types("Raw", "Score")
	assert.Equal(t, []dtobj.Descriptor{dtobj.Builtin(dtobj.KindFloat), dtobj.Builtin(dtobj.KindNull)}, types)
}

func TestRegister_Errors(t *testing.T) {
	type iface struct{ V any }
	type clash struct {
		A string `json:"x"`
		B string `dto:"name=x"`
	}
	type badTag struct {
		A string `dto:"camel"`
	}
	type badTypes struct {
		A string `dto:"types=?int"`
	}

	ex := tagschema.New()
	for name, sample := range map[string]any{
		"not a struct":  42,
		"nil":           nil,
		"interface":     iface{},
		"name clash":    clash{},
		"unknown entry": badTag{},
		"bad types":     badTypes{},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ex.Register(sample))
		})
	}
}

func TestRegisterAs_NameConflicts(t *testing.T) {
	ex := tagschema.New()
	require.NoError(t, ex.RegisterAs("Dto", Contact{}))
	require.NoError(t, ex.RegisterAs("Dto", &Contact{}))
	assert.Error(t, ex.RegisterAs("Dto", Raw{}))
	assert.Error(t, ex.RegisterAs("", Raw{}))
}

func TestRegistryIntegration_NestedClass(t *testing.T) {
	ex := tagschema.New().MustRegister(Contact{}, CustomType{})
	reg := dtobj.NewRegistry(ex)

	o, err := reg.New("Contact", dtobj.Params{
		dtobj.P("Name", "Ann"),
		dtobj.P("email", "a@b.c"),
		dtobj.P("personDetails", &CustomType{Nickname: "an"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "age", "phone", "person_details"}, o.ToMapping().Keys())

	_, err = reg.New("Contact", dtobj.Params{
		dtobj.P("Name", "Ann"),
		dtobj.P("email", "a@b.c"),
		dtobj.P("personDetails", Raw{}),
	})
	require.Error(t, err)
	assert.Equal(t, dtobj.CodeInvalidType, dtobj.CodeOf(err))
}
