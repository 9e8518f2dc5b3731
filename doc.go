// Package dtobj provides immutable, self-validating data objects whose
// schema is declared outside the constructing code:
//
// - Declared properties and their acceptable types come from a SchemaExtractor
// (doc-comment annotations, struct tags, YAML files or programmatic declarations)
// - Construction rejects unknown keys, enforces required vs nullable
// properties and type-checks every supplied value
// - Objects are sealed after construction; Set and Remove always fail
// - Serialization to an ordered Mapping, JSON or YAML, with optional
// snake_case keys and a one-shot partial mode
//
// Design policy:
// - Keep the public API in the root package; token handling lives under internal/.
// - Extractors live in docschema/, tagschema/ and yamlschema/; the CLI in cmd/dtobj.
// - Every failure is an Issues error with a stable code; the package never logs.
//
// Typical usage:
//
//	decl := dtobj.NewDeclarations()
//	decl.Declare("User").
//		Property("name", "string").
//		Property("email", "string").
//		Property("age", "int|null")
//
//	reg := dtobj.NewRegistry(decl)
//	u, err := reg.New("User", dtobj.Params{dtobj.P("name", "A"), dtobj.P("email", "a@b.c")})
//	full := u.ToMapping()            // name, email, age: null
//	given := u.Partial().ToMapping() // name, email
package dtobj
