package dtobj

// Object is an immutable data object whose properties were validated against
// its type schema at construction.
//
// Objects are built by a Registry. The zero Object behaves as a sealed
// object of an undeclared type with no properties.
//
// Reads are safe from multiple goroutines. The one-shot partial flag set by
// Partial is not synchronized: a Partial().ToMapping() pair on the same
// Object must not race with other serialization calls on that Object.
type Object struct {
	store   *propertyStore
	partial bool
}

var (
	_ Mapper = (*Object)(nil)
	_ Typed  = (*Object)(nil)
)

func (o *Object) st() *propertyStore {
	if o.store == nil {
		return emptyStore
	}
	return o.store
}

func newObject(ts *TypeSchema, params Params) (*Object, error) {
	if err := (validator{schema: ts}).validate(params); err != nil {
		return nil, err
	}
	return &Object{store: newPropertyStore(ts, params)}, nil
}

// Type returns the declared type name.
func (o *Object) Type() string { return o.st().schema.Name }

// Schema returns the type schema the object was validated against.
func (o *Object) Schema() *TypeSchema { return o.st().schema }

// Has reports whether key is a declared property.
func (o *Object) Has(key string) bool { return o.st().has(key) }

// Get returns the value of a declared property; defaulted properties and
// undeclared keys read as nil.
func (o *Object) Get(key string) any {
	v, _ := o.st().get(key)
	return v
}

// Set always fails: objects are immutable after construction.
func (o *Object) Set(key string, _ any) error { return propertyIssue(CodeImmutable, key) }

// Remove always fails: objects are immutable after construction.
func (o *Object) Remove(key string) error { return propertyIssue(CodeImmutable, key) }

// Keys returns the declared property names in declaration order.
func (o *Object) Keys() []string { return o.st().schema.Names() }

// Initialized returns the properties supplied at construction, in input
// order.
func (o *Object) Initialized() []string {
	return append([]string(nil), o.st().initialized...)
}

// Presence returns a copy of the presence flags recorded at construction.
func (o *Object) Presence() PresenceMap {
	out := make(PresenceMap, len(o.st().presence))
	for k, v := range o.st().presence {
		out[k] = v
	}
	return out
}

// Partial makes the next serialization emit only the properties supplied at
// construction. The flag is consumed by that call.
func (o *Object) Partial() *Object {
	o.partial = true
	return o
}

// ToMapping serializes the object, honoring and resetting the partial flag.
func (o *Object) ToMapping() *Mapping {
	mode := SerializeFull
	if o.partial {
		mode = SerializePartial
	}
	o.partial = false
	return serialize(o.st(), mode)
}

// MappingWithMode serializes with an explicit mode; the partial flag is left
// untouched.
func (o *Object) MappingWithMode(mode SerializeMode) *Mapping {
	return serialize(o.st(), mode)
}

// Encode serializes the object with ToMapping and renders it with enc.
func (o *Object) Encode(enc TextEncoder) ([]byte, error) {
	return enc.Encode(o.ToMapping())
}

// ToJSON renders the object as JSON.
func (o *Object) ToJSON(opts ...JSONOption) (string, error) {
	b, err := o.Encode(NewJSONEncoder(opts...))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToYAML renders the object as YAML.
func (o *Object) ToYAML() (string, error) {
	b, err := o.Encode(YAMLEncoder{})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) { return o.ToMapping().MarshalJSON() }

// MarshalYAML implements yaml.Marshaler.
func (o *Object) MarshalYAML() (any, error) { return o.ToMapping().MarshalYAML() }
