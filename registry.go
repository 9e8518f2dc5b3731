package dtobj

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry resolves type schemas through a SchemaExtractor and builds
// objects. Schemas are extracted once per type name and cached for the
// lifetime of the Registry; a Registry is safe for concurrent use.
type Registry struct {
	ex       SchemaExtractor
	defaults TypeOptions

	cache  sync.Map // string -> *TypeSchema
	flight singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDefaultOptions sets the options used for types whose extractor does not
// provide any.
func WithDefaultOptions(o TypeOptions) RegistryOption {
	return func(r *Registry) { r.defaults = o }
}

// NewRegistry returns a Registry backed by ex.
func NewRegistry(ex SchemaExtractor, opts ...RegistryOption) *Registry {
	r := &Registry{ex: ex, defaults: DefaultTypeOptions()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Schema returns the cached schema of typeName, extracting it on first use.
// A type without declaration yields a schema with zero properties.
func (r *Registry) Schema(typeName string) *TypeSchema {
	if ts, ok := r.cache.Load(typeName); ok {
		return ts.(*TypeSchema)
	}
	v, _, _ := r.flight.Do(typeName, func() (any, error) {
		if ts, ok := r.cache.Load(typeName); ok {
			return ts, nil
		}
		ts := r.extract(typeName)
		r.cache.Store(typeName, ts)
		return ts, nil
	})
	return v.(*TypeSchema)
}

// Forget drops the cached schema of typeName so the next use re-extracts it.
func (r *Registry) Forget(typeName string) { r.cache.Delete(typeName) }

func (r *Registry) extract(typeName string) *TypeSchema {
	var names []string
	if r.ex != nil {
		names = r.ex.Properties(typeName)
	}
	props := make([]PropertySchema, 0, len(names))
	for _, n := range names {
		types, _ := r.ex.Types(typeName, n)
		props = append(props, NewPropertySchema(n, types))
	}
	opts := r.defaults
	if oe, ok := r.ex.(OptionsExtractor); ok {
		if o, found := oe.Options(typeName); found {
			opts = o
		}
	}
	return newTypeSchema(typeName, props, opts)
}

// New validates params against typeName and returns the sealed object.
func (r *Registry) New(typeName string, params Params) (*Object, error) {
	return newObject(r.Schema(typeName), params)
}

// NewFromMap is like New for an unordered map. Keys are walked in ascending
// order so that error reporting is deterministic.
func (r *Registry) NewFromMap(typeName string, m map[string]any) (*Object, error) {
	return r.New(typeName, ParamsFromMap(m))
}

// NewFromJSON decodes a JSON object with the current JSON driver, keeping the
// document's key order, and builds the object from it.
func (r *Registry) NewFromJSON(typeName string, data []byte) (*Object, error) {
	params, err := ParseJSONParams(data)
	if err != nil {
		return nil, err
	}
	return r.New(typeName, params)
}

// NewFromYAML is like NewFromJSON for the first document of a YAML stream.
func (r *Registry) NewFromYAML(typeName string, data []byte) (*Object, error) {
	params, err := ParseYAMLParams(data)
	if err != nil {
		return nil, err
	}
	return r.New(typeName, params)
}

// MustNew is like New but panics on error.
func (r *Registry) MustNew(typeName string, params Params) *Object {
	o, err := r.New(typeName, params)
	if err != nil {
		panic(err)
	}
	return o
}
