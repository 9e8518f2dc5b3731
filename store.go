package dtobj

// propertyStore holds the validated values of one object. It is written
// only by newPropertyStore and read-only afterwards.
type propertyStore struct {
	schema      *TypeSchema
	values      []any // indexed like schema.Properties
	initialized []string
	presence    PresenceMap
}

// emptyStore backs the zero Object.
var emptyStore = newPropertyStore(newTypeSchema("", nil, DefaultTypeOptions()), nil)

// newPropertyStore initializes every declared property to nil and then
// applies params in input order. params must already be validated.
func newPropertyStore(ts *TypeSchema, params Params) *propertyStore {
	st := &propertyStore{
		schema:      ts,
		values:      make([]any, len(ts.Properties)),
		initialized: make([]string, 0, len(params)),
		presence:    make(PresenceMap, len(params)),
	}
	for _, p := range params {
		ptr := pointer(p.Key)
		if st.presence[ptr]&PresenceSeen == 0 {
			st.initialized = append(st.initialized, p.Key)
		}
		v, flags := p.Value, PresenceSeen
		if KindOf(v) == KindNull {
			// Typed nils read back as nil.
			v, flags = nil, flags|PresenceWasNull
		}
		st.values[ts.index[p.Key]] = v
		st.presence[ptr] = flags
	}
	return st
}

func (st *propertyStore) has(key string) bool {
	_, ok := st.schema.index[key]
	return ok
}

func (st *propertyStore) get(key string) (any, bool) {
	i, ok := st.schema.index[key]
	if !ok {
		return nil, false
	}
	return st.values[i], true
}

func (st *propertyStore) isInitialized(key string) bool {
	return st.presence[pointer(key)]&PresenceSeen != 0
}
