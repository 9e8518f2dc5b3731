package dtobj

// validator runs the construction checks of one type. Every check is
// fail-fast: the first violation is returned as a single-issue error.
type validator struct {
	schema *TypeSchema
}

func (v validator) validate(params Params) error {
	if err := v.requiredPresent(params); err != nil {
		return err
	}
	for _, p := range params {
		if err := v.supported(p.Key); err != nil {
			return err
		}
		if err := v.supportedValueType(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// requiredPresent checks every non-nullable property, in declaration order,
// against the full input.
func (v validator) requiredPresent(params Params) error {
	for _, ps := range v.schema.Properties {
		if ps.Nullable {
			continue
		}
		if !params.has(ps.Name) {
			return propertyIssue(CodeRequired, ps.Name)
		}
	}
	return nil
}

func (v validator) supported(key string) error {
	if _, ok := v.schema.index[key]; !ok {
		return propertyIssue(CodeUnknownKey, key)
	}
	return nil
}

func (v validator) supportedValueType(key string, value any) error {
	ps, _ := v.schema.Property(key)
	if !Matches(value, ps) {
		return propertyIssue(CodeInvalidType, key)
	}
	return nil
}
