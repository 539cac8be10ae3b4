package resources

import (
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// compiledSchema is an InputSchema whose properties have been resolved into
// JSON Schema validators once, at registration time.
type compiledSchema struct {
	schema     InputSchema
	properties map[string]*jsonschema.Resolved
	// names holds the property names sorted, so checks run in a fixed order
	names []string
}

func compileSchema(s InputSchema) (*compiledSchema, error) {
	c := &compiledSchema{
		schema:     s,
		properties: make(map[string]*jsonschema.Resolved, len(s.Properties)),
	}
	for name, prop := range s.Properties {
		resolved, err := toJSONSchema(prop).Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		c.properties[name] = resolved
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	for _, name := range s.Required {
		if _, ok := s.Properties[name]; !ok {
			return nil, fmt.Errorf("required property %q is not declared", name)
		}
	}
	return c, nil
}

func toJSONSchema(p SchemaProperty) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        p.Type,
		Description: p.Description,
		Enum:        p.Enum,
	}
	if p.Items != nil {
		s.Items = toJSONSchema(*p.Items)
	}
	if len(p.Properties) > 0 {
		s.Properties = make(map[string]*jsonschema.Schema, len(p.Properties))
		for k, v := range p.Properties {
			s.Properties[k] = toJSONSchema(v)
		}
	}
	return s
}

// Validate checks raw arguments against schema and returns a fresh parameter
// set with defaults applied. raw is never modified.
func Validate(schema InputSchema, raw map[string]interface{}) (ValidatedParams, error) {
	c, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schema: %v", ErrInvalidParams, err)
	}
	return c.validate(raw)
}

func (c *compiledSchema) validate(raw map[string]interface{}) (ValidatedParams, error) {
	out := make(ValidatedParams, len(raw)+len(c.schema.Properties))
	for k, v := range raw {
		out[k] = v
	}

	// Required first, in declaration order, so the reported parameter is stable
	for _, name := range c.schema.Required {
		if v, ok := raw[name]; !ok || v == nil {
			return nil, &ValidationError{Param: name, Reason: "is required"}
		}
	}

	for _, name := range c.names {
		prop := c.schema.Properties[name]
		v, ok := raw[name]
		if !ok || v == nil {
			delete(out, name)
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}

		if err := c.properties[name].Validate(v); err != nil {
			reason := "is invalid: " + err.Error()
			if !typeMatches(prop.Type, v) {
				reason = fmt.Sprintf("must be of type %s, got %s", prop.Type, jsonTypeOf(v))
			}
			return nil, &ValidationError{Param: name, Reason: reason, Err: err}
		}
	}

	return out, nil
}

func typeMatches(want string, v interface{}) bool {
	got := jsonTypeOf(v)
	switch want {
	case "":
		return true
	case TypeInteger:
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	default:
		return got == want
	}
}

func jsonTypeOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case float64, float32, int, int32, int64:
		return TypeNumber
	case []interface{}:
		return TypeArray
	case map[string]interface{}:
		return TypeObject
	default:
		return fmt.Sprintf("%T", v)
	}
}
