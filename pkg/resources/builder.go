package resources

// ToolBuilder is a builder for creating tools
type ToolBuilder struct {
	tool Tool
}

// ParameterBuilder is a builder for creating tool parameters
type ParameterBuilder struct {
	name     string
	property SchemaProperty
	required bool
	tool     *ToolBuilder
}

// ToolInput describes a parameter in one struct, for table-style tool definitions
type ToolInput struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     interface{}
}

// NewTool creates a new tool builder
func NewTool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool: Tool{
			Name: name,
			InputSchema: InputSchema{
				Type:       TypeObject,
				Properties: make(map[string]SchemaProperty),
				Required:   []string{},
			},
		},
	}
}

// WithDescription sets the description of the tool
func (b *ToolBuilder) WithDescription(description string) *ToolBuilder {
	b.tool.Description = description
	return b
}

// WithString adds a string parameter to the tool
func (b *ToolBuilder) WithString(name string) *ParameterBuilder {
	return b.param(name, TypeString)
}

// WithNumber adds a number parameter to the tool
func (b *ToolBuilder) WithNumber(name string) *ParameterBuilder {
	return b.param(name, TypeNumber)
}

// WithInteger adds an integer parameter to the tool
func (b *ToolBuilder) WithInteger(name string) *ParameterBuilder {
	return b.param(name, TypeInteger)
}

// WithBoolean adds a boolean parameter to the tool
func (b *ToolBuilder) WithBoolean(name string) *ParameterBuilder {
	return b.param(name, TypeBoolean)
}

// WithObject adds an object parameter to the tool
func (b *ToolBuilder) WithObject(name string) *ParameterBuilder {
	return b.param(name, TypeObject)
}

// WithArray adds an array parameter to the tool
func (b *ToolBuilder) WithArray(name string) *ParameterBuilder {
	return b.param(name, TypeArray)
}

// WithInputs adds every input in order
func (b *ToolBuilder) WithInputs(inputs []ToolInput) *ToolBuilder {
	for _, in := range inputs {
		p := b.param(in.Name, in.Type).Description(in.Description)
		if in.Default != nil {
			p.Default(in.Default)
		}
		if in.Required {
			p.Required()
		}
		p.Add()
	}
	return b
}

func (b *ToolBuilder) param(name, typ string) *ParameterBuilder {
	return &ParameterBuilder{
		name:     name,
		property: SchemaProperty{Type: typ},
		tool:     b,
	}
}

// Build returns a copy of the tool, so later builder calls don't leak into it
func (b *ToolBuilder) Build() Tool {
	t := b.tool
	t.InputSchema.Properties = make(map[string]SchemaProperty, len(b.tool.InputSchema.Properties))
	for k, v := range b.tool.InputSchema.Properties {
		t.InputSchema.Properties[k] = v
	}
	t.InputSchema.Required = append([]string{}, b.tool.InputSchema.Required...)
	return t
}

// Required marks the parameter as required
func (b *ParameterBuilder) Required() *ParameterBuilder {
	b.required = true
	return b
}

// Description sets the description of the parameter
func (b *ParameterBuilder) Description(description string) *ParameterBuilder {
	b.property.Description = description
	return b
}

// Default sets the default value of the parameter
func (b *ParameterBuilder) Default(value interface{}) *ParameterBuilder {
	b.property.Default = value
	return b
}

// Enum restricts the parameter to the given values
func (b *ParameterBuilder) Enum(values ...interface{}) *ParameterBuilder {
	b.property.Enum = values
	return b
}

// Items sets the element schema of an array parameter
func (b *ParameterBuilder) Items(items SchemaProperty) *ParameterBuilder {
	b.property.Items = &items
	return b
}

// Add adds the parameter to the tool and returns the tool builder
func (b *ParameterBuilder) Add() *ToolBuilder {
	schema := &b.tool.tool.InputSchema
	schema.Properties[b.name] = b.property
	if b.required && !schema.IsRequired(b.name) {
		schema.Required = append(schema.Required, b.name)
	}
	return b.tool
}
