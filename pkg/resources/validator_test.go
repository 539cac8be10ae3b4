package resources

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryDatabaseSchema() InputSchema {
	return NewTool("query_notion_database").
		WithString("databaseId").Required().Add().
		WithString("filter").Add().
		WithString("sorts").Add().
		WithNumber("pageSize").Default(10).Add().
		Build().InputSchema
}

func TestValidate_RequiredField(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Validate(queryDatabaseSchema(), map[string]interface{}{})
		require.Error(t, err)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "databaseId", vErr.Param)
		assert.Equal(t, "is required", vErr.Reason)
		assert.ErrorIs(t, err, ErrInvalidParams)
		assert.Equal(t, `parameter "databaseId" is required`, err.Error())
	})

	t.Run("explicit null counts as missing", func(t *testing.T) {
		_, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": nil})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "databaseId", vErr.Param)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": float64(42)})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "databaseId", vErr.Param)
		assert.Equal(t, "must be of type string, got number", vErr.Reason)
		assert.NotNil(t, vErr.Err)
	})
}

func TestValidate_OptionalFields(t *testing.T) {
	t.Run("default filled when absent", func(t *testing.T) {
		params, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": "db1"})
		require.NoError(t, err)

		assert.Equal(t, 10, params.Int("pageSize"))
		assert.NotContains(t, params, "filter")
		assert.NotContains(t, params, "sorts")
	})

	t.Run("default filled when null", func(t *testing.T) {
		params, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": "db1", "pageSize": nil})
		require.NoError(t, err)
		assert.Equal(t, 10, params.Int("pageSize"))
	})

	t.Run("given value wins over default", func(t *testing.T) {
		params, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": "db1", "pageSize": float64(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, params.Int("pageSize"))
	})

	t.Run("optional wrong type is rejected", func(t *testing.T) {
		_, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": "db1", "pageSize": "ten"})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "pageSize", vErr.Param)
	})

	t.Run("embedded JSON strings are not parsed", func(t *testing.T) {
		params, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": "db1", "filter": "{not valid json"})
		require.NoError(t, err)
		assert.Equal(t, "{not valid json", params.String("filter"))
	})

	t.Run("undeclared arguments pass through", func(t *testing.T) {
		params, err := Validate(queryDatabaseSchema(), map[string]interface{}{"databaseId": "db1", "extra": true})
		require.NoError(t, err)
		assert.Equal(t, true, params["extra"])
	})
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	raw := map[string]interface{}{"databaseId": "db1"}

	params, err := Validate(queryDatabaseSchema(), raw)
	require.NoError(t, err)

	assert.Len(t, raw, 1)
	params["databaseId"] = "changed"
	assert.Equal(t, "db1", raw["databaseId"])
}

func TestValidate_TypeMatrix(t *testing.T) {
	schema := NewTool("t").
		WithInteger("count").Add().
		WithBoolean("flag").Add().
		WithObject("obj").Add().
		WithArray("list").Items(SchemaProperty{Type: TypeString}).Add().
		WithString("mode").Enum("asc", "desc").Add().
		Build().InputSchema

	testCases := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{name: "integer ok", args: map[string]interface{}{"count": float64(2)}},
		{name: "integer fraction", args: map[string]interface{}{"count": 2.5}, wantErr: "count"},
		{name: "boolean ok", args: map[string]interface{}{"flag": true}},
		{name: "boolean as string", args: map[string]interface{}{"flag": "true"}, wantErr: "flag"},
		{name: "object ok", args: map[string]interface{}{"obj": map[string]interface{}{"a": "b"}}},
		{name: "object as array", args: map[string]interface{}{"obj": []interface{}{}}, wantErr: "obj"},
		{name: "array ok", args: map[string]interface{}{"list": []interface{}{"a", "b"}}},
		{name: "array bad item", args: map[string]interface{}{"list": []interface{}{"a", float64(1)}}, wantErr: "list"},
		{name: "enum ok", args: map[string]interface{}{"mode": "asc"}},
		{name: "enum miss", args: map[string]interface{}{"mode": "sideways"}, wantErr: "mode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(schema, tc.args)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.wantErr, vErr.Param)
		})
	}
}

func TestArgumentParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ArgumentParseError{Param: "filter", Err: cause}

	assert.Equal(t, "Error parsing filter JSON: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestValidatedParamsAccessors(t *testing.T) {
	p := ValidatedParams{
		"s":     "value",
		"empty": "",
		"f":     float64(7.9),
		"i":     12,
		"huge":  1e300,
		"neg":   float64(-1e12),
	}

	assert.Equal(t, "value", p.String("s"))
	_, ok := p.OptionalString("empty")
	assert.False(t, ok)
	assert.Equal(t, 7, p.Int("f"))
	assert.Equal(t, 12, p.Int("i"))
	_, ok = p.OptionalInt("missing")
	assert.False(t, ok)
	_, ok = p.OptionalInt("huge")
	assert.False(t, ok)
	_, ok = p.OptionalInt("neg")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Int("huge"))
}

func TestValidate_ReportsSameParameterEveryTime(t *testing.T) {
	schema := NewTool("t").
		WithNumber("d").Add().
		WithNumber("b").Add().
		WithNumber("c").Add().
		WithNumber("a").Add().
		Build().InputSchema
	args := map[string]interface{}{"a": "x", "b": "x", "c": "x", "d": "x"}

	for i := 0; i < 100; i++ {
		_, err := Validate(schema, args)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Equal(t, "a", vErr.Param, "call %d", i)
	}
}
