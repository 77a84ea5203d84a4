package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCatalog_FieldDeclarations(t *testing.T) {
	spec, err := ParseCatalog([]byte(`
types:
  - type: test.event
    fields:
      id: string!
      status: enum:flightStatus!
      amount: number
      when:
        type: timestamp
        required: true
      state:
        type: enum!
        enum: flightStatus
`))
	require.NoError(t, err)
	require.Len(t, spec.Types, 1)

	fields := spec.Types[0].Fields
	require.Len(t, fields, 5)

	// Declaration order is preserved.
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"id", "status", "amount", "when", "state"}, names)

	require.True(t, fields[0].Required)
	require.Equal(t, KindString, fields[0].kind)

	require.True(t, fields[1].Required)
	require.Equal(t, KindEnum, fields[1].kind)
	require.Equal(t, "flightStatus", fields[1].Enum)

	require.False(t, fields[2].Required)
	require.Equal(t, KindNumber, fields[2].kind)

	require.True(t, fields[3].Required)
	require.Equal(t, KindTimestamp, fields[3].kind)

	require.True(t, fields[4].Required)
	require.Equal(t, "flightStatus", fields[4].Enum)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{
			name: "unsupported kind",
			doc: `
types:
  - type: test.event
    fields:
      id: uuid!
`,
			errMsg: "unsupported type",
		},
		{
			name: "fields as list",
			doc: `
types:
  - type: test.event
    fields: [id, name]
`,
			errMsg: "fields must be a mapping",
		},
		{
			name: "long form without type",
			doc: `
types:
  - type: test.event
    fields:
      id:
        required: true
`,
			errMsg: "missing 'type'",
		},
		{
			name:   "malformed yaml",
			doc:    "types: [",
			errMsg: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCatalogSpec_MergeRejectsDuplicateEnums(t *testing.T) {
	a := &CatalogSpec{Enums: map[string]EnumSpec{"channel": {Values: []string{"web"}}}}
	b := &CatalogSpec{Enums: map[string]EnumSpec{"channel": {Values: []string{"api"}}}}

	merged := &CatalogSpec{}
	require.NoError(t, merged.merge(a))
	err := merged.merge(b)
	require.Error(t, err)
	require.Contains(t, err.Error(), "declared twice")
}
