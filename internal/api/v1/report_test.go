package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	r := NewReport()
	require.True(t, r.Valid())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"errors":[],"warnings":[]}`, string(b))

	r.AddWarning("email", ReasonUnexpectedField, "field %q is not declared", "email")
	require.True(t, r.Valid())
	require.True(t, r.HasWarning(ReasonUnexpectedField, "email"))
	require.False(t, r.HasWarning(ReasonUnexpectedField, "phone"))

	r.AddError("userId", ReasonMissingRequiredField, "missing")
	r.AddError("flightId", ReasonMissingRequiredField, "missing")
	require.False(t, r.Valid())
	require.Equal(t, 2, r.CountErrors(ReasonMissingRequiredField))
	require.True(t, r.HasError(ReasonMissingRequiredField, ""))
	require.False(t, r.HasError(ReasonInvalidEnumValue, ""))

	require.Equal(t, `email: field "email" is not declared (unexpected_field)`, r.Warnings[0].String())
}
