package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
	v1 "github.com/tripline/eventgate/internal/api/v1"
)

func TestRule_Evaluate(t *testing.T) {
	reg, err := LoadBuiltin()
	require.NoError(t, err)

	flight, ok := reg.Lookup("flights.flight.created")
	require.True(t, ok)
	payment, ok := reg.Lookup("pago_rechazado")
	require.True(t, ok)
	user, ok := reg.Lookup("usuario_registrado")
	require.True(t, ok)

	ruleByReason := func(d *Descriptor, reason string) *Rule {
		for _, r := range d.Rules {
			if string(r.Reason) == reason {
				return r
			}
		}
		t.Fatalf("%s has no rule %s", d.Type, reason)
		return nil
	}

	tests := []struct {
		name      string
		rule      *Rule
		payload   map[string]interface{}
		violated  bool
		wantField string
		fatal     bool
	}{
		{
			name:      "arrival before departure",
			rule:      ruleByReason(flight, "arrival_before_departure"),
			payload:   map[string]interface{}{"departureAt": "2025-07-01T10:00:00Z", "arrivalAt": "2025-07-01T08:00:00Z"},
			violated:  true,
			wantField: v1.GlobalField,
		},
		{
			name:     "arrival after departure",
			rule:     ruleByReason(flight, "arrival_before_departure"),
			payload:  map[string]interface{}{"departureAt": "2025-07-01T10:00:00Z", "arrivalAt": "2025-07-01T12:00:00Z"},
			violated: false,
		},
		{
			name:     "order skipped when a side is unparseable",
			rule:     ruleByReason(flight, "arrival_before_departure"),
			payload:  map[string]interface{}{"departureAt": "soon", "arrivalAt": "2025-07-01T08:00:00Z"},
			violated: false,
		},
		{
			name:      "non positive amount",
			rule:      ruleByReason(payment, "non_positive_amount"),
			payload:   map[string]interface{}{"monto": float64(0)},
			violated:  true,
			wantField: "monto",
			fatal:     true,
		},
		{
			name:      "large payment",
			rule:      ruleByReason(payment, "large_payment_amount"),
			payload:   map[string]interface{}{"monto": float64(150000)},
			violated:  true,
			wantField: "monto",
		},
		{
			name:     "bound skipped for non-numeric value",
			rule:     ruleByReason(payment, "non_positive_amount"),
			payload:  map[string]interface{}{"monto": "abc"},
			violated: false,
		},
		{
			name:      "attempts below minimum",
			rule:      ruleByReason(payment, "invalid_attempt_count"),
			payload:   map[string]interface{}{"intentos": float64(0)},
			violated:  true,
			wantField: "intentos",
			fatal:     true,
		},
		{
			name:      "email without at sign",
			rule:      ruleByReason(user, "invalid_email"),
			payload:   map[string]interface{}{"email": "ana.example.com"},
			violated:  true,
			wantField: "email",
			fatal:     true,
		},
		{
			name:     "known aircraft model in lower case",
			rule:     ruleByReason(flight, "unknown_aircraft_model"),
			payload:  map[string]interface{}{"aircraftModel": "a330"},
			violated: false,
		},
		{
			name:      "unknown aircraft model",
			rule:      ruleByReason(flight, "unknown_aircraft_model"),
			payload:   map[string]interface{}{"aircraftModel": "DC3"},
			violated:  true,
			wantField: "aircraftModel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, violated := tt.rule.Evaluate(tt.payload)
			require.Equal(t, tt.violated, violated)
			if !tt.violated {
				return
			}
			require.Equal(t, tt.wantField, v.Field)
			require.Equal(t, tt.fatal, v.Fatal)
			require.Equal(t, tt.rule.Reason, v.Reason)
			require.NotEmpty(t, v.Message)
		})
	}
}
