package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/schema"
)

var fixedNow = time.Date(2025, 7, 1, 12, 30, 45, 123000000, time.UTC)

func newResolver(t *testing.T) (*Resolver, *schema.Registry) {
	t.Helper()
	reg, err := schema.LoadBuiltin()
	require.NoError(t, err)
	return New(reg), reg
}

func TestInferType(t *testing.T) {
	r, _ := newResolver(t)

	tests := []struct {
		name    string
		payload v1.RawEvent
		want    string
		ok      bool
	}{
		{
			name: "search performed signature",
			payload: v1.RawEvent{
				"searchId": "S1", "userId": "U1", "origin": "EZE", "destination": "MAD",
				"category": "economy", "performedAt": "2025-07-01T10:00:00Z",
			},
			want: "search.search.performed",
			ok:   true,
		},
		{
			name: "search metric signature",
			payload: v1.RawEvent{
				"flightsFrom": "EZE", "flightsTo": "MAD", "dateFrom": "2025-07-01",
				"dateTo": "2025-07-10", "resultsCount": 4, "userId": "U1",
			},
			want: "search_metric",
			ok:   true,
		},
		{
			name: "flight fields without reservation fields",
			payload: v1.RawEvent{
				"flightId": "F1", "flightNumber": "AR1132", "departureAt": "2025-07-01T10:00:00Z",
			},
			want: "flights.flight.created",
			ok:   true,
		},
		{
			name: "flight status change",
			payload: v1.RawEvent{
				"flightId": "F1", "newStatus": "DELAYED",
			},
			want: "flights.flight.updated",
			ok:   true,
		},
		{
			name: "reservation fields win over flight fields",
			payload: v1.RawEvent{
				"reservationId": "R1", "flightId": "F1", "flightNumber": "AR1132",
				"departureAt": "2025-07-01T10:00:00Z", "reservedAt": "2025-06-01T10:00:00Z",
			},
			want: "reservations.reservation.created",
			ok:   true,
		},
		{
			name:    "null marker field does not match",
			payload: v1.RawEvent{"searchId": nil, "performedAt": "2025-07-01T10:00:00Z"},
			ok:      false,
		},
		{
			name:    "no signature",
			payload: v1.RawEvent{"foo": "bar"},
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.InferType(tt.payload)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveType(t *testing.T) {
	r, _ := newResolver(t)

	t.Run("declared type wins", func(t *testing.T) {
		res := r.ResolveType(v1.RawEvent{"type": "catalogo"}, "reserva_creada")
		require.Equal(t, "reserva_creada", res.Type)
		require.True(t, res.Known())
		require.False(t, res.Inferred)
	})

	t.Run("payload type", func(t *testing.T) {
		res := r.ResolveType(v1.RawEvent{"type": " pago_aprobado "}, "")
		require.Equal(t, "pago_aprobado", res.Type)
		require.True(t, res.Known())
	})

	t.Run("unregistered type stays unknown", func(t *testing.T) {
		res := r.ResolveType(v1.RawEvent{"type": "loyalty.points.earned", "searchId": "S1", "performedAt": "x"}, "")
		require.Equal(t, "loyalty.points.earned", res.Type)
		require.False(t, res.Known())
		require.False(t, res.Inferred)
	})

	t.Run("inferred", func(t *testing.T) {
		res := r.ResolveType(v1.RawEvent{"searchId": "S1", "performedAt": "2025-07-01T10:00:00Z"}, "")
		require.Equal(t, "search.search.performed", res.Type)
		require.True(t, res.Inferred)
		require.True(t, res.Known())
	})

	t.Run("nothing to go on", func(t *testing.T) {
		res := r.ResolveType(v1.RawEvent{"type": 42}, "")
		require.Empty(t, res.Type)
		require.False(t, res.Known())
	})
}

func TestResolveTimestamp(t *testing.T) {
	_, reg := newResolver(t)
	search, _ := reg.Lookup("search.search.performed")
	updated, _ := reg.Lookup("reservations.reservation.updated")

	tests := []struct {
		name       string
		payload    v1.RawEvent
		desc       *schema.Descriptor
		mode       v1.Mode
		wantValue  string
		wantSource string
	}{
		{
			name:       "explicit ts is canonicalized",
			payload:    v1.RawEvent{"ts": "2025-07-01T10:00:00-03:00", "performedAt": "2025-01-01T00:00:00Z"},
			desc:       search,
			mode:       v1.ModeStrict,
			wantValue:  "2025-07-01T13:00:00Z",
			wantSource: "ts",
		},
		{
			name:       "alternate adopted",
			payload:    v1.RawEvent{"performedAt": "2025-07-01T10:00:00.250Z"},
			desc:       search,
			mode:       v1.ModeStrict,
			wantValue:  "2025-07-01T10:00:00.250Z",
			wantSource: "performedAt",
		},
		{
			name:       "alternates follow declared order",
			payload:    v1.RawEvent{"flightDate": "2025-08-01", "reservationDate": "2025-06-01T09:00:00Z"},
			desc:       updated,
			mode:       v1.ModeStrict,
			wantValue:  "2025-06-01T09:00:00Z",
			wantSource: "reservationDate",
		},
		{
			name:       "empty alternate skipped",
			payload:    v1.RawEvent{"updatedAt": "  ", "flightDate": "2025-08-01"},
			desc:       updated,
			mode:       v1.ModeStrict,
			wantValue:  "2025-08-01T00:00:00Z",
			wantSource: "flightDate",
		},
		{
			name:       "unparseable alternate passed through",
			payload:    v1.RawEvent{"performedAt": "yesterday"},
			desc:       search,
			mode:       v1.ModeStrict,
			wantValue:  "yesterday",
			wantSource: "performedAt",
		},
		{
			name:       "tolerant substitutes now",
			payload:    v1.RawEvent{},
			desc:       search,
			mode:       v1.ModeTolerant,
			wantValue:  "2025-07-01T12:30:45Z",
			wantSource: SourceNow,
		},
		{
			name:       "tolerant substitutes now for unknown type",
			payload:    v1.RawEvent{"performedAt": "2025-07-01T10:00:00Z"},
			desc:       nil,
			mode:       v1.ModeTolerant,
			wantValue:  "2025-07-01T12:30:45Z",
			wantSource: SourceNow,
		},
		{
			name:    "strict leaves unresolved",
			payload: v1.RawEvent{},
			desc:    search,
			mode:    v1.ModeStrict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimestamp(tt.payload, tt.desc, tt.mode, fixedNow)
			require.Equal(t, tt.wantValue, got.Value)
			require.Equal(t, tt.wantSource, got.Source)
			require.Equal(t, tt.wantSource != "", got.Resolved())
			require.Equal(t, tt.wantSource == SourceNow, got.Substituted())
		})
	}
}

func TestResolveTimestamp_Idempotent(t *testing.T) {
	_, reg := newResolver(t)
	search, _ := reg.Lookup("search.search.performed")

	first := ResolveTimestamp(v1.RawEvent{"performedAt": "2025-07-01 10:00:00.5"}, search, v1.ModeStrict, fixedNow)
	require.Equal(t, "2025-07-01T10:00:00.500Z", first.Value)

	second := ResolveTimestamp(v1.RawEvent{"ts": first.Value}, search, v1.ModeStrict, fixedNow)
	require.Equal(t, first.Value, second.Value)
}
