package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/storage"
)

func sampleEvent() *v1.CanonicalEvent {
	return &v1.CanonicalEvent{
		ID:        "evt-1",
		Type:      "reserva_creada",
		Timestamp: "2025-07-01T10:00:00Z",
		Fields:    map[string]interface{}{"reservaId": "R1", "precio": 100.0},
		Metadata: v1.Metadata{
			Source:     "eventgate-ingest",
			Mode:       v1.ModeTolerant,
			ReceivedAt: "2025-07-01T10:00:02.000Z",
			Partition:  "year=2025/month=07/day=01/type=reserva_creada",
		},
	}
}

func TestAdapter_SaveRaw(t *testing.T) {
	eventTS := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	receivedAt := eventTS.Add(2 * time.Second)

	tests := []struct {
		name       string
		event      *v1.CanonicalEvent
		mockResult func(mock sqlmock.Sqlmock, event *v1.CanonicalEvent)
		assertions func(t *testing.T, seq int64, err error)
	}{
		{
			name:  "success returns seq",
			event: sampleEvent(),
			mockResult: func(mock sqlmock.Sqlmock, event *v1.CanonicalEvent) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveRaw)).
					WithArgs(
						event.ID,
						event.Type,
						event.Metadata.Partition,
						eventTS,
						receivedAt,
						sqlmock.AnyArg(),
						sqlmock.AnyArg(),
					).
					WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(42)))
			},
			assertions: func(t *testing.T, seq int64, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(42), seq)
			},
		},
		{
			name:  "duplicate maps to ErrDuplicate",
			event: sampleEvent(),
			mockResult: func(mock sqlmock.Sqlmock, event *v1.CanonicalEvent) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveRaw)).
					WillReturnRows(sqlmock.NewRows([]string{"seq"}))
			},
			assertions: func(t *testing.T, seq int64, err error) {
				require.ErrorIs(t, err, storage.ErrDuplicate)
				require.Zero(t, seq)
			},
		},
		{
			name: "marshal error short-circuits",
			event: func() *v1.CanonicalEvent {
				evt := sampleEvent()
				evt.Fields["precio"] = math.NaN()
				return evt
			}(),
			assertions: func(t *testing.T, seq int64, err error) {
				require.ErrorContains(t, err, "failed to marshal record")
			},
		},
		{
			name:  "database error is wrapped",
			event: sampleEvent(),
			mockResult: func(mock sqlmock.Sqlmock, event *v1.CanonicalEvent) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveRaw)).
					WillReturnError(errors.New("connection reset"))
			},
			assertions: func(t *testing.T, seq int64, err error) {
				require.ErrorContains(t, err, "failed to save raw event")
				require.NotErrorIs(t, err, storage.ErrDuplicate)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			if tc.mockResult != nil {
				tc.mockResult(mock, tc.event)
			}

			seq, err := adapter.SaveRaw(context.Background(), tc.event, nil)
			tc.assertions(t, seq, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_RetrieveRawAfterCursor(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	receivedAt := time.Date(2025, 7, 1, 10, 0, 2, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(queryRetrieveRawAfterCursor)).
		WithArgs(int64(100), 2).
		WillReturnRows(sqlmock.NewRows(rawRowColumns()).
			AddRow(
				int64(101),
				"evt-101",
				"reserva_creada",
				"year=2025/month=07/day=01/type=reserva_creada",
				receivedAt,
				[]byte(`{"eventId":"evt-101","type":"reserva_creada","ts":"2025-07-01T10:00:00Z","precio":100}`),
			).
			AddRow(
				int64(102),
				"evt-102",
				"catalogo",
				"year=2025/month=07/day=01/type=catalogo",
				receivedAt.Add(time.Minute),
				[]byte(`{"eventId":"evt-102","type":"catalogo"}`),
			),
		).RowsWillBeClosed()

	records, err := adapter.RetrieveRawAfterCursor(context.Background(), 100, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, int64(101), records[0].Seq)
	require.Equal(t, "evt-101", records[0].EventID)
	require.Equal(t, receivedAt, records[0].ReceivedAt)
	require.Equal(t, float64(100), records[0].Record["precio"])
	require.Equal(t, "catalogo", records[1].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_RetrieveRawAfterCursor_BadJSON(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryRetrieveRawAfterCursor)).
		WithArgs(int64(0), 10).
		WillReturnRows(sqlmock.NewRows(rawRowColumns()).
			AddRow(int64(1), "evt-1", "catalogo", "p", time.Now(), []byte(`{not json`)),
		)

	_, err := adapter.RetrieveRawAfterCursor(context.Background(), 0, 10)
	require.ErrorContains(t, err, "failed to unmarshal record")
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(querySaveRaw)).WillBeClosed()
	stmtSave, err := db.Prepare(querySaveRaw)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryRetrieveRawAfterCursor)).WillBeClosed()
	stmtRetrieveCursor, err := db.Prepare(queryRetrieveRawAfterCursor)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:                    db,
		stmtSaveRaw:           stmtSave,
		stmtRetrieveRawCursor: stmtRetrieveCursor,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:                    db,
		stmtSaveRaw:           mustPrepareStmt(t, db, mock, querySaveRaw),
		stmtRetrieveRawCursor: mustPrepareStmt(t, db, mock, queryRetrieveRawAfterCursor),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func rawRowColumns() []string {
	return []string{
		"seq",
		"event_id",
		"type",
		"partition_key",
		"received_at",
		"record",
	}
}
