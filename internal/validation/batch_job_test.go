package validation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/storage"
	"github.com/tripline/eventgate/internal/engine"
	storagemocks "github.com/tripline/eventgate/internal/mocks/storage"
	"github.com/tripline/eventgate/internal/schema"
)

var fixedNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

// memoryRawStore serves raw records in seq order.
type memoryRawStore struct {
	records []*storage.RawRecord
}

func (m *memoryRawStore) SaveRaw(ctx context.Context, evt *v1.CanonicalEvent, warnings []v1.Entry) (int64, error) {
	raw, err := evt.Raw()
	if err != nil {
		return 0, err
	}
	seq := int64(len(m.records) + 1)
	m.records = append(m.records, &storage.RawRecord{
		Seq:       seq,
		EventID:   evt.ID,
		Type:      evt.Type,
		Partition: evt.Metadata.Partition,
		Record:    raw,
	})
	return seq, nil
}

func (m *memoryRawStore) RetrieveRawAfterCursor(ctx context.Context, cursor int64, limit int) ([]*storage.RawRecord, error) {
	var result []*storage.RawRecord
	for _, rec := range m.records {
		if rec.Seq > cursor {
			result = append(result, rec)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// memoryValidatedStore simulates the idempotent curated/invalid writes.
type memoryValidatedStore struct {
	mu         sync.Mutex
	checkpoint int64
	curated    map[string]*v1.CanonicalEvent
	invalid    map[string]*v1.Envelope
	flushes    int
}

func newMemoryValidatedStore() *memoryValidatedStore {
	return &memoryValidatedStore{
		curated: make(map[string]*v1.CanonicalEvent),
		invalid: make(map[string]*v1.Envelope),
	}
}

func (m *memoryValidatedStore) Flush(ctx context.Context, results []*storage.ValidatedEvent, cursor int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cursor <= m.checkpoint {
		return nil
	}
	for _, res := range results {
		if res.Envelope.Accepted() {
			m.curated[res.Envelope.Event.ID] = res.Envelope.Event
			continue
		}
		m.invalid[res.Envelope.Event.ID] = res.Envelope
	}
	m.checkpoint = cursor
	m.flushes++
	return nil
}

func (m *memoryValidatedStore) ReadCheckpoint(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkpoint, nil
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	reg, err := schema.LoadBuiltin()
	require.NoError(t, err)
	eng, err := engine.New(reg, engine.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return eng
}

// ingest runs the tolerant pass and stores the accepted event as a raw record.
func ingest(t *testing.T, eng *engine.Engine, store *memoryRawStore, raw v1.RawEvent) string {
	t.Helper()
	env := eng.IngestNormalize(raw)
	require.True(t, env.Accepted(), "ingest rejected: %v", env.Report.Errors)
	_, err := store.SaveRaw(context.Background(), env.Event, env.Report.Warnings)
	require.NoError(t, err)
	return env.Event.ID
}

func reserva(id string, precio interface{}) v1.RawEvent {
	return v1.RawEvent{
		"eventId":   id,
		"type":      "reserva_creada",
		"ts":        "2025-07-01T10:00:00Z",
		"reservaId": "R-" + id,
		"vueloId":   "V-1",
		"precio":    precio,
		"userId":    "user-1",
	}
}

func TestRunOnce_RoutesCuratedAndInvalid(t *testing.T) {
	eng := newTestEngine(t)
	raw := &memoryRawStore{}
	validated := newMemoryValidatedStore()

	goodID := ingest(t, eng, raw, reserva("good", 120))
	// Tolerant mode only warns on a malformed amount; strict mode rejects it.
	badID := ingest(t, eng, raw, reserva("bad", "abc"))

	publisher := storagemocks.NewPublisher(t)
	publisher.EXPECT().
		Publish(mock.Anything, mock.MatchedBy(func(events []*v1.CanonicalEvent) bool {
			return len(events) == 1 && events[0].ID == goodID
		})).
		Return(nil).
		Once()

	job := NewJob(eng, raw, validated, publisher, BatchJobParameter{BatchSize: 10, WorkerCount: 2})
	processed, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, processed)

	require.Equal(t, int64(2), validated.checkpoint)
	require.Contains(t, validated.curated, goodID)
	require.Contains(t, validated.invalid, badID)

	curated := validated.curated[goodID]
	assert.Equal(t, v1.ModeStrict, curated.Metadata.Mode)
	assert.Equal(t, float64(120), curated.Fields["precio"])

	rejected := validated.invalid[badID]
	assert.Equal(t, v1.DestinationInvalid, rejected.Destination)
	assert.True(t, rejected.Report.HasError(v1.ReasonInvalidFieldFormat, "precio"))
}

func TestRunOnce_PreservesRecordOrder(t *testing.T) {
	eng := newTestEngine(t)
	raw := &memoryRawStore{}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		ingest(t, eng, raw, reserva(id, 10))
	}

	var flushed []*storage.ValidatedEvent
	validated := storagemocks.NewValidatedStore(t)
	validated.EXPECT().ReadCheckpoint(mock.Anything).Return(int64(0), nil).Once()
	validated.EXPECT().
		Flush(mock.Anything, mock.Anything, int64(5)).
		Run(func(ctx context.Context, results []*storage.ValidatedEvent, cursor int64) {
			flushed = results
		}).
		Return(nil).
		Once()

	job := NewJob(eng, raw, validated, nil, BatchJobParameter{BatchSize: 10, WorkerCount: 3})
	_, err := job.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, flushed, 5)
	for i, res := range flushed {
		assert.Equal(t, int64(i+1), res.RawSeq)
	}
}

func TestRunOnce_NoEvents(t *testing.T) {
	eng := newTestEngine(t)
	validated := newMemoryValidatedStore()

	job := NewJob(eng, &memoryRawStore{}, validated, nil, DefaultBatchJobOptions())
	processed, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed)
	require.Zero(t, validated.flushes)
}

func TestRunOnce_PublishFailureKeepsCheckpoint(t *testing.T) {
	eng := newTestEngine(t)
	raw := &memoryRawStore{}
	ingest(t, eng, raw, reserva("good", 120))
	validated := newMemoryValidatedStore()

	publisher := storagemocks.NewPublisher(t)
	publisher.EXPECT().
		Publish(mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).
		Once()

	job := NewJob(eng, raw, validated, publisher, DefaultBatchJobOptions())
	_, err := job.RunOnce(context.Background())
	require.ErrorContains(t, err, "publish curated events")
	require.Zero(t, validated.checkpoint)
	require.Empty(t, validated.curated)
}

func TestRunOnce_StoreErrors(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("checkpoint", func(t *testing.T) {
		validated := storagemocks.NewValidatedStore(t)
		validated.EXPECT().ReadCheckpoint(mock.Anything).Return(int64(0), errors.New("db down")).Once()

		job := NewJob(eng, &memoryRawStore{}, validated, nil, DefaultBatchJobOptions())
		_, err := job.RunOnce(context.Background())
		require.ErrorContains(t, err, "read checkpoint")
	})

	t.Run("raw query", func(t *testing.T) {
		rawStore := storagemocks.NewRawEventStore(t)
		rawStore.EXPECT().RetrieveRawAfterCursor(mock.Anything, int64(0), defaultBatchSize).Return(nil, errors.New("timeout")).Once()

		job := NewJob(eng, rawStore, newMemoryValidatedStore(), nil, DefaultBatchJobOptions())
		_, err := job.RunOnce(context.Background())
		require.ErrorContains(t, err, "query raw events")
	})

	t.Run("flush", func(t *testing.T) {
		raw := &memoryRawStore{}
		ingest(t, eng, raw, reserva("good", 120))

		validated := storagemocks.NewValidatedStore(t)
		validated.EXPECT().ReadCheckpoint(mock.Anything).Return(int64(0), nil).Once()
		validated.EXPECT().Flush(mock.Anything, mock.Anything, int64(1)).Return(errors.New("tx aborted")).Once()

		job := NewJob(eng, raw, validated, nil, DefaultBatchJobOptions())
		_, err := job.RunOnce(context.Background())
		require.ErrorContains(t, err, "flush validated events")
	})
}

func TestRunOnce_ReplayIsIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	raw := &memoryRawStore{}
	id := ingest(t, eng, raw, reserva("good", 120))

	first := eng.ValidateNormalize(raw.records[0].Record, "")
	second := eng.ValidateNormalize(raw.records[0].Record, "")
	require.Equal(t, id, first.Event.ID)
	require.Equal(t, first.Event.ID, second.Event.ID)
	require.Equal(t, first.Event.Fields, second.Event.Fields)
}

func TestBatchJobParameter_Normalized(t *testing.T) {
	n := BatchJobParameter{}.normalized()
	require.Equal(t, defaultBatchSize, n.BatchSize)
	require.Equal(t, defaultWorkerCount, n.WorkerCount)

	n = BatchJobParameter{BatchSize: 3, WorkerCount: 1}.normalized()
	require.Equal(t, 3, n.BatchSize)
	require.Equal(t, 1, n.WorkerCount)
}
