package postgres

// SQL queries for the raw, curated and invalid partition classes.

const (
	// querySaveRaw inserts an ingested event.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for duplicates.
	// RETURNING seq gives the cursor position used by the strict pass.
	querySaveRaw = `
		INSERT INTO raw_events (
			event_id, type, partition_key, event_ts, received_at, record, warnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING seq
	`

	// queryRetrieveRawAfterCursor fetches raw records after a cursor in strict total order.
	queryRetrieveRawAfterCursor = `
		SELECT
			seq, event_id, type, partition_key, received_at, record
		FROM raw_events
		WHERE seq > $1
		ORDER BY seq ASC
		LIMIT $2
	`

	querySelectCheckpointForUpdate = `
		SELECT checkpoint_cursor
		FROM validation_checkpoints
		WHERE name = $1
		FOR UPDATE
	`

	queryInitCheckpointRow = `
		INSERT INTO validation_checkpoints (name, checkpoint_cursor, updated_at)
		VALUES ($1, 0, $2)
		ON CONFLICT (name) DO NOTHING
	`

	queryUpdateCheckpoint = `
		UPDATE validation_checkpoints
		SET checkpoint_cursor = $1, updated_at = $2
		WHERE name = $3
	`

	queryReadCheckpoint = `SELECT checkpoint_cursor FROM validation_checkpoints WHERE name = $1`

	// Re-validating a record yields the same event id, so replays are no-ops.
	queryInsertCurated = `
		INSERT INTO curated_events (
			event_id, raw_seq, type, partition_key, event_ts, validated_at, record, warnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING
	`

	queryInsertInvalid = `
		INSERT INTO invalid_events (
			event_id, raw_seq, type, partition_key, validated_at, record, errors, warnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING
	`
)

// Read-side queries. A raw event that has been validated resolves to its curated
// or invalid row; otherwise it is still pending in the raw class.
const (
	queryLookupEvent = `
		SELECT
			r.seq,
			r.event_id,
			r.type,
			r.partition_key,
			CASE
				WHEN c.event_id IS NOT NULL THEN 'curated'
				WHEN i.event_id IS NOT NULL THEN 'invalid'
				ELSE 'raw'
			END,
			COALESCE(c.validated_at, i.validated_at, r.received_at),
			COALESCE(c.record, i.record, r.record),
			COALESCE(i.errors, '[]'::jsonb),
			COALESCE(c.warnings, i.warnings, r.warnings)
		FROM raw_events r
		LEFT JOIN curated_events c ON c.raw_seq = r.seq
		LEFT JOIN invalid_events i ON i.raw_seq = r.seq
		WHERE r.event_id = $1
	`

	queryListRawPartition = `
		SELECT seq, event_id, type, partition_key, 'raw', received_at, record, '[]'::jsonb, warnings
		FROM raw_events
		WHERE partition_key = $1
		ORDER BY seq ASC
		LIMIT $2
	`

	queryListCuratedPartition = `
		SELECT raw_seq, event_id, type, partition_key, 'curated', validated_at, record, '[]'::jsonb, warnings
		FROM curated_events
		WHERE partition_key = $1
		ORDER BY raw_seq ASC
		LIMIT $2
	`

	queryListInvalidPartition = `
		SELECT raw_seq, event_id, type, partition_key, 'invalid', validated_at, record, errors, warnings
		FROM invalid_events
		WHERE partition_key = $1
		ORDER BY raw_seq ASC
		LIMIT $2
	`
)
