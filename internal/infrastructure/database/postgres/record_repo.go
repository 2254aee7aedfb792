package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

const (
	createRecordsTable = `CREATE TABLE IF NOT EXISTS records (
	id          BIGSERIAL PRIMARY KEY,
	doc         JSONB NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectRecordDocs = `SELECT doc FROM records ORDER BY id`
	countRecords     = `SELECT COUNT(*) FROM records`
	deleteRecords    = `DELETE FROM records`
	insertRecordDoc  = `INSERT INTO records (doc) VALUES ($1::jsonb)`
)

// RecordRepository stores the raw collection as one JSONB document per row.
// It doubles as a dataset.Source.
type RecordRepository struct {
	conn   *Connection
	logger logging.Logger
}

// NewRecordRepository returns a repository over conn.
func NewRecordRepository(conn *Connection, log logging.Logger) *RecordRepository {
	return &RecordRepository{conn: conn, logger: log}
}

// Name implements dataset.Source.
func (r *RecordRepository) Name() string { return "postgres" }

// EnsureSchema creates the records table when it is missing.
func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.conn.DB().ExecContext(ctx, createRecordsTable); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "create records table")
	}
	return nil
}

// Fetch implements dataset.Source by reading every row in insertion order.
func (r *RecordRepository) Fetch(ctx context.Context) ([]record.Record, error) {
	rows, err := r.conn.DB().QueryContext(ctx, selectRecordDocs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query records")
	}
	defer rows.Close()

	records := make([]record.Record, 0, 256)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan record")
		}
		var rec record.Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataParse, fmt.Sprintf("decode record %d", len(records)))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate records")
	}
	return records, nil
}

// Count returns the number of stored records.
func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.DB().QueryRowContext(ctx, countRecords).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count records")
	}
	return n, nil
}

// Replace swaps the stored collection for records in one transaction.
func (r *RecordRepository) Replace(ctx context.Context, records []record.Record) (int, error) {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "begin import")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteRecords); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "clear records")
	}

	stmt, err := tx.PrepareContext(ctx, insertRecordDoc)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "prepare insert")
	}
	defer stmt.Close()

	for i := range records {
		doc, err := json.Marshal(&records[i])
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeSerialization, fmt.Sprintf("encode record %d", i))
		}
		if _, err := stmt.ExecContext(ctx, string(doc)); err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, fmt.Sprintf("insert record %d", i))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "commit import")
	}
	r.logger.Info("records imported", logging.Int("count", len(records)))
	return len(records), nil
}

//Personal.AI order the ending
