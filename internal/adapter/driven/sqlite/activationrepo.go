package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ActivationLog = (*ActivationRepo)(nil)

// timestampLayout is fixed width so text ordering of attempted_at matches
// chronological ordering. RFC3339Nano trims trailing zeros and does not.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ActivationRepo is the SQLite implementation of the ActivationLog port.
type ActivationRepo struct {
	db *DB
}

// NewActivationRepo creates a new ActivationRepo.
func NewActivationRepo(db *DB) *ActivationRepo {
	return &ActivationRepo{db: db}
}

// Record appends an activation attempt and returns it with its assigned ID.
// A zero AttemptedAt is replaced with the current time.
func (r *ActivationRepo) Record(ctx context.Context, rec model.ActivationRecord) (model.ActivationRecord, error) {
	if rec.AttemptedAt.IsZero() {
		rec.AttemptedAt = time.Now()
	}
	rec.AttemptedAt = rec.AttemptedAt.UTC()

	const query = `INSERT INTO activations (cycle_id, email, task_id, task_id_numeric, activated, message, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.Writer.ExecContext(ctx, query,
		rec.CycleID,
		rec.Email,
		rec.TaskID.String(),
		boolToInt(rec.TaskID.Numeric()),
		boolToInt(rec.Activated),
		rec.Message,
		rec.AttemptedAt.Format(timestampLayout),
	)
	if err != nil {
		return model.ActivationRecord{}, fmt.Errorf("record activation %s for %s: %w", rec.TaskID, rec.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.ActivationRecord{}, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id

	return rec, nil
}

// ListRecent returns up to limit activation attempts, newest first.
func (r *ActivationRepo) ListRecent(ctx context.Context, limit int) ([]model.ActivationRecord, error) {
	const query = `SELECT id, cycle_id, email, task_id, task_id_numeric, activated, message, attempted_at
		FROM activations ORDER BY attempted_at DESC, id DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list activations: %w", err)
	}
	defer rows.Close()

	records := []model.ActivationRecord{}
	for rows.Next() {
		var (
			rec         model.ActivationRecord
			taskID      string
			numeric     int
			activated   int
			attemptedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.CycleID, &rec.Email, &taskID, &numeric, &activated, &rec.Message, &attemptedAt); err != nil {
			return nil, fmt.Errorf("scan activation: %w", err)
		}

		rec.TaskID = model.NewTaskID(taskID)
		if numeric != 0 {
			rec.TaskID = model.NumericTaskID(taskID)
		}
		rec.Activated = activated != 0
		rec.AttemptedAt, err = time.Parse(time.RFC3339Nano, attemptedAt)
		if err != nil {
			return nil, fmt.Errorf("parse attempted_at for activation %d: %w", rec.ID, err)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activations: %w", err)
	}

	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
