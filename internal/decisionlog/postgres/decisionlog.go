package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/hr-records/internal/decisionlog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryer is the part of *pgxpool.Pool the repository needs.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const insertEntry = `
        INSERT INTO absence_decisions
               (event_id, absence_id, employee_id, previous_status, new_status, actor_subject_id, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (event_id) DO NOTHING
    `

const selectByAbsence = `
        SELECT id, event_id, absence_id, employee_id, previous_status, new_status, actor_subject_id, occurred_at
          FROM absence_decisions
         WHERE absence_id = $1
         ORDER BY occurred_at ASC, id ASC
    `

type Repository struct {
	pool Queryer
}

func NewRepository(pool Queryer) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Append(ctx context.Context, e *decisionlog.Entry) error {
	_, err := r.pool.Exec(ctx, insertEntry,
		e.EventID, e.AbsenceID, e.EmployeeID, e.PreviousStatus, e.NewStatus, e.ActorSubjectID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("decisionlog: append: %w", err)
	}
	return nil
}

func (r *Repository) ListByAbsence(ctx context.Context, absenceID int64) ([]*decisionlog.Entry, error) {
	rows, err := r.pool.Query(ctx, selectByAbsence, absenceID)
	if err != nil {
		return nil, fmt.Errorf("decisionlog: list: %w", err)
	}
	defer rows.Close()

	var entries []*decisionlog.Entry
	for rows.Next() {
		var e decisionlog.Entry
		if err := rows.Scan(&e.ID, &e.EventID, &e.AbsenceID, &e.EmployeeID,
			&e.PreviousStatus, &e.NewStatus, &e.ActorSubjectID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("decisionlog: scan: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("decisionlog: rows: %w", err)
	}
	return entries, nil
}
