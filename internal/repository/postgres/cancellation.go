package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/repository"
)

type cancellationRepository struct {
	db *sql.DB
}

func NewCancellationRepository(db *sql.DB) repository.CancellationRepository {
	return &cancellationRepository{db: db}
}

func (r *cancellationRepository) Create(ctx context.Context, c *domain.Cancellation) error {
	query := `INSERT INTO cancellations (booking_id, reason_type, trigger_by, refund_date, created_date)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		c.BookingID, c.ReasonType, c.Trigger, c.RefundDate, time.Now(),
	).Scan(&c.ID)
}

func (r *cancellationRepository) GetByID(ctx context.Context, id int64) (*domain.Cancellation, error) {
	c := &domain.Cancellation{}
	query := `SELECT id, booking_id, reason_type, trigger_by, refund_date, created_date
	          FROM cancellations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.BookingID, &c.ReasonType, &c.Trigger, &c.RefundDate, &c.CreatedDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *cancellationRepository) SetRefundDate(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE cancellations SET refund_date = $1 WHERE id = $2 AND refund_date IS NULL`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}
