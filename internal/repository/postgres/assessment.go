package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/repository"
)

type assessmentRepository struct {
	db *sql.DB
}

func NewAssessmentRepository(db *sql.DB) repository.AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) GetInputAssessment(ctx context.Context, bookingID int64) (*domain.Assessment, error) {
	a := &domain.Assessment{}
	query := `SELECT id, booking_id, signed_date FROM assessments
	          WHERE booking_id = $1 AND kind = 'input'`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&a.ID, &a.BookingID, &a.SignedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
