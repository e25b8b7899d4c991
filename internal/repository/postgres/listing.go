package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT id, owner_id, name, quantity, created_date FROM listings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.OwnerID, &l.Name, &l.Quantity, &l.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

type listingAvailabilityRepository struct {
	db *sql.DB
}

func NewListingAvailabilityRepository(db *sql.DB) repository.ListingAvailabilityRepository {
	return &listingAvailabilityRepository{db: db}
}

func (r *listingAvailabilityRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.ListingAvailability, error) {
	query := `SELECT id, listing_id, start_date, end_date, quantity, available
	          FROM listing_availabilities WHERE listing_id = $1 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var avails []domain.ListingAvailability
	for rows.Next() {
		var a domain.ListingAvailability
		if err := rows.Scan(&a.ID, &a.ListingID, &a.StartDate, &a.EndDate, &a.Quantity, &a.Available); err != nil {
			return nil, err
		}
		avails = append(avails, a)
	}
	return avails, rows.Err()
}
