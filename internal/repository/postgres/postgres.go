package postgres

import (
	"database/sql"

	"sharespot-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.CancellationRepository
	repository.ListingRepository
	repository.ListingAvailabilityRepository
	repository.AssessmentRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                            db,
		BookingRepository:             NewBookingRepository(db),
		CancellationRepository:        NewCancellationRepository(db),
		ListingRepository:             NewListingRepository(db),
		ListingAvailabilityRepository: NewListingAvailabilityRepository(db),
		AssessmentRepository:          NewAssessmentRepository(db),
		UserRepository:                NewUserRepository(db),
	}
}
