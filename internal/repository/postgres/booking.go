package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, listing_id, owner_id, taker_id, start_date, end_date, quantity,
	taker_price_cents, owner_price_cents, currency,
	accepted_date, paid_date, confirmed_date, validated_date,
	payment_used_date, payment_transfer_date, cancellation_payment_date,
	cancellation_id, stop_transfer_payment,
	authorization_ref, capture_ref, transfer_ref,
	created_date, updated_date`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.ListingID, &b.OwnerID, &b.TakerID, &b.StartDate, &b.EndDate, &b.Quantity,
		&b.TakerPriceCents, &b.OwnerPriceCents, &b.Currency,
		&b.AcceptedDate, &b.PaidDate, &b.ConfirmedDate, &b.ValidatedDate,
		&b.PaymentUsedDate, &b.PaymentTransferDate, &b.CancellationPaymentDate,
		&b.CancellationID, &b.StopTransferPayment,
		&b.AuthorizationRef, &b.CaptureRef, &b.TransferRef,
		&b.CreatedDate, &b.UpdatedDate,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (listing_id, owner_id, taker_id, start_date, end_date, quantity,
	          taker_price_cents, owner_price_cents, currency, stop_transfer_payment,
	          authorization_ref, capture_ref, transfer_ref, created_date, updated_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		b.ListingID, b.OwnerID, b.TakerID, b.StartDate, b.EndDate, b.Quantity,
		b.TakerPriceCents, b.OwnerPriceCents, b.Currency, b.StopTransferPayment,
		b.AuthorizationRef, b.CaptureRef, b.TransferRef, now,
	).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) ListActiveByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE listing_id = $1 AND cancellation_id IS NULL AND start_date IS NOT NULL
	          ORDER BY start_date`
	return r.queryBookings(ctx, query, listingID)
}

func (r *bookingRepository) ListExpirable(ctx context.Context, startedBefore, createdBefore time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE cancellation_id IS NULL
	            AND (accepted_date IS NULL OR paid_date IS NULL)
	            AND ((start_date IS NOT NULL AND start_date <= $1)
	              OR (start_date IS NULL AND created_date <= $2))
	          ORDER BY id`
	return r.queryBookings(ctx, query, startedBefore, createdBefore)
}

func (r *bookingRepository) ListCapturable(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE cancellation_id IS NULL
	            AND confirmed_date IS NOT NULL
	            AND validated_date IS NOT NULL
	            AND payment_used_date IS NULL
	          ORDER BY id`
	return r.queryBookings(ctx, query)
}

func (r *bookingRepository) ListTransferable(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE cancellation_id IS NULL
	            AND stop_transfer_payment = FALSE
	            AND payment_used_date IS NOT NULL
	            AND payment_transfer_date IS NULL
	            AND cancellation_payment_date IS NULL
	          ORDER BY id`
	return r.queryBookings(ctx, query)
}

func (r *bookingRepository) ListReversible(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + prefixColumns("b", bookingColumns) + ` FROM bookings b
	          JOIN cancellations c ON c.id = b.cancellation_id
	          WHERE b.paid_date IS NOT NULL
	            AND b.cancellation_payment_date IS NULL
	            AND b.payment_transfer_date IS NULL
	            AND c.reason_type = ANY($1)
	          ORDER BY b.id`
	return r.queryBookings(ctx, query, pq.Array(domain.ReversibleReasonTypes()))
}

// conditionalUpdate runs an UPDATE whose WHERE clause re-states a settlement
// gate and reports whether the row was still eligible.
func (r *bookingRepository) conditionalUpdate(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *bookingRepository) MarkAccepted(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE bookings SET accepted_date = $1, updated_date = $1
	          WHERE id = $2 AND accepted_date IS NULL AND cancellation_id IS NULL`
	return r.conditionalUpdate(ctx, query, at, id)
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id int64, authorizationRef string, at time.Time) (bool, error) {
	query := `UPDATE bookings SET paid_date = $1, authorization_ref = $2, updated_date = $1
	          WHERE id = $3 AND paid_date IS NULL AND cancellation_id IS NULL`
	return r.conditionalUpdate(ctx, query, at, authorizationRef, id)
}

func (r *bookingRepository) MarkConfirmed(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE bookings SET confirmed_date = $1, updated_date = $1
	          WHERE id = $2 AND confirmed_date IS NULL AND cancellation_id IS NULL`
	return r.conditionalUpdate(ctx, query, at, id)
}

func (r *bookingRepository) MarkValidated(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE bookings SET validated_date = $1, updated_date = $1
	          WHERE id = $2 AND validated_date IS NULL AND cancellation_id IS NULL`
	return r.conditionalUpdate(ctx, query, at, id)
}

func (r *bookingRepository) LinkCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error) {
	query := `UPDATE bookings SET cancellation_id = $1, updated_date = $2
	          WHERE id = $3 AND cancellation_id IS NULL`
	return r.conditionalUpdate(ctx, query, cancellationID, at, id)
}

func (r *bookingRepository) LinkExpiryCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error) {
	// Re-states the expiry gate so that a booking completed or captured after
	// the worker's stale read cannot be cancelled by it.
	query := `UPDATE bookings SET cancellation_id = $1, updated_date = $2
	          WHERE id = $3 AND cancellation_id IS NULL
	            AND (accepted_date IS NULL OR paid_date IS NULL)
	            AND payment_used_date IS NULL`
	return r.conditionalUpdate(ctx, query, cancellationID, at, id)
}

func (r *bookingRepository) MarkPaymentUsed(ctx context.Context, id int64, captureRef string, at time.Time) (bool, error) {
	query := `UPDATE bookings SET payment_used_date = $1, capture_ref = $2, updated_date = $1
	          WHERE id = $3 AND payment_used_date IS NULL AND cancellation_id IS NULL
	            AND confirmed_date IS NOT NULL AND validated_date IS NOT NULL`
	return r.conditionalUpdate(ctx, query, at, captureRef, id)
}

func (r *bookingRepository) MarkPaymentTransferred(ctx context.Context, id int64, transferRef string, at time.Time) (bool, error) {
	// cancellation_payment_date IS NULL keeps transfer and reversal mutually
	// exclusive at the database level.
	query := `UPDATE bookings SET payment_transfer_date = $1, transfer_ref = $2, updated_date = $1
	          WHERE id = $3 AND payment_transfer_date IS NULL
	            AND cancellation_payment_date IS NULL
	            AND cancellation_id IS NULL
	            AND stop_transfer_payment = FALSE
	            AND payment_used_date IS NOT NULL`
	return r.conditionalUpdate(ctx, query, at, transferRef, id)
}

func (r *bookingRepository) MarkCancellationPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE bookings SET cancellation_payment_date = $1, updated_date = $1
	          WHERE id = $2 AND cancellation_payment_date IS NULL
	            AND payment_transfer_date IS NULL
	            AND cancellation_id IS NOT NULL
	            AND paid_date IS NOT NULL`
	return r.conditionalUpdate(ctx, query, at, id)
}
