package leasing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresConfig configures the bun connection to the leasing database.
type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// PostgresStore persists the leasing dataset in Postgres. Capacity safety on
// tour slots relies on row-level locks (SELECT ... FOR UPDATE) inside a
// transaction.
type PostgresStore struct {
	db *bun.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)

	return &PostgresStore{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// DB exposes the underlying bun handle for migrations and seeding.
func (s *PostgresStore) DB() *bun.DB {
	return s.db
}

func (s *PostgresStore) AvailableUnits(ctx context.Context, communityID string, bedrooms *int) ([]Unit, error) {
	units := make([]Unit, 0)
	q := s.db.NewSelect().Model(&units).
		Where("community_id = ?", communityID).
		Where("available = TRUE").
		Order("unit_number ASC")
	if bedrooms != nil {
		q = q.Where("bedrooms = ?", *bedrooms)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select available units: %w", err)
	}
	return units, nil
}

func (s *PostgresStore) PetPolicy(ctx context.Context, communityID, petType string) (*PetPolicy, error) {
	policy := new(PetPolicy)
	err := s.db.NewSelect().Model(policy).
		Where("community_id = ?", communityID).
		Where("lower(pet_type) = ?", petType).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select pet policy: %w", err)
	}
	return policy, nil
}

func (s *PostgresStore) LatestPricing(ctx context.Context, communityID, unitID string) (*Pricing, error) {
	pricing := new(Pricing)
	err := s.db.NewSelect().Model(pricing).
		Where("community_id = ?", communityID).
		Where("unit_id = ?", unitID).
		Order("effective_date DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select pricing: %w", err)
	}
	return pricing, nil
}

func (s *PostgresStore) AvailableTourSlots(ctx context.Context, communityID string, now time.Time, limit int) ([]time.Time, error) {
	slots := make([]TourSlot, 0, limit)
	err := s.db.NewSelect().Model(&slots).
		Where("community_id = ?", communityID).
		Where("available = TRUE").
		Where("current_bookings < max_capacity").
		Where("slot_time > ?", now).
		Order("slot_time ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select tour slots: %w", err)
	}

	times := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.SlotTime)
	}
	return times, nil
}

// BookTourSlot locks the target slot row, so two racing attempts on the last
// seat resolve to one success and one ErrSlotUnavailable. A slot that is
// full, closed, or nonexistent fails identically.
func (s *PostgresStore) BookTourSlot(ctx context.Context, communityID string, slotTime time.Time, lead Lead) (string, error) {
	bookingID := uuid.NewString()

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		slot := new(TourSlot)
		err := tx.NewSelect().Model(slot).
			Where("community_id = ?", communityID).
			Where("slot_time = ?", slotTime).
			Where("available = TRUE").
			Where("current_bookings < max_capacity").
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSlotUnavailable
		}
		if err != nil {
			return fmt.Errorf("lock tour slot: %w", err)
		}

		_, err = tx.NewUpdate().Model((*TourSlot)(nil)).
			Set("current_bookings = current_bookings + 1").
			Where("id = ?", slot.ID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("increment slot bookings: %w", err)
		}

		now := time.Now().UTC()
		booking := &Booking{
			ID:        bookingID,
			SlotID:    slot.ID,
			LeadName:  lead.Name,
			LeadEmail: lead.Email,
			LeadPhone: lead.Phone,
			Status:    BookingConfirmed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.NewInsert().Model(booking).Exec(ctx); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return bookingID, nil
}

func (s *PostgresStore) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	cancelled := false

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		booking := new(Booking)
		err := tx.NewSelect().Model(booking).
			Where("id = ?", bookingID).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if booking.Status == BookingCancelled {
			return nil
		}

		_, err = tx.NewUpdate().Model((*Booking)(nil)).
			Set("status = ?", BookingCancelled).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", bookingID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}

		_, err = tx.NewUpdate().Model((*TourSlot)(nil)).
			Set("current_bookings = GREATEST(current_bookings - 1, 0)").
			Where("id = ?", booking.SlotID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("decrement slot bookings: %w", err)
		}

		cancelled = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return cancelled, nil
}

func (s *PostgresStore) ListBookings(ctx context.Context, communityID string, limit, offset int) ([]Booking, error) {
	bookings := make([]Booking, 0)
	q := s.db.NewSelect().Model(&bookings).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if communityID != "" {
		q = q.Join("JOIN tour_slots AS slot ON slot.id = booking.slot_id").
			Where("slot.community_id = ?", communityID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	return bookings, nil
}

func (s *PostgresStore) AppendLog(ctx context.Context, entry *RequestLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}
