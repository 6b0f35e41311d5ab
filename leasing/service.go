package leasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTourSlotLimit = 5
	DefaultListLimit     = 20
)

// BookingConfirmation is the payload handed to a notifier after a booking
// commits.
type BookingConfirmation struct {
	BookingID   string    `json:"booking_id"`
	CommunityID string    `json:"community_id"`
	SlotTime    time.Time `json:"slot_time"`
	Lead        Lead      `json:"lead"`
}

// BookingNotifier receives best-effort booking confirmations. Delivery
// failures never fail the booking.
type BookingNotifier interface {
	NotifyBookingConfirmed(ctx context.Context, conf BookingConfirmation) error
}

// BookingResult is the typed outcome of a booking attempt. A losing race is
// a failure result, not an error.
type BookingResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Service executes the domain queries and booking transactions against a
// Store. Dependencies are injected at construction; the service itself holds
// no request state.
type Service struct {
	store    Store
	notifier BookingNotifier
	logger   zerolog.Logger
	now      func() time.Time
}

type ServiceOption func(*Service)

func WithNotifier(n BookingNotifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, logger zerolog.Logger, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// CheckAvailability lists available units, optionally filtered to an exact
// bedroom count.
func (s *Service) CheckAvailability(ctx context.Context, communityID string, bedrooms *int) ([]Unit, error) {
	units, err := s.store.AvailableUnits(ctx, communityID, bedrooms)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	s.logger.Debug().Str("community_id", communityID).Int("units", len(units)).Msg("availability checked")
	return units, nil
}

// CheckPetPolicy looks up the pet policy for a type, case-insensitively.
// ErrNotFound means no policy row exists; an existing policy may still
// disallow the pet.
func (s *Service) CheckPetPolicy(ctx context.Context, communityID, petType string) (*PetPolicy, error) {
	canonical := strings.ToLower(strings.TrimSpace(petType))
	policy, err := s.store.PetPolicy(ctx, communityID, canonical)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("check pet policy: %w", err)
	}
	return policy, nil
}

// GetPricing returns the pricing row with the latest effective date for the
// unit.
func (s *Service) GetPricing(ctx context.Context, communityID, unitID string) (*Pricing, error) {
	pricing, err := s.store.LatestPricing(ctx, communityID, unitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pricing: %w", err)
	}
	return pricing, nil
}

// GetAvailableTourSlots lists offerable future slot times ascending,
// truncated to limit (default 5).
func (s *Service) GetAvailableTourSlots(ctx context.Context, communityID string, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = DefaultTourSlotLimit
	}
	times, err := s.store.AvailableTourSlots(ctx, communityID, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("get tour slots: %w", err)
	}
	return times, nil
}

// BookTourSlot runs the capacity-safe reservation transaction. A full,
// closed, or unknown slot yields a failure result with reason
// "slot not available"; only storage faults surface as errors.
func (s *Service) BookTourSlot(ctx context.Context, communityID string, slotTime time.Time, lead Lead) (BookingResult, error) {
	if strings.TrimSpace(lead.Name) == "" || strings.TrimSpace(lead.Email) == "" {
		return BookingResult{Success: false, Reason: "lead name and email are required"}, nil
	}

	bookingID, err := s.store.BookTourSlot(ctx, communityID, slotTime, lead)
	if errors.Is(err, ErrSlotUnavailable) {
		return BookingResult{Success: false, Reason: "slot not available"}, nil
	}
	if err != nil {
		return BookingResult{}, fmt.Errorf("book tour slot: %w", err)
	}

	s.logger.Info().
		Str("booking_id", bookingID).
		Str("community_id", communityID).
		Time("slot_time", slotTime).
		Msg("tour slot booked")

	if s.notifier != nil {
		conf := BookingConfirmation{
			BookingID:   bookingID,
			CommunityID: communityID,
			SlotTime:    slotTime,
			Lead:        lead,
		}
		if err := s.notifier.NotifyBookingConfirmed(ctx, conf); err != nil {
			s.logger.Warn().Err(err).Str("booking_id", bookingID).Msg("booking notification failed")
		}
	}

	return BookingResult{Success: true, BookingID: bookingID}, nil
}

// CancelBooking cancels a confirmed booking. Unknown or already-cancelled
// bookings return false without touching the slot counter.
func (s *Service) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	ok, err := s.store.CancelBooking(ctx, bookingID)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	if ok {
		s.logger.Info().Str("booking_id", bookingID).Msg("booking cancelled")
	}
	return ok, nil
}

// ListBookings pages through bookings newest-first, optionally filtered by
// community.
func (s *Service) ListBookings(ctx context.Context, communityID string, limit, offset int) ([]Booking, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	bookings, err := s.store.ListBookings(ctx, communityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// AppendLog persists one request log entry.
func (s *Service) AppendLog(ctx context.Context, entry *RequestLog) error {
	return s.store.AppendLog(ctx, entry)
}
