package leasing

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound marks a lookup with no matching row. It is a first-class
	// outcome, distinct from a storage fault.
	ErrNotFound = errors.New("not found")

	// ErrSlotUnavailable is the expected outcome of a losing booking race,
	// a full or closed slot, or a slot that never existed. Callers cannot
	// distinguish those cases.
	ErrSlotUnavailable = errors.New("slot not available")
)

// Store is the persistence contract shared by the Postgres and in-memory
// implementations. Any error other than the sentinels above is a storage
// fault.
type Store interface {
	// AvailableUnits returns available units in a community, optionally
	// filtered to an exact bedroom count, ordered by unit number ascending.
	// An empty result is not an error.
	AvailableUnits(ctx context.Context, communityID string, bedrooms *int) ([]Unit, error)

	// PetPolicy looks up the policy for a pet type. The pet type must
	// already be canonicalized to lower case by the caller.
	PetPolicy(ctx context.Context, communityID, petType string) (*PetPolicy, error)

	// LatestPricing returns the pricing row with the maximum effective date
	// for the (community, unit) pair.
	LatestPricing(ctx context.Context, communityID, unitID string) (*Pricing, error)

	// AvailableTourSlots lists offerable slot times strictly after now,
	// ascending, truncated to limit.
	AvailableTourSlots(ctx context.Context, communityID string, now time.Time, limit int) ([]time.Time, error)

	// BookTourSlot atomically reserves one seat on the slot matching
	// (communityID, slotTime) and returns the new booking id. The
	// read-modify-write on the capacity counter is serialized per slot.
	BookTourSlot(ctx context.Context, communityID string, slotTime time.Time, lead Lead) (string, error)

	// CancelBooking transitions a confirmed booking to cancelled and
	// releases its seat. Returns false for unknown or already-cancelled
	// bookings without touching the counter.
	CancelBooking(ctx context.Context, bookingID string) (bool, error)

	// ListBookings returns bookings ordered by creation time descending,
	// optionally filtered by community, with limit/offset pagination.
	ListBookings(ctx context.Context, communityID string, limit, offset int) ([]Booking, error)

	// AppendLog persists one request log entry.
	AppendLog(ctx context.Context, entry *RequestLog) error
}
