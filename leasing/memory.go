package leasing

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the leasing dataset in process memory. It backs local
// development and tests. A single mutex serializes the booking and
// cancellation read-modify-write sequences, standing in for the row locks
// the Postgres store gets from the database.
type MemoryStore struct {
	mu sync.Mutex

	units      []Unit
	policies   []PetPolicy
	pricing    []Pricing
	slots      []TourSlot
	bookings   map[string]*Booking
	logs       []RequestLog
	nextSlotID int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:   make(map[string]*Booking),
		nextSlotID: 1,
	}
}

func (s *MemoryStore) AddUnit(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = append(s.units, u)
}

func (s *MemoryStore) AddPetPolicy(p PetPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = append(s.policies, p)
}

func (s *MemoryStore) AddPricing(p Pricing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pricing = append(s.pricing, p)
}

// AddTourSlot registers a slot and returns its assigned id.
func (s *MemoryStore) AddTourSlot(slot TourSlot) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot.ID = s.nextSlotID
	s.nextSlotID++
	s.slots = append(s.slots, slot)
	return slot.ID
}

// Slot returns a copy of the slot by id, for inspecting capacity counters.
func (s *MemoryStore) Slot(id int64) (TourSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return TourSlot{}, false
}

// Logs returns a copy of all appended log entries.
func (s *MemoryStore) Logs() []RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RequestLog, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *MemoryStore) AvailableUnits(ctx context.Context, communityID string, bedrooms *int) ([]Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Unit, 0)
	for _, u := range s.units {
		if u.CommunityID != communityID || !u.Available {
			continue
		}
		if bedrooms != nil && u.Bedrooms != *bedrooms {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UnitNumber < out[j].UnitNumber
	})
	return out, nil
}

func (s *MemoryStore) PetPolicy(ctx context.Context, communityID, petType string) (*PetPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.policies {
		if p.CommunityID == communityID && strings.ToLower(p.PetType) == petType {
			policy := p
			return &policy, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) LatestPricing(ctx context.Context, communityID, unitID string) (*Pricing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *Pricing
	for i := range s.pricing {
		p := &s.pricing[i]
		if p.CommunityID != communityID || p.UnitID != unitID {
			continue
		}
		if latest == nil || p.EffectiveDate.After(latest.EffectiveDate) {
			latest = p
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	pricing := *latest
	return &pricing, nil
}

func (s *MemoryStore) AvailableTourSlots(ctx context.Context, communityID string, now time.Time, limit int) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	times := make([]time.Time, 0, limit)
	for _, slot := range s.slots {
		if slot.CommunityID != communityID || !slot.Available {
			continue
		}
		if slot.CurrentBookings >= slot.MaxCapacity || !slot.SlotTime.After(now) {
			continue
		}
		times = append(times, slot.SlotTime)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	if len(times) > limit {
		times = times[:limit]
	}
	return times, nil
}

func (s *MemoryStore) BookTourSlot(ctx context.Context, communityID string, slotTime time.Time, lead Lead) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.slots {
		slot := &s.slots[i]
		if slot.CommunityID != communityID || !slot.SlotTime.Equal(slotTime) {
			continue
		}
		if !slot.Available || slot.CurrentBookings >= slot.MaxCapacity {
			return "", ErrSlotUnavailable
		}

		slot.CurrentBookings++
		now := time.Now().UTC()
		booking := &Booking{
			ID:        uuid.NewString(),
			SlotID:    slot.ID,
			LeadName:  lead.Name,
			LeadEmail: lead.Email,
			LeadPhone: lead.Phone,
			Status:    BookingConfirmed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.bookings[booking.ID] = booking
		return booking.ID, nil
	}
	return "", ErrSlotUnavailable
}

func (s *MemoryStore) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[bookingID]
	if !ok || booking.Status == BookingCancelled {
		return false, nil
	}

	booking.Status = BookingCancelled
	booking.UpdatedAt = time.Now().UTC()
	for i := range s.slots {
		if s.slots[i].ID == booking.SlotID {
			if s.slots[i].CurrentBookings > 0 {
				s.slots[i].CurrentBookings--
			}
			break
		}
	}
	return true, nil
}

func (s *MemoryStore) ListBookings(ctx context.Context, communityID string, limit, offset int) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slotCommunity := make(map[int64]string, len(s.slots))
	for _, slot := range s.slots {
		slotCommunity[slot.ID] = slot.CommunityID
	}

	out := make([]Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if communityID != "" && slotCommunity[b.SlotID] != communityID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Booking{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) AppendLog(ctx context.Context, entry *RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.ID = int64(len(s.logs) + 1)
	s.logs = append(s.logs, *entry)
	return nil
}
