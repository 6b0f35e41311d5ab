package leasing

import (
	"context"
	"sync"
	"testing"
	"time"
)

func seedUnits(store *MemoryStore) {
	store.AddUnit(Unit{ID: "u3", CommunityID: "sunset-ridge", UnitNumber: "30C", Bedrooms: 1, Available: true})
	store.AddUnit(Unit{ID: "u1", CommunityID: "sunset-ridge", UnitNumber: "12B", Bedrooms: 2, Available: true})
	store.AddUnit(Unit{ID: "u2", CommunityID: "sunset-ridge", UnitNumber: "14A", Bedrooms: 2, Available: false})
	store.AddUnit(Unit{ID: "u4", CommunityID: "oak-park", UnitNumber: "01A", Bedrooms: 2, Available: true})
}

func TestAvailableUnitsFiltersAndOrders(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	seedUnits(store)

	units, err := store.AvailableUnits(context.Background(), "sunset-ridge", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].UnitNumber != "12B" || units[1].UnitNumber != "30C" {
		t.Fatalf("wrong order: %s, %s", units[0].UnitNumber, units[1].UnitNumber)
	}

	bedrooms := 2
	units, err = store.AvailableUnits(context.Background(), "sunset-ridge", &bedrooms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 || units[0].UnitNumber != "12B" {
		t.Fatalf("bedroom filter failed: %+v", units)
	}
}

func TestAvailableUnitsEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	units, err := store.AvailableUnits(context.Background(), "nowhere", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected empty result, got %d", len(units))
	}
}

func TestPetPolicyNotFoundVsDisallowed(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.AddPetPolicy(PetPolicy{CommunityID: "sunset-ridge", PetType: "Dog", Allowed: true, Fee: 100, Restrictions: []string{"max 2 pets", "breed restrictions apply"}})
	store.AddPetPolicy(PetPolicy{CommunityID: "sunset-ridge", PetType: "ferret", Allowed: false})

	policy, err := store.PetPolicy(context.Background(), "sunset-ridge", "dog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !policy.Allowed || policy.Fee != 100 || len(policy.Restrictions) != 2 {
		t.Fatalf("unexpected policy: %+v", policy)
	}

	policy, err = store.PetPolicy(context.Background(), "sunset-ridge", "ferret")
	if err != nil {
		t.Fatalf("disallowed policy must still be found: %v", err)
	}
	if policy.Allowed {
		t.Fatal("ferret policy should disallow")
	}

	if _, err := store.PetPolicy(context.Background(), "sunset-ridge", "snake"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestPricingWins(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.AddPricing(Pricing{CommunityID: "sunset-ridge", UnitID: "12B", EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Rent: 1800})
	store.AddPricing(Pricing{CommunityID: "sunset-ridge", UnitID: "12B", EffectiveDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Rent: 1950, SpecialOffer: "first month free"})
	store.AddPricing(Pricing{CommunityID: "sunset-ridge", UnitID: "12B", EffectiveDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Rent: 1700})

	pricing, err := store.LatestPricing(context.Background(), "sunset-ridge", "12B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pricing.Rent != 1950 {
		t.Fatalf("expected latest rent 1950, got %v", pricing.Rent)
	}

	if _, err := store.LatestPricing(context.Background(), "sunset-ridge", "99Z"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAvailableTourSlotsOrderingAndLimit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.AddTourSlot(TourSlot{CommunityID: "sunset-ridge", SlotTime: now.Add(48 * time.Hour), Available: true, MaxCapacity: 4})
	store.AddTourSlot(TourSlot{CommunityID: "sunset-ridge", SlotTime: now.Add(24 * time.Hour), Available: true, MaxCapacity: 4})
	// past, full, and closed slots are never offerable
	store.AddTourSlot(TourSlot{CommunityID: "sunset-ridge", SlotTime: now.Add(-time.Hour), Available: true, MaxCapacity: 4})
	store.AddTourSlot(TourSlot{CommunityID: "sunset-ridge", SlotTime: now.Add(72 * time.Hour), Available: true, MaxCapacity: 2, CurrentBookings: 2})
	store.AddTourSlot(TourSlot{CommunityID: "sunset-ridge", SlotTime: now.Add(96 * time.Hour), Available: false, MaxCapacity: 4})

	times, err := store.AvailableTourSlots(context.Background(), "sunset-ridge", now, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected 2 slots, got %d: %v", len(times), times)
	}
	if !times[0].Before(times[1]) {
		t.Fatalf("slots not ascending: %v", times)
	}

	times, err = store.AvailableTourSlots(context.Background(), "sunset-ridge", now, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 1 || !times[0].Equal(now.Add(24*time.Hour)) {
		t.Fatalf("limit truncation failed: %v", times)
	}
}

func TestBookTourSlotRace(t *testing.T) {
	t.Parallel()

	slotTime := time.Date(2025, 8, 28, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	slotID := store.AddTourSlot(TourSlot{
		CommunityID:     "sunset-ridge",
		SlotTime:        slotTime,
		Available:       true,
		MaxCapacity:     3,
		CurrentBookings: 2,
	})

	lead := Lead{Name: "Jordan Reyes", Email: "jordan@example.com"}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = store.BookTourSlot(context.Background(), "sunset-ridge", slotTime, lead)
		}(i)
	}
	wg.Wait()

	successes, losses := 0, 0
	for _, err := range results {
		switch err {
		case nil:
			successes++
		case ErrSlotUnavailable:
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d losses", successes, losses)
	}

	slot, ok := store.Slot(slotID)
	if !ok {
		t.Fatal("slot disappeared")
	}
	if slot.CurrentBookings != slot.MaxCapacity {
		t.Fatalf("counter must equal capacity, got %d/%d", slot.CurrentBookings, slot.MaxCapacity)
	}
}

func TestBookTourSlotUnknownSlot(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.BookTourSlot(context.Background(), "sunset-ridge", time.Now().Add(time.Hour), Lead{Name: "A", Email: "a@b.c"})
	if err != ErrSlotUnavailable {
		t.Fatalf("nonexistent slot must look unavailable, got %v", err)
	}
}

func TestCancelBookingIdempotent(t *testing.T) {
	t.Parallel()

	slotTime := time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	slotID := store.AddTourSlot(TourSlot{
		CommunityID: "sunset-ridge",
		SlotTime:    slotTime,
		Available:   true,
		MaxCapacity: 4,
	})

	bookingID, err := store.BookTourSlot(context.Background(), "sunset-ridge", slotTime, Lead{Name: "Sam", Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	ok, err := store.CancelBooking(context.Background(), bookingID)
	if err != nil || !ok {
		t.Fatalf("first cancel should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = store.CancelBooking(context.Background(), bookingID)
	if err != nil || ok {
		t.Fatalf("second cancel must be a no-op: ok=%v err=%v", ok, err)
	}

	slot, _ := store.Slot(slotID)
	if slot.CurrentBookings != 0 {
		t.Fatalf("counter decremented more than once: %d", slot.CurrentBookings)
	}

	ok, err = store.CancelBooking(context.Background(), "no-such-booking")
	if err != nil || ok {
		t.Fatalf("unknown booking must return false: ok=%v err=%v", ok, err)
	}
}

func TestListBookingsNewestFirstWithPagination(t *testing.T) {
	t.Parallel()

	slotTime := time.Date(2025, 9, 2, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.AddTourSlot(TourSlot{CommunityID: "sunset-ridge", SlotTime: slotTime, Available: true, MaxCapacity: 10})

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := store.BookTourSlot(context.Background(), "sunset-ridge", slotTime, Lead{Name: "L", Email: "l@example.com"})
		if err != nil {
			t.Fatalf("booking %d failed: %v", i, err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond) // distinct creation times
	}

	bookings, err := store.ListBookings(context.Background(), "sunset-ridge", 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].ID != ids[2] {
		t.Fatalf("expected newest booking first")
	}

	bookings, err = store.ListBookings(context.Background(), "sunset-ridge", 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != ids[0] {
		t.Fatalf("offset paging failed: %+v", bookings)
	}

	bookings, err = store.ListBookings(context.Background(), "other-community", 10, 0)
	if err != nil || len(bookings) != 0 {
		t.Fatalf("community filter failed: %v %d", err, len(bookings))
	}
}
