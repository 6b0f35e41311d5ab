package leasing

import (
	"time"

	"github.com/uptrace/bun"
)

// Community is immutable reference data describing one property.
type Community struct {
	bun.BaseModel `bun:"table:communities"`

	ID      string `bun:"id,pk" json:"id"`
	Name    string `bun:"name,notnull" json:"name"`
	Address string `bun:"address" json:"address"`
	Phone   string `bun:"phone" json:"phone"`
	Email   string `bun:"email" json:"email"`
}

// Unit is a rentable apartment inside a community. Only the availability
// flag changes over time, and only through external leasing operations.
type Unit struct {
	bun.BaseModel `bun:"table:units"`

	ID          string  `bun:"id,pk" json:"id"`
	CommunityID string  `bun:"community_id,notnull" json:"community_id"`
	UnitNumber  string  `bun:"unit_number,notnull" json:"unit_number"`
	Bedrooms    int     `bun:"bedrooms,notnull" json:"bedrooms"`
	Bathrooms   float64 `bun:"bathrooms,notnull" json:"bathrooms"`
	SquareFeet  int     `bun:"square_feet" json:"square_feet"`
	Description string  `bun:"description" json:"description"`
	Available   bool    `bun:"available,notnull" json:"available"`
}

// PetPolicy is keyed by (community, pet type). A policy row can exist and
// still disallow the pet type; that is not the same as no policy at all.
type PetPolicy struct {
	bun.BaseModel `bun:"table:pet_policies"`

	CommunityID  string   `bun:"community_id,pk" json:"community_id"`
	PetType      string   `bun:"pet_type,pk" json:"pet_type"`
	Allowed      bool     `bun:"allowed,notnull" json:"allowed"`
	Fee          float64  `bun:"fee" json:"fee"`
	Notes        string   `bun:"notes" json:"notes"`
	Restrictions []string `bun:"restrictions,array" json:"restrictions"`
}

// Pricing carries the rent terms for one unit as of an effective date.
// Multiple rows may exist per unit; the latest effective date wins.
type Pricing struct {
	bun.BaseModel `bun:"table:pricing"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	CommunityID    string    `bun:"community_id,notnull" json:"community_id"`
	UnitID         string    `bun:"unit_id,notnull" json:"unit_id"`
	EffectiveDate  time.Time `bun:"effective_date,notnull" json:"effective_date"`
	Rent           float64   `bun:"rent,notnull" json:"rent"`
	Deposit        float64   `bun:"deposit" json:"deposit"`
	ApplicationFee float64   `bun:"application_fee" json:"application_fee"`
	AdminFee       float64   `bun:"admin_fee" json:"admin_fee"`
	SpecialOffer   string    `bun:"special_offer" json:"special_offer,omitempty"`
}

// TourSlot is a bookable tour timestamp with fixed capacity.
// Invariant: 0 <= CurrentBookings <= MaxCapacity. A slot is offerable only
// while Available && CurrentBookings < MaxCapacity && SlotTime is in the
// future. CurrentBookings is mutated exclusively by the booking and
// cancellation transactions.
type TourSlot struct {
	bun.BaseModel `bun:"table:tour_slots"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	CommunityID     string    `bun:"community_id,notnull" json:"community_id"`
	SlotTime        time.Time `bun:"slot_time,notnull" json:"slot_time"`
	Available       bool      `bun:"available,notnull" json:"available"`
	MaxCapacity     int       `bun:"max_capacity,notnull" json:"max_capacity"`
	CurrentBookings int       `bun:"current_bookings,notnull,default:0" json:"current_bookings"`
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Lead is the contact identity attached to an inquiry or booking.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Booking reserves one seat on a tour slot. Created confirmed by the booking
// transaction; cancelled is terminal.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:booking"`

	ID        string        `bun:"id,pk" json:"id"`
	SlotID    int64         `bun:"slot_id,notnull" json:"slot_id"`
	LeadName  string        `bun:"lead_name,notnull" json:"lead_name"`
	LeadEmail string        `bun:"lead_email,notnull" json:"lead_email"`
	LeadPhone string        `bun:"lead_phone" json:"lead_phone,omitempty"`
	Status    BookingStatus `bun:"status,notnull" json:"status"`
	CreatedAt time.Time     `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time     `bun:"updated_at,notnull" json:"updated_at"`
}

// RequestLog is an append-only record of one tool execution or one inquiry
// outcome. It is written by the core and never read back.
type RequestLog struct {
	bun.BaseModel `bun:"table:request_logs"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	CorrelationID    string    `bun:"correlation_id,notnull" json:"correlation_id"`
	Tool             string    `bun:"tool" json:"tool,omitempty"`
	Args             string    `bun:"args,type:jsonb" json:"args,omitempty"`
	Result           string    `bun:"result,type:jsonb" json:"result,omitempty"`
	Error            string    `bun:"error" json:"error,omitempty"`
	LatencyMS        int64     `bun:"latency_ms" json:"latency_ms"`
	PromptTokens     int       `bun:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `bun:"completion_tokens" json:"completion_tokens"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"created_at"`
}
