package domain

import "time"

type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusLive     EventStatus = "live"
	EventStatusSoldOut  EventStatus = "sold-out"
	EventStatusEnded    EventStatus = "ended"
)

// Event holds per-event ticketing policy and the current supply counter.
// Status is derived from the counter and the schedule, never stored.
type Event struct {
	ID                       string
	Name                     string
	Venue                    string
	Description              string
	Organizer                string
	TotalSupply              int
	SoldCount                int
	BasePrice                int64
	PerWalletLimit           int
	ResalePriceCapPct        int
	RoyaltyPlatformPct       int
	RoyaltyArtistPct         int
	ResaleLockedUntilSoldOut bool
	StartsAt                 time.Time
	EndsAt                   time.Time
	CreatedAt                time.Time
}

// Status derives the event lifecycle state. Sold-out takes precedence over
// the schedule: sold-out holds exactly while soldCount == totalSupply.
func (e Event) Status(now time.Time) EventStatus {
	if e.SoldCount >= e.TotalSupply {
		return EventStatusSoldOut
	}
	if now.Before(e.StartsAt) {
		return EventStatusUpcoming
	}
	if now.After(e.EndsAt) {
		return EventStatusEnded
	}
	return EventStatusLive
}

// Remaining reports unsold primary supply.
func (e Event) Remaining() int {
	return e.TotalSupply - e.SoldCount
}

// ResaleOpen reports whether secondary listings are currently permitted.
// Resale is blocked only while the lock is set and primary supply remains.
func (e Event) ResaleOpen() bool {
	return !e.ResaleLockedUntilSoldOut || e.SoldCount >= e.TotalSupply
}

// MaxResalePrice is the highest listing price the cap allows for a ticket
// with the given last sale price. The boundary is inclusive.
func (e Event) MaxResalePrice(lastSalePrice int64) int64 {
	return lastSalePrice * int64(100+e.ResalePriceCapPct) / 100
}

// Validate checks invariants for a new event.
func (e Event) Validate() error {
	if e.Name == "" {
		return ErrEventNameRequired
	}
	if e.TotalSupply < 1 {
		return ErrInvalidSupply
	}
	if e.PerWalletLimit < 1 {
		return ErrInvalidWalletLimit
	}
	if e.BasePrice < 0 {
		return ErrInvalidPrice
	}
	if e.ResalePriceCapPct < 0 {
		return ErrInvalidRoyalty
	}
	if e.RoyaltyPlatformPct < 0 || e.RoyaltyArtistPct < 0 ||
		e.RoyaltyPlatformPct+e.RoyaltyArtistPct > 100 {
		return ErrInvalidRoyalty
	}
	if !e.EndsAt.After(e.StartsAt) {
		return ErrInvalidSchedule
	}
	return nil
}
