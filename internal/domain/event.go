package domain

import "time"

// Event is a claimable occasion. Its claim code is unique and immutable;
// the only mutation after creation is the active toggle.
type Event struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	ClaimCode   string    `json:"claim_code"`
	IsActive    bool      `json:"is_active"`
	MaxSupply   *int      `json:"max_supply,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ClaimCount  int64     `json:"claim_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
