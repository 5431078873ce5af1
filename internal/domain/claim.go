package domain

import "time"

// Claim is the durable attendance record produced by a successful claim.
// TxHash is the only field that may change after creation: it is filled in
// when minting eventually succeeds.
type Claim struct {
	ID          uint      `json:"id"`
	TokenID     string    `json:"token_id"`
	MetadataURI string    `json:"metadata_uri"`
	ImageURL    string    `json:"image_url"`
	UserID      uint      `json:"user_id"`
	EventID     uint      `json:"event_id"`
	TxHash      *string   `json:"tx_hash,omitempty"`
	ClaimedAt   time.Time `json:"claimed_at"`

	Event Event `json:"event,omitempty"`
	User  User  `json:"-"`
}

// ClaimResult is what a successful claim returns to the caller. TxHash is
// nil when minting was skipped or failed; the claim is still a success.
type ClaimResult struct {
	ClaimID     uint      `json:"id"`
	TokenID     string    `json:"token_id"`
	MetadataURI string    `json:"metadata_uri"`
	ImageURL    string    `json:"image_url"`
	EventName   string    `json:"event_name"`
	EventDate   time.Time `json:"event_date"`
	TxHash      *string   `json:"tx_hash,omitempty"`
}
