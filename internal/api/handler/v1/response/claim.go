package response

import (
	"time"

	"github.com/attendly/attendance-api/internal/domain"
)

type ClaimedNFT struct {
	ID          uint       `json:"id"`
	TokenID     string     `json:"token_id"`
	MetadataURI string     `json:"metadata_uri"`
	ImageURL    string     `json:"image_url"`
	TxHash      *string    `json:"tx_hash,omitempty"`
	Event       ClaimEvent `json:"event"`
}

type ClaimEvent struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type ClaimResponse struct {
	Success bool       `json:"success"`
	NFT     ClaimedNFT `json:"nft"`
}

func NewClaimResponse(result domain.ClaimResult) ClaimResponse {
	return ClaimResponse{
		Success: true,
		NFT: ClaimedNFT{
			ID:          result.ClaimID,
			TokenID:     result.TokenID,
			MetadataURI: result.MetadataURI,
			ImageURL:    result.ImageURL,
			TxHash:      result.TxHash,
			Event: ClaimEvent{
				Name: result.EventName,
				Date: result.EventDate,
			},
		},
	}
}
