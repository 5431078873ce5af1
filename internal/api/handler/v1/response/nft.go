package response

import (
	"time"

	"github.com/attendly/attendance-api/internal/domain"
)

type NFT struct {
	ID          uint      `json:"id"`
	TokenID     string    `json:"token_id"`
	MetadataURI string    `json:"metadata_uri"`
	ImageURL    string    `json:"image_url"`
	TxHash      *string   `json:"tx_hash,omitempty"`
	ClaimedAt   time.Time `json:"claimed_at"`
	Event       NFTEvent  `json:"event"`
}

type NFTEvent struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Location string    `json:"location,omitempty"`
}

type NFTListResponse struct {
	NFTs []NFT `json:"nfts"`
}

func NewNFT(claim domain.Claim) NFT {
	return NFT{
		ID:          claim.ID,
		TokenID:     claim.TokenID,
		MetadataURI: claim.MetadataURI,
		ImageURL:    claim.ImageURL,
		TxHash:      claim.TxHash,
		ClaimedAt:   claim.ClaimedAt,
		Event: NFTEvent{
			ID:       claim.Event.ID,
			Name:     claim.Event.Name,
			Date:     claim.Event.Date,
			Location: claim.Event.Location,
		},
	}
}

func NewNFTListResponse(claims []domain.Claim) NFTListResponse {
	nfts := make([]NFT, 0, len(claims))
	for _, c := range claims {
		nfts = append(nfts, NewNFT(c))
	}

	return NFTListResponse{
		NFTs: nfts,
	}
}
