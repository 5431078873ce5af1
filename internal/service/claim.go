package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/pkg/nftmeta"
	"github.com/attendly/attendance-api/internal/repository"
)

var (
	ErrInvalidClaimCode = errors.New("invalid claim code")
	ErrEventInactive    = errors.New("event is no longer active")
	ErrAlreadyClaimed   = repository.ErrClaimExists
	ErrSupplyExhausted  = repository.ErrSupplyExhausted
	ErrMissingUser      = errors.New("missing user identity")
	ErrMetadataPublish  = errors.New("failed to publish metadata")
)

type ClaimEventRepository interface {
	FindByClaimCode(ctx context.Context, code string) (domain.Event, error)
}

type ClaimUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ClaimRepository interface {
	HasClaimed(ctx context.Context, userID, eventID uint) (bool, error)
	CreateAtomic(ctx context.Context, claim domain.Claim) (domain.Claim, error)
	AttachMintReference(ctx context.Context, claimID uint, txHash string) error
}

type ContentPublisher interface {
	PublishJSON(ctx context.Context, doc interface{}) (string, error)
	ResolveGatewayURL(uri string) string
}

type TokenMinter interface {
	Mint(ctx context.Context, recipient, tokenURI string) (string, error)
}

// ClaimService turns a claim code into a durable attendance record. The
// ledger insert is the commit point: metadata publication before it is
// required, minting after it is best-effort.
type ClaimService struct {
	repo      ClaimRepository
	eventRepo ClaimEventRepository
	userRepo  ClaimUserRepository
	publisher ContentPublisher
	minter    TokenMinter
	baseURL   string
}

// NewClaimService wires the orchestrator. minter may be nil when no chain
// is configured; minting is then skipped for every claim.
func NewClaimService(repo ClaimRepository, eventRepo ClaimEventRepository, userRepo ClaimUserRepository, publisher ContentPublisher, minter TokenMinter, baseURL string) *ClaimService {
	return &ClaimService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		publisher: publisher,
		minter:    minter,
		baseURL:   baseURL,
	}
}

func (s *ClaimService) ClaimAttendance(ctx context.Context, userID uint, claimCode string) (domain.ClaimResult, error) {
	if userID == 0 {
		return domain.ClaimResult{}, ErrMissingUser
	}

	code := strings.ToUpper(strings.TrimSpace(claimCode))
	if code == "" {
		return domain.ClaimResult{}, ErrInvalidClaimCode
	}

	event, err := s.eventRepo.FindByClaimCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.ClaimResult{}, ErrInvalidClaimCode
		}

		return domain.ClaimResult{}, fmt.Errorf("s.eventRepo.FindByClaimCode -> %w", err)
	}

	if !event.IsActive {
		return domain.ClaimResult{}, ErrEventInactive
	}

	// Advisory pre-checks. The atomic insert below is authoritative for
	// both; these exist to fail fast without publishing metadata.
	if event.MaxSupply != nil && event.ClaimCount >= int64(*event.MaxSupply) {
		return domain.ClaimResult{}, ErrSupplyExhausted
	}

	claimed, err := s.repo.HasClaimed(ctx, userID, event.ID)
	if err != nil {
		return domain.ClaimResult{}, fmt.Errorf("s.repo.HasClaimed -> %w", err)
	}
	if claimed {
		return domain.ClaimResult{}, ErrAlreadyClaimed
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.ClaimResult{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	tokenID := fmt.Sprintf("%v-%v", event.ClaimCode, uuid.NewString()[:8])

	doc := nftmeta.Build(nftmeta.Params{
		EventName:     event.Name,
		EventDate:     event.Date,
		EventLocation: event.Location,
		AttendeeName:  user.DisplayName(),
		AttendeeEmail: user.Email,
		TokenID:       tokenID,
		EventImageURL: event.ImageURL,
		ExternalURL:   s.baseURL,
	})

	// Metadata publication is a prerequisite, not best-effort: a claim
	// without resolvable metadata is not a valid attendance record.
	metadataURI, err := s.publisher.PublishJSON(ctx, doc)
	if err != nil {
		zap.L().Error("publishing claim metadata failed",
			zap.String("token_id", tokenID),
			zap.Uint("event_id", event.ID),
			zap.Error(err))

		return domain.ClaimResult{}, ErrMetadataPublish
	}

	created, err := s.repo.CreateAtomic(ctx, domain.Claim{
		TokenID:     tokenID,
		MetadataURI: metadataURI,
		ImageURL:    s.publisher.ResolveGatewayURL(doc.Image),
		UserID:      userID,
		EventID:     event.ID,
		ClaimedAt:   time.Now().UTC(),
	})
	if err != nil {
		// Losing one of these races is expected under concurrent load;
		// the pre-checks above passed but the insert is authoritative.
		if errors.Is(err, repository.ErrClaimExists) {
			return domain.ClaimResult{}, ErrAlreadyClaimed
		}
		if errors.Is(err, repository.ErrSupplyExhausted) {
			return domain.ClaimResult{}, ErrSupplyExhausted
		}

		return domain.ClaimResult{}, fmt.Errorf("s.repo.CreateAtomic -> %w", err)
	}

	// Commit point reached: the claim exists and the operation is a
	// success from here on, whatever minting does.
	result := domain.ClaimResult{
		ClaimID:     created.ID,
		TokenID:     created.TokenID,
		MetadataURI: created.MetadataURI,
		ImageURL:    created.ImageURL,
		EventName:   event.Name,
		EventDate:   event.Date,
	}

	if s.minter == nil || user.WalletAddress == "" {
		return result, nil
	}

	txHash, err := s.minter.Mint(ctx, user.WalletAddress, created.MetadataURI)
	if err != nil {
		zap.L().Error("minting attendance token failed",
			zap.String("token_id", created.TokenID),
			zap.Uint("claim_id", created.ID),
			zap.Error(err))

		return result, nil
	}

	if err = s.repo.AttachMintReference(ctx, created.ID, txHash); err != nil {
		zap.L().Error("attaching mint reference failed",
			zap.Uint("claim_id", created.ID),
			zap.String("tx_hash", txHash),
			zap.Error(err))

		return result, nil
	}

	result.TxHash = &txHash

	return result, nil
}
