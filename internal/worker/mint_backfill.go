// Package worker hosts background jobs. Minting is best-effort at claim
// time; the backfill job here retries it later so a transient chain outage
// never permanently strands a claim without its token.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/attendly/attendance-api/internal/domain"
)

type BackfillClaimRepository interface {
	FindUnminted(ctx context.Context, limit int) ([]domain.Claim, error)
	AttachMintReference(ctx context.Context, claimID uint, txHash string) error
}

type BackfillMinter interface {
	Mint(ctx context.Context, recipient, tokenURI string) (string, error)
}

type MintBackfiller struct {
	repo      BackfillClaimRepository
	minter    BackfillMinter
	interval  time.Duration
	batchSize int
	scheduler gocron.Scheduler
}

func NewMintBackfiller(repo BackfillClaimRepository, minter BackfillMinter, interval time.Duration, batchSize int) *MintBackfiller {
	if batchSize <= 0 {
		batchSize = 25
	}

	return &MintBackfiller{
		repo:      repo,
		minter:    minter,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *MintBackfiller) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.run),
	)
	if err != nil {
		return fmt.Errorf("scheduler.NewJob -> %w", err)
	}

	scheduler.Start()
	w.scheduler = scheduler

	return nil
}

func (w *MintBackfiller) Stop() error {
	if w.scheduler == nil {
		return nil
	}

	return w.scheduler.Shutdown()
}

// run re-attempts minting for unminted claims. Per-claim failures are
// logged and skipped; the claims stay eligible for the next pass.
func (w *MintBackfiller) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	claims, err := w.repo.FindUnminted(ctx, w.batchSize)
	if err != nil {
		zap.L().Error("mint backfill: listing unminted claims failed", zap.Error(err))
		return
	}

	for _, claim := range claims {
		txHash, err := w.minter.Mint(ctx, claim.User.WalletAddress, claim.MetadataURI)
		if err != nil {
			zap.L().Warn("mint backfill: mint failed",
				zap.Uint("claim_id", claim.ID),
				zap.String("token_id", claim.TokenID),
				zap.Error(err))
			continue
		}

		if err = w.repo.AttachMintReference(ctx, claim.ID, txHash); err != nil {
			zap.L().Error("mint backfill: attaching mint reference failed",
				zap.Uint("claim_id", claim.ID),
				zap.String("tx_hash", txHash),
				zap.Error(err))
			continue
		}

		zap.L().Info("mint backfill: minted claim",
			zap.Uint("claim_id", claim.ID),
			zap.String("token_id", claim.TokenID),
			zap.String("tx_hash", txHash))
	}
}
