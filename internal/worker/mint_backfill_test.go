package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/worker"
)

type fakeBackfillRepo struct {
	mu       sync.Mutex
	unminted []domain.Claim
	attached map[uint]string
}

func newFakeBackfillRepo(claims ...domain.Claim) *fakeBackfillRepo {
	return &fakeBackfillRepo{
		unminted: claims,
		attached: make(map[uint]string),
	}
}

func (f *fakeBackfillRepo) FindUnminted(_ context.Context, limit int) ([]domain.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.unminted) > limit {
		return f.unminted[:limit], nil
	}

	return f.unminted, nil
}

func (f *fakeBackfillRepo) AttachMintReference(_ context.Context, claimID uint, txHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attached[claimID] = txHash

	remaining := f.unminted[:0]
	for _, c := range f.unminted {
		if c.ID != claimID {
			remaining = append(remaining, c)
		}
	}
	f.unminted = remaining

	return nil
}

func (f *fakeBackfillRepo) attachedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.attached)
}

type fakeBackfillMinter struct {
	mu      sync.Mutex
	failFor map[string]bool
	minted  []string
}

func (f *fakeBackfillMinter) Mint(_ context.Context, recipient, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[recipient] {
		return "", errors.New("rpc timeout")
	}

	f.minted = append(f.minted, recipient)

	return "0xbackfill", nil
}

func unmintedClaim(id uint, wallet string) domain.Claim {
	return domain.Claim{
		ID:          id,
		TokenID:     "CONF24-00000000",
		MetadataURI: "ipfs://QmDoc",
		User:        domain.User{WalletAddress: wallet},
	}
}

func TestMintBackfiller_MintsPendingClaims(t *testing.T) {
	repo := newFakeBackfillRepo(
		unmintedClaim(1, "0x1111111111111111111111111111111111111111"),
		unmintedClaim(2, "0x2222222222222222222222222222222222222222"),
	)
	minter := &fakeBackfillMinter{}

	w := worker.NewMintBackfiller(repo, minter, 20*time.Millisecond, 10)
	require.NoError(t, w.Start())
	defer func() {
		require.NoError(t, w.Stop())
	}()

	assert.Eventually(t, func() bool {
		return repo.attachedCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "0xbackfill", repo.attached[1])
	assert.Equal(t, "0xbackfill", repo.attached[2])
}

func TestMintBackfiller_SkipsFailedMints(t *testing.T) {
	repo := newFakeBackfillRepo(
		unmintedClaim(1, "0xdead"),
		unmintedClaim(2, "0x2222222222222222222222222222222222222222"),
	)
	minter := &fakeBackfillMinter{failFor: map[string]bool{"0xdead": true}}

	w := worker.NewMintBackfiller(repo, minter, 20*time.Millisecond, 10)
	require.NoError(t, w.Start())
	defer func() {
		require.NoError(t, w.Stop())
	}()

	assert.Eventually(t, func() bool {
		return repo.attachedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, failedAttached := repo.attached[1]
	assert.False(t, failedAttached)
	assert.Equal(t, "0xbackfill", repo.attached[2])
}

func TestMintBackfiller_StopWithoutStart(t *testing.T) {
	w := worker.NewMintBackfiller(newFakeBackfillRepo(), &fakeBackfillMinter{}, time.Minute, 10)

	assert.NoError(t, w.Stop())
}
