package dao_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/attendly/attendance-api/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Printf("skipping dao tests, docker unavailable: %v\n", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=attendance_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Printf("skipping dao tests, could not start postgres: %v\n", err)
		os.Exit(0)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=attendance_test sslmode=disable", resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		fmt.Printf("could not connect to postgres: %v\n", err)
		_ = pool.Purge(resource)
		os.Exit(1)
	}

	if err = dao.InitTables(testDB); err != nil {
		fmt.Printf("could not migrate tables: %v\n", err)
		_ = pool.Purge(resource)
		os.Exit(1)
	}

	code := m.Run()

	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	if testDB == nil {
		t.Skip("database not available")
	}
}

func resetTables(t *testing.T) {
	t.Helper()

	require.NoError(t, testDB.Exec("TRUNCATE claims, events, users RESTART IDENTITY CASCADE").Error)
}

func seedEvent(t *testing.T, code string, maxSupply *int) dao.Event {
	t.Helper()

	event := dao.Event{
		Name:      "GopherCon 2024",
		Date:      time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
		ClaimCode: code,
		IsActive:  true,
		MaxSupply: maxSupply,
	}
	require.NoError(t, testDB.Create(&event).Error)

	return event
}

func seedUser(t *testing.T, email, wallet string) dao.User {
	t.Helper()

	user := dao.User{
		Email:         email,
		WalletAddress: wallet,
		Role:          "USER",
	}
	require.NoError(t, testDB.Create(&user).Error)

	return user
}

func newClaim(user dao.User, event dao.Event, tokenID string) dao.Claim {
	return dao.Claim{
		TokenID:     tokenID,
		MetadataURI: "ipfs://QmDoc-" + tokenID,
		ImageURL:    "ipfs://QmImage",
		UserID:      user.ID,
		EventID:     event.ID,
		ClaimedAt:   time.Now().UTC(),
	}
}

func TestInsertAtomic_Duplicate(t *testing.T) {
	requireDocker(t)
	resetTables(t)

	d := dao.NewClaimDAO(testDB)
	event := seedEvent(t, "CONF24", nil)
	user := seedUser(t, "alice@example.com", "")

	_, err := d.InsertAtomic(context.Background(), newClaim(user, event, "CONF24-aaaa1111"))
	require.NoError(t, err)

	_, err = d.InsertAtomic(context.Background(), newClaim(user, event, "CONF24-bbbb2222"))

	assert.ErrorIs(t, err, dao.ErrClaimExists)

	var count int64
	require.NoError(t, testDB.Model(&dao.Claim{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInsertAtomic_SupplyExhausted(t *testing.T) {
	requireDocker(t)
	resetTables(t)

	d := dao.NewClaimDAO(testDB)
	maxSupply := 2
	event := seedEvent(t, "CAPPED1", &maxSupply)

	for i := 0; i < 2; i++ {
		user := seedUser(t, fmt.Sprintf("user%v@example.com", i), "")
		_, err := d.InsertAtomic(context.Background(), newClaim(user, event, fmt.Sprintf("CAPPED1-%08d", i)))
		require.NoError(t, err)
	}

	extra := seedUser(t, "late@example.com", "")
	_, err := d.InsertAtomic(context.Background(), newClaim(extra, event, "CAPPED1-late0000"))

	assert.ErrorIs(t, err, dao.ErrSupplyExhausted)
}

func TestInsertAtomic_UnknownEvent(t *testing.T) {
	requireDocker(t)
	resetTables(t)

	d := dao.NewClaimDAO(testDB)
	user := seedUser(t, "alice@example.com", "")

	_, err := d.InsertAtomic(context.Background(), dao.Claim{
		TokenID:     "GHOST-00000000",
		MetadataURI: "ipfs://QmDoc",
		ImageURL:    "ipfs://QmImage",
		UserID:      user.ID,
		EventID:     4242,
		ClaimedAt:   time.Now().UTC(),
	})

	assert.ErrorIs(t, err, dao.ErrEventNotFound)
}

func TestInsertAtomic_ConcurrentSupplyCap(t *testing.T) {
	requireDocker(t)
	resetTables(t)

	d := dao.NewClaimDAO(testDB)
	maxSupply := 3
	event := seedEvent(t, "RACE01", &maxSupply)

	users := make([]dao.User, 10)
	for i := range users {
		users[i] = seedUser(t, fmt.Sprintf("racer%v@example.com", i), "")
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.InsertAtomic(context.Background(), newClaim(users[i], event, fmt.Sprintf("RACE01-%08d", i)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, dao.ErrSupplyExhausted)
		}
	}
	assert.Equal(t, maxSupply, succeeded)

	var count int64
	require.NoError(t, testDB.Model(&dao.Claim{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, maxSupply, count)
}

func TestFindUnminted(t *testing.T) {
	requireDocker(t)
	resetTables(t)

	d := dao.NewClaimDAO(testDB)
	event := seedEvent(t, "MINT01", nil)

	withWallet := seedUser(t, "wallet@example.com", "0x1111111111111111111111111111111111111111")
	noWallet := seedUser(t, "custodial@example.com", "")
	minted := seedUser(t, "minted@example.com", "0x2222222222222222222222222222222222222222")

	_, err := d.InsertAtomic(context.Background(), newClaim(withWallet, event, "MINT01-aaaa1111"))
	require.NoError(t, err)
	_, err = d.InsertAtomic(context.Background(), newClaim(noWallet, event, "MINT01-bbbb2222"))
	require.NoError(t, err)

	mintedClaim, err := d.InsertAtomic(context.Background(), newClaim(minted, event, "MINT01-cccc3333"))
	require.NoError(t, err)
	require.NoError(t, d.UpdateTxHash(context.Background(), mintedClaim.ID, "0xabc123"))

	unminted, err := d.FindUnminted(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, unminted, 1)
	assert.Equal(t, "MINT01-aaaa1111", unminted[0].TokenID)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", unminted[0].User.WalletAddress)
}

func TestUpdateTxHash_NotFound(t *testing.T) {
	requireDocker(t)
	resetTables(t)

	d := dao.NewClaimDAO(testDB)

	err := d.UpdateTxHash(context.Background(), 4242, "0xabc123")

	assert.ErrorIs(t, err, dao.ErrClaimNotFound)
}
