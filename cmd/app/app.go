package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/api"
	"github.com/attendly/attendance-api/internal/config"
	"github.com/attendly/attendance-api/internal/db"
	"github.com/attendly/attendance-api/internal/logger"
	"github.com/attendly/attendance-api/internal/minter"
	"github.com/attendly/attendance-api/internal/pkg/magicauth"
	"github.com/attendly/attendance-api/internal/publisher"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/repository/dao"
	"github.com/attendly/attendance-api/internal/worker"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	pub, err := buildPublisher(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize publisher -> %w", err)
	}

	var mint minter.Minter
	if conf.Chain.Enabled {
		mint, err = minter.NewEVMMinter(conf.Chain)
		if err != nil {
			return fmt.Errorf("failed to initialize minter -> %w", err)
		}
	}

	verifier := magicauth.NewVerifier(conf.Magic)

	s := api.NewServer(conf, postgresDB, pub, mint, verifier)

	if conf.Worker.MintBackfillEnabled && mint != nil {
		claimRepo := repository.NewClaimRepository(dao.NewClaimDAO(postgresDB))
		interval := time.Duration(conf.Worker.MintBackfillInterval) * time.Second
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		backfiller := worker.NewMintBackfiller(claimRepo, mint, interval, conf.Worker.MintBackfillBatch)
		if err = backfiller.Start(); err != nil {
			return fmt.Errorf("failed to start mint backfill worker -> %w", err)
		}
		defer func() {
			if err := backfiller.Stop(); err != nil {
				zap.L().Error("failed to stop mint backfill worker", zap.Error(err))
			}
		}()
	}

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func buildPublisher(conf *config.AppConfig) (publisher.Publisher, error) {
	if conf.Storage != nil && conf.Storage.Provider == "s3" {
		return publisher.NewS3Publisher(context.Background(), conf.Storage)
	}

	return publisher.NewPinataPublisher(conf.Pinata), nil
}
