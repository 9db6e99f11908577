package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dexflow/arbot/internal/cache/redis"
	"github.com/dexflow/arbot/internal/config"
	"github.com/dexflow/arbot/internal/crypto"
	"github.com/dexflow/arbot/internal/domain"
	"github.com/dexflow/arbot/internal/executor"
	"github.com/dexflow/arbot/internal/feed"
	"github.com/dexflow/arbot/internal/notify"
	"github.com/dexflow/arbot/internal/risk"
	"github.com/dexflow/arbot/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Source   domain.PriceSource
	Executor domain.Executor
	Risk     *risk.Manager

	// Optional: nil when the corresponding backend is disabled.
	PriceCache domain.PriceCache
	Bus        domain.OpportunityBus
	Store      domain.OpportunityStore

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Price feed ---
	pools := make(map[string]feed.Pool, len(cfg.Ethereum.Pools))
	for venue, p := range cfg.Ethereum.Pools {
		pools[venue] = feed.Pool{
			Address:        common.HexToAddress(p.Address),
			Token0Decimals: p.Token0Decimals,
			Token1Decimals: p.Token1Decimals,
		}
	}
	source, err := feed.NewUniswapSource(ctx, cfg.Ethereum.RPCURL, pools, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: feed: %w", err)
	}
	closers = append(closers, source.Close)
	deps.Source = source

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.PriceCache = redis.NewPriceCache(redisClient)
		deps.Bus = redis.NewOpportunityBus(redisClient, logger)
	}

	// --- PostgreSQL (optional) ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.Store = postgres.NewOpportunityStore(pgClient.Pool())
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Risk ---
	deps.Risk = risk.NewManager(risk.Limits{
		MaxPositionSize:   cfg.Risk.MaxPositionSize,
		StopLossThreshold: cfg.Risk.StopLossThreshold,
	}, logger)

	// --- Executor ---
	if cfg.Executor.Enabled {
		chainID := big.NewInt(cfg.Ethereum.ChainID)
		wallet, err := crypto.NewWallet(cfg.Executor.PrivateKey, chainID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: wallet: %w", err)
		}

		ethClient, err := ethclient.DialContext(ctx, cfg.Ethereum.RPCURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: ethclient: %w", err)
		}
		closers = append(closers, ethClient.Close)

		amountIn, ok := new(big.Int).SetString(cfg.Executor.AmountIn, 10)
		if !ok {
			cleanup()
			return nil, nil, fmt.Errorf("wire: invalid executor amount_in %q", cfg.Executor.AmountIn)
		}

		router, err := executor.NewRouter(ethClient, wallet, executor.RouterConfig{
			RouterAddress: common.HexToAddress(cfg.Executor.RouterAddress),
			TokenIn:       common.HexToAddress(cfg.Executor.TokenIn),
			TokenOut:      common.HexToAddress(cfg.Executor.TokenOut),
			AmountIn:      amountIn,
			GasLimit:      cfg.Executor.GasLimit,
		}, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: executor: %w", err)
		}
		deps.Executor = router
	} else {
		deps.Executor = executor.NewDry(deps.Store, deps.Bus, deps.Notifier, logger)
	}

	return deps, cleanup, nil
}
