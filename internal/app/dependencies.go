package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/orderdesk/internal/health"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/orderdesk/internal/storage/redis"
)

// runtimeDependencies — хранилище, outbox и блокировка, выбранные по конфигурации.
type runtimeDependencies struct {
	store          domain.OrderStore
	outboxRepo     domain.OutboxRepository
	locker         domain.SubmissionLocker
	storageChecker healthcheck.Checker
	lockChecker    healthcheck.Checker
	closeFns       []func() error
}

func (d *runtimeDependencies) close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closeFns) - 1; i >= 0; i-- {
		errs = append(errs, d.closeFns[i]())
	}
	return errors.Join(errs...)
}

// initRuntimeDependencies открывает хранилище заказов и блокировку отправки.
// publishEvents означает, что Kafka producer создан и outbox будет кому разбирать.
func initRuntimeDependencies(ctx context.Context, cfg Config, publishEvents bool, logger *log.Entry) (*runtimeDependencies, error) {
	deps := &runtimeDependencies{}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		var opts []memory.StoreOption
		// Без producer события некому публиковать, поэтому in-memory outbox не копится.
		if publishEvents {
			outbox := memory.NewOutboxRepository()
			deps.outboxRepo = outbox
			opts = append(opts, memory.WithOutbox(outbox))
		}
		deps.store = memory.NewOrderStore(opts...)
		deps.storageChecker = healthcheck.NewPingChecker("storage", healthcheck.PingFunc(func(context.Context) error { return nil }))
		logger.Info("using in-memory order store")

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is required for postgres storage driver")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		deps.closeFns = append(deps.closeFns, store.Close)

		if cfg.PostgresAutoMigrate {
			if err := store.AutoMigrate(ctx); err != nil {
				_ = deps.close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			logger.Info("postgres migrations applied")
		}

		deps.store = postgres.NewOrderStore(store, postgres.WithOutbox())
		deps.outboxRepo = postgres.NewOutboxRepository(store)
		deps.storageChecker = healthcheck.NewPingChecker("storage", store)
		logger.Info("using postgres order store")

	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.StorageDriver)
	}

	if cfg.RedisAddr != "" {
		client := redisstore.NewClient(cfg.RedisAddr)
		locker := redisstore.NewLocker(client, redisstore.Options{TTL: cfg.LockTTL}, logger.WithField("layer", "redis"))
		deps.locker = locker
		deps.lockChecker = healthcheck.NewOptionalPingChecker("redis", locker)
		deps.closeFns = append(deps.closeFns, client.Close)
		logger.WithField("addr", cfg.RedisAddr).Info("using redis submission lock")
	} else {
		deps.locker = memory.NewSubmissionLocker()
	}

	return deps, nil
}
