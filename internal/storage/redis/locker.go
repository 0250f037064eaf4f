package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const (
	defaultTTL          = 10 * time.Second
	defaultPollInterval = 25 * time.Millisecond
	defaultKeyPrefix    = "orderdesk:submit-lock"
)

// unlockScript удаляет ключ, только если он всё ещё принадлежит владельцу токена.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Options задаёт параметры распределённой блокировки.
type Options struct {
	// TTL ограничивает время жизни блокировки, если владелец упал, не освободив её.
	TTL time.Duration
	// PollInterval — пауза между попытками захвата.
	PollInterval time.Duration
	// KeyPrefix отделяет ключи сервиса от прочих данных в Redis.
	KeyPrefix string
}

// Locker — SubmissionLocker поверх Redis (SET NX PX + Lua compare-and-delete).
type Locker struct {
	client *goredis.Client
	opts   Options
	logger *log.Entry
}

// NewClient создаёт клиента Redis по адресу host:port.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: addr})
}

// NewLocker создаёт распределённую блокировку отправки заказов.
func NewLocker(client *goredis.Client, opts Options, logger *log.Entry) *Locker {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = defaultKeyPrefix
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Locker{
		client: client,
		opts:   opts,
		logger: logger.WithField("component", "redis_submission_lock"),
	}
}

// Key возвращает ключ Redis для client reference code.
func (l *Locker) Key(code string) string {
	return fmt.Sprintf("%s:%s", l.opts.KeyPrefix, code)
}

// Lock пытается захватить ключ, пока не истечёт ctx.
func (l *Locker) Lock(ctx context.Context, code string) (func(), error) {
	key := l.Key(code)
	token := uuid.NewString()

	ticker := time.NewTicker(l.opts.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Join(domain.ErrLockTimeout, ctxErr)
			}
			return nil, errors.Join(domain.ErrStoreUnavailable, fmt.Errorf("redis set nx: %w", err))
		}
		if ok {
			return l.unlockFunc(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(domain.ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(key, token string) func() {
	return func() {
		// Освобождаем даже при отменённом ctx запроса, иначе ключ провисит до TTL.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.WithError(err).WithField("key", key).Warn("не удалось освободить блокировку")
		}
	}
}

// Ping проверяет доступность Redis (используется readiness-проверкой).
func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

var _ domain.SubmissionLocker = (*Locker)(nil)
