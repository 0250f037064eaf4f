package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// keyedLock — внутрипроцессная блокировка по client reference code.
type keyedLock struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewSubmissionLocker создаёт блокировку, сериализующую отправки с одним кодом в пределах процесса.
func NewSubmissionLocker() domain.SubmissionLocker {
	return &keyedLock{slots: make(map[string]*lockSlot)}
}

// Lock ждёт освобождения ключа или отмены ctx.
func (l *keyedLock) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, slot)
		return nil, errors.Join(domain.ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.release(key, slot)
		})
	}, nil
}

func (l *keyedLock) release(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}
