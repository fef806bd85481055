// Package lock provides keyed mutual exclusion for ledger mutations.
package lock

import (
	"context"
	"sync"
	"time"

	apperrors "campus-gig-workers/internal/common/errors"
)

// Locker serializes work on a key. Release must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// GigKey and UserKey build the lock keys used by the ledger.
func GigKey(gigID string) string   { return "gig:" + gigID }
func UserKey(userID string) string { return "user:" + userID }
func TxnKey(txnID string) string   { return "txn:" + txnID }

// Local is an in-process Locker. Keys are reference counted and dropped when idle.
type Local struct {
	mu   sync.Mutex
	keys map[string]*entry
	wait time.Duration
}

type entry struct {
	ch   chan struct{}
	refs int
}

// NewLocal returns a Local locker. wait bounds how long Acquire blocks; zero means only ctx bounds it.
func NewLocal(wait time.Duration) *Local {
	return &Local{keys: make(map[string]*entry), wait: wait}
}

func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, apperrors.NewLockTimeoutError(key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.unref(key, e)
		})
	}, nil
}

func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}
