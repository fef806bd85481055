// Package memory is an in-process ledger store. Atomic units run against a
// private copy of the data that replaces the live copy only when the unit
// succeeds, so a failed unit leaves nothing behind.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"
)

// WriteHook is consulted before every write; a non-nil error fails that write.
type WriteHook func(op string, value interface{}) error

type Store struct {
	mu   sync.RWMutex
	data *state
	hook WriteHook
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: newState()}
}

// SetWriteHook installs a hook used to inject write failures.
func (s *Store) SetWriteHook(hook WriteHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, repo ledger.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(ctx, &repo{data: working, hook: s.hook}); err != nil {
		return err
	}
	s.data = working
	return nil
}

func (s *Store) reader() *repo {
	return &repo{data: s.data}
}

func (s *Store) writer() *repo {
	return &repo{data: s.data, hook: s.hook}
}

// Seeding and inspection helpers.

func (s *Store) PutGig(g models.Gig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.gigs[g.ID] = g
}

func (s *Store) PutApplication(a models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.putApplication(a)
}

func (s *Store) PutEscrow(e models.Escrow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.putEscrow(e)
}

func (s *Store) PutTransaction(t models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.txns = append(s.data.txns, t)
}

// Transactions returns a copy of every ledger entry in append order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, len(s.data.txns))
	copy(out, s.data.txns)
	return out
}

// Non-atomic access, used for reads outside a unit.

func (s *Store) GetGig(ctx context.Context, id string) (*models.Gig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().GetGig(ctx, id)
}

func (s *Store) UpdateGig(ctx context.Context, g *models.Gig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer().UpdateGig(ctx, g)
}

func (s *Store) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().GetApplication(ctx, id)
}

func (s *Store) FirstAcceptedApplication(ctx context.Context, gigID string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().FirstAcceptedApplication(ctx, gigID)
}

func (s *Store) UpdateApplication(ctx context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer().UpdateApplication(ctx, a)
}

func (s *Store) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer().AppendTransaction(ctx, t)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().GetTransaction(ctx, id)
}

func (s *Store) UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer().UpdateTransactionStatus(ctx, id, status)
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().ListTransactions(ctx, userID)
}

func (s *Store) FindTransactionByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().FindTransactionByReference(ctx, ref)
}

func (s *Store) GetEscrow(ctx context.Context, id string) (*models.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().GetEscrow(ctx, id)
}

func (s *Store) LockedEscrowForGig(ctx context.Context, gigID string) (*models.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().LockedEscrowForGig(ctx, gigID)
}

func (s *Store) CreateEscrow(ctx context.Context, e *models.Escrow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer().CreateEscrow(ctx, e)
}

func (s *Store) UpdateEscrow(ctx context.Context, e *models.Escrow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer().UpdateEscrow(ctx, e)
}

func (s *Store) ListLockedEscrows(ctx context.Context, userID string) ([]models.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reader().ListLockedEscrows(ctx, userID)
}

type state struct {
	gigs    map[string]models.Gig
	apps    []models.Application
	txns    []models.Transaction
	escrows []models.Escrow
}

func newState() *state {
	return &state{gigs: make(map[string]models.Gig)}
}

func (st *state) clone() *state {
	c := &state{
		gigs:    make(map[string]models.Gig, len(st.gigs)),
		apps:    append([]models.Application(nil), st.apps...),
		txns:    append([]models.Transaction(nil), st.txns...),
		escrows: append([]models.Escrow(nil), st.escrows...),
	}
	for k, v := range st.gigs {
		c.gigs[k] = v
	}
	return c
}

func (st *state) putApplication(a models.Application) {
	for i := range st.apps {
		if st.apps[i].ID == a.ID {
			st.apps[i] = a
			return
		}
	}
	st.apps = append(st.apps, a)
}

func (st *state) putEscrow(e models.Escrow) {
	for i := range st.escrows {
		if st.escrows[i].ID == e.ID {
			st.escrows[i] = e
			return
		}
	}
	st.escrows = append(st.escrows, e)
}

// repo implements ledger.Repository over one state without locking.
type repo struct {
	data *state
	hook WriteHook
}

func (r *repo) check(op string, v interface{}) error {
	if r.hook == nil {
		return nil
	}
	return r.hook(op, v)
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ledger.ErrNotFound)
}

func (r *repo) GetGig(_ context.Context, id string) (*models.Gig, error) {
	g, ok := r.data.gigs[id]
	if !ok {
		return nil, notFound("gig", id)
	}
	return &g, nil
}

func (r *repo) UpdateGig(_ context.Context, g *models.Gig) error {
	if err := r.check("UpdateGig", g); err != nil {
		return err
	}
	if _, ok := r.data.gigs[g.ID]; !ok {
		return notFound("gig", g.ID)
	}
	r.data.gigs[g.ID] = *g
	return nil
}

func (r *repo) GetApplication(_ context.Context, id string) (*models.Application, error) {
	for _, a := range r.data.apps {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, notFound("application", id)
}

func (r *repo) FirstAcceptedApplication(_ context.Context, gigID string) (*models.Application, error) {
	var accepted []models.Application
	for _, a := range r.data.apps {
		if a.GigID == gigID && a.Status == models.ApplicationAccepted {
			accepted = append(accepted, a)
		}
	}
	if len(accepted) == 0 {
		return nil, notFound("accepted application for gig", gigID)
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].CreatedAt.Before(accepted[j].CreatedAt)
	})
	return &accepted[0], nil
}

func (r *repo) UpdateApplication(_ context.Context, a *models.Application) error {
	if err := r.check("UpdateApplication", a); err != nil {
		return err
	}
	if _, err := r.GetApplication(context.Background(), a.ID); err != nil {
		return err
	}
	r.data.putApplication(*a)
	return nil
}

func (r *repo) AppendTransaction(_ context.Context, t *models.Transaction) error {
	if err := r.check("AppendTransaction", t); err != nil {
		return err
	}
	for _, existing := range r.data.txns {
		if existing.ID == t.ID {
			return fmt.Errorf("transaction %s already exists", t.ID)
		}
	}
	r.data.txns = append(r.data.txns, *t)
	return nil
}

func (r *repo) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	for _, t := range r.data.txns {
		if t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, notFound("transaction", id)
}

func (r *repo) UpdateTransactionStatus(_ context.Context, id string, status models.TransactionStatus) error {
	if err := r.check("UpdateTransactionStatus", id); err != nil {
		return err
	}
	for i := range r.data.txns {
		if r.data.txns[i].ID == id {
			r.data.txns[i].Status = status
			return nil
		}
	}
	return notFound("transaction", id)
}

func (r *repo) ListTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.data.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *repo) FindTransactionByReference(_ context.Context, ref string) (*models.Transaction, error) {
	for _, t := range r.data.txns {
		if t.Reference != nil && *t.Reference == ref {
			t := t
			return &t, nil
		}
	}
	return nil, notFound("transaction with reference", ref)
}

func (r *repo) GetEscrow(_ context.Context, id string) (*models.Escrow, error) {
	for _, e := range r.data.escrows {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, notFound("escrow", id)
}

func (r *repo) LockedEscrowForGig(_ context.Context, gigID string) (*models.Escrow, error) {
	for _, e := range r.data.escrows {
		if e.GigID == gigID && e.Status == models.EscrowLocked {
			e := e
			return &e, nil
		}
	}
	return nil, notFound("locked escrow for gig", gigID)
}

func (r *repo) CreateEscrow(_ context.Context, e *models.Escrow) error {
	if err := r.check("CreateEscrow", e); err != nil {
		return err
	}
	if _, err := r.GetEscrow(context.Background(), e.ID); err == nil {
		return fmt.Errorf("escrow %s already exists", e.ID)
	}
	r.data.escrows = append(r.data.escrows, *e)
	return nil
}

func (r *repo) UpdateEscrow(_ context.Context, e *models.Escrow) error {
	if err := r.check("UpdateEscrow", e); err != nil {
		return err
	}
	if _, err := r.GetEscrow(context.Background(), e.ID); err != nil {
		return err
	}
	r.data.putEscrow(*e)
	return nil
}

func (r *repo) ListLockedEscrows(_ context.Context, userID string) ([]models.Escrow, error) {
	var out []models.Escrow
	for _, e := range r.data.escrows {
		if e.Status == models.EscrowLocked && e.Involves(userID) {
			out = append(out, e)
		}
	}
	return out, nil
}
