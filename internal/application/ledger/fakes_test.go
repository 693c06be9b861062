package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memEventRepo is a mutex-guarded in-memory EventRepository used to exercise
// the service's locking and recomputation without a database.
type memEventRepo struct {
	mu        sync.RWMutex
	events    map[uuid.UUID]*ledger.Event
	updateErr error
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[uuid.UUID]*ledger.Event)}
}

// failNextUpdate makes the next Update call return err, then recover
func (r *memEventRepo) failNextUpdate(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateErr = err
}

func (r *memEventRepo) Create(_ context.Context, event *ledger.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *memEventRepo) Update(_ context.Context, event *ledger.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		err := r.updateErr
		r.updateErr = nil
		return err
	}
	if _, ok := r.events[event.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *memEventRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *event
	return &cp, nil
}

func (r *memEventRepo) FindAllByUser(_ context.Context, userID uuid.UUID) ([]*ledger.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*ledger.Event
	for _, e := range r.events {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memEventRepo) FindByUser(_ context.Context, userID uuid.UUID, filter ledger.EventFilter) ([]*ledger.Event, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*ledger.Event
	for _, e := range r.events {
		if e.UserID != userID {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.DateFrom != nil && e.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.CreatedAt.After(*filter.DateTo) {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memEventRepo) ExistsAttendanceOn(_ context.Context, userID uuid.UUID, workDate time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := workDate.Truncate(24 * time.Hour)
	for _, e := range r.events {
		if e.UserID == userID && e.Kind == ledger.EventKindAttendanceEarning &&
			e.WorkDate != nil && e.WorkDate.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memEventRepo) ExistsSalaryFor(_ context.Context, userID uuid.UUID, period string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.events {
		if e.UserID == userID && e.Kind == ledger.EventKindSalaryPayment && e.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (r *memEventRepo) FindByReference(_ context.Context, reference string) (*ledger.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.events {
		if reference != "" && e.Reference == reference {
			cp := *e
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

// memAccountRepo is a mutex-guarded in-memory AccountRepository
type memAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*ledger.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[uuid.UUID]*ledger.Account)}
}

func (r *memAccountRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (r *memAccountRepo) Create(_ context.Context, account *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.UserID]; ok {
		return shared.ErrAlreadyExists
	}
	cp := *account
	r.accounts[account.UserID] = &cp
	return nil
}

func (r *memAccountRepo) Save(_ context.Context, account *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.UserID] = &cp
	return nil
}

func (r *memAccountRepo) SumBalances(_ context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, a := range r.accounts {
		total = total.Add(a.Balance)
	}
	return total, nil
}

// memUserRepo is an in-memory UserRepository
type memUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*identity.User
}

func newMemUserRepo(users ...*identity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]*identity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindAll(_ context.Context, _ shared.Filter) ([]*identity.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*identity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Create(_ context.Context, user *identity.User) error {
	return r.Save(nil, user)
}

// fakeGateway is a scripted PaymentGateway
type fakeGateway struct {
	mu        sync.Mutex
	pushErr   error
	pushCalls []ledger.STKPushRequest
	checkout  string
}

func (g *fakeGateway) InitiateSTKPush(_ context.Context, req ledger.STKPushRequest) (*ledger.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushCalls = append(g.pushCalls, req)
	if g.pushErr != nil {
		return nil, g.pushErr
	}
	return &ledger.STKPushResponse{
		MerchantRequestID: "merchant-1",
		CheckoutRequestID: g.checkout,
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

func (g *fakeGateway) QueryStatus(_ context.Context, checkoutRequestID string) (*ledger.CallbackResult, error) {
	return &ledger.CallbackResult{
		CheckoutRequestID: checkoutRequestID,
		Status:            ledger.PaymentStatusPending,
	}, nil
}

func (g *fakeGateway) ParseCallback(_ []byte) (*ledger.CallbackResult, error) {
	return nil, ledger.ErrGatewayInvalidCallback
}

// memIdemStore is an in-memory IdempotencyStore
type memIdemStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{seen: make(map[string]bool)}
}

func (s *memIdemStore) MarkProcessed(_ context.Context, callbackID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[callbackID] {
		return false, nil
	}
	s.seen[callbackID] = true
	return true, nil
}

func (s *memIdemStore) IsProcessed(_ context.Context, callbackID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[callbackID], s.err
}

func (s *memIdemStore) Unmark(_ context.Context, callbackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.seen, callbackID)
	return nil
}

func (s *memIdemStore) Close() error { return nil }
