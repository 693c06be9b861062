package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QueryService serves read-only balance and history queries. Reads go through
// the cached account row; they never trigger a recomputation.
type QueryService struct {
	eventRepo   ledger.EventRepository
	accountRepo ledger.AccountRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(eventRepo ledger.EventRepository, accountRepo ledger.AccountRepository) *QueryService {
	return &QueryService{
		eventRepo:   eventRepo,
		accountRepo: accountRepo,
	}
}

// GetBalance returns the user's cached balance. A user with no events yet has
// no account row and reads as zero.
func (s *QueryService) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error) {
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &BalanceResponse{
				UserID:    userID,
				Balance:   decimal.Zero,
				UpdatedAt: time.Now(),
			}, nil
		}
		return nil, err
	}

	return &BalanceResponse{
		UserID:    account.UserID,
		Balance:   account.Balance,
		UpdatedAt: account.UpdatedAt,
	}, nil
}

// GetEventHistory returns a page of the user's ledger events, newest first
func (s *QueryService) GetEventHistory(ctx context.Context, userID uuid.UUID, req HistoryRequest) (*shared.Paginated[EventResponse], error) {
	filter := ledger.EventFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if req.Kind != "" {
		kind := ledger.EventKind(req.Kind)
		if !kind.IsValid() {
			return nil, shared.NewDomainError("INVALID_KIND", "Unknown event kind")
		}
		filter.Kind = &kind
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "date_from must be in YYYY-MM-DD format")
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "date_to must be in YYYY-MM-DD format")
		}
		filter.DateTo = &to
	}

	events, total, err := s.eventRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToEventResponses(events), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetAggregateBalance returns the total owed across all accounts
func (s *QueryService) GetAggregateBalance(ctx context.Context) (*AggregateBalanceResponse, error) {
	total, err := s.accountRepo.SumBalances(ctx)
	if err != nil {
		return nil, err
	}
	return &AggregateBalanceResponse{Total: total}, nil
}
