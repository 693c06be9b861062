package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService handles all balance-affecting operations. Every mutation runs
// as one atomic unit: acquire the account's lock, then in a single database
// transaction validate, append or transition the event, recompute the balance
// from the full event set and persist it. Balances are never adjusted by
// incremental deltas.
type LedgerService struct {
	scope     TransactionScope
	eventRepo ledger.EventRepository
	userRepo  identity.UserRepository
	gateway   ledger.PaymentGateway
	idem      shared.IdempotencyStore
	idemTTL   time.Duration
	rates     ledger.PayRates
	locks     *accountLocks
	logger    *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	eventRepo ledger.EventRepository,
	userRepo identity.UserRepository,
	gateway ledger.PaymentGateway,
	idem shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	rates ledger.PayRates,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		scope:     scope,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		idem:      idem,
		idemTTL:   idemConfig.TTL,
		rates:     rates,
		locks:     newAccountLocks(),
		logger:    logger,
	}
}

// withAccountLock serializes mutations per account. The lock is held across
// the whole transaction so concurrent withdrawals cannot both pass the
// sufficiency check against the same balance.
func (s *LedgerService) withAccountLock(userID uuid.UUID, fn func() error) error {
	mu := s.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// recompute rebuilds the user's balance from the full event set and persists
// it, creating the account row on first use. Must run inside the transaction
// that wrote the triggering event.
func (s *LedgerService) recompute(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID) (decimal.Decimal, error) {
	events, err := repos.EventRepo().FindAllByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := ledger.ComputeBalance(events, ledger.ActivePolicy)

	account, err := repos.AccountRepo().FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, err
		}
		account, err = ledger.NewAccount(userID)
		if err != nil {
			return decimal.Zero, err
		}
		account.Balance = balance
		return balance, repos.AccountRepo().Create(ctx, account)
	}

	account.Balance = balance
	account.Touch()
	return balance, repos.AccountRepo().Save(ctx, account)
}

func (s *LedgerService) activeUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("USER_INACTIVE", "User is not active")
	}
	return user, nil
}

// RecordAttendanceEarning records a worked day for a user. At most one
// attendance earning may exist per user per work date.
func (s *LedgerService) RecordAttendanceEarning(ctx context.Context, req RecordAttendanceRequest) (*MutationResponse, error) {
	user, err := s.activeUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Work date must be in YYYY-MM-DD format")
	}

	var resp *MutationResponse
	err = s.withAccountLock(req.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			exists, err := repos.EventRepo().ExistsAttendanceOn(ctx, req.UserID, workDate)
			if err != nil {
				return err
			}
			if exists {
				return ledger.ErrDuplicateDate
			}

			event, err := ledger.NewAttendanceEarning(req.UserID, workDate, req.OvertimeHours, s.rates, user.IsSalaried())
			if err != nil {
				return err
			}
			if req.CrewEventID != nil {
				event.WithCrewEvent(*req.CrewEventID)
			}
			if err := repos.EventRepo().Create(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, req.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance earning recorded",
		zap.String("user_id", req.UserID.String()),
		zap.String("work_date", req.WorkDate),
		zap.String("amount", resp.Event.Amount.String()))
	return resp, nil
}

// EditAttendanceEarning applies the one-shot overtime correction to an
// attendance earning and recomputes the balance with the new amount.
func (s *LedgerService) EditAttendanceEarning(ctx context.Context, eventID uuid.UUID, req EditOvertimeRequest) (*MutationResponse, error) {
	existing, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing.Kind != ledger.EventKindAttendanceEarning {
		return nil, ledger.ErrWrongKind
	}
	user, err := s.userRepo.FindByID(ctx, existing.UserID)
	if err != nil {
		return nil, err
	}

	var resp *MutationResponse
	err = s.withAccountLock(existing.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			event, err := repos.EventRepo().FindByID(ctx, eventID)
			if err != nil {
				return err
			}
			if err := event.EditOvertime(req.OvertimeHours, user.IsSalaried()); err != nil {
				return err
			}
			if err := repos.EventRepo().Update(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, event.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("overtime edited",
		zap.String("event_id", eventID.String()),
		zap.Int("overtime_hours", req.OvertimeHours))
	return resp, nil
}

// SettleAttendanceEarning marks an attendance earning as settled, removing it
// from the balance without deleting the record.
func (s *LedgerService) SettleAttendanceEarning(ctx context.Context, eventID uuid.UUID) (*MutationResponse, error) {
	existing, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing.Kind != ledger.EventKindAttendanceEarning {
		return nil, ledger.ErrWrongKind
	}

	var resp *MutationResponse
	err = s.withAccountLock(existing.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			event, err := repos.EventRepo().FindByID(ctx, eventID)
			if err != nil {
				return err
			}
			if err := event.Settle(); err != nil {
				return err
			}
			if err := repos.EventRepo().Update(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, event.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance earning settled", zap.String("event_id", eventID.String()))
	return resp, nil
}

// RecordAdminAdjustment records a signed manual correction against a user's
// balance. Corrections are new events; existing amounts are never edited.
func (s *LedgerService) RecordAdminAdjustment(ctx context.Context, actorID uuid.UUID, req RecordAdjustmentRequest) (*MutationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	var resp *MutationResponse
	err := s.withAccountLock(req.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			event, err := ledger.NewAdminAdjustment(req.UserID, req.Amount, req.Reason, actorID)
			if err != nil {
				return err
			}
			if err := repos.EventRepo().Create(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, req.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin adjustment recorded",
		zap.String("user_id", req.UserID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("amount", req.Amount.String()))
	return resp, nil
}

// RecordSalaryPayment records a monthly salary payment for a salaried user.
// At most one salary payment may exist per user per period.
func (s *LedgerService) RecordSalaryPayment(ctx context.Context, actorID uuid.UUID, req RecordSalaryRequest) (*MutationResponse, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsSalaried() {
		return nil, shared.NewDomainError("NOT_SALARIED", "Salary payments apply only to salaried users")
	}

	var resp *MutationResponse
	err = s.withAccountLock(req.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			exists, err := repos.EventRepo().ExistsSalaryFor(ctx, req.UserID, req.Period)
			if err != nil {
				return err
			}
			if exists {
				return ledger.ErrDuplicatePeriod
			}

			event, err := ledger.NewSalaryPayment(req.UserID, req.Period, req.BaseSalary, req.OvertimePay, req.Allowance, actorID)
			if err != nil {
				return err
			}
			if err := repos.EventRepo().Create(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, req.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("salary payment recorded",
		zap.String("user_id", req.UserID.String()),
		zap.String("period", req.Period))
	return resp, nil
}

// SubmitReimbursement records a pending reimbursement claim for the user.
// Pending claims never affect the balance.
func (s *LedgerService) SubmitReimbursement(ctx context.Context, userID uuid.UUID, req SubmitReimbursementRequest) (*MutationResponse, error) {
	if _, err := s.activeUser(ctx, userID); err != nil {
		return nil, err
	}

	var resp *MutationResponse
	err := s.withAccountLock(userID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			event, err := ledger.NewReimbursement(userID, req.Amount, req.Description)
			if err != nil {
				return err
			}
			if err := repos.EventRepo().Create(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, userID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reimbursement submitted",
		zap.String("user_id", userID.String()),
		zap.String("amount", req.Amount.String()))
	return resp, nil
}

// DecideReimbursement approves or rejects a pending reimbursement claim
func (s *LedgerService) DecideReimbursement(ctx context.Context, eventID, actorID uuid.UUID, req DecideReimbursementRequest) (*MutationResponse, error) {
	existing, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing.Kind != ledger.EventKindReimbursement {
		return nil, ledger.ErrWrongKind
	}

	var resp *MutationResponse
	err = s.withAccountLock(existing.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			event, err := repos.EventRepo().FindByID(ctx, eventID)
			if err != nil {
				return err
			}
			if req.Approve {
				err = event.Approve(actorID)
			} else {
				err = event.Reject(actorID, req.Reason)
			}
			if err != nil {
				return err
			}
			if err := repos.EventRepo().Update(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, event.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reimbursement decided",
		zap.String("event_id", eventID.String()),
		zap.Bool("approved", req.Approve),
		zap.String("actor_id", actorID.String()))
	return resp, nil
}

// MarkReimbursementPaid flips an approved reimbursement to paid and, in the
// same atomic unit, writes the linked payout withdrawal.
func (s *LedgerService) MarkReimbursementPaid(ctx context.Context, eventID, actorID uuid.UUID) (*MutationResponse, error) {
	existing, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing.Kind != ledger.EventKindReimbursement {
		return nil, ledger.ErrWrongKind
	}

	var resp *MutationResponse
	err = s.withAccountLock(existing.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			event, err := repos.EventRepo().FindByID(ctx, eventID)
			if err != nil {
				return err
			}
			if err := event.MarkPaid(); err != nil {
				return err
			}
			if err := repos.EventRepo().Update(ctx, event); err != nil {
				return err
			}

			payout, err := event.PayoutWithdrawal(actorID)
			if err != nil {
				return err
			}
			if err := repos.EventRepo().Create(ctx, payout); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, event.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reimbursement paid",
		zap.String("event_id", eventID.String()),
		zap.String("actor_id", actorID.String()))
	return resp, nil
}

// RecordWithdrawal pays out part of a user's balance. The sufficiency check
// runs against the freshly recomputed balance inside the same lock and
// transaction as the write, so two concurrent withdrawals cannot both pass
// against the same funds.
func (s *LedgerService) RecordWithdrawal(ctx context.Context, actorID uuid.UUID, req RecordWithdrawalRequest) (*MutationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	method := ledger.WithdrawalMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid withdrawal method")
	}

	var resp *MutationResponse
	err := s.withAccountLock(req.UserID, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			events, err := repos.EventRepo().FindAllByUser(ctx, req.UserID)
			if err != nil {
				return err
			}
			available := ledger.ComputeBalance(events, ledger.ActivePolicy)
			if available.LessThan(req.Amount) {
				return shared.ErrInsufficientBalance
			}

			event, err := ledger.NewWithdrawal(req.UserID, req.Amount, method, req.Reference, actorID)
			if err != nil {
				return err
			}
			if err := repos.EventRepo().Create(ctx, event); err != nil {
				return err
			}

			balance, err := s.recompute(ctx, repos, req.UserID)
			if err != nil {
				return err
			}
			resp = &MutationResponse{Event: ToEventResponse(event), Balance: balance}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal recorded",
		zap.String("user_id", req.UserID.String()),
		zap.String("method", req.Method),
		zap.String("amount", req.Amount.String()))
	return resp, nil
}

// InitiateReimbursementPayout pushes the payment prompt for an approved
// reimbursement to the employee's phone. No ledger write happens here; the
// gateway reference is stored on the claim and the outcome arrives through
// OnWithdrawalResult.
func (s *LedgerService) InitiateReimbursementPayout(ctx context.Context, eventID uuid.UUID, req PayoutRequest) (*PayoutResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Kind != ledger.EventKindReimbursement {
		return nil, ledger.ErrWrongKind
	}
	if event.Status != ledger.ReimbursementStatusApproved {
		return nil, ledger.ErrNotApproved
	}
	if event.Paid {
		return nil, ledger.ErrAlreadyPaid
	}

	push, err := s.gateway.InitiateSTKPush(ctx, ledger.STKPushRequest{
		UserID:      event.UserID,
		PhoneNumber: req.PhoneNumber,
		Amount:      event.Amount,
		Description: event.Description,
	})
	if err != nil {
		s.logger.Error("payout initiation failed",
			zap.String("event_id", eventID.String()),
			zap.Error(err))
		return nil, err
	}

	event.Reference = push.CheckoutRequestID
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("payout initiated",
		zap.String("event_id", eventID.String()),
		zap.String("checkout_request_id", push.CheckoutRequestID))
	return &PayoutResponse{
		CheckoutRequestID: push.CheckoutRequestID,
		CustomerMessage:   push.CustomerMessage,
	}, nil
}

// OnWithdrawalResult applies the asynchronous gateway outcome for an initiated
// payout. Duplicate callbacks are dropped via the idempotency store; a failed
// payment mutates nothing so the payout can be retried. When processing fails
// after the mark was taken, the mark is released so the gateway's retry of
// the same callback still lands.
func (s *LedgerService) OnWithdrawalResult(ctx context.Context, result *ledger.CallbackResult) error {
	if result.CheckoutRequestID == "" {
		return ledger.ErrGatewayInvalidCallback
	}

	marked, err := s.idem.MarkProcessed(ctx, result.CheckoutRequestID, s.idemTTL)
	if err != nil {
		// Degrade to at-least-once rather than dropping the result; the
		// paid-flag check below still rejects a true duplicate.
		s.logger.Warn("idempotency store unavailable",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Error(err))
		marked = false
	} else if !marked {
		s.logger.Info("duplicate callback dropped",
			zap.String("checkout_request_id", result.CheckoutRequestID))
		return nil
	}

	if !result.Success() {
		s.logger.Info("payout failed, no ledger change",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.String("status", string(result.Status)),
			zap.String("reason", result.FailureReason))
		return nil
	}

	event, err := s.eventRepo.FindByReference(ctx, result.CheckoutRequestID)
	if err != nil {
		s.unmarkOnFailure(ctx, result.CheckoutRequestID, marked)
		return err
	}
	if event.Paid {
		return nil
	}

	actorID := event.UserID
	if event.DecidedBy != nil {
		actorID = *event.DecidedBy
	}
	_, err = s.MarkReimbursementPaid(ctx, event.ID, actorID)
	if err != nil {
		s.unmarkOnFailure(ctx, result.CheckoutRequestID, marked)
		return err
	}

	s.logger.Info("payout confirmed",
		zap.String("event_id", event.ID.String()),
		zap.String("receipt", result.Receipt))
	return nil
}

// unmarkOnFailure releases a taken idempotency mark when processing failed,
// so the gateway's retry of the same callback is not dropped as a duplicate.
func (s *LedgerService) unmarkOnFailure(ctx context.Context, checkoutRequestID string, marked bool) {
	if !marked {
		return
	}
	if err := s.idem.Unmark(ctx, checkoutRequestID); err != nil {
		s.logger.Warn("failed to unmark callback for retry",
			zap.String("checkout_request_id", checkoutRequestID),
			zap.Error(err))
	}
}
