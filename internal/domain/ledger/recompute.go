package ledger

import "github.com/shopspring/decimal"

// Contribution returns the event's contribution to the balance under the
// given policy. Settled earnings and undecided or rejected reimbursements
// contribute zero; withdrawal amounts are stored negative so everything else
// is a plain addition.
func (e *Event) Contribution(policy ReimbursementPolicy) decimal.Decimal {
	switch e.Kind {
	case EventKindAttendanceEarning:
		if e.Settled {
			return decimal.Zero
		}
		return e.Amount
	case EventKindAdminAdjustment, EventKindSalaryPayment:
		return e.Amount
	case EventKindWithdrawal:
		// Every withdrawal reduces the balance, reimbursement payouts
		// included. The policy only controls the claim side.
		return e.Amount
	case EventKindReimbursement:
		if policy.IncludesApproved() && e.Status == ReimbursementStatusApproved {
			return e.Amount
		}
		return decimal.Zero
	}
	return decimal.Zero
}

// ComputeBalance recomputes a balance from scratch over the full event set.
// The balance is a pure function of the event log: the sum is commutative,
// recomputing without new events is idempotent, and no incremental delta is
// ever applied, so a missed or repeated trigger cannot cause drift. The
// result is never clamped; negative balances are legal.
func ComputeBalance(events []*Event, policy ReimbursementPolicy) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range events {
		balance = balance.Add(e.Contribution(policy))
	}
	return balance
}
