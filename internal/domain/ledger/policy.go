package ledger

// ReimbursementPolicy decides whether approved-but-unpaid reimbursements
// count toward the balance. Earlier revisions of this system implemented both
// behaviors in different places, which is exactly the drift this single
// constant exists to prevent: every call site reads the same policy.
type ReimbursementPolicy string

const (
	// ReimbursementPolicyRefundsOnly keeps approved reimbursements out of
	// the balance; only the payout withdrawal created when the claim is
	// marked paid affects it, reducing the balance like any other
	// withdrawal.
	ReimbursementPolicyRefundsOnly ReimbursementPolicy = "REFUNDS_ONLY"
	// ReimbursementPolicyAccrueOnApproval adds approved reimbursements to
	// the balance as soon as they are approved.
	ReimbursementPolicyAccrueOnApproval ReimbursementPolicy = "ACCRUE_ON_APPROVAL"
)

// ActivePolicy is the single reimbursement policy applied uniformly across
// recomputation. Approved reimbursements never inflate the balance; the
// money moves when the payout withdrawal is written.
const ActivePolicy = ReimbursementPolicyRefundsOnly

// IncludesApproved returns true if approved-but-unpaid reimbursements are
// part of the balance under this policy.
func (p ReimbursementPolicy) IncludesApproved() bool {
	return p == ReimbursementPolicyAccrueOnApproval
}
