package handler

import (
	appledger "github.com/crewpay/backend/internal/application/ledger"
	"github.com/crewpay/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler exposes the payroll ledger operations: attendance, admin
// adjustments, salary payments, reimbursements, withdrawals, and balances.
type LedgerHandler struct {
	BaseHandler
	service *appledger.LedgerService
	queries *appledger.QueryService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service *appledger.LedgerService, queries *appledger.QueryService) *LedgerHandler {
	return &LedgerHandler{service: service, queries: queries}
}

// RegisterRoutes registers ledger routes on the given (authenticated) group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")

	admin := ledger.Group("", middleware.AdminOnly())
	admin.POST("/attendance", h.RecordAttendance)
	admin.PUT("/attendance/:id/overtime", h.EditOvertime)
	admin.POST("/attendance/:id/settle", h.SettleAttendance)
	admin.POST("/adjustments", h.RecordAdjustment)
	admin.POST("/salaries", h.RecordSalary)
	admin.POST("/reimbursements/:id/decision", h.DecideReimbursement)
	admin.POST("/reimbursements/:id/paid", h.MarkReimbursementPaid)
	admin.POST("/reimbursements/:id/payout", h.InitiatePayout)
	admin.POST("/withdrawals", h.RecordWithdrawal)
	admin.GET("/total-balance", h.GetAggregateBalance)

	ledger.POST("/reimbursements", h.SubmitReimbursement)
	ledger.GET("/balances/:id", h.GetBalance)
	ledger.GET("/balances/:id/history", h.GetEventHistory)
}

// RecordAttendance records one day of attendance for an employee
func (h *LedgerHandler) RecordAttendance(c *gin.Context) {
	var req appledger.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.RecordAttendanceEarning(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// EditOvertime applies the one-shot overtime correction to an earning
func (h *LedgerHandler) EditOvertime(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}
	var req appledger.EditOvertimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.EditAttendanceEarning(c.Request.Context(), eventID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SettleAttendance marks an earning as paid out
func (h *LedgerHandler) SettleAttendance(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	result, err := h.service.SettleAttendanceEarning(c.Request.Context(), eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RecordAdjustment records a signed admin correction
func (h *LedgerHandler) RecordAdjustment(c *gin.Context) {
	actorID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appledger.RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.RecordAdminAdjustment(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RecordSalary records a monthly salary payment for a salaried employee
func (h *LedgerHandler) RecordSalary(c *gin.Context) {
	actorID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appledger.RecordSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.RecordSalaryPayment(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// SubmitReimbursement files an expense claim for the authenticated user
func (h *LedgerHandler) SubmitReimbursement(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appledger.SubmitReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.SubmitReimbursement(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// DecideReimbursement approves or rejects a pending claim
func (h *LedgerHandler) DecideReimbursement(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}
	actorID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appledger.DecideReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.DecideReimbursement(c.Request.Context(), eventID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MarkReimbursementPaid confirms a manual payout of an approved claim
func (h *LedgerHandler) MarkReimbursementPaid(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}
	actorID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}

	result, err := h.service.MarkReimbursementPaid(c.Request.Context(), eventID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// InitiatePayout pushes the payment prompt for an approved claim to the
// employee's phone; the ledger is only touched when the gateway calls back.
func (h *LedgerHandler) InitiatePayout(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}
	var req appledger.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.InitiateReimbursementPayout(c.Request.Context(), eventID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RecordWithdrawal pays out part of an employee's balance
func (h *LedgerHandler) RecordWithdrawal(c *gin.Context) {
	actorID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appledger.RecordWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.RecordWithdrawal(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetBalance returns a user's current balance. Non-admins may only read
// their own.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if !h.canReadUser(c, userID) {
		h.Forbidden(c, "Cannot read another user's balance")
		return
	}

	balance, err := h.queries.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// GetEventHistory returns a page of a user's ledger events, newest first
func (h *LedgerHandler) GetEventHistory(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if !h.canReadUser(c, userID) {
		h.Forbidden(c, "Cannot read another user's history")
		return
	}
	var req appledger.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.queries.GetEventHistory(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetAggregateBalance returns the total owed across all accounts
func (h *LedgerHandler) GetAggregateBalance(c *gin.Context) {
	total, err := h.queries.GetAggregateBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, total)
}

func (h *LedgerHandler) canReadUser(c *gin.Context, userID uuid.UUID) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	authed, ok := authedUserID(c)
	return ok && authed == userID
}
