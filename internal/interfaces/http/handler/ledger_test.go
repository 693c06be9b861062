package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	appledger "github.com/crewpay/backend/internal/application/ledger"
	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttendance(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	worker := env.seedUser(t, "wanjiru", identity.EmploymentTypeCasual, false)
	adminToken := env.tokenFor(t, admin)

	body := gin.H{"user_id": worker.ID, "work_date": "2026-08-03", "overtime_hours": 2}

	t.Run("admin records a day", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decodeResponse(t, w)
		data := resp["data"].(map[string]any)
		event := data["event"].(map[string]any)
		assert.Equal(t, "attendance_earning", event["kind"])
		assert.Equal(t, "1200", data["balance"])
	})

	t.Run("same day twice conflicts", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken, body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_DATE", errorCode(t, w))
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		workerToken := env.tokenFor(t, worker)
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", workerToken,
			gin.H{"user_id": worker.ID, "work_date": "2026-08-04"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})

	t.Run("no token is unauthorized", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken,
			gin.H{"work_date": "2026-08-05"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEditAndSettleAttendance(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	worker := env.seedUser(t, "otieno", identity.EmploymentTypeCasual, false)
	adminToken := env.tokenFor(t, admin)

	w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken,
		gin.H{"user_id": worker.ID, "work_date": "2026-08-10", "overtime_hours": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := decodeResponse(t, w)["data"].(map[string]any)["event"].(map[string]any)["id"].(string)

	t.Run("overtime edit reprices the day", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPut, "/api/v1/ledger/attendance/"+eventID+"/overtime",
			adminToken, gin.H{"overtime_hours": 5})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "1500", data["balance"])
	})

	t.Run("second edit is rejected", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPut, "/api/v1/ledger/attendance/"+eventID+"/overtime",
			adminToken, gin.H{"overtime_hours": 3})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ALREADY_EDITED", errorCode(t, w))
	})

	t.Run("settle then settle again", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance/"+eventID+"/settle", adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance/"+eventID+"/settle", adminToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ALREADY_SETTLED", errorCode(t, w))
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost,
			"/api/v1/ledger/attendance/00000000-0000-0000-0000-000000000001/settle", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecordWithdrawal(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	worker := env.seedUser(t, "njeri", identity.EmploymentTypeCasual, false)
	adminToken := env.tokenFor(t, admin)

	// Earn 1000 first
	w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken,
		gin.H{"user_id": worker.ID, "work_date": "2026-08-11"})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("withdrawal within balance", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/withdrawals", adminToken,
			gin.H{"user_id": worker.ID, "amount": "600", "method": "MPESA", "reference": "RB12345"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "400", data["balance"])
	})

	t.Run("overdraw is rejected", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/withdrawals", adminToken,
			gin.H{"user_id": worker.ID, "amount": "500", "method": "CASH"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INSUFFICIENT_BALANCE", errorCode(t, w))
	})
}

func TestAdjustmentAndSalary(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	casual := env.seedUser(t, "kamau", identity.EmploymentTypeCasual, false)
	salaried := env.seedUser(t, "achieng", identity.EmploymentTypeSalaried, false)
	adminToken := env.tokenFor(t, admin)

	t.Run("negative adjustment can push balance below zero", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/adjustments", adminToken,
			gin.H{"user_id": casual.ID, "amount": "-250", "reason": "uniform deduction"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "-250", data["balance"])
	})

	t.Run("zero adjustment is rejected", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/adjustments", adminToken,
			gin.H{"user_id": casual.ID, "amount": "0", "reason": "noop"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ZERO_ADJUSTMENT", errorCode(t, w))
	})

	t.Run("salary for a salaried employee", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/salaries", adminToken,
			gin.H{"user_id": salaried.ID, "period": "2026-08", "base_salary": "30000", "allowance": "2000"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "32000", data["balance"])
	})

	t.Run("salary period is unique per user", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/salaries", adminToken,
			gin.H{"user_id": salaried.ID, "period": "2026-08", "base_salary": "30000"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_PERIOD", errorCode(t, w))
	})

	t.Run("salary for a casual is rejected", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/salaries", adminToken,
			gin.H{"user_id": casual.ID, "period": "2026-08", "base_salary": "30000"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "NOT_SALARIED", errorCode(t, w))
	})
}

func TestReimbursementFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	worker := env.seedUser(t, "baraka", identity.EmploymentTypeCasual, false)
	adminToken := env.tokenFor(t, admin)
	workerToken := env.tokenFor(t, worker)

	w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/reimbursements", workerToken,
		gin.H{"amount": "850", "description": "fuel for generator run"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeResponse(t, w)["data"].(map[string]any)
	event := data["event"].(map[string]any)
	claimID := event["id"].(string)
	assert.Equal(t, "PENDING", event["status"])
	// Pending claims do not touch the balance
	assert.Equal(t, "0", data["balance"])

	t.Run("worker cannot decide", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/reimbursements/"+claimID+"/decision",
			workerToken, gin.H{"approve": true})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("approval does not credit the balance", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/reimbursements/"+claimID+"/decision",
			adminToken, gin.H{"approve": true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "0", data["balance"])
		assert.Equal(t, "APPROVED", data["event"].(map[string]any)["status"])
	})

	t.Run("second decision is rejected", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/reimbursements/"+claimID+"/decision",
			adminToken, gin.H{"approve": false, "reason": "changed my mind"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "NOT_PENDING", errorCode(t, w))
	})

	t.Run("manual paid marker settles the claim", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/reimbursements/"+claimID+"/paid",
			adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		// The payout withdrawal is deducted in full; money advanced is
		// recovered from future earnings
		assert.Equal(t, "-850", data["balance"])
	})
}

func TestBalanceAndHistoryAccess(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	worker := env.seedUser(t, "moraa", identity.EmploymentTypeCasual, false)
	other := env.seedUser(t, "kip", identity.EmploymentTypeCasual, false)
	adminToken := env.tokenFor(t, admin)
	workerToken := env.tokenFor(t, worker)

	for day := 1; day <= 3; day++ {
		w := env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken,
			gin.H{"user_id": worker.ID, "work_date": fmt.Sprintf("2026-08-0%d", day)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("worker reads own balance", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet, "/api/v1/ledger/balances/"+worker.ID.String(), workerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "3000", data["balance"])
	})

	t.Run("worker cannot read another balance", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet, "/api/v1/ledger/balances/"+other.ID.String(), workerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin reads any balance", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet, "/api/v1/ledger/balances/"+worker.ID.String(), adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("history pages newest first", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet,
			"/api/v1/ledger/balances/"+worker.ID.String()+"/history?page=1&page_size=2", workerToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeResponse(t, w)
		meta := resp["meta"].(map[string]any)
		assert.Equal(t, float64(3), meta["total"])
		items := resp["data"].([]any)
		assert.Len(t, items, 2)
	})

	t.Run("aggregate balance is admin only", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet, "/api/v1/ledger/total-balance", workerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.doJSON(t, http.MethodGet, "/api/v1/ledger/total-balance", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "3000", data["total"])
	})
}

func TestBalanceParity(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	worker := env.seedUser(t, "zawadi", identity.EmploymentTypeCasual, false)
	adminToken := env.tokenFor(t, admin)

	env.doJSON(t, http.MethodPost, "/api/v1/ledger/attendance", adminToken,
		gin.H{"user_id": worker.ID, "work_date": "2026-08-20", "overtime_hours": 3})
	env.doJSON(t, http.MethodPost, "/api/v1/ledger/adjustments", adminToken,
		gin.H{"user_id": worker.ID, "amount": "100.50", "reason": "bonus"})

	balance, err := env.queries.GetBalance(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1400.50).Equal(balance.Balance),
		"got %s", balance.Balance)

	// The cached value matches a full replay of the event history
	page, err := env.queries.GetEventHistory(context.Background(), worker.ID, appledger.HistoryRequest{Page: 1, PageSize: 50})
	require.NoError(t, err)
	total := decimal.Zero
	for _, e := range page.Items {
		total = total.Add(e.Amount)
	}
	assert.True(t, total.Equal(balance.Balance))
}
