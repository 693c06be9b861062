package handler

import (
	"net/http"
	"testing"

	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycleOverAPI(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", identity.EmploymentTypeCasual, true)
	adminToken := env.tokenFor(t, admin)

	var userID string

	t.Run("create salaried user", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/users", adminToken, gin.H{
			"username":        "Mwangi",
			"email":           "mwangi@crewpay.co.ke",
			"phone_number":    "254798765432",
			"employment_type": "salaried",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "mwangi", data["username"])
		assert.Equal(t, "pending", data["status"])
		userID = data["id"].(string)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/users", adminToken, gin.H{
			"username":        "mwangi",
			"employment_type": "casual",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_EXISTS", errorCode(t, w))
	})

	t.Run("bad phone is rejected", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/users", adminToken, gin.H{
			"username":        "badphone",
			"phone_number":    "0712345678",
			"employment_type": "casual",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION", errorCode(t, w))
	})

	t.Run("activate pending user", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/users/"+userID+"/activate", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "active", data["status"])
	})

	t.Run("activating an active user fails", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/users/"+userID+"/activate", adminToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_STATE", errorCode(t, w))
	})

	t.Run("deactivate", func(t *testing.T) {
		w := env.doJSON(t, http.MethodPost, "/api/v1/users/"+userID+"/deactivate", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "deactivated", data["status"])
	})

	t.Run("list pages by username", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet, "/api/v1/users?page=1&page_size=10", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		meta := resp["meta"].(map[string]any)
		assert.Equal(t, float64(2), meta["total"])
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		worker := env.seedUser(t, "crewmember", identity.EmploymentTypeCasual, false)
		w := env.doJSON(t, http.MethodGet, "/api/v1/users", env.tokenFor(t, worker), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		w := env.doJSON(t, http.MethodGet,
			"/api/v1/users/00000000-0000-0000-0000-000000000009", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
