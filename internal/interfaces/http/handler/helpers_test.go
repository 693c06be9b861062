package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	appidentity "github.com/crewpay/backend/internal/application/identity"
	appledger "github.com/crewpay/backend/internal/application/ledger"
	appscheduling "github.com/crewpay/backend/internal/application/scheduling"
	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/infrastructure/auth"
	"github.com/crewpay/backend/internal/infrastructure/config"
	"github.com/crewpay/backend/internal/infrastructure/persistence"
	"github.com/crewpay/backend/internal/infrastructure/persistence/models"
	"github.com/crewpay/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// scriptedGateway is a canned PaymentGateway for API tests. ParseCallback
// understands a minimal JSON shape so callback tests can drive it directly.
type scriptedGateway struct {
	mu       sync.Mutex
	checkout string
	pushed   []ledger.STKPushRequest
}

func (g *scriptedGateway) InitiateSTKPush(_ context.Context, req ledger.STKPushRequest) (*ledger.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushed = append(g.pushed, req)
	return &ledger.STKPushResponse{
		MerchantRequestID: "merchant-1",
		CheckoutRequestID: g.checkout,
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

func (g *scriptedGateway) QueryStatus(_ context.Context, checkoutRequestID string) (*ledger.CallbackResult, error) {
	return &ledger.CallbackResult{
		CheckoutRequestID: checkoutRequestID,
		Status:            ledger.PaymentStatusPending,
	}, nil
}

func (g *scriptedGateway) ParseCallback(payload []byte) (*ledger.CallbackResult, error) {
	var cb struct {
		CheckoutRequestID string `json:"checkout_request_id"`
		Status            string `json:"status"`
		Receipt           string `json:"receipt"`
	}
	if err := json.Unmarshal(payload, &cb); err != nil || cb.CheckoutRequestID == "" {
		return nil, ledger.ErrGatewayInvalidCallback
	}
	return &ledger.CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		Status:            ledger.PaymentStatus(cb.Status),
		Receipt:           cb.Receipt,
	}, nil
}

// testEnv wires the full API stack over an in-memory database
type testEnv struct {
	engine   *gin.Engine
	db       *gorm.DB
	jwt      *auth.JWTService
	gateway  *scriptedGateway
	users    *persistence.GormUserRepository
	ledger   *appledger.LedgerService
	queries  *appledger.QueryService
	identity *appidentity.UserService
	events   *appscheduling.EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.LedgerEventModel{},
		&models.AccountModel{},
		&models.CrewEventModel{},
		&models.CrewAssignmentModel{},
	))

	userRepo := persistence.NewGormUserRepository(db)
	eventRepo := persistence.NewGormLedgerEventRepository(db)
	accountRepo := persistence.NewGormAccountRepository(db)
	crewEventRepo := persistence.NewGormCrewEventRepository(db)
	assignmentRepo := persistence.NewGormCrewAssignmentRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	gateway := &scriptedGateway{checkout: "ws_CO_test_1"}
	idem := newTestIdemStore()
	logger := zap.NewNop()

	ledgerService := appledger.NewLedgerService(
		scope, eventRepo, userRepo, gateway, idem,
		shared.DefaultIdempotencyConfig(), ledger.DefaultPayRates(), logger)
	queryService := appledger.NewQueryService(eventRepo, accountRepo)
	identityService := appidentity.NewUserService(userRepo, logger)
	eventService := appscheduling.NewEventService(crewEventRepo, assignmentRepo, userRepo, logger)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-for-handler-tests",
		TokenExpiration: time.Hour,
		Issuer:          "crewpay-test",
	})

	engine := gin.New()
	public := engine.Group("/api/v1")
	NewPaymentCallbackHandler(ledgerService, gateway, logger).RegisterRoutes(public)
	NewSystemHandler(nil).RegisterRoutes(public)

	authed := engine.Group("/api/v1", middleware.JWTAuth(jwtService))
	NewLedgerHandler(ledgerService, queryService).RegisterRoutes(authed)
	NewSchedulingHandler(eventService).RegisterRoutes(authed)
	NewUserHandler(identityService).RegisterRoutes(authed)

	return &testEnv{
		engine:   engine,
		db:       db,
		jwt:      jwtService,
		gateway:  gateway,
		users:    userRepo,
		ledger:   ledgerService,
		queries:  queryService,
		identity: identityService,
		events:   eventService,
	}
}

// testIdemStore is a map-backed IdempotencyStore without background cleanup
type testIdemStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newTestIdemStore() *testIdemStore {
	return &testIdemStore{seen: make(map[string]bool)}
}

func (s *testIdemStore) MarkProcessed(_ context.Context, callbackID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[callbackID] {
		return false, nil
	}
	s.seen[callbackID] = true
	return true, nil
}

func (s *testIdemStore) IsProcessed(_ context.Context, callbackID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[callbackID], nil
}

func (s *testIdemStore) Unmark(_ context.Context, callbackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, callbackID)
	return nil
}

func (s *testIdemStore) Close() error { return nil }

// seedUser stores an active user directly through the repository
func (env *testEnv) seedUser(t *testing.T, username string, employmentType identity.EmploymentType, isAdmin bool) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, username+"@crewpay.co.ke", "254712345678", employmentType)
	require.NoError(t, err)
	user.IsAdmin = isAdmin
	if user.Status == identity.UserStatusPending {
		require.NoError(t, user.Activate())
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return user
}

// tokenFor issues a JWT for the given user
func (env *testEnv) tokenFor(t *testing.T, user *identity.User) string {
	t.Helper()
	token, _, err := env.jwt.GenerateToken(user.ID, user.Username, user.IsAdmin)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional bearer token and JSON body
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

// historyAll returns a history query wide enough for small fixtures
func historyAll() appledger.HistoryRequest {
	return appledger.HistoryRequest{Page: 1, PageSize: 50}
}

// decodeResponse unmarshals the standard response envelope
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// errorCode extracts error.code from the response envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error in response: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}
