package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termvault/staking-ledger-service/internal/api/handlers"
	"github.com/termvault/staking-ledger-service/internal/config"
	"github.com/termvault/staking-ledger-service/internal/db/model"
	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/observability/metrics"
	"github.com/termvault/staking-ledger-service/internal/services"
	"github.com/termvault/staking-ledger-service/internal/types"
)

const (
	testAdmin  = "admin-addr"
	testStaker = "staker-addr"
)

func TestMain(m *testing.M) {
	metrics.Init(0)
	os.Exit(m.Run())
}

type fakeCustody struct {
	balances map[types.AssetKind]uint64
}

func newFakeCustody() *fakeCustody {
	return &fakeCustody{balances: make(map[types.AssetKind]uint64)}
}

func (c *fakeCustody) TransferIn(_ context.Context, asset types.AssetKind, _ string, amount uint64) error {
	c.balances[asset] += amount
	return nil
}

func (c *fakeCustody) TransferOut(_ context.Context, asset types.AssetKind, _ string, amount uint64) error {
	c.balances[asset] -= amount
	return nil
}

func (c *fakeCustody) BalanceOf(_ context.Context, asset types.AssetKind) (uint64, error) {
	return c.balances[asset], nil
}

// nopDBClient satisfies db.DBClient for tests that exercise the HTTP surface
// without a running database.
type nopDBClient struct {
	pingErr error
}

func (c *nopDBClient) Ping(_ context.Context) error { return c.pingErr }
func (c *nopDBClient) StakeOpened(_ context.Context, _ uint64, _ string, _ uint64, _ ledger.Stake) error {
	return nil
}
func (c *nopDBClient) StakeClosed(_ context.Context, _ string, _ uint64, _ ledger.Stake, _ ledger.FeeTotals) error {
	return nil
}
func (c *nopDBClient) FeesSwept(_ context.Context) error                     { return nil }
func (c *nopDBClient) EmergencyStopped(_ context.Context, _ int64) error     { return nil }
func (c *nopDBClient) SettingsChanged(_ context.Context, _ ledger.Settings) error {
	return nil
}
func (c *nopDBClient) PlanChanged(_ context.Context, _ types.Plan) error { return nil }
func (c *nopDBClient) FindAllStakeRecords(_ context.Context) ([]model.StakeRecordDocument, error) {
	return nil, nil
}
func (c *nopDBClient) GetFeeTotals(_ context.Context) (ledger.FeeTotals, error) {
	return ledger.FeeTotals{}, nil
}
func (c *nopDBClient) GetSettings(_ context.Context) (*ledger.Settings, error) { return nil, nil }
func (c *nopDBClient) FindAllPlans(_ context.Context) ([]types.Plan, error)    { return nil, nil }

type testServer struct {
	router  *chi.Mux
	custody *fakeCustody
	db      *nopDBClient
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	custody := newFakeCustody()
	dbClient := &nopDBClient{}

	led, err := ledger.New(
		ledger.Settings{Admin: testAdmin, TokenAddress: "token-addr", FeePercent: 5},
		[]types.Plan{
			{TermMonths: 1, DurationSeconds: 2592000, RewardPercent: 100},
			{TermMonths: 2, DurationSeconds: 5184000, RewardPercent: 25},
			{TermMonths: 3, DurationSeconds: 7776000, RewardPercent: 40},
		},
		custody, dbClient,
	)
	require.NoError(t, err)

	svc := &services.Services{DbClient: dbClient, Ledger: led}
	h, err := handlers.New(context.Background(), &config.Config{}, svc)
	require.NoError(t, err)

	router := chi.NewRouter()
	server := &Server{handlers: h}
	server.SetupRoutes(router)

	return &testServer{router: router, custody: custody, db: dbClient}
}

func (ts *testServer) request(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeData[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var response handlers.PublicResponse[T]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response.Data
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestHealthCheckEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Server is up and running", decodeData[string](t, recorder))
}

func TestCreateStakeEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         1000,
		"asset":          "native",
		"term_months":    1,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	created := decodeData[services.CreateStakePublic](t, recorder)
	assert.Equal(t, uint64(0), created.Position)
	assert.Equal(t, "native", created.Asset)

	// Positions grow per staker.
	recorder = ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         500,
		"asset":          "token",
		"term_months":    2,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, uint64(1), decodeData[services.CreateStakePublic](t, recorder).Position)
}

func TestCreateStakeEndpointRejectsBadPayload(t *testing.T) {
	ts := setupTestServer(t)

	for name, payload := range map[string]map[string]interface{}{
		"missing staker address": {"amount": 1000, "asset": "native", "term_months": 1},
		"unknown asset":          {"staker_address": testStaker, "amount": 1000, "asset": "gold", "term_months": 1},
		"zero amount":            {"staker_address": testStaker, "amount": 0, "asset": "native", "term_months": 1},
		"unknown term":           {"staker_address": testStaker, "amount": 1000, "asset": "native", "term_months": 9},
	} {
		recorder := ts.request(t, http.MethodPost, "/v1/stakes", payload)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "case %q", name)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/stakes", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, types.BadRequest.String(), decodeError(t, recorder).ErrorCode)
}

func TestWithdrawEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         1000,
		"asset":          "native",
		"term_months":    1,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	ts.custody.balances[types.AssetNative] = 1000

	recorder = ts.request(t, http.MethodPost, "/v1/stakes/withdraw", map[string]interface{}{
		"staker_address": testStaker,
		"position":       0,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	withdrawn := decodeData[services.WithdrawPublic](t, recorder)
	assert.False(t, withdrawn.Matured)
	assert.Equal(t, uint64(50), withdrawn.Fee)
	assert.Equal(t, uint64(950), withdrawn.Payout)

	// Closing twice conflicts.
	recorder = ts.request(t, http.MethodPost, "/v1/stakes/withdraw", map[string]interface{}{
		"staker_address": testStaker,
		"position":       0,
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, types.AlreadyClosed.String(), decodeError(t, recorder).ErrorCode)

	// Position is required, zero value included.
	recorder = ts.request(t, http.MethodPost, "/v1/stakes/withdraw", map[string]interface{}{
		"staker_address": testStaker,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/stakes/withdraw", map[string]interface{}{
		"staker_address": testStaker,
		"position":       7,
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, types.IndexOutOfRange.String(), decodeError(t, recorder).ErrorCode)
}

func TestGetStakerStakesEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodGet, "/v1/stakes", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         1000,
		"asset":          "native",
		"term_months":    1,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         2000,
		"asset":          "token",
		"term_months":    3,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.request(t, http.MethodGet, "/v1/stakes?staker_address="+testStaker, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	stakes := decodeData[[]services.StakePublic](t, recorder)
	require.Len(t, stakes, 2)

	recorder = ts.request(t, http.MethodGet, "/v1/stakes?staker_address="+testStaker+"&asset=token", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	stakes = decodeData[[]services.StakePublic](t, recorder)
	require.Len(t, stakes, 1)
	assert.Equal(t, "token", stakes[0].Asset)

	recorder = ts.request(t, http.MethodGet, "/v1/stakes?staker_address="+testStaker+"&asset=gold", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.request(t, http.MethodGet, "/v1/stakes/active", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	global := decodeData[[]services.GlobalStakePublic](t, recorder)
	require.Len(t, global, 2)
	assert.Equal(t, testStaker, global[0].StakerAddress)
}

func TestStatsAndPlansEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	ts.custody.balances[types.AssetNative] = 77

	recorder := ts.request(t, http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	stats := decodeData[services.StatsPublic](t, recorder)
	assert.Equal(t, uint64(77), stats.CustodyNativeBalance)

	recorder = ts.request(t, http.MethodGet, "/v1/plans", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	plans := decodeData[services.PlansPublic](t, recorder)
	require.Len(t, plans.Plans, 3)
	assert.Equal(t, uint64(5), plans.FeePercent)
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{
		"/v1/admin/sweep-fees",
		"/v1/admin/emergency-withdraw",
	} {
		recorder := ts.request(t, http.MethodPost, path, map[string]interface{}{
			"admin_address": "impostor",
		})
		assert.Equal(t, http.StatusForbidden, recorder.Code, "path %s", path)
		assert.Equal(t, types.Unauthorized.String(), decodeError(t, recorder).ErrorCode)

		recorder = ts.request(t, http.MethodPost, path, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "path %s", path)
	}
}

func TestSweepFeesEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/v1/admin/sweep-fees", map[string]interface{}{
		"admin_address": testAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, types.NoFeesAvailable.String(), decodeError(t, recorder).ErrorCode)

	recorder = ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         1000,
		"asset":          "native",
		"term_months":    1,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	ts.custody.balances[types.AssetNative] = 1000
	recorder = ts.request(t, http.MethodPost, "/v1/stakes/withdraw", map[string]interface{}{
		"staker_address": testStaker,
		"position":       0,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/admin/sweep-fees", map[string]interface{}{
		"admin_address": testAdmin,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	swept := decodeData[services.SweepPublic](t, recorder)
	assert.Equal(t, uint64(50), swept.NativeFees)
}

func TestEmergencyWithdrawEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         2000,
		"asset":          "token",
		"term_months":    2,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/admin/emergency-withdraw", map[string]interface{}{
		"admin_address": testAdmin,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	receipt := decodeData[services.EmergencyPublic](t, recorder)
	assert.Equal(t, 1, receipt.ClosedStakes)
	assert.Equal(t, uint64(2000), receipt.DrainedToken)

	recorder = ts.request(t, http.MethodGet, "/v1/stakes/active", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeData[[]services.GlobalStakePublic](t, recorder))
}

func TestAdminSettingsEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/v1/admin/fee-percent", map[string]interface{}{
		"admin_address": testAdmin,
		"fee_percent":   7,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/admin/fee-percent", map[string]interface{}{
		"admin_address": testAdmin,
		"fee_percent":   101,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/admin/token-address", map[string]interface{}{
		"admin_address": testAdmin,
		"token_address": "new-token-addr",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.request(t, http.MethodPost, "/v1/admin/plan", map[string]interface{}{
		"admin_address":    testAdmin,
		"term_months":      6,
		"duration_seconds": 15552000,
		"reward_percent":   80,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.request(t, http.MethodGet, "/v1/plans", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	plans := decodeData[services.PlansPublic](t, recorder)
	require.Len(t, plans.Plans, 4)
	assert.Equal(t, uint64(7), plans.FeePercent)

	recorder = ts.request(t, http.MethodPost, "/v1/admin/transfer-admin", map[string]interface{}{
		"admin_address":     testAdmin,
		"new_admin_address": "new-admin",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	// The old administrator lost the role.
	recorder = ts.request(t, http.MethodPost, "/v1/admin/fee-percent", map[string]interface{}{
		"admin_address": testAdmin,
		"fee_percent":   3,
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestInternalErrorsAreHiddenFromClients(t *testing.T) {
	ts := setupTestServer(t)

	// An arithmetic overflow surfaces as a 500 with the detail stripped.
	recorder := ts.request(t, http.MethodPost, "/v1/stakes", map[string]interface{}{
		"staker_address": testStaker,
		"amount":         uint64(1<<63) + 1<<62,
		"asset":          "native",
		"term_months":    1,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	ts.custody.balances[types.AssetNative] = 1 << 63

	recorder = ts.request(t, http.MethodPost, "/v1/stakes/withdraw", map[string]interface{}{
		"staker_address": testStaker,
		"position":       0,
	})
	// The 5% fee product overflows uint64 on an amount this large.
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	response := decodeError(t, recorder)
	assert.Equal(t, types.InternalServiceError.String(), response.ErrorCode)
	assert.Equal(t, "Internal service error", response.Message)
}
