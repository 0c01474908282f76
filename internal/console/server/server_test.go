package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/bizdash/internal/console/handler"
	"github.com/xela07ax/bizdash/internal/domain"
	"github.com/xela07ax/bizdash/internal/infra"
	"github.com/xela07ax/bizdash/internal/infra/auth"
	"github.com/xela07ax/bizdash/internal/ingest"
	"github.com/xela07ax/bizdash/internal/schema"
	"go.uber.org/zap"
)

type memPublisher struct {
	mu       sync.Mutex
	channels []string
}

func (p *memPublisher) Publish(_ context.Context, channel string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	return nil
}

type fixture struct {
	server *ConsoleServer
	pub    *memPublisher
	key    *rsa.PrivateKey
}

func newFixture(t *testing.T, withAuth bool, rateLimit float64) fixture {
	t.Helper()

	cfg := &infra.Config{
		Server: infra.ServerConfig{RateLimit: rateLimit, RateBurst: 1},
		Auth:   infra.AuthConfig{RequiredScope: "contracts.write"},
	}
	reg := prometheus.NewRegistry()
	pub := &memPublisher{}
	svc := ingest.NewService(pub, nil, ingest.NewMetrics(reg), zap.NewNop())

	var validator auth.TokenValidator
	var key *rsa.PrivateKey
	if withAuth {
		var err error
		key, err = rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		validator = auth.NewSourceValidator(&key.PublicKey, cfg.Auth)
	}

	srv := NewConsoleServer(cfg, zap.NewNop(), validator, reg, handler.NewContractHandler(svc, zap.NewNop()))
	return fixture{server: srv, pub: pub, key: key}
}

func (f fixture) token(t *testing.T, scopes map[string]bool) string {
	t.Helper()
	claims := &domain.CustomClaims{
		UserID: "erp",
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(f.key)
	require.NoError(t, err)
	return "Bearer " + signed
}

func (f fixture) do(method, path, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Valid  bool             `json:"valid"`
	Entity string           `json:"entity"`
	Value  map[string]any   `json:"value"`
	Issues []map[string]any `json:"issues"`
	Error  string           `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

const agentBody = `{
	"id": "9b2d7a3e-1c4f-4e8a-b6d5-0f1e2a3b4c5d",
	"name": "Logística Bot",
	"role": "routing",
	"status": "offline",
	"last_heartbeat": "2026-10-16T09:30:00Z",
	"health_score": 0
}`

func TestListSchemas(t *testing.T) {
	f := newFixture(t, false, 0)
	rec := f.do(http.MethodGet, "/api/v1/schemas", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, schema.Entities(), body["entities"])
}

func TestValidateEndpoint(t *testing.T) {
	f := newFixture(t, false, 0)

	t.Run("all issues reported", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/schemas/create_order/validate",
			`{"customer_id": "not-a-uuid", "items": []}`, "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		resp := decode(t, rec)
		assert.False(t, resp.Valid)
		require.Len(t, resp.Issues, 2)
		assert.Equal(t, schema.MsgInvalidCustomerID, resp.Issues[0]["message"])
		assert.Equal(t, []any{"customer_id"}, resp.Issues[0]["path"])
		assert.Equal(t, schema.MsgItemsRequired, resp.Issues[1]["message"])
	})

	t.Run("valid payload", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/schemas/agent/validate", agentBody, "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.True(t, resp.Valid)
		assert.Equal(t, "agent", resp.Entity)
		assert.Equal(t, float64(0), resp.Value["health_score"])
		assert.NotEmpty(t, rec.Header().Get(TraceHeader))
	})

	t.Run("unknown entity", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/schemas/invoice/validate", `{}`, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/schemas/kpi/validate", `{"id":`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	// Проверка ничего не рассылает
	assert.Empty(t, f.pub.channels)
}

func TestSubmitRequiresToken(t *testing.T) {
	f := newFixture(t, true, 0)

	rec := f.do(http.MethodPost, "/api/v1/contracts/agent", agentBody, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/contracts/agent", agentBody, f.token(t, map[string]bool{"reports.read": true}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/contracts/agent", agentBody, f.token(t, map[string]bool{"contracts.write": true}))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"bizdash:contracts:agent"}, f.pub.channels)

	// Невалидный контракт с валидным токеном: 422 и без рассылки
	rec = f.do(http.MethodPost, "/api/v1/contracts/agent", `{"health_score": 1.5}`, f.token(t, map[string]bool{"admin": true}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, f.pub.channels, 1)
}

func TestSubmitRateLimited(t *testing.T) {
	f := newFixture(t, false, 0.001)

	first := f.do(http.MethodPost, "/api/v1/contracts/agent", agentBody, "")
	assert.Equal(t, http.StatusAccepted, first.Code)

	second := f.do(http.MethodPost, "/api/v1/contracts/agent", agentBody, "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, false, 0)
	f.do(http.MethodPost, "/api/v1/schemas/agent/validate", agentBody, "")

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", "").Code)

	rec := f.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bizdash_validations_total{entity="agent",result="valid"} 1`)
}

func TestTraceIDIsPropagated(t *testing.T) {
	f := newFixture(t, false, 0)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(TraceHeader, "trace-123")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(TraceHeader))
}
