package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunemint/market-ledger/internal/access"
	"github.com/tunemint/market-ledger/internal/api/middleware"
	"github.com/tunemint/market-ledger/internal/api/rest"
	"github.com/tunemint/market-ledger/internal/catalog"
	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/ledger"
	"github.com/tunemint/market-ledger/internal/listing"
	"github.com/tunemint/market-ledger/internal/settlement"
)

const (
	testAPIKey   = "test-api-key"
	testOperator = domain.Actor("market:settlement")
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.New()
	led := ledger.New()
	listings := listing.New()
	approvals := access.New()
	engine := settlement.NewEngine(settlement.Config{
		Catalog:  cat,
		Ledger:   led,
		Listings: listings,
		Access:   approvals,
		Operator: testOperator,
	})

	router := gin.New()
	handler := rest.NewHandler(engine, cat, led, listings)
	rest.SetupRoutes(router, handler, middleware.AuthConfig{
		APIKeys: []string{testAPIKey},
	})
	return router
}

// doJSON performs an authenticated JSON request acting as the given identity.
func doJSON(t *testing.T, router *gin.Engine, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "APIKey "+testAPIKey)
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doGET(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createTestToken registers a token as alice and returns its id.
func createTestToken(t *testing.T, router *gin.Engine) uint64 {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/tokens", "alice", gin.H{
		"name":        "Midnight Sessions",
		"music_url":   "https://cdn.example.com/midnight.mp3",
		"unit_price":  100,
		"max_supply":  10,
		"royalty_bps": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := doGET(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateToken(t *testing.T) {
	router := newTestRouter(t)

	id := createTestToken(t, router)
	assert.Equal(t, uint64(1), id)

	w := doGET(t, router, "/api/v1/tokens/1")
	require.Equal(t, http.StatusOK, w.Code)

	var token struct {
		Name       string `json:"name"`
		Creator    string `json:"creator"`
		Active     bool   `json:"active"`
		RoyaltyBps uint64 `json:"royalty_bps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "Midnight Sessions", token.Name)
	assert.Equal(t, "alice", token.Creator)
	assert.True(t, token.Active)
	assert.Equal(t, uint64(1000), token.RoyaltyBps)
}

func TestCreateTokenRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTokenRequiresActor(t *testing.T) {
	router := newTestRouter(t)

	// Authenticated with an API key but no acting identity declared
	w := doJSON(t, router, http.MethodPost, "/api/v1/tokens", "", gin.H{
		"name":       "Midnight Sessions",
		"max_supply": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTokenValidation(t *testing.T) {
	router := newTestRouter(t)

	// Missing required fields fail binding
	w := doJSON(t, router, http.MethodPost, "/api/v1/tokens", "alice", gin.H{
		"name": "No supply",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Royalty above 10000 bps fails settlement validation
	w = doJSON(t, router, http.MethodPost, "/api/v1/tokens", "alice", gin.H{
		"name":        "Bad royalty",
		"max_supply":  10,
		"royalty_bps": 10_001,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTokens(t *testing.T) {
	router := newTestRouter(t)

	w := doGET(t, router, "/api/v1/tokens")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tokens":[],"total":0}`, w.Body.String())

	createTestToken(t, router)
	createTestToken(t, router)

	w = doGET(t, router, "/api/v1/tokens")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tokens []struct {
			ID uint64 `json:"id"`
		} `json:"tokens"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Tokens, 2)
	assert.Equal(t, uint64(1), resp.Tokens[0].ID)
	assert.Equal(t, uint64(2), resp.Tokens[1].ID)
}

func TestGetTokenNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doGET(t, router, "/api/v1/tokens/42")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGET(t, router, "/api/v1/tokens/not-a-number")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketplaceFlow(t *testing.T) {
	router := newTestRouter(t)
	id := createTestToken(t, router)
	base := fmt.Sprintf("/api/v1/tokens/%d", id)

	// bob mints 3 editions at 100 each
	w := doJSON(t, router, http.MethodPost, base+"/mint", "bob", gin.H{
		"quantity": 3,
		"payment":  300,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var balance struct {
		Quantity uint64 `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, uint64(3), balance.Quantity)

	// Wrong payment is rejected
	w = doJSON(t, router, http.MethodPost, base+"/mint", "bob", gin.H{
		"quantity": 1,
		"payment":  99,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Listing before approving the operator is forbidden
	w = doJSON(t, router, http.MethodPost, base+"/listings", "bob", gin.H{
		"price":    150,
		"quantity": 2,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// bob approves the marketplace operator (the default)
	w = doJSON(t, router, http.MethodPost, "/api/v1/approvals", "bob", gin.H{
		"approved": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var approval struct {
		Operator string `json:"operator"`
		Approved bool   `json:"approved"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approval))
	assert.Equal(t, testOperator.String(), approval.Operator)
	assert.True(t, approval.Approved)

	// bob lists 2 units at 150
	w = doJSON(t, router, http.MethodPost, base+"/listings", "bob", gin.H{
		"price":    150,
		"quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The listing reads back publicly
	w = doGET(t, router, base+"/listings/bob")
	require.Equal(t, http.StatusOK, w.Code)

	var l struct {
		Price    uint64 `json:"price"`
		Quantity uint64 `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, uint64(150), l.Price)
	assert.Equal(t, uint64(2), l.Quantity)

	// carol buys 1 unit
	w = doJSON(t, router, http.MethodPost, base+"/purchases", "carol", gin.H{
		"seller":   "bob",
		"quantity": 1,
		"payment":  150,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Oversized purchases conflict with the remaining listing
	w = doJSON(t, router, http.MethodPost, base+"/purchases", "carol", gin.H{
		"seller":   "bob",
		"quantity": 5,
		"payment":  750,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Balances read back publicly
	w = doGET(t, router, base+"/balances/carol")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, uint64(1), balance.Quantity)

	// Unknown holders read as zero
	w = doGET(t, router, base+"/balances/nobody")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, uint64(0), balance.Quantity)
}

func TestDeactivateToken(t *testing.T) {
	router := newTestRouter(t)
	id := createTestToken(t, router)
	base := fmt.Sprintf("/api/v1/tokens/%d", id)

	// Only the creator may deactivate
	w := doJSON(t, router, http.MethodPost, base+"/deactivate", "mallory", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/deactivate", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var token struct {
		Active bool `json:"active"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.False(t, token.Active)

	// Minting a deactivated token is rejected
	w = doJSON(t, router, http.MethodPost, base+"/mint", "bob", gin.H{
		"quantity": 1,
		"payment":  100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListingNotFound(t *testing.T) {
	router := newTestRouter(t)
	id := createTestToken(t, router)

	w := doGET(t, router, fmt.Sprintf("/api/v1/tokens/%d/listings/bob", id))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
