package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tunemint/market-ledger/internal/api/middleware"
	"github.com/tunemint/market-ledger/internal/catalog"
	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/ledger"
	"github.com/tunemint/market-ledger/internal/listing"
	"github.com/tunemint/market-ledger/internal/settlement"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// CreateToken registers a new token edition
	// POST /api/v1/tokens
	CreateToken(c *gin.Context)

	// GetToken retrieves a single token by id
	// GET /api/v1/tokens/:id
	GetToken(c *gin.Context)

	// ListTokens retrieves every registered token in creation order
	// GET /api/v1/tokens
	ListTokens(c *gin.Context)

	// DeactivateToken retires a token from further mints and listings
	// POST /api/v1/tokens/:id/deactivate
	DeactivateToken(c *gin.Context)

	// Mint issues new units of a token against exact payment
	// POST /api/v1/tokens/:id/mint
	Mint(c *gin.Context)

	// ListForSale places units of the caller's balance up for sale
	// POST /api/v1/tokens/:id/listings
	ListForSale(c *gin.Context)

	// GetListing retrieves one seller's listing for a token
	// GET /api/v1/tokens/:id/listings/:seller
	GetListing(c *gin.Context)

	// Buy purchases units from a seller's listing
	// POST /api/v1/tokens/:id/purchases
	Buy(c *gin.Context)

	// GetBalance retrieves one holder's balance for a token
	// GET /api/v1/tokens/:id/balances/:holder
	GetBalance(c *gin.Context)

	// SetApproval grants or revokes an operator approval for the caller
	// POST /api/v1/approvals
	SetApproval(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	engine   *settlement.Engine
	catalog  *catalog.Catalog
	ledger   *ledger.Ledger
	listings *listing.Registry
}

// NewHandler creates a new REST API handler around the settlement engine
// and the read-side components it settles against.
func NewHandler(engine *settlement.Engine, cat *catalog.Catalog, led *ledger.Ledger, listings *listing.Registry) Handler {
	return &handler{
		engine:   engine,
		catalog:  cat,
		ledger:   led,
		listings: listings,
	}
}

// actor resolves the acting identity from the authenticated subject.
func actor(c *gin.Context) (domain.Actor, bool) {
	subject := domain.Actor(middleware.AuthSubject(c))
	if !subject.Valid() {
		respondBadRequest(c, "Acting identity is required")
		return "", false
	}
	return subject, true
}

// tokenID parses the :id path parameter.
func tokenID(c *gin.Context) (domain.TokenID, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid token id", raw)
		return 0, false
	}
	return domain.TokenID(id), true
}

// CreateToken registers a new token edition
func (h *handler) CreateToken(c *gin.Context) {
	creator, ok := actor(c)
	if !ok {
		return
	}

	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	id, err := h.engine.Create(c.Request.Context(), creator, catalog.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		MusicURL:    req.MusicURL,
		ImageURL:    req.ImageURL,
		UnitPrice:   req.UnitPrice,
		MaxSupply:   req.MaxSupply,
		RoyaltyBps:  req.RoyaltyBps,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateTokenResponse{ID: uint64(id)})
}

// GetToken retrieves a single token by id
func (h *handler) GetToken(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}

	token, err := h.catalog.Get(id)
	if err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(token))
}

// ListTokens retrieves every registered token in creation order
func (h *handler) ListTokens(c *gin.Context) {
	tokens := []TokenResponse{}
	for token := range h.catalog.ListAll() {
		tokens = append(tokens, toTokenResponse(token))
	}

	c.JSON(http.StatusOK, TokenListResponse{
		Tokens: tokens,
		Total:  len(tokens),
	})
}

// DeactivateToken retires a token from further mints and listings
func (h *handler) DeactivateToken(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	id, ok := tokenID(c)
	if !ok {
		return
	}

	if err := h.engine.Deactivate(c.Request.Context(), id, caller); err != nil {
		respondSettlementError(c, err)
		return
	}

	token, err := h.catalog.Get(id)
	if err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(token))
}

// Mint issues new units of a token against exact payment
func (h *handler) Mint(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	id, ok := tokenID(c)
	if !ok {
		return
	}

	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.engine.Mint(c.Request.Context(), id, caller, req.Quantity, req.Payment); err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		TokenID:  uint64(id),
		Holder:   caller.String(),
		Quantity: h.ledger.BalanceOf(id, caller),
	})
}

// ListForSale places units of the caller's balance up for sale
func (h *handler) ListForSale(c *gin.Context) {
	seller, ok := actor(c)
	if !ok {
		return
	}
	id, ok := tokenID(c)
	if !ok {
		return
	}

	var req ListTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.engine.List(c.Request.Context(), id, seller, req.Price, req.Quantity); err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListingResponse{
		TokenID:  uint64(id),
		Seller:   seller.String(),
		Price:    req.Price,
		Quantity: req.Quantity,
	})
}

// GetListing retrieves one seller's listing for a token
func (h *handler) GetListing(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}

	seller := domain.Actor(c.Param("seller"))
	if !seller.Valid() {
		respondBadRequest(c, "Seller is required")
		return
	}

	l, found := h.listings.Get(id, seller)
	if !found {
		respondWithError(c, http.StatusNotFound, errCodeNotFound, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, toListingResponse(l))
}

// Buy purchases units from a seller's listing
func (h *handler) Buy(c *gin.Context) {
	buyer, ok := actor(c)
	if !ok {
		return
	}
	id, ok := tokenID(c)
	if !ok {
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	seller := domain.Actor(req.Seller)
	if err := h.engine.Buy(c.Request.Context(), id, seller, buyer, req.Quantity, req.Payment); err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		TokenID:  uint64(id),
		Holder:   buyer.String(),
		Quantity: h.ledger.BalanceOf(id, buyer),
	})
}

// GetBalance retrieves one holder's balance for a token
func (h *handler) GetBalance(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}

	holder := domain.Actor(c.Param("holder"))
	if !holder.Valid() {
		respondBadRequest(c, "Holder is required")
		return
	}

	// Absent holders read as zero; resolve the token so unknown ids
	// still surface as 404.
	if _, err := h.catalog.Get(id); err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		TokenID:  uint64(id),
		Holder:   holder.String(),
		Quantity: h.ledger.BalanceOf(id, holder),
	})
}

// SetApproval grants or revokes an operator approval for the caller
func (h *handler) SetApproval(c *gin.Context) {
	owner, ok := actor(c)
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	operator := domain.Actor(req.Operator)
	if req.Operator == "" {
		operator = h.engine.Operator()
	}

	if err := h.engine.SetApproval(c.Request.Context(), owner, operator, *req.Approved); err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, ApprovalResponse{
		Owner:    owner.String(),
		Operator: operator.String(),
		Approved: *req.Approved,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
