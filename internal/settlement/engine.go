package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/tunemint/market-ledger/internal/access"
	"github.com/tunemint/market-ledger/internal/catalog"
	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/ledger"
	"github.com/tunemint/market-ledger/internal/listing"
	"github.com/tunemint/market-ledger/internal/logger"
)

// OutcomeSink receives the structured outcome record of every settled
// operation. Emission happens strictly after all internal state mutation, so a
// sink can never observe or re-enter a half-applied operation.
type OutcomeSink interface {
	Emit(outcome *domain.SettlementOutcome)
}

// Engine orchestrates create, mint, list, and buy against the catalog, balance
// ledger, listing registry, and access control. Every operation runs
// validate-then-mutate-then-notify: all precondition checks complete before
// the first mutation, and operations on the same token are serialized by a
// per-token mutex, so a rejected call leaves state byte-for-byte unchanged and
// no two calls interleave on one token.
type Engine struct {
	catalog  *catalog.Catalog
	ledger   *ledger.Ledger
	listings *listing.Registry
	access   *access.Control
	operator domain.Actor
	sink     OutcomeSink

	mu         sync.Mutex
	tokenLocks map[domain.TokenID]*sync.Mutex
}

// Config holds the engine's collaborator wiring.
type Config struct {
	Catalog  *catalog.Catalog
	Ledger   *ledger.Ledger
	Listings *listing.Registry
	Access   *access.Control
	// Operator is the marketplace's own settlement identity. Sellers approve
	// it once; every subsequent list and buy-side debit checks that approval.
	Operator domain.Actor
	// Sink receives outcome records; nil disables emission.
	Sink OutcomeSink
}

// NewEngine creates a settlement engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		catalog:    cfg.Catalog,
		ledger:     cfg.Ledger,
		listings:   cfg.Listings,
		access:     cfg.Access,
		operator:   cfg.Operator,
		sink:       cfg.Sink,
		tokenLocks: make(map[domain.TokenID]*sync.Mutex),
	}
}

// Operator returns the marketplace settlement identity sellers must approve.
func (e *Engine) Operator() domain.Actor {
	return e.operator
}

// lockToken acquires the token's mutex, creating it on first use. Token ids
// are never reclaimed, so locks live for the process lifetime.
func (e *Engine) lockToken(tokenID domain.TokenID) func() {
	e.mu.Lock()
	l, ok := e.tokenLocks[tokenID]
	if !ok {
		l = &sync.Mutex{}
		e.tokenLocks[tokenID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create registers a new token and emits its creation record.
func (e *Engine) Create(ctx context.Context, creator domain.Actor, params catalog.CreateParams) (domain.TokenID, error) {
	tokenID, err := e.catalog.Create(creator, params)
	if err != nil {
		return 0, err
	}

	logger.InfoCtx(ctx, "Token created",
		zap.Uint64("token_id", uint64(tokenID)),
		zap.String("creator", creator.String()),
		zap.Uint64("max_supply", params.MaxSupply),
	)

	token, err := e.catalog.Get(tokenID)
	if err != nil {
		return 0, err
	}
	supply := uint64(0)
	e.emit(&domain.SettlementOutcome{
		Kind:            domain.OperationCreate,
		TokenID:         tokenID,
		Actor:           creator,
		Token:           &token,
		ResultingSupply: &supply,
	})

	return tokenID, nil
}

// Mint issues new editions of a token to the caller against exact payment.
// Mint proceeds route entirely to the creator: a mint is a primary sale from
// the creator's own catalog, so royalty splitting applies only to Buy.
func (e *Engine) Mint(ctx context.Context, tokenID domain.TokenID, caller domain.Actor, amount, payment uint64) error {
	if !caller.Valid() || amount == 0 {
		return domain.ErrInvalidParameters
	}

	unlock := e.lockToken(tokenID)
	defer unlock()

	// Validating
	token, err := e.catalog.Get(tokenID)
	if err != nil {
		return err
	}
	if !token.Active {
		return domain.ErrInvalidParameters
	}
	next, err := checkedAdd(token.CurrentSupply, amount)
	if err != nil {
		return err
	}
	if next > token.MaxSupply {
		return domain.ErrSupplyExceeded
	}
	cost, err := checkedMul(amount, token.UnitPrice)
	if err != nil {
		return err
	}
	if payment != cost {
		return domain.ErrIncorrectPayment
	}

	// Mutating. Both steps were fully validated above and cannot fail.
	supply, err := e.catalog.AddSupply(tokenID, amount)
	if err != nil {
		return err
	}
	if err := e.ledger.Credit(tokenID, caller, amount); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Mint settled",
		zap.Uint64("token_id", uint64(tokenID)),
		zap.String("caller", caller.String()),
		zap.Uint64("amount", amount),
		zap.Uint64("payment", payment),
	)

	e.emit(&domain.SettlementOutcome{
		Kind:            domain.OperationMint,
		TokenID:         tokenID,
		Actor:           caller,
		Quantity:        amount,
		Payment:         payment,
		Transfers:       []domain.Transfer{{To: token.Creator, Amount: payment}},
		ResultingSupply: &supply,
		ResultingBalances: map[domain.Actor]uint64{
			caller: e.ledger.BalanceOf(tokenID, caller),
		},
	})

	return nil
}

// List posts or overwrites the seller's offer for a token. The seller must
// have approved the marketplace operator, and the quantity must be covered by
// the seller's balance at call time (it is re-checked at buy time, not
// continuously enforced).
func (e *Engine) List(ctx context.Context, tokenID domain.TokenID, seller domain.Actor, price, quantity uint64) error {
	if !seller.Valid() || price == 0 {
		return domain.ErrInvalidParameters
	}

	unlock := e.lockToken(tokenID)
	defer unlock()

	// Validating
	token, err := e.catalog.Get(tokenID)
	if err != nil {
		return err
	}
	if !token.Active {
		return domain.ErrInvalidParameters
	}
	if err := e.access.RequireOperatorApproval(seller, e.operator); err != nil {
		return err
	}
	if quantity > e.ledger.BalanceOf(tokenID, seller) {
		return domain.ErrInsufficientBalance
	}

	// Mutating
	if err := e.listings.Upsert(tokenID, seller, price, quantity); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Listing posted",
		zap.Uint64("token_id", uint64(tokenID)),
		zap.String("seller", seller.String()),
		zap.Uint64("price", price),
		zap.Uint64("quantity", quantity),
	)

	resulting := domain.Listing{TokenID: tokenID, Seller: seller, Price: price, Quantity: quantity}
	e.emit(&domain.SettlementOutcome{
		Kind:             domain.OperationList,
		TokenID:          tokenID,
		Actor:            seller,
		Quantity:         quantity,
		ResultingListing: &resulting,
	})

	return nil
}

// Buy settles a purchase from a seller's listing: the listing is decremented,
// ownership moves from seller to buyer, and the payment is split between
// seller and creator royalty as the final, irrevocable step.
func (e *Engine) Buy(ctx context.Context, tokenID domain.TokenID, seller, buyer domain.Actor, amount, payment uint64) error {
	if !seller.Valid() || !buyer.Valid() || amount == 0 {
		return domain.ErrInvalidParameters
	}

	unlock := e.lockToken(tokenID)
	defer unlock()

	// Validating
	token, err := e.catalog.Get(tokenID)
	if err != nil {
		return err
	}
	l, ok := e.listings.Get(tokenID, seller)
	if !ok || l.Quantity < amount {
		return domain.ErrInsufficientListing
	}
	// Approval is re-checked here, not only at list time: a seller who revokes
	// the marketplace operator afterwards keeps the listing visible but cannot
	// be debited.
	if err := e.access.RequireOperatorApproval(seller, e.operator); err != nil {
		return err
	}
	// The seller may have transferred away listed inventory since posting;
	// detect that here rather than partial-filling.
	if e.ledger.BalanceOf(tokenID, seller) < amount {
		return domain.ErrListingStale
	}
	cost, err := checkedMul(amount, l.Price)
	if err != nil {
		return err
	}
	if payment != cost {
		return domain.ErrIncorrectPayment
	}

	// Mutating. All three steps were validated above and cannot fail.
	if err := e.listings.Decrement(tokenID, seller, amount); err != nil {
		return err
	}
	if err := e.ledger.Debit(tokenID, seller, amount); err != nil {
		return err
	}
	if err := e.ledger.Credit(tokenID, buyer, amount); err != nil {
		return err
	}

	// Payment routing. Royalty rounds down; the remainder favors the seller.
	// When the seller is the creator the shares collapse into one transfer.
	royaltyShare, sellerShare := splitRoyalty(payment, token.RoyaltyBps)
	var transfers []domain.Transfer
	if seller == token.Creator {
		transfers = []domain.Transfer{{To: seller, Amount: payment}}
	} else {
		// Zero-amount legs are dropped on both sides, so a 0% royalty omits
		// the creator transfer and a 100% royalty omits the seller transfer.
		if royaltyShare > 0 {
			transfers = append(transfers, domain.Transfer{To: token.Creator, Amount: royaltyShare})
		}
		if sellerShare > 0 {
			transfers = append(transfers, domain.Transfer{To: seller, Amount: sellerShare})
		}
	}

	logger.InfoCtx(ctx, "Buy settled",
		zap.Uint64("token_id", uint64(tokenID)),
		zap.String("seller", seller.String()),
		zap.String("buyer", buyer.String()),
		zap.Uint64("amount", amount),
		zap.Uint64("payment", payment),
		zap.Uint64("royalty_share", royaltyShare),
	)

	remaining, _ := e.listings.Get(tokenID, seller)
	remaining.TokenID, remaining.Seller = tokenID, seller
	e.emit(&domain.SettlementOutcome{
		Kind:      domain.OperationBuy,
		TokenID:   tokenID,
		Actor:     buyer,
		Seller:    seller,
		Quantity:  amount,
		Payment:   payment,
		Transfers: transfers,
		ResultingBalances: map[domain.Actor]uint64{
			seller: e.ledger.BalanceOf(tokenID, seller),
			buyer:  e.ledger.BalanceOf(tokenID, buyer),
		},
		ResultingListing: &remaining,
	})

	return nil
}

// Deactivate halts supply growth for a token: future mints and listings are
// blocked, but already-posted listings stay buyable.
func (e *Engine) Deactivate(ctx context.Context, tokenID domain.TokenID, caller domain.Actor) error {
	if !caller.Valid() {
		return domain.ErrInvalidParameters
	}

	unlock := e.lockToken(tokenID)
	defer unlock()

	if err := e.catalog.Deactivate(tokenID, caller); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Token deactivated",
		zap.Uint64("token_id", uint64(tokenID)),
		zap.String("caller", caller.String()),
	)

	e.emit(&domain.SettlementOutcome{
		Kind:    domain.OperationDeactivate,
		TokenID: tokenID,
		Actor:   caller,
	})

	return nil
}

// SetApproval grants or revokes an operator approval for the caller.
func (e *Engine) SetApproval(ctx context.Context, owner, operator domain.Actor, approved bool) error {
	if err := e.access.SetApproval(owner, operator, approved); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Operator approval updated",
		zap.String("owner", owner.String()),
		zap.String("operator", operator.String()),
		zap.Bool("approved", approved),
	)

	e.emit(&domain.SettlementOutcome{
		Kind:     domain.OperationApproval,
		Actor:    owner,
		Operator: operator,
		Approved: &approved,
	})

	return nil
}

// emit stamps and forwards the outcome record. This is the notify phase: it
// runs after the operation is Settled and cannot mutate ledger state.
func (e *Engine) emit(outcome *domain.SettlementOutcome) {
	if e.sink == nil {
		return
	}
	outcome.ID = ulid.Make().String()
	outcome.Timestamp = time.Now().UTC()
	e.sink.Emit(outcome)
}
