package domain

import "errors"

var (
	// ErrInvalidParameters is returned when a caller submits malformed or out-of-range input
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrNotFound is returned when a token is not found in the catalog
	ErrNotFound = errors.New("token not found")

	// ErrUnauthorized is returned when the acting identity lacks the required role
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotApproved is returned when the marketplace operator is not approved by the owner
	ErrNotApproved = errors.New("operator not approved")

	// ErrSupplyExceeded is returned when a mint would push current supply past max supply
	ErrSupplyExceeded = errors.New("supply exceeded")

	// ErrInsufficientBalance is returned when a debit would drive a balance below zero
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientListing is returned when a buy asks for more than the listing offers
	ErrInsufficientListing = errors.New("insufficient listing")

	// ErrListingStale is returned when the seller's balance shrank below the listed
	// amount since the listing was posted
	ErrListingStale = errors.New("listing stale")

	// ErrIncorrectPayment is returned when the payment amount does not exactly match
	// quantity times unit price
	ErrIncorrectPayment = errors.New("incorrect payment")

	// ErrArithmeticOverflow signals a calling-layer bug: a monetary or quantity
	// computation overflowed. It is a defect, never a transient condition.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
