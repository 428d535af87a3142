package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest          ErrorCode = "bad_request"
	errCodeNotFound            ErrorCode = "not_found"
	errCodeValidationFailed    ErrorCode = "validation_failed"
	errCodeUnauthorized        ErrorCode = "unauthorized"
	errCodeNotApproved         ErrorCode = "not_approved"
	errCodeSupplyExceeded      ErrorCode = "supply_exceeded"
	errCodeInsufficientBalance ErrorCode = "insufficient_balance"
	errCodeInsufficientListing ErrorCode = "insufficient_listing"
	errCodeListingStale        ErrorCode = "listing_stale"
	errCodeIncorrectPayment    ErrorCode = "incorrect_payment"

	// Server errors (5xx)
	errCodeArithmeticOverflow ErrorCode = "arithmetic_overflow"
	errCodeInternalError      ErrorCode = "internal_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondSettlementError maps a settlement error to its HTTP status and
// error code. Rejections are expected outcomes, not server faults, so
// only the overflow case is logged as an error.
func respondSettlementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Invalid parameters", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(c, http.StatusNotFound, errCodeNotFound, "Not found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(c, http.StatusForbidden, errCodeUnauthorized, "Not permitted", err.Error())
	case errors.Is(err, domain.ErrNotApproved):
		respondWithError(c, http.StatusForbidden, errCodeNotApproved, "Operator not approved", err.Error())
	case errors.Is(err, domain.ErrSupplyExceeded):
		respondWithError(c, http.StatusConflict, errCodeSupplyExceeded, "Supply cap exceeded", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondWithError(c, http.StatusConflict, errCodeInsufficientBalance, "Insufficient balance", err.Error())
	case errors.Is(err, domain.ErrInsufficientListing):
		respondWithError(c, http.StatusConflict, errCodeInsufficientListing, "Insufficient listing", err.Error())
	case errors.Is(err, domain.ErrListingStale):
		respondWithError(c, http.StatusConflict, errCodeListingStale, "Listing is stale", err.Error())
	case errors.Is(err, domain.ErrIncorrectPayment):
		respondWithError(c, http.StatusBadRequest, errCodeIncorrectPayment, "Incorrect payment", err.Error())
	case errors.Is(err, domain.ErrArithmeticOverflow):
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusInternalServerError, errCodeArithmeticOverflow, "Arithmetic overflow", err.Error())
	default:
		respondInternalError(c, err, "Internal server error")
	}
}
