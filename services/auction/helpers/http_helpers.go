package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-server/internal/auctionerrors"
	"auction-server/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request parameters: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request parameters")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, "invalid auction id"
	case errors.Is(err, auctionerrors.ErrNoAuctions):
		return http.StatusOK, "no auctions found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
