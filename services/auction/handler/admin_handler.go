package handler

import (
	"errors"
	"fmt"
	"net/http"

	"auction-server/internal/auctionerrors"
	"auction-server/services/auction/helpers"
	"auction-server/utils"

	"github.com/gin-gonic/gin"
)

// AuctionHandler exposes a read-only JSON view of the auctions
type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	var query helpers.ListAuctionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		helpers.HandleBindError(c, "ListAuctionsHandler", err)
		return
	}

	auctions, err := h.service.ListAuctions(c.Request.Context())
	if err != nil && !errors.Is(err, auctionerrors.ErrNoAuctions) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	summaries := make([]helpers.AuctionSummary, 0, len(auctions))
	for _, a := range auctions {
		summary := helpers.NewAuctionSummary(a)
		if query.State == "active" && !summary.Active || query.State == "ended" && summary.Active {
			continue
		}
		summaries = append(summaries, summary)
	}

	utils.JSONResponse(c, http.StatusOK, summaries, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"state": query.State,
		"count": len(summaries),
	})
}

// GetAuctionHandler handles GET /auctions/:aid
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	aid := c.Param("aid")
	a, err := h.service.ShowRecord(c.Request.Context(), aid)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"aid": aid, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionRecordResponse(a), "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"aid":   aid,
		"state": a.State.String(),
		"bids":  len(a.Bids),
	})
}
