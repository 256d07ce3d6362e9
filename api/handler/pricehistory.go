package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clearcart/trustlens/extract"
	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/page"
	"github.com/clearcart/trustlens/store"
)

// PriceHistory returns a handler for GET /api/v1/price-history?url=<url>.
//
// The current price comes from the narrow price-only extraction cascade.
// Any product that passes through here gets auto-tracked: the first
// observation upserts the product with its first price point, and later
// calls append today's live price when the stored history is stale.
func PriceHistory(gw *fetch.Gateway, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetURL := c.Query("url")
		if targetURL == "" {
			c.JSON(http.StatusBadRequest, models.PriceHistoryResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "missing url parameter",
				},
			})
			return
		}

		ctx := c.Request.Context()

		currentPrice, ok := fetchCurrentPrice(ctx, gw, targetURL)
		if !ok {
			c.JSON(http.StatusOK, models.PriceHistoryResponse{
				CurrentPrice: nil,
				PriceHistory: []models.PricePoint{},
				Message:      "Could not extract price. Page structure may not be supported.",
			})
			return
		}

		today := time.Now().Format("2006-01-02")
		history := []models.PricePoint{{Date: today, Price: currentPrice}}

		stored, err := st.PriceHistory(ctx, targetURL)
		switch {
		case err != nil:
			slog.Warn("price history read failed", "url", targetURL, "error", err)
		case len(stored) > 0:
			history = stored
			if history[len(history)-1].Date != today {
				history = append(history, models.PricePoint{Date: today, Price: currentPrice})
				if err := st.AddPricePoint(ctx, targetURL, currentPrice); err != nil {
					slog.Warn("price point append failed", "url", targetURL, "error", err)
				}
			}
		default:
			// First sighting: auto-track with this first price point.
			if err := st.TrackProduct(ctx, targetURL, "", currentPrice); err != nil {
				slog.Warn("auto-track failed", "url", targetURL, "error", err)
			}
		}

		c.JSON(http.StatusOK, models.PriceHistoryResponse{
			CurrentPrice: &currentPrice,
			PriceHistory: history,
			Message:      "Successfully extracted current price.",
		})
	}
}

// fetchCurrentPrice fetches and parses the page, then runs the price-only
// cascade. All failures degrade to "no price".
func fetchCurrentPrice(ctx context.Context, gw *fetch.Gateway, targetURL string) (float64, bool) {
	html, err := gw.Page(ctx, targetURL)
	if err != nil {
		slog.Warn("price fetch failed", "url", targetURL, "error", err)
		return 0, false
	}
	snap, err := page.NewSnapshot(targetURL, html)
	if err != nil {
		slog.Warn("price page parse failed", "url", targetURL, "error", err)
		return 0, false
	}
	return extract.CurrentPrice(snap)
}
