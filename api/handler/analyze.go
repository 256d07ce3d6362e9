package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearcart/trustlens/cache"
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/report"
)

// Analyze returns a handler for POST /api/v1/analyze.
//
// Orchestration flow:
//  1. Parse & validate the request; a request with neither url nor
//     search_query is rejected with no partial report.
//  2. Cache lookup (optional, caller-controlled max age).
//  3. Assembler.Analyze runs the full task tree and always produces a
//     best-effort report.
//  4. Cache store, respond 200.
func Analyze(asm *report.Assembler, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		if !req.HasTarget() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "missing url or search_query",
				},
			})
			return
		}

		cacheKey := cache.Key(req.URL, req.Mode, req.SearchQuery)
		if cc != nil && req.MaxAgeMs > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAgeMs); hit {
				cached.CacheStatus = "hit"
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		rep := asm.Analyze(c.Request.Context(), req)

		if cc != nil && req.MaxAgeMs > 0 {
			cc.Set(cacheKey, rep)
			rep.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, rep)
	}
}
