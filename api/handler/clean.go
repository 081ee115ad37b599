package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/notify"
)

// ResponseCache is the shared cache for cleaned responses.
type ResponseCache = cache.Cache[*models.CleanResponse]

// Clean returns a handler for POST /api/v1/clean.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (only when max_age > 0).
//  3. Pipeline.Clean → cleaned Markdown or summary.
//  4. Fire an async notification when extraction found nothing.
//  5. Cache store, respond 200.
func Clean(p *cleaner.Pipeline, cc *ResponseCache, sink *notify.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.CleanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CleanResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		selectors := append(append([]string{}, req.IncludeTags...), req.ExcludeTags...)
		cacheKey := cache.ResponseKey(req.URL, req.OutputMode, req.MaxWords, req.Frontmatter, selectors...)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, time.Duration(req.MaxAge)*time.Millisecond); hit {
				// The cached pointer is shared across requests; mutate a copy.
				served := *cached
				served.CacheStatus = "hit"
				served.Timing.TotalMs = time.Since(totalStart).Milliseconds()
				c.JSON(http.StatusOK, served)
				return
			}
		}

		resp, err := p.Clean(c.Request.Context(), req.HTML, req.URL, cleaner.Options{
			OutputMode:  req.OutputMode,
			MaxWords:    req.MaxWords,
			Frontmatter: req.Frontmatter,
			IncludeTags: req.IncludeTags,
			ExcludeTags: req.ExcludeTags,
		})
		if err != nil {
			respondError(c, req.URL, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}

		if resp.Notice != "" && sink != nil {
			sink.DeliverAsync(&notify.Event{
				Type:   notify.EventExtractionEmpty,
				URL:    req.URL,
				Notice: resp.Notice,
			})
		}

		if cc != nil && req.MaxAge > 0 {
			stored := *resp
			cc.Set(cacheKey, &stored)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a PipelineError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, url string, err error, timing models.TimingInfo) {
	var perr *models.PipelineError
	if !errors.As(err, &perr) {
		perr = models.NewPipelineError(models.ErrCodeInternal, err.Error(), err)
	}
	if perr.URL == "" {
		perr.URL = url
	}

	c.JSON(mapErrorToStatus(perr), models.CleanResponse{
		Success: false,
		Error:   perr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.PipelineError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeInputTooLarge:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeFetchFailed, models.ErrCodeSearchFailed:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
