package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/rank"
	"github.com/use-agent/distill/search"
)

// Search returns a handler for POST /api/v1/search.
//
// Results come from the DuckDuckGo HTML endpoint; when rank is requested
// they are reordered by semantic similarity to the query (or lexical
// overlap if the embedding backend is down).
func Search(client *search.Client, ranker *rank.Ranker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		results, err := client.Search(c.Request.Context(), req.Query, req.MaxResults)
		if err != nil {
			var perr *models.PipelineError
			if !errors.As(err, &perr) {
				perr = models.NewPipelineError(models.ErrCodeSearchFailed, err.Error(), err)
			}
			c.JSON(mapErrorToStatus(perr), models.SearchResponse{
				Success: false,
				Query:   req.Query,
				Error:   perr.ToDetail(),
			})
			return
		}

		if req.Rank && ranker != nil {
			results = ranker.Rank(c.Request.Context(), req.Query, results)
		}

		out := make([]models.SearchResult, len(results))
		for i, r := range results {
			out[i] = models.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Snippet}
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Success: true,
			Query:   req.Query,
			Ranked:  req.Rank && ranker != nil,
			Results: out,
		})
	}
}
