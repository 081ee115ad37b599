package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/notify"
	"github.com/use-agent/distill/search"
)

// Batch returns a handler for POST /api/v1/batch/clean.
//
// Each URL is fetched and cleaned by a bounded worker pool. Items are fully
// isolated: a fetch or pipeline failure records an error on that item and
// the batch continues. The response preserves input order.
func Batch(p *cleaner.Pipeline, fetcher *search.Client, sink *notify.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchCleanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BatchCleanResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		items := make([]models.BatchItem, len(req.URLs))
		sem := make(chan struct{}, req.Concurrency)
		var wg sync.WaitGroup

		for i, u := range req.URLs {
			wg.Add(1)
			go func(i int, u string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				items[i] = cleanOne(c, p, fetcher, u, req)
			}(i, u)
		}
		wg.Wait()

		failed := 0
		for _, item := range items {
			if !item.Success {
				failed++
			}
		}

		if sink != nil {
			sink.DeliverAsync(&notify.Event{
				Type: notify.EventBatchCompleted,
				Data: gin.H{"total": len(items), "failed": failed},
			})
		}

		c.JSON(http.StatusOK, models.BatchCleanResponse{
			Success: true,
			Total:   len(items),
			Failed:  failed,
			Results: items,
		})
	}
}

func cleanOne(c *gin.Context, p *cleaner.Pipeline, fetcher *search.Client, url string, req models.BatchCleanRequest) models.BatchItem {
	ctx := c.Request.Context()

	page, err := fetcher.FetchPage(ctx, url)
	if err != nil {
		return failedItem(url, err)
	}

	resp, err := p.Clean(ctx, page.HTML, page.FinalURL, cleaner.Options{
		OutputMode:  req.OutputMode,
		MaxWords:    req.MaxWords,
		Frontmatter: req.Frontmatter,
	})
	if err != nil {
		return failedItem(url, models.WrapWithURL(url, err))
	}

	return models.BatchItem{
		URL:     url,
		Success: true,
		Content: resp.Content,
		Title:   resp.Metadata.Title,
	}
}

func failedItem(url string, err error) models.BatchItem {
	perr := models.WrapWithURL(url, err)
	return models.BatchItem{
		URL:     url,
		Success: false,
		Content: "[unavailable: " + perr.Message + "]",
		Error:   perr.ToDetail(),
	}
}
