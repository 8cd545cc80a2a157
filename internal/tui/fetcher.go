package tui

import (
	"context"

	"github.com/okellodaniel/customerbase/internal/api"
	"github.com/okellodaniel/customerbase/internal/models"
	"github.com/okellodaniel/customerbase/internal/view"
)

// apiFetcher adapts the API client to the page store's Fetcher interface,
// copying records out of the response so the store owns its page
type apiFetcher struct {
	client *api.Client
}

func (f apiFetcher) FetchPage(ctx context.Context, offset, limit int) (view.PageData, error) {
	result, err := f.client.ListPage(ctx, offset, limit)
	if err != nil {
		return view.PageData{}, err
	}

	records := make([]models.Customer, 0, len(result.Records))
	for _, r := range result.Records {
		records = append(records, *r)
	}

	return view.PageData{Records: records, Total: result.Total}, nil
}
