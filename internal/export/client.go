// Package export pulls the paginated store listing over HTTP and writes it out as CSV.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"philcali.me/catalog/internal/config"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/pagination"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	PageLimit  int
}

type listingPage struct {
	Items       []data.Item `json:"items"`
	HasNext     bool        `json:"hasNext"`
	CurrentPage int         `json:"currentPage"`
}

func NewClient(cfg *config.Export) *Client {
	return &Client{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		PageLimit:  cfg.PageLimit,
	}
}

func (c *Client) _pageURL(page int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.PageLimit))
	return strings.TrimSuffix(c.BaseURL, "/") + "/storeListing?" + params.Encode()
}

// FetchPage reads one page. A page that reports more to come carries the
// next page number as its continuation token.
func (c *Client) FetchPage(ctx context.Context, page int) (data.QueryResults[data.Item], error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c._pageURL(page), nil)
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	req.Header.Set("Accept", "application/json")
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data.QueryResults[data.Item]{}, fmt.Errorf("page %d: status %d: %s", page, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var listing listingPage
	if err := json.Unmarshal(body, &listing); err != nil {
		return data.QueryResults[data.Item]{}, fmt.Errorf("page %d: %w", page, err)
	}
	if listing.Items == nil {
		return data.QueryResults[data.Item]{}, fmt.Errorf("page %d: response has no items", page)
	}
	results := data.QueryResults[data.Item]{Items: listing.Items}
	if listing.HasNext {
		results.NextToken = []byte(strconv.Itoa(page + 1))
	}
	return results, nil
}

func (c *Client) FetchAll(ctx context.Context) ([]data.Item, error) {
	return pagination.Accumulate(ctx, "export", func(ctx context.Context, token []byte) (data.QueryResults[data.Item], error) {
		page := 0
		if len(token) > 0 {
			var err error
			if page, err = strconv.Atoi(string(token)); err != nil {
				return data.QueryResults[data.Item]{}, err
			}
		}
		return c.FetchPage(ctx, page)
	})
}
