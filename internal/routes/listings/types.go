package listings

import "philcali.me/catalog/internal/data"

type Listing struct {
	Items []data.Item `json:"items"`
}

func NewListing(items []data.Item) Listing {
	if items == nil {
		items = make([]data.Item, 0)
	}
	return Listing{Items: items}
}

type ListingPage struct {
	Items       []data.Item `json:"items"`
	HasNext     bool        `json:"hasNext"`
	CurrentPage int         `json:"currentPage"`
}

func NewListingPage(page int) func(data.QueryResults[data.Item]) ListingPage {
	return func(results data.QueryResults[data.Item]) ListingPage {
		return ListingPage{
			Items:       NewListing(results.Items).Items,
			HasNext:     results.HasNext(),
			CurrentPage: page,
		}
	}
}
