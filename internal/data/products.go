package data

import "context"

const (
	ITEM_ID_FIELD = "_id"
)

// Item is a catalog record exactly as the store holds it, minus storage keys.
type Item map[string]interface{}

func (i Item) Id() string {
	if id, ok := i[ITEM_ID_FIELD].(string); ok {
		return id
	}
	return ""
}

type ProductDataService interface {
	ListProducts(ctx context.Context, collection string, params QueryParams) (QueryResults[Item], error)
}
