package token

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// TokenMarshaler turns a LastEvaluatedKey into an opaque continuation and
// back. Tokens are bound to the scope (the collection) they were issued for.
type TokenMarshaler interface {
	Marshal(scope string, lastKey map[string]types.AttributeValue) ([]byte, error)

	Unmarshal(scope string, token []byte) (map[string]types.AttributeValue, error)
}
