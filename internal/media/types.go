// Package media turns catalog media identifiers into URLs a browser can fetch.
package media

import (
	"context"
	"fmt"
)

type Image struct {
	URL string `json:"url"`
}

type Resolver interface {
	Resolve(ctx context.Context, id string) (Image, error)
}

type UnsupportedIdentifierError struct {
	Id string
}

func (e UnsupportedIdentifierError) Error() string {
	return fmt.Sprintf("unsupported media identifier: %s", e.Id)
}

func Unsupported(id string) error {
	return UnsupportedIdentifierError{Id: id}
}
