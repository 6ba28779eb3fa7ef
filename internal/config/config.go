// Package config loads each binary's settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/logging"
	"philcali.me/catalog/internal/media"
)

type Listings struct {
	TableName  string `env:"TABLE_NAME,required,notEmpty"`
	Collection string `env:"COLLECTION" envDefault:"Stores/Products"`

	// TokenSecret is mixed into the continuation token key. Tokens issued
	// under one secret do not decode under another.
	TokenSecret string `env:"TOKEN_SECRET"`

	// DynamoDBEndpoint overrides the resolved endpoint, e.g. DynamoDB Local.
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	Region           string `env:"AWS_REGION"`

	// PathPrefix is stripped before routing, e.g. "/_functions".
	PathPrefix string `env:"PATH_PREFIX"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	Log logging.Config `envPrefix:"LOG_"`
}

type URLConvert struct {
	Media media.Config   `envPrefix:"MEDIA_"`
	Log   logging.Config `envPrefix:"LOG_"`
}

type Export struct {
	APIURL    string        `env:"EXPORT_API_URL,required,notEmpty"`
	PageLimit int           `env:"EXPORT_PAGE_LIMIT" envDefault:"20"`
	Output    string        `env:"EXPORT_OUTPUT" envDefault:"products_urls.csv"`
	Timeout   time.Duration `env:"EXPORT_TIMEOUT" envDefault:"30s"`

	Log logging.Config `envPrefix:"LOG_"`
}

func LoadListings() (*Listings, error) {
	cfg, err := env.ParseAs[Listings]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadURLConvert() (*URLConvert, error) {
	cfg, err := env.ParseAs[URLConvert]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadExport() (*Export, error) {
	cfg, err := env.ParseAs[Export]()
	if err != nil {
		return nil, err
	}
	if err := validateExport(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateExport(c *Export) error {
	if c.PageLimit < 1 || c.PageLimit > data.MAX_PAGE_SIZE {
		return fmt.Errorf("EXPORT_PAGE_LIMIT must be between 1 and %d, got %d", data.MAX_PAGE_SIZE, c.PageLimit)
	}
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("EXPORT_API_URL is not a valid URL: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("EXPORT_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}
