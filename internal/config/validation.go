package config

import (
	"fmt"
	"net/url"

	"github.com/optionforge/optiond/internal/core/asset"
)

// Validate checks the assembled configuration for values the daemon
// cannot start with.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateSeries(&cfg.Series); err != nil {
		return fmt.Errorf("series: %w", err)
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := validateRouter(&cfg.Router); err != nil {
		return fmt.Errorf("router: %w", err)
	}
	return nil
}

func validateServer(s *ServerConfig) error {
	if s.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	return nil
}

func validateSeries(s *SeriesConfig) error {
	if s.UnderlyingSymbol == "" {
		return fmt.Errorf("underlying_symbol cannot be empty")
	}
	if s.StrikeSymbol == "" {
		return fmt.Errorf("strike_symbol cannot be empty")
	}
	if s.UnderlyingDecimals > asset.MaxDecimals {
		return fmt.Errorf("underlying_decimals %d exceeds maximum %d", s.UnderlyingDecimals, asset.MaxDecimals)
	}
	if s.StrikeDecimals > asset.MaxDecimals {
		return fmt.Errorf("strike_decimals %d exceeds maximum %d", s.StrikeDecimals, asset.MaxDecimals)
	}
	if s.StrikePriceDecimals > asset.MaxDecimals {
		return fmt.Errorf("strike_price_decimals %d exceeds maximum %d", s.StrikePriceDecimals, asset.MaxDecimals)
	}
	if s.StrikePrice == 0 {
		return fmt.Errorf("strike_price must be positive")
	}
	if s.Expiration == "" {
		return fmt.Errorf("expiration must be set (RFC 3339)")
	}
	if _, err := s.ExpirationTime(); err != nil {
		return fmt.Errorf("expiration is not valid RFC 3339: %w", err)
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	switch s.Backend {
	case "pebble":
		if s.Path == "" {
			return fmt.Errorf("path cannot be empty for the pebble backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown backend %q (expected pebble or memory)", s.Backend)
	}
	return nil
}

func validateRouter(r *RouterConfig) error {
	if r.QuoteTTL <= 0 {
		return fmt.Errorf("quote_ttl must be positive")
	}
	if r.VenueURL != "" {
		if _, err := url.ParseRequestURI(r.VenueURL); err != nil {
			return fmt.Errorf("venue_url is not a valid URL: %w", err)
		}
		if r.VenueAccount == "" {
			return fmt.Errorf("venue_account cannot be empty when venue_url is set")
		}
	}
	return nil
}
