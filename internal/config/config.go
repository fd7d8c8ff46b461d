package config

import "time"

// Config is the complete optiond configuration, assembled from defaults,
// an optional TOML file, and OPTIOND_-prefixed environment variables.
type Config struct {
	Server  ServerConfig  `toml:"server" mapstructure:"server"`
	Series  SeriesConfig  `toml:"series" mapstructure:"series"`
	Storage StorageConfig `toml:"storage" mapstructure:"storage"`
	Router  RouterConfig  `toml:"router" mapstructure:"router"`

	configPath string
}

// ServerConfig holds the HTTP listen settings for the JSON-RPC and
// websocket endpoints.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr" mapstructure:"listen_addr"`
}

// SeriesConfig describes the single option series the daemon settles.
// Amounts are expressed in the smallest unit of each asset.
type SeriesConfig struct {
	UnderlyingSymbol    string `toml:"underlying_symbol" mapstructure:"underlying_symbol"`
	UnderlyingDecimals  uint8  `toml:"underlying_decimals" mapstructure:"underlying_decimals"`
	StrikeSymbol        string `toml:"strike_symbol" mapstructure:"strike_symbol"`
	StrikeDecimals      uint8  `toml:"strike_decimals" mapstructure:"strike_decimals"`
	StrikePrice         uint64 `toml:"strike_price" mapstructure:"strike_price"`
	StrikePriceDecimals uint8  `toml:"strike_price_decimals" mapstructure:"strike_price_decimals"`
	Expiration          string `toml:"expiration" mapstructure:"expiration"`
}

// ExpirationTime parses the configured expiration as RFC 3339.
func (s SeriesConfig) ExpirationTime() (time.Time, error) {
	return time.Parse(time.RFC3339, s.Expiration)
}

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Backend string `toml:"backend" mapstructure:"backend"`
	Path    string `toml:"path" mapstructure:"path"`
}

// RouterConfig tunes the execution router. VenueURL selects the external
// liquidity venue; when empty the router and its RPC methods are disabled.
type RouterConfig struct {
	QuoteTTL     time.Duration `toml:"quote_ttl" mapstructure:"quote_ttl"`
	VenueURL     string        `toml:"venue_url" mapstructure:"venue_url"`
	VenueAccount string        `toml:"venue_account" mapstructure:"venue_account"`
}

// Enabled reports whether a venue is configured.
func (r RouterConfig) Enabled() bool {
	return r.VenueURL != ""
}

// Path returns the config file this Config was loaded from, or "" when
// only defaults and environment variables were used.
func (c *Config) Path() string {
	return c.configPath
}
