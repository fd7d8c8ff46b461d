package config

import "github.com/spf13/viper"

// setDefaults registers the built-in defaults. A daemon started with no
// config file settles a WBTC put collateralized in aUSDC.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", "127.0.0.1:6480")

	v.SetDefault("series.underlying_symbol", "WBTC")
	v.SetDefault("series.underlying_decimals", 8)
	v.SetDefault("series.strike_symbol", "aUSDC")
	v.SetDefault("series.strike_decimals", 6)
	v.SetDefault("series.strike_price", 5_000_000_000)
	v.SetDefault("series.strike_price_decimals", 6)

	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "optiond-data")

	v.SetDefault("router.quote_ttl", "3s")
	v.SetDefault("router.venue_url", "")
	v.SetDefault("router.venue_account", "venue")
}
