// Package version exposes build information set at link time.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ndewijer/Fund-Holdings-Backend/internal/version.Version=v1.2.3".
var Version = "dev"

// Features lists optional capabilities and whether this build enables them.
// Entries depending on runtime configuration are filled in by the system service.
func Features() map[string]bool {
	return map[string]bool{
		"settlement_sweep":  true,
		"fund_conversion":   true,
		"holding_valuation": true,
		"trading_calendar":  true,
		"nav_import":        true,
	}
}
