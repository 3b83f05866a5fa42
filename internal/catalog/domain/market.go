package catalog

import "strings"

// OtherProvider is the catch-all entry of the current-provider selector.
const OtherProvider = "Outra"

// MarketProviders are the free-market retailers a household may be with today.
var MarketProviders = []string{
	"EDP Comercial",
	"Endesa",
	"Iberdrola",
	"Galp",
	"Goldenergy",
	"Luzboa",
	"Ylce",
	"MEO Energia",
	"Coopernico",
	"Muon",
	"SU Eletricidade",
	"Enat",
}

// MergeProviderNames appends extra names not already listed, ignoring case
// and surrounding spaces, and ends the list with OtherProvider.
func MergeProviderNames(base []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra)+1)
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || key == strings.ToLower(OtherProvider) {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	for _, name := range base {
		add(name)
	}
	for _, name := range extra {
		add(name)
	}
	return append(out, OtherProvider)
}
