package binance

import (
	"strings"

	"kimp/internal/infrastructure/exchange"
)

// SymbolConverter for Binance. Native symbols carry no fiat prefix and are
// quoted in USDT: "BTCUSDT" <-> "KRW-BTC". Outbound stream names additionally
// lowercase the native form (see streamSymbol).
type SymbolConverter struct{}

const quoteSuffix = "USDT"

func (SymbolConverter) ToCanonical(native string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(native))
	base, ok := strings.CutSuffix(s, quoteSuffix)
	if !ok || base == "" {
		return "", exchange.ErrUnrecognizedFormat
	}
	return "KRW-" + base, nil
}

func (SymbolConverter) ToNative(code string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	base, ok := strings.CutPrefix(s, "KRW-")
	if !ok || base == "" || strings.Contains(base, "-") {
		return "", exchange.ErrUnrecognizedFormat
	}
	return base + quoteSuffix, nil
}

// streamSymbol is the URL-templated spelling: lowercase native symbol.
func streamSymbol(native string) string {
	return strings.ToLower(native)
}
