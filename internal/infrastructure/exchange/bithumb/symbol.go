package bithumb

import (
	"strings"

	"kimp/internal/infrastructure/exchange"
)

// SymbolConverter for Bithumb, whose native spelling joins the segments in
// reverse order with an underscore: "BTC_KRW" <-> "KRW-BTC". The mapping is
// a round-trip: ToNative(ToCanonical(x)) == x for every valid native id.
type SymbolConverter struct{}

func (SymbolConverter) ToCanonical(native string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(native))
	base, fiat, ok := strings.Cut(s, "_")
	if !ok || base == "" || fiat == "" || strings.Contains(fiat, "_") {
		return "", exchange.ErrUnrecognizedFormat
	}
	return fiat + "-" + base, nil
}

func (SymbolConverter) ToNative(code string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	fiat, base, ok := strings.Cut(s, "-")
	if !ok || fiat == "" || base == "" || strings.Contains(base, "-") {
		return "", exchange.ErrUnrecognizedFormat
	}
	return base + "_" + fiat, nil
}
