package upbit

import (
	"strings"

	"kimp/internal/infrastructure/exchange"
)

// SymbolConverter for Upbit. Upbit's native spelling is already the
// canonical "KRW-BTC" form, so both directions only validate.
type SymbolConverter struct{}

func (SymbolConverter) ToCanonical(native string) (string, error) {
	return validate(native)
}

func (SymbolConverter) ToNative(code string) (string, error) {
	return validate(code)
}

func validate(id string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(id))
	fiat, base, ok := strings.Cut(s, "-")
	if !ok || fiat == "" || base == "" || strings.Contains(base, "-") {
		return "", exchange.ErrUnrecognizedFormat
	}
	return s, nil
}
