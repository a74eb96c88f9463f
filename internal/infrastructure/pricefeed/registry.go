package pricefeed

import (
	"kimp/internal/application/port"

	"github.com/rs/zerolog/log"
)

// Factory builds one exchange adapter from its endpoints.
type Factory func(wsURL, restURL string) port.Exchange

// registry maps exchange names to their adapter factories. Exchange packages
// self-register from init(), so nothing here hardcodes venue names.
var registry = make(map[string]Factory)

func Register(exchangeName string, factory Factory) {
	if factory == nil {
		log.Warn().Str("exchange", exchangeName).Msg("invalid exchange factory")
		return
	}
	if _, exists := registry[exchangeName]; exists {
		log.Warn().Str("exchange", exchangeName).Msg("exchange factory already registered, overwriting")
	}
	registry[exchangeName] = factory
}

func Get(exchangeName string) (Factory, bool) {
	factory, ok := registry[exchangeName]
	return factory, ok
}
