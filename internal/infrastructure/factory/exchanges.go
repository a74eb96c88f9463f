package factory

import (
	"kimp/internal/application"
	"kimp/internal/application/port"
	"kimp/internal/infrastructure/config"
	"kimp/internal/infrastructure/pricefeed"

	"github.com/rs/zerolog/log"
)

// BuildExchanges constructs the enabled exchange adapters from config via
// the pricefeed registry. Exchange packages register themselves in init();
// main blank-imports them.
func BuildExchanges(cfg *config.Config) []port.Exchange {
	entries := []struct {
		name string
		conf config.ExchangeConfig
	}{
		{application.ExchangeUpbit, cfg.Exchange.Upbit},
		{application.ExchangeBithumb, cfg.Exchange.Bithumb},
		{application.ExchangeBinance, cfg.Exchange.Binance},
	}

	out := make([]port.Exchange, 0, len(entries))
	for _, s := range entries {
		if !s.conf.Enabled {
			log.Warn().Str("exchange", s.name).Msg("disabled by config")
			continue
		}
		build, ok := pricefeed.Get(s.name)
		if !ok {
			log.Error().Str("exchange", s.name).Msg("no adapter registered")
			continue
		}
		out = append(out, build(s.conf.WsURL, s.conf.RestURL))
	}
	return out
}

// EnabledNames returns the enabled exchange names in display order.
func EnabledNames(cfg *config.Config) []string {
	var names []string
	if cfg.Exchange.Upbit.Enabled {
		names = append(names, application.ExchangeUpbit)
	}
	if cfg.Exchange.Bithumb.Enabled {
		names = append(names, application.ExchangeBithumb)
	}
	if cfg.Exchange.Binance.Enabled {
		names = append(names, application.ExchangeBinance)
	}
	return names
}
