package upbit

import (
	"kimp/internal/application"
	"kimp/internal/application/port"
	"kimp/internal/infrastructure/pricefeed"
)

func init() {
	pricefeed.Register(application.ExchangeUpbit, func(wsURL, restURL string) port.Exchange {
		return New(wsURL, restURL)
	})
}
