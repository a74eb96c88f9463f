package application

// Exchange names as used in Tick.Exchange, config and storage keys.
const (
	ExchangeUpbit   = "upbit"
	ExchangeBithumb = "bithumb"
	ExchangeBinance = "binance"
)
