package constants

import "time"

const (
	SessionTTL     = 1 * time.Hour
	SessionSweep   = 2 * time.Hour
	WeightCacheTTL = 10 * time.Minute
)

const (
	EngineTimeout       = 30 * time.Second
	TradeRequestTimeout = 10 * time.Second
	DatabaseTimeout     = 5 * time.Second
	RequestTimeout      = 30 * time.Second
)

const (
	TradeRequestsPerSecond = 1
	TradeBurst             = 5
	TradeFetchBatchSize    = 10
	TradeUserAgent         = "exile-tracker/1.0"
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultRankLimit = 10
	MaxRankLimit     = 50
)
