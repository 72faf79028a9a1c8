package config

import "time"

const (
	defaultShutdownTimeout      = 15 * time.Second
	defaultClockSkew            = 5 * time.Minute
	defaultMaxTicketLifetime    = 8 * time.Hour
	defaultMaxRenewableLifetime = 7 * 24 * time.Hour
	defaultReplayCacheTTL       = 10 * time.Minute
)
