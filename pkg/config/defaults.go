package config

// ApplyDefaults fills in zero-valued fields with sane defaults. It is
// applied after unmarshaling so a config file only needs to override
// the fields it cares about.
func ApplyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = "0.0.0.0:88"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyKDCDefaults(&cfg.KDC)
	applyReplayCacheDefaults(&cfg.ReplayCache)
	applyDirectoryDefaults(&cfg.Directory)
	applyRegistryDefaults(&cfg.Registry)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 0.1
	}
	applyProfilingDefaults(&cfg.Profiling)
}

func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space"}
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyKDCDefaults(cfg *KDCConfig) {
	if cfg.AllowableClockSkew == 0 {
		cfg.AllowableClockSkew = defaultClockSkew
	}
	if cfg.MaxTicketLifetime == 0 {
		cfg.MaxTicketLifetime = defaultMaxTicketLifetime
	}
	if cfg.MaxRenewableLifetime == 0 {
		cfg.MaxRenewableLifetime = defaultMaxRenewableLifetime
	}
	if len(cfg.EncryptionTypes) == 0 {
		cfg.EncryptionTypes = []int32{18, 17} // aes256-cts-hmac-sha1-96, aes128-cts-hmac-sha1-96
	}
}

func applyReplayCacheDefaults(cfg *ReplayCacheConfig) {
	if cfg.TTL == 0 {
		cfg.TTL = defaultReplayCacheTTL
	}
}

func applyDirectoryDefaults(cfg *DirectoryConfig) {
	if cfg.BadgerPath == "" {
		cfg.BadgerPath = "/var/lib/kdcd/directory"
	}
}

func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.SchemaName == "" {
		cfg.SchemaName = "default"
	}
}

// GetDefaultConfig returns a fully populated Config with every field
// at its default value, used when no config file is found and by the
// init command to seed a new one.
func GetDefaultConfig() *Config {
	cfg := &Config{
		KDC: KDCConfig{
			PrimaryRealm:          "EXAMPLE.COM",
			ServicePrincipal:      "krbtgt/EXAMPLE.COM",
			BodyChecksumVerified:  true,
			EmptyAddressesAllowed: true,
			ForwardableAllowed:    true,
			ProxiableAllowed:      true,
			PostdatedAllowed:      false,
			RenewableAllowed:      true,
		},
		Keytab: KeytabConfig{
			Path: "/etc/kdcd/kdcd.keytab",
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
