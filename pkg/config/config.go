// Package config loads the KDC's static configuration: logging,
// telemetry, metrics, the TGS policy surface, and the collaborator
// endpoints (keytab, replay cache, directory index, schema registry
// bootstrap) cmd/kdcd wires together at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dirsrv/kdc/pkg/tgs"
)

// Config is the KDC's top-level configuration.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (KDC_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Listen is the address the TGS network front end binds to.
	Listen string `mapstructure:"listen" validate:"required" yaml:"listen"`

	// ShutdownTimeout bounds how long graceful shutdown waits for
	// in-flight requests to finish.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`

	// KDC is the TGS policy surface: realm, etypes, lifetimes, and the
	// per-option flags this config ultimately feeds tgs.Config.
	KDC KDCConfig `mapstructure:"kdc" yaml:"kdc"`

	// Keytab locates the long-term keys this KDC seals tickets with.
	Keytab KeytabConfig `mapstructure:"keytab" yaml:"keytab"`

	// ReplayCache configures the authenticator replay cache's
	// eviction window.
	ReplayCache ReplayCacheConfig `mapstructure:"replay_cache" yaml:"replay_cache"`

	// Directory configures the badger-backed one-level children
	// index the directory cursor reads from.
	Directory DirectoryConfig `mapstructure:"directory" yaml:"directory"`

	// Registry configures the schema object registry's bootstrap set.
	Registry RegistryConfig `mapstructure:"registry" yaml:"registry"`
}

// KDCConfig is the TGS policy surface: spec.md section 6's
// configuration fields, one-to-one with tgs.Config.
type KDCConfig struct {
	// PrimaryRealm is the realm this KDC issues tickets for.
	PrimaryRealm string `mapstructure:"primary_realm" validate:"required" yaml:"primary_realm"`

	// ServicePrincipal is this KDC's own ticket-granting principal,
	// e.g. "krbtgt/EXAMPLE.COM".
	ServicePrincipal string `mapstructure:"service_principal" validate:"required" yaml:"service_principal"`

	// EncryptionTypes are the etypes this KDC will negotiate, in
	// preference order.
	EncryptionTypes []int32 `mapstructure:"encryption_types" validate:"required,min=1" yaml:"encryption_types"`

	AllowableClockSkew   time.Duration `mapstructure:"allowable_clock_skew" validate:"required,gt=0" yaml:"allowable_clock_skew"`
	MaxTicketLifetime    time.Duration `mapstructure:"max_ticket_lifetime" validate:"required,gt=0" yaml:"max_ticket_lifetime"`
	MaxRenewableLifetime time.Duration `mapstructure:"max_renewable_lifetime" yaml:"max_renewable_lifetime"`

	BodyChecksumVerified  bool `mapstructure:"body_checksum_verified" yaml:"body_checksum_verified"`
	EmptyAddressesAllowed bool `mapstructure:"empty_addresses_allowed" yaml:"empty_addresses_allowed"`
	ForwardableAllowed    bool `mapstructure:"forwardable_allowed" yaml:"forwardable_allowed"`
	ProxiableAllowed      bool `mapstructure:"proxiable_allowed" yaml:"proxiable_allowed"`
	PostdatedAllowed      bool `mapstructure:"postdated_allowed" yaml:"postdated_allowed"`
	RenewableAllowed      bool `mapstructure:"renewable_allowed" yaml:"renewable_allowed"`
}

// ToTGSConfig projects the policy surface onto the tgs.Config shape
// pkg/tgs.Core actually consumes.
func (c KDCConfig) ToTGSConfig() *tgs.Config {
	return &tgs.Config{
		PrimaryRealm:          c.PrimaryRealm,
		ServicePrincipal:      c.ServicePrincipal,
		EncryptionTypes:       c.EncryptionTypes,
		AllowableClockSkew:    c.AllowableClockSkew,
		MaxTicketLifetime:     c.MaxTicketLifetime,
		MaxRenewableLifetime:  c.MaxRenewableLifetime,
		BodyChecksumVerified:  c.BodyChecksumVerified,
		EmptyAddressesAllowed: c.EmptyAddressesAllowed,
		ForwardableAllowed:    c.ForwardableAllowed,
		ProxiableAllowed:      c.ProxiableAllowed,
		PostdatedAllowed:      c.PostdatedAllowed,
		RenewableAllowed:      c.RenewableAllowed,
	}
}

// KeytabConfig locates the keytab backing this KDC's principal store.
type KeytabConfig struct {
	Path string `mapstructure:"path" validate:"required" yaml:"path"`
}

// ReplayCacheConfig configures the authenticator replay cache.
type ReplayCacheConfig struct {
	// TTL is how long an (ctime, cusec, cname, crealm) tuple is
	// remembered before it can be evicted.
	TTL time.Duration `mapstructure:"ttl" validate:"required,gt=0" yaml:"ttl"`
}

// DirectoryConfig configures the badger-backed children index.
type DirectoryConfig struct {
	BadgerPath string `mapstructure:"badger_path" validate:"required" yaml:"badger_path"`
}

// RegistryConfig configures the schema object registry's bootstrap
// tier: the read-only set loaded at startup, plus the name of the
// schema the overlay registers new objects under.
type RegistryConfig struct {
	SchemaName    string `mapstructure:"schema_name" validate:"required" yaml:"schema_name"`
	BootstrapPath string `mapstructure:"bootstrap_path" yaml:"bootstrap_path"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string          `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool            `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64         `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
	Profiling  ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !found {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration, turning a missing file into a
// user-facing instruction rather than a bare I/O error.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"create one first, e.g.:\n  kdcd init --config %s",
				GetDefaultConfigPath(), GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, restricting permissions since
// the file may one day carry credential material.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate runs struct-tag validation plus the one cross-field rule
// tags cannot express: MaxRenewableLifetime, when set, must not be
// shorter than MaxTicketLifetime.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.KDC.MaxRenewableLifetime != 0 && cfg.KDC.MaxRenewableLifetime < cfg.KDC.MaxTicketLifetime {
		return fmt.Errorf("kdc.max_renewable_lifetime must be at least kdc.max_ticket_lifetime")
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("KDC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook lets config files and environment variables use
// human-readable durations like "30s", "5m", "8h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kdcd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "kdcd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path, exposed for
// the init command.
func GetConfigDir() string {
	return getConfigDir()
}
