package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BillingConfig carries the operational knobs for charge generation and
// PIX payment reconciliation. Loaded from billing.yml with hot reload.
type BillingConfig struct {
	// PollInterval is how often an open PIX session checks the gateway.
	PollInterval time.Duration `mapstructure:"pollInterval"`
	// CountdownTick is the cadence of the client-side expiration countdown.
	CountdownTick time.Duration `mapstructure:"countdownTick"`
	// SessionLockTTL bounds the per-charge session lock held in redis.
	SessionLockTTL time.Duration `mapstructure:"sessionLockTTL"`
	// PenaltyRate and DailyInterestRate accrue on overdue charges.
	PenaltyRate       float64 `mapstructure:"penaltyRate"`
	DailyInterestRate float64 `mapstructure:"dailyInterestRate"`
	// MaxChargesPerBatch caps how many monthly charges one request generates.
	MaxChargesPerBatch int `mapstructure:"maxChargesPerBatch"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		PollInterval:       5 * time.Second,
		CountdownTick:      time.Second,
		SessionLockTTL:     30 * time.Minute,
		PenaltyRate:        0.02,
		DailyInterestRate:  0.00033,
		MaxChargesPerBatch: 12,
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder(log *zap.Logger) (*BillingConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("billing.config")

	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/revenda/config")
	v.AddConfigPath("/etc/revenda")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REVENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.pollInterval", defaults.PollInterval)
	v.SetDefault("billing.countdownTick", defaults.CountdownTick)
	v.SetDefault("billing.sessionLockTTL", defaults.SessionLockTTL)
	v.SetDefault("billing.penaltyRate", defaults.PenaltyRate)
	v.SetDefault("billing.dailyInterestRate", defaults.DailyInterestRate)
	v.SetDefault("billing.maxChargesPerBatch", defaults.MaxChargesPerBatch)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticBillingConfigHolder wraps a fixed config with no file watching.
// Used by tests and tools that do not carry a billing.yml.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.PollInterval <= 0 {
		return errors.New("billing.pollInterval must be positive")
	}
	if cfg.CountdownTick <= 0 {
		return errors.New("billing.countdownTick must be positive")
	}
	if cfg.MaxChargesPerBatch <= 0 {
		return errors.New("billing.maxChargesPerBatch must be positive")
	}
	return nil
}
