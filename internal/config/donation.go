package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DonationConfig holds operator-tunable donation settings. Unlike the env
// Config it can be changed at runtime via the watched donations.yml file.
type DonationConfig struct {
	DefaultCurrency string `mapstructure:"defaultCurrency"`
	// EditableMethods are the manual payment methods whose donations may be
	// corrected after creation. Gateway-settled donations are never editable.
	EditableMethods []string `mapstructure:"editableMethods"`
	ReceiptSubject  string   `mapstructure:"receiptSubject"`
}

func DefaultDonationConfig() DonationConfig {
	return DonationConfig{
		DefaultCurrency: "GHS",
		EditableMethods: []string{"Cash", "In-Kind"},
		ReceiptSubject:  "Thank you for your donation",
	}
}

type DonationConfigHolder struct {
	current atomic.Value // holds DonationConfig
}

func NewDonationConfigHolder() (*DonationConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("donations")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/donorapp")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DONORAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultDonationConfig()
		v.SetDefault("donations.defaultCurrency", defaults.DefaultCurrency)
		v.SetDefault("donations.editableMethods", defaults.EditableMethods)
		v.SetDefault("donations.receiptSubject", defaults.ReceiptSubject)
	}

	var cfg DonationConfig
	if err := v.UnmarshalKey("donations", &cfg); err != nil {
		return nil, err
	}
	if err := validateDonationConfig(cfg); err != nil {
		return nil, err
	}

	holder := &DonationConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		var next DonationConfig
		if err := v.UnmarshalKey("donations", &next); err != nil {
			log.Printf("donations config reload failed: %v", err)
			return
		}
		if err := validateDonationConfig(next); err != nil {
			log.Printf("donations config reload rejected: %v", err)
			return
		}
		holder.current.Store(next)
	})

	return holder, nil
}

func (h *DonationConfigHolder) Get() DonationConfig {
	if h == nil {
		return DefaultDonationConfig()
	}
	cfg, ok := h.current.Load().(DonationConfig)
	if !ok {
		return DefaultDonationConfig()
	}
	return cfg
}

// IsEditableMethod reports whether donations made with the payment method may
// still be corrected by an admin.
func (h *DonationConfigHolder) IsEditableMethod(method string) bool {
	method = strings.TrimSpace(method)
	for _, candidate := range h.Get().EditableMethods {
		if strings.EqualFold(candidate, method) {
			return true
		}
	}
	return false
}

func validateDonationConfig(cfg DonationConfig) error {
	if strings.TrimSpace(cfg.DefaultCurrency) == "" {
		return errors.New("donations.defaultCurrency is required")
	}
	if len(cfg.DefaultCurrency) != 3 {
		return errors.New("donations.defaultCurrency must be a 3-letter code")
	}
	return nil
}
