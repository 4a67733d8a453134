// Package config loads the application configuration: built-in defaults
// overlaid by STOREFRONT_-prefixed environment variables, nested with __
// (e.g. STOREFRONT_REDIS__ADDR, STOREFRONT_ABACATEPAY__API_KEY).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Addr     string `koanf:"addr"`
		Origin   string `koanf:"origin"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	Mongo struct {
		URI      string `koanf:"uri"`
		Database string `koanf:"database"`
	} `koanf:"mongo"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Security struct {
		JWTSecret string `koanf:"jwt_secret"`
	} `koanf:"security"`

	AbacatePay struct {
		BaseURL string        `koanf:"base_url"`
		APIKey  string        `koanf:"api_key"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"abacatepay"`

	Stripe struct {
		BaseURL   string        `koanf:"base_url"`
		SecretKey string        `koanf:"secret_key"`
		Timeout   time.Duration `koanf:"timeout"`
	} `koanf:"stripe"`

	Checkout struct {
		MergeSteps bool `koanf:"merge_steps"`
	} `koanf:"checkout"`

	Webhook struct {
		Secret string `koanf:"secret"`
	} `koanf:"webhook"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.addr":             ":8080",
		"app.origin":           "http://localhost:3000",
		"app.log_level":        "info",
		"mongo.uri":            "mongodb://localhost:27017",
		"mongo.database":       "storefront",
		"redis.addr":           "localhost:6379",
		"redis.password":       "",
		"abacatepay.base_url":  "https://api.abacatepay.com/v1",
		"abacatepay.timeout":   10 * time.Second,
		"stripe.base_url":      "https://api.stripe.com",
		"stripe.timeout":       10 * time.Second,
		"checkout.merge_steps": false,
	}
}

func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	// environment overlay: STOREFRONT_MONGO__URI, STOREFRONT_SECURITY__JWT_SECRET
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.Addr == "" {
		return fmt.Errorf("app.addr required")
	}
	if c.App.Origin == "" {
		return fmt.Errorf("app.origin required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.AbacatePay.APIKey == "" {
		return fmt.Errorf("abacatepay.api_key required")
	}
	if c.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret required")
	}
	return nil
}
