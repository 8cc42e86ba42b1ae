// Package config loads process configuration from the environment, an
// optional .env file and an optional YAML nutrition policy file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"fitcenter/internal/nutrition"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved process configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration
	LogLevel    string
	SeedCatalog bool

	// ForwardAuth trusts the Remote-User header set by an authenticating
	// reverse proxy. Leave it off unless the proxy strips client copies.
	ForwardAuth bool

	AdminUsername string
	AdminPassword string

	OIDC OIDC

	Nutrition nutrition.Policy
}

// OIDC holds single sign-on settings. SSO is enabled when Issuer is set.
type OIDC struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool { return o.Issuer != "" }

// nutritionFile is the on-disk shape of the nutrition policy.
type nutritionFile struct {
	GainSurplusKcal *float64 `yaml:"gain_surplus_kcal"`
	LoseDeficitKcal *float64 `yaml:"lose_deficit_kcal"`
	MacroPolicy     string   `yaml:"macro_policy"`
	DefaultCalories *float64 `yaml:"default_calories"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:          env("ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogLevel:      env("LOG_LEVEL", "info"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		OIDC: OIDC{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		Nutrition: nutrition.DefaultPolicy(),
	}

	ttl, err := time.ParseDuration(env("CACHE_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be a positive duration")
	}
	cfg.CacheTTL = ttl

	seed, err := strconv.ParseBool(env("SEED_CATALOG", "true"))
	if err != nil {
		return nil, fmt.Errorf("SEED_CATALOG: %w", err)
	}
	cfg.SeedCatalog = seed

	forward, err := strconv.ParseBool(env("FORWARD_AUTH", "false"))
	if err != nil {
		return nil, fmt.Errorf("FORWARD_AUTH: %w", err)
	}
	cfg.ForwardAuth = forward

	if path := os.Getenv("NUTRITION_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read nutrition config: %w", err)
		}
		if cfg.Nutrition, err = ParseNutrition(data, cfg.Nutrition); err != nil {
			return nil, err
		}
	}

	if cfg.OIDC.Enabled() && (cfg.OIDC.ClientID == "" || cfg.OIDC.RedirectURL == "") {
		return nil, errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set")
	}
	return cfg, nil
}

// ParseNutrition overlays a YAML nutrition policy onto base.
func ParseNutrition(data []byte, base nutrition.Policy) (nutrition.Policy, error) {
	var f nutritionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return base, fmt.Errorf("parse nutrition config: %w", err)
	}
	p := base
	if f.GainSurplusKcal != nil {
		p.GainSurplus = *f.GainSurplusKcal
	}
	if f.LoseDeficitKcal != nil {
		p.LoseDeficit = *f.LoseDeficitKcal
	}
	if f.DefaultCalories != nil {
		p.FallbackCalories = *f.DefaultCalories
	}
	if f.MacroPolicy != "" {
		p.Macros = nutrition.MacroPolicy(f.MacroPolicy)
	}

	if p.GainSurplus < 0 || p.LoseDeficit < 0 {
		return base, errors.New("nutrition config: surplus and deficit must be non-negative")
	}
	if !p.Macros.Valid() {
		return base, fmt.Errorf("nutrition config: unknown macro_policy %q", p.Macros)
	}
	return p, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
