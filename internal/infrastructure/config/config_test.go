package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "a",
		"JWT_REFRESH_SECRET": "b",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.Mongo.Database != "pawcare_auth" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.BcryptCost != 12 || cfg.Auth.CookieSecure {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Requests != 10 || cfg.RateLimit.Window != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Audit.Workers != 4 {
		t.Fatalf("audit workers = %d", cfg.Audit.Workers)
	}
	if cfg.Env != "production" || cfg.IsDevelopment() {
		t.Fatalf("unset ENV must not enable development mode: env=%q", cfg.Env)
	}
	if cfg.TrustProxy {
		t.Fatal("proxy headers must not be trusted by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "a",
		"JWT_REFRESH_SECRET": "b",
		"ENV":                "Development",
		"TRUST_PROXY":        "true",
		"COOKIE_SECURE":      "true",
		"RATE_LIMIT_WINDOW":  "30s",
		"REDIS_DB":           "2",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if !cfg.IsDevelopment() || !cfg.TrustProxy || !cfg.Auth.CookieSecure || cfg.RateLimit.Window != 30*time.Second || cfg.Redis.DB != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadWith_SecretRules(t *testing.T) {
	cases := map[string]struct {
		env  map[string]string
		want string
	}{
		"missing access secret": {
			env:  map[string]string{"JWT_REFRESH_SECRET": "b"},
			want: "JWT_SECRET is required",
		},
		"missing refresh secret": {
			env:  map[string]string{"JWT_SECRET": "a"},
			want: "JWT_REFRESH_SECRET is required",
		},
		"identical secrets": {
			env:  map[string]string{"JWT_SECRET": "same", "JWT_REFRESH_SECRET": "same"},
			want: "must differ",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}
