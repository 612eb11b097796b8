package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STRIPE_SECRET_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "cefilm_token", cfg.JWT.CookieName)
	assert.NotEmpty(t, cfg.JWT.Secret, "development falls back to a local secret")
	assert.False(t, cfg.Stripe.Enabled())
	assert.Equal(t, uint32(5), cfg.Gemini.FailureThreshold)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_PRICE_ID_VIP", "price_vip")
	t.Setenv("APP_URL", "https://cefilm.example/")
	t.Setenv("RATE_LIMIT_MAX", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Stripe.Enabled())
	assert.Equal(t, "https://cefilm.example", cfg.Stripe.AppURL)
	assert.Equal(t, 10, cfg.RateLimit.Max)
}

func TestLoadRejects(t *testing.T) {
	t.Run("invalid db port", func(t *testing.T) {
		t.Setenv("DB_PORT", "abc")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production without secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("stripe without price", func(t *testing.T) {
		t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
		t.Setenv("STRIPE_PRICE_ID_VIP", "")
		_, err := Load()
		assert.ErrorContains(t, err, "STRIPE_PRICE_ID_VIP")
	})
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "cefilm", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cefilm sslmode=disable", d.DSN())

	d.SSLRootCert = "/ca.pem"
	assert.Contains(t, d.DSN(), "sslrootcert=/ca.pem")
}
