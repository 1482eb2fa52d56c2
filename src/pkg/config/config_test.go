package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, e := Load()
	require.Nil(t, e)

	assert.Equal(t, "temponovo", cfg.OdooDB)
	assert.Equal(t, "smtp", cfg.EmailProvider)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, []string{"daniel@temponovo.cl", "natalia@temponovo.cl"}, cfg.Recipients)

	assert.Equal(t, 30.0, cfg.Thresholds.DiscountYellow)
	assert.Equal(t, 50.0, cfg.Thresholds.DiscountRed)
	assert.Equal(t, 3, cfg.Thresholds.DiscountDays)
	assert.Equal(t, 30, cfg.Thresholds.OverdueDays)
	assert.Equal(t, 15, cfg.Thresholds.PreviewRows)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ALERTS_ODOO_URL", "https://erp.example.com")
	t.Setenv("ALERTS_EMAIL_PROVIDER", "ses")

	cfg, e := Load()
	require.Nil(t, e)

	assert.Equal(t, "https://erp.example.com", cfg.OdooURL)
	assert.Equal(t, "ses", cfg.EmailProvider)
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := Config{
		OdooUser:      "bot",
		OdooPassword:  "odoo-secret",
		SMTPPassword:  "smtp-secret",
		MailgunAPIKey: "key-123",
	}

	masked := cfg.Redacted()

	assert.Equal(t, "bot", masked.OdooUser)
	assert.Equal(t, "****", masked.OdooPassword)
	assert.Equal(t, "****", masked.SMTPPassword)
	assert.Equal(t, "****", masked.MailgunAPIKey)
	assert.Equal(t, "", masked.SendgridKey)

	// The original is untouched.
	assert.Equal(t, "odoo-secret", cfg.OdooPassword)
}
