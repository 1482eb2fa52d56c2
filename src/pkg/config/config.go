package config

import (
	"os"
	"strings"

	"github.com/cristalhq/aconfig"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
Config holds everything one report run needs: the Odoo endpoint and service
account, the delivery settings, and the business-rule thresholds.

All values are loadable from ALERTS_-prefixed environment variables
(ALERTS_ODOO_URL, ALERTS_SMTP_HOST, ...). The struct is passed by value into
pipelines and renderers; nothing reads the environment after Load.
*/
type Config struct {
	OdooURL      string `env:"ODOO_URL" usage:"Odoo base URL, e.g. https://erp.example.com"`
	OdooDB       string `env:"ODOO_DB" default:"temponovo" usage:"Odoo database name"`
	OdooUser     string `env:"ODOO_USER" usage:"Odoo service account login"`
	OdooPassword string `env:"ODOO_PASSWORD" usage:"Odoo service account password or API key"`

	EmailProvider string   `env:"EMAIL_PROVIDER" default:"smtp" usage:"Delivery provider: smtp, mailgun, ses or sendgrid"`
	SMTPHost      string   `env:"SMTP_HOST" default:"srv10.akkuarios.com" usage:"SMTP server host"`
	SMTPPort      int      `env:"SMTP_PORT" default:"587" usage:"SMTP server port (STARTTLS)"`
	SMTPUser      string   `env:"SMTP_USER" usage:"SMTP login, also used as the From address"`
	SMTPPassword  string   `env:"SMTP_PASSWORD" usage:"SMTP password"`
	Recipients    []string `env:"RECIPIENTS" default:"daniel@temponovo.cl,natalia@temponovo.cl" usage:"Report recipient addresses"`

	MailgunDomain string `env:"MAILGUN_DOMAIN" usage:"Mailgun sending domain (mailgun provider only)"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY" usage:"Mailgun private API key (mailgun provider only)"`
	SendgridKey   string `env:"SENDGRID_API_KEY" usage:"SendGrid API key (sendgrid provider only)"`

	Thresholds Thresholds
}

/*
Thresholds are the hard-coded business rules of the three reports, overridable
per deployment but never per run.
*/
type Thresholds struct {
	DiscountYellow float64 `env:"DISCOUNT_YELLOW" default:"30.0" usage:"Discount %% above which a line is reported"`
	DiscountRed    float64 `env:"DISCOUNT_RED" default:"50.0" usage:"Discount %% at or above which a line is severity red"`
	DiscountDays   int     `env:"DISCOUNT_DAYS" default:"3" usage:"How many days back to scan order/invoice lines"`
	OverdueDays    int     `env:"OVERDUE_DAYS" default:"30" usage:"Days overdue separating the 1-30 and >30 buckets"`
	QuotationDays  int     `env:"QUOTATION_DAYS" default:"3" usage:"Days a quotation may stay unconfirmed"`
	PickDays       int     `env:"PICK_DAYS" default:"3" usage:"Days a confirmed order may wait for a completed pick"`
	ShipDays       int     `env:"SHIP_DAYS" default:"3" usage:"Days a picked order may wait for a completed delivery"`
	PreviewRows    int     `env:"PREVIEW_ROWS" default:"15" usage:"Max rows per section in the email body"`
}

/*
Load reads the configuration from the environment and validates the fields
without which the run cannot even start. Threshold defaults mirror the
original deployment (30/50 discount, 30-day aging window, 3-day delays).
*/
func Load() (cfg Config, e *xerr.Error) {
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:        "ALERTS",
		SkipFlags:        true,
		AllowUnknownEnvs: true,
	})

	loadErr := loader.Load()
	if loadErr != nil {
		e = xerr.NewError(loadErr, "load configuration from environment", "ALERTS_*")
		return cfg, e
	}

	tl.LogJSON(tl.Verbose, palette.CyanDim, "run configuration", cfg.Redacted())

	return cfg, e
}

/*
Redacted returns a copy safe for logging: every credential is masked.
*/
func (cfg Config) Redacted() Config {
	masked := cfg
	masked.OdooPassword = mask(cfg.OdooPassword)
	masked.SMTPPassword = mask(cfg.SMTPPassword)
	masked.MailgunAPIKey = mask(cfg.MailgunAPIKey)
	masked.SendgridKey = mask(cfg.SendgridKey)
	return masked
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

/*
CheckIfEnvVarsPresent warns about every empty variable in the list. It does
not exit: some variables are only required for the provider actually
selected, and the provider itself fails loudly when its credentials are
missing.
*/
func CheckIfEnvVarsPresent(names ...string) {
	for _, name := range names {
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" {
			tl.Log(tl.Warning, palette.YellowBold, "Environment variable %s is %s", name, "not set")
		}
	}
}
