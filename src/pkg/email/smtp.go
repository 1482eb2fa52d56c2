package email

import (
	"github.com/tuumbleweed/xerr"
	mail "github.com/wneessen/go-mail"

	"sales-alerts/src/pkg/config"
)

/*
sendViaSMTP delivers through a plain SMTP relay: STARTTLS mandatory, PLAIN
auth. This is the default provider — the original deployment relays through
the hosting provider's SMTP server.
*/
func sendViaSMTP(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment, cfg config.Config) (e *xerr.Error) {
	message, e := buildMessage(sender, recipients, subject, textBody, htmlBody, attachments)
	if e != nil {
		return e
	}

	client, clientErr := mail.NewClient(
		cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if clientErr != nil {
		e = xerr.NewError(clientErr, "create SMTP client", cfg.SMTPHost)
		return e
	}

	if sendErr := client.DialAndSend(message); sendErr != nil {
		e = xerr.NewError(sendErr, "deliver via SMTP", map[string]any{"host": cfg.SMTPHost, "port": cfg.SMTPPort})
		return e
	}

	return e
}
