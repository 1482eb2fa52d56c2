package email

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
)

// Provider selects the delivery backend.
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderMailgun  Provider = "mailgun"
	ProviderSES      Provider = "ses"
	ProviderSendgrid Provider = "sendgrid"
)

/*
Attachment is one binary file to ship with the report email. The filename
carries the run date; the content is already fully rendered.
*/
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

/*
SendMessage delivers one message through the selected provider.

sendEmails is a guard for local runs: nil or false logs the would-be
delivery and returns without touching the network. Failures propagate —
there is no retry, no partial delivery; the scheduler reruns the whole job.
*/
func SendMessage(provider Provider, sendEmails *bool, sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment, cfg config.Config) (e *xerr.Error) {
	if sendEmails == nil || !*sendEmails {
		tl.Log(tl.Notice, palette.YellowBold, "Dry run: NOT sending '%s' to %d recipients (%d attachments)", subject, len(recipients), len(attachments))
		return e
	}

	tl.Log(tl.Info, palette.Blue, "Sending '%s' to %d recipients via %s (%d attachments)", subject, len(recipients), provider, len(attachments))

	switch provider {
	case ProviderSMTP:
		e = sendViaSMTP(sender, recipients, subject, textBody, htmlBody, attachments, cfg)
	case ProviderMailgun:
		e = sendViaMailgun(sender, recipients, subject, textBody, htmlBody, attachments, cfg)
	case ProviderSES:
		e = sendViaSES(sender, recipients, subject, textBody, htmlBody, attachments)
	case ProviderSendgrid:
		e = sendViaSendgrid(sender, recipients, subject, textBody, htmlBody, attachments, cfg)
	default:
		e = xerr.NewError(fmt.Errorf("unknown provider '%s'", provider), "select email provider", string(provider))
	}

	if e == nil {
		tl.Log(tl.Info1, palette.Green, "Email sent via %s", provider)
	}
	return e
}
