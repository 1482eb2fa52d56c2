package email

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
)

// sendViaMailgun delivers through the Mailgun messages API.
func sendViaMailgun(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment, cfg config.Config) (e *xerr.Error) {
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		e = xerr.NewError(fmt.Errorf("mailgun credentials are not configured"), "select mailgun provider", "MAILGUN_DOMAIN / MAILGUN_API_KEY")
		return e
	}

	mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)

	message := mailgun.NewMessage(sender, subject, textBody, recipients...)
	message.SetHTML(htmlBody)
	for _, attachment := range attachments {
		message.AddBufferAttachment(attachment.Filename, attachment.Content)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, id, sendErr := mg.Send(ctx, message)
	if sendErr != nil {
		e = xerr.NewError(sendErr, "deliver via Mailgun", cfg.MailgunDomain)
		return e
	}

	tl.Log(tl.Verbose, palette.CyanDim, "Mailgun accepted message id '%s': %s", id, response)
	return e
}
