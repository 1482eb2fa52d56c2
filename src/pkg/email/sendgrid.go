package email

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
)

// sendViaSendgrid delivers through the SendGrid v3 mail API.
func sendViaSendgrid(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment, cfg config.Config) (e *xerr.Error) {
	if cfg.SendgridKey == "" {
		e = xerr.NewError(fmt.Errorf("sendgrid API key is not configured"), "select sendgrid provider", "SENDGRID_API_KEY")
		return e
	}

	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail("", sender))
	message.Subject = subject

	personalization := sgmail.NewPersonalization()
	for _, recipient := range recipients {
		personalization.AddTos(sgmail.NewEmail("", recipient))
	}
	message.AddPersonalizations(personalization)

	message.AddContent(
		sgmail.NewContent("text/plain", textBody),
		sgmail.NewContent("text/html", htmlBody),
	)

	for _, attachment := range attachments {
		sgAttachment := sgmail.NewAttachment()
		sgAttachment.SetFilename(attachment.Filename)
		sgAttachment.SetType(attachment.ContentType)
		sgAttachment.SetDisposition("attachment")
		sgAttachment.SetContent(base64.StdEncoding.EncodeToString(attachment.Content))
		message.AddAttachment(sgAttachment)
	}

	client := sendgrid.NewSendClient(cfg.SendgridKey)
	response, sendErr := client.Send(message)
	if sendErr != nil {
		e = xerr.NewError(sendErr, "deliver via SendGrid", nil)
		return e
	}

	e = checkSendgridResponse(response)
	return e
}

// checkSendgridResponse treats any non-2xx API answer as a delivery failure.
func checkSendgridResponse(response *rest.Response) (e *xerr.Error) {
	if response == nil {
		e = xerr.NewError(fmt.Errorf("empty response"), "check SendGrid response", nil)
		return e
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		e = xerr.NewError(fmt.Errorf("status is %d", response.StatusCode), "API error from SendGrid", response.Body)
		return e
	}

	tl.Log(tl.Verbose, palette.CyanDim, "SendGrid accepted message (status %d)", response.StatusCode)
	return e
}
