package email

import (
	"bytes"

	"github.com/tuumbleweed/xerr"
	mail "github.com/wneessen/go-mail"
)

/*
buildMessage assembles the multipart MIME message: plain-text body,
preferred HTML alternative, and every attachment base64-encoded with its
filename in the content disposition.
*/
func buildMessage(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) (message *mail.Msg, e *xerr.Error) {
	message = mail.NewMsg()

	if fromErr := message.From(sender); fromErr != nil {
		e = xerr.NewError(fromErr, "set From address", sender)
		return message, e
	}
	if toErr := message.To(recipients...); toErr != nil {
		e = xerr.NewError(toErr, "set To addresses", recipients)
		return message, e
	}

	message.Subject(subject)
	message.SetBodyString(mail.TypeTextPlain, textBody)
	message.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	for _, attachment := range attachments {
		attachErr := message.AttachReader(
			attachment.Filename,
			bytes.NewReader(attachment.Content),
			mail.WithFileContentType(mail.ContentType(attachment.ContentType)),
		)
		if attachErr != nil {
			e = xerr.NewError(attachErr, "attach file", attachment.Filename)
			return message, e
		}
	}

	return message, e
}

/*
rawMessage serializes the assembled message to wire format, for providers
that take a raw MIME blob (SES).
*/
func rawMessage(message *mail.Msg) (raw []byte, e *xerr.Error) {
	var buffer bytes.Buffer
	if _, writeErr := message.WriteTo(&buffer); writeErr != nil {
		e = xerr.NewError(writeErr, "serialize MIME message", nil)
		return raw, e
	}
	raw = buffer.Bytes()
	return raw, e
}
