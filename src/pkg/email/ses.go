package email

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
sendViaSES delivers through Amazon SES v2 as a raw MIME message, so the
multipart structure (HTML body + attachments) is built once in buildMessage
and passed through untouched. Credentials and region come from the standard
AWS environment (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION).
*/
func sendViaSES(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	message, e := buildMessage(sender, recipients, subject, textBody, htmlBody, attachments)
	if e != nil {
		return e
	}
	raw, e := rawMessage(message)
	if e != nil {
		return e
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, loadErr := awsconfig.LoadDefaultConfig(ctx)
	if loadErr != nil {
		e = xerr.NewError(loadErr, "load AWS configuration", nil)
		return e
	}

	client := sesv2.NewFromConfig(awsCfg)
	output, sendErr := client.SendEmail(ctx, &sesv2.SendEmailInput{
		Content: &sestypes.EmailContent{
			Raw: &sestypes.RawMessage{Data: raw},
		},
	})
	if sendErr != nil {
		e = xerr.NewError(sendErr, "deliver via SES", sender)
		return e
	}

	if output.MessageId != nil {
		tl.Log(tl.Verbose, palette.CyanDim, "SES accepted message id '%s'", *output.MessageId)
	}
	return e
}
