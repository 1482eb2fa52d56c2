// entrypoint with subprograms for delivery wiring checks
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/email"
	"sales-alerts/src/pkg/util"
)

/*
Pick a provider and use it to send a test email to the specified address.
Useful before pointing the scheduled job at a new relay or provider account.
*/
func testProvider(subprogram string, flags []string) {
	config.CheckIfEnvVarsPresent(
		"ALERTS_SMTP_HOST", "ALERTS_SMTP_USER", "ALERTS_SMTP_PASSWORD", // smtp
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION", // amazon ses
		"ALERTS_MAILGUN_DOMAIN", "ALERTS_MAILGUN_API_KEY", // mailgun
		"ALERTS_SENDGRID_API_KEY", // sendgrid
	)

	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)

	provider := subprogramCmd.String("provider", "smtp", "Provider to use when sending emails")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient's address (comma-separated for several)")
	subject := subprogramCmd.String("subject", "Test subject", "Subject of the email")
	emailHTMLFilePath := subprogramCmd.String("html", "./tmp/digest.html", "HTML body file, e.g. a dry-run digest")

	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfgErr.QuitIf(xerr.ErrorTypeError)
	}

	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.RequiredFlag(provider, "provider")
	util.EnsureFlags()

	recipientAddresses := strings.Split(*recipientAddress, ",")

	htmlFileContentBytes, err := os.ReadFile(*emailHTMLFilePath)
	xerr.QuitIfError(err, fmt.Sprintf("Unable to read file '%s'", *emailHTMLFilePath))
	tl.Log(tl.Verbose, palette.BlueDim, "Full Email:\n```\n%s\n```", htmlFileContentBytes)

	sendEmails := true
	e := email.SendMessage(
		email.Provider(*provider), &sendEmails,
		*senderAddress, recipientAddresses,
		*subject, "Test message from sales-alerts", string(htmlFileContentBytes), nil, cfg,
	)
	e.QuitIf("error")
}

func main() {
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run src/cmd/send-email/main.go subprogram_name (for example test-provider)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	switch subprogram {
	case "test-provider":
		testProvider(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
