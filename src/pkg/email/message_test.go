package email

import (
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-alerts/src/pkg/config"
)

func TestBuildMessageStructure(t *testing.T) {
	attachments := []Attachment{
		{Filename: "cobranza_20250901.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Content: []byte("fake xlsx")},
		{Filename: "cobranza_20250901.pdf", ContentType: "application/pdf", Content: []byte("fake pdf")},
	}

	message, e := buildMessage(
		"reportes@temponovo.cl",
		[]string{"daniel@temponovo.cl", "natalia@temponovo.cl"},
		"Reporte Temponovo — 01/09/2025",
		"texto plano",
		"<html><body>digest</body></html>",
		attachments,
	)
	require.Nil(t, e)

	raw, rawErr := rawMessage(message)
	require.Nil(t, rawErr)
	encoded := string(raw)

	assert.Contains(t, encoded, "From: <reportes@temponovo.cl>")
	assert.Contains(t, encoded, "daniel@temponovo.cl")
	assert.Contains(t, encoded, "natalia@temponovo.cl")
	assert.Contains(t, encoded, "texto plano")
	assert.Contains(t, encoded, "multipart/")
	assert.Contains(t, encoded, "cobranza_20250901.xlsx")
	assert.Contains(t, encoded, "cobranza_20250901.pdf")
	assert.Contains(t, encoded, "application/pdf")
}

func TestBuildMessageRejectsBadSender(t *testing.T) {
	_, e := buildMessage("not an address", []string{"daniel@temponovo.cl"}, "s", "t", "h", nil)
	assert.NotNil(t, e)
}

func TestSendMessageDryRunSkipsDelivery(t *testing.T) {
	// A dry run must return before any provider is touched; an empty config
	// would make every real provider fail loudly.
	e := SendMessage(ProviderSMTP, nil, "a@b.cl", []string{"c@d.cl"}, "s", "t", "h", nil, config.Config{})
	assert.Nil(t, e)

	sendEmails := false
	e = SendMessage(ProviderSMTP, &sendEmails, "a@b.cl", []string{"c@d.cl"}, "s", "t", "h", nil, config.Config{})
	assert.Nil(t, e)
}

func TestSendMessageUnknownProvider(t *testing.T) {
	sendEmails := true
	e := SendMessage(Provider("carrier-pigeon"), &sendEmails, "a@b.cl", []string{"c@d.cl"}, "s", "t", "h", nil, config.Config{})
	assert.NotNil(t, e)
}

func TestCheckSendgridResponse(t *testing.T) {
	assert.Nil(t, checkSendgridResponse(&rest.Response{StatusCode: 202}))
	assert.NotNil(t, checkSendgridResponse(&rest.Response{StatusCode: 401, Body: "unauthorized"}))
	assert.NotNil(t, checkSendgridResponse(nil))
}
