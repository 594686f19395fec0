package mailer

import (
	"bytes"
	"errors"
	"testing"

	"doccoder-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func TestSendDocumentReady(t *testing.T) {
	cs := &captureSender{}
	svc := &emailService{dialer: cs, senderEmail: "bot@doccoder.io", senderName: "Doccoder", logger: logger.NewNopLogger()}

	require.NoError(t, svc.SendDocumentReady("user@example.com", "<report>.pdf", "translate"))
	require.Len(t, cs.sent, 1)

	var buf bytes.Buffer
	_, err := cs.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your document is ready")
	assert.Equal(t, []string{"Document processed: <report>.pdf"}, cs.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"user@example.com"}, cs.sent[0].GetHeader("To"))
}

func TestSendDocumentFailed_PropagatesError(t *testing.T) {
	cs := &captureSender{err: errors.New("smtp down")}
	svc := &emailService{dialer: cs, senderEmail: "bot@doccoder.io", logger: logger.NewNopLogger()}

	assert.Error(t, svc.SendDocumentFailed("user@example.com", "a.pdf", "ocr"))
}
