package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"pinshop/internal/platform/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSMTPMailer_BuildsPlainTextMessage(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{from: "shop@example.com", dialer: d}

	err := m.Send(context.Background(), Message{To: "a@x.com", Subject: "Hi", Body: "Hello A"})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	gm := d.sent[0]
	assert.Equal(t, []string{"shop@example.com"}, gm.GetHeader("From"))
	assert.Equal(t, []string{"a@x.com"}, gm.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, gm.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = gm.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hello A")
	assert.True(t, strings.Contains(buf.String(), "text/plain"))
}

func TestSMTPMailer_WrapsDialError(t *testing.T) {
	m := &SMTPMailer{from: "shop@example.com", dialer: &fakeDialer{err: errors.New("535 auth failed")}}

	err := m.Send(context.Background(), Message{To: "a@x.com"})
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{dialer: d}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, Message{To: "a@x.com"}), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestLogMailer_OmitsBody(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logging.New(&buf, "text", "info"))

	require.NoError(t, m.Send(context.Background(), Message{To: "a@x.com", Subject: "Creds", Body: "PIN: 1234"}))
	assert.Contains(t, buf.String(), "a@x.com")
	assert.NotContains(t, buf.String(), "1234")
}
