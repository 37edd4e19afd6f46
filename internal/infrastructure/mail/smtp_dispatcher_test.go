package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

type fakeSender struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.block != nil {
		<-f.block
	}
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestDispatcher(t *testing.T, s sender) *SMTPDispatcher {
	t.Helper()
	d, err := NewSMTPDispatcher(config.MailConfig{Host: "smtp.local", Port: 25, From: "stock@local"}, []string{"a@local", "b@local"})
	require.NoError(t, err)
	d.sender = s
	return d
}

var testNotification = alert.Notification{
	Category: alert.CategoryLowStock,
	Subject:  "Alerte stock bas : Câble (CAB-01)",
	HTMLBody: "<p>reste 5</p>",
}

func TestNewSMTPDispatcher_RequiereHostYDestinatarios(t *testing.T) {
	_, err := NewSMTPDispatcher(config.MailConfig{}, []string{"a@local"})
	assert.Error(t, err)
	_, err = NewSMTPDispatcher(config.MailConfig{Host: "smtp"}, nil)
	assert.Error(t, err)
}

func TestBuildMessage_Cabeceras(t *testing.T) {
	d := newTestDispatcher(t, &fakeSender{})
	m := d.BuildMessage(testNotification)

	assert.Equal(t, []string{"stock@local"}, m.GetHeader("From"))
	assert.Equal(t, []string{"a@local", "b@local"}, m.GetHeader("To"))
	assert.Equal(t, []string{alert.CategoryLowStock}, m.GetHeader("X-Notification-Category"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestDispatch_OK(t *testing.T) {
	fs := &fakeSender{}
	d := newTestDispatcher(t, fs)
	require.NoError(t, d.Dispatch(context.Background(), testNotification))
	assert.Len(t, fs.sent, 1)
}

func TestDispatch_ErrorDelServidor(t *testing.T) {
	d := newTestDispatcher(t, &fakeSender{err: errors.New("535 auth failed")})
	err := d.Dispatch(context.Background(), testNotification)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestDispatch_RespetaTimeout(t *testing.T) {
	fs := &fakeSender{block: make(chan struct{})}
	defer close(fs.block)
	d := newTestDispatcher(t, fs)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Dispatch(ctx, testNotification)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogDispatcher_NuncaFalla(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDispatcher(zerolog.New(&buf))
	require.NoError(t, d.Dispatch(context.Background(), testNotification))
	assert.Contains(t, buf.String(), "CAB-01")
}
