package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

var (
	_ alert.Dispatcher = (*SMTPDispatcher)(nil)
	_ alert.Dispatcher = (*LogDispatcher)(nil)
)

// sender abstrae el envío para poder sustituir el dialer SMTP en tests.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPDispatcher envía las notificaciones por correo a una lista fija de destinatarios.
type SMTPDispatcher struct {
	sender     sender
	from       string
	recipients []string
}

// NewSMTPDispatcher construye el dispatcher a partir de la configuración SMTP.
func NewSMTPDispatcher(cfg config.MailConfig, recipients []string) (*SMTPDispatcher, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("mail: SMTP_HOST vacío")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("mail: sin destinatarios")
	}
	return &SMTPDispatcher{
		sender:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:       cfg.From,
		recipients: recipients,
	}, nil
}

// BuildMessage arma el mensaje MIME con el cuerpo HTML.
func (d *SMTPDispatcher) BuildMessage(n alert.Notification) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", d.recipients...)
	m.SetHeader("Subject", n.Subject)
	m.SetHeader("X-Notification-Category", n.Category)
	m.SetBody("text/html", n.HTMLBody)
	return m
}

// Dispatch envía el correo. gomail no acepta contexto: si ctx expira se abandona la espera
// y el envío en curso termina por su cuenta.
func (d *SMTPDispatcher) Dispatch(ctx context.Context, n alert.Notification) error {
	msg := d.BuildMessage(n)
	done := make(chan error, 1)
	go func() {
		done <- d.sender.DialAndSend(msg)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w", ctx.Err())
	}
}

// LogDispatcher deja la notificación en el log cuando no hay SMTP configurado.
type LogDispatcher struct {
	log zerolog.Logger
}

// NewLogDispatcher construye el dispatcher de solo log.
func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log.With().Str("component", "mail").Logger()}
}

// Dispatch implementa alert.Dispatcher.
func (d *LogDispatcher) Dispatch(_ context.Context, n alert.Notification) error {
	d.log.Info().
		Str("category", n.Category).
		Str("subject", n.Subject).
		Msg("SMTP no configurado, notificación solo registrada")
	return nil
}
