package notify

import (
	"fmt"
	"net/smtp"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/config"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"

	"github.com/jordan-wright/email"
)

type sendFunc func(e *email.Email, addr string, a smtp.Auth) error

// Mailer tells the configured reviewers about newly flagged records.
type Mailer struct {
	cfg  config.SMTPConfig
	send sendFunc
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		cfg: cfg,
		send: func(e *email.Email, addr string, a smtp.Auth) error {
			return e.Send(addr, a)
		},
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Enabled()
}

func (m *Mailer) SendFlag(event review.Event) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = m.cfg.NotifyTo
	e.Subject = fmt.Sprintf("Flagged %s record #%d", event.Kind, event.EntityID)
	e.Text = []byte(fmt.Sprintf(
		"A %s record (id %d) was flagged by user %d on %s.\n\nComment:\n%s\n",
		event.Kind, event.EntityID, event.ActorID, event.At.Format("2006-01-02 15:04 MST"), event.Comment,
	))

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(e, addr, auth); err != nil {
		return fmt.Errorf("send flag mail: %w", err)
	}
	return nil
}
