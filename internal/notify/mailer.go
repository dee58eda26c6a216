// Package notify avisa o financeiro por e-mail quando a coordenação repassa um agendamento.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"agenda-escolar/internal/config"
	"agenda-escolar/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Recipients devolve os e-mails dos usuários do financeiro.
type Recipients interface {
	FinanceEmails(ctx context.Context) ([]string, error)
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender     sender
	from       string
	recipients Recipients
	log        zerolog.Logger
}

func NewMailer(cfg config.SMTPConfig, recipients Recipients, log zerolog.Logger) *Mailer {
	return &Mailer{
		sender:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.From,
		recipients: recipients,
		log:        log,
	}
}

var handoffTmpl = template.Must(template.New("handoff").Parse(`<p>Um agendamento foi marcado como <strong>Apto-Coordenação</strong> e enviado ao Financeiro.</p>
<ul>
  <li>ID: {{ .ID }}</li>
  <li>Data: {{ .ScheduledDate.Format "02/01/2006" }} às {{ .TimeSlot }}</li>
  <li>Coordenador: {{ .Coordinator }}</li>
  <li>Responsável: {{ .Responsible1Name }}</li>
  {{ if .StudentName }}<li>Aluno: {{ .StudentName }}</li>{{ end }}
  {{ if .Category }}<li>Categoria: {{ .Category }}</li>{{ end }}
</ul>`))

// NotifyHandoff envia uma mensagem por destinatário; sem destinatários não faz nada.
func (m *Mailer) NotifyHandoff(ctx context.Context, a models.Appointment) error {
	to, err := m.recipients.FinanceEmails(ctx)
	if err != nil {
		return fmt.Errorf("finance recipients: %w", err)
	}
	if len(to) == 0 {
		m.log.Debug().Uint("appointment_id", a.ID).Msg("no finance recipients for handoff")
		return nil
	}

	var body bytes.Buffer
	if err := handoffTmpl.Execute(&body, a); err != nil {
		return fmt.Errorf("render handoff email: %w", err)
	}

	msgs := make([]*gomail.Message, 0, len(to))
	for _, addr := range to {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", addr)
		msg.SetHeader("Subject", fmt.Sprintf("Agendamento #%d enviado ao Financeiro", a.ID))
		msg.SetBody("text/html", body.String())
		msgs = append(msgs, msg)
	}

	if err := m.sender.DialAndSend(msgs...); err != nil {
		return fmt.Errorf("send handoff email: %w", err)
	}
	m.log.Info().Uint("appointment_id", a.ID).Int("recipients", len(to)).Msg("handoff email sent")
	return nil
}
