package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agenda-escolar/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

type staticRecipients struct {
	emails []string
	err    error
}

func (s staticRecipients) FinanceEmails(context.Context) ([]string, error) { return s.emails, s.err }

func handoff() models.Appointment {
	a := models.Appointment{
		ScheduledDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot:         "09:00",
		Coordinator:      "maria",
		Responsible1Name: "Ana <Souza>",
	}
	a.ID = 12
	return a
}

func TestNotifyHandoff(t *testing.T) {
	s := &fakeSender{}
	m := &Mailer{sender: s, from: "avisos@escola", recipients: staticRecipients{emails: []string{"fin@escola", "fin2@escola"}}, log: zerolog.Nop()}

	if err := m.NotifyHandoff(context.Background(), handoff()); err != nil {
		t.Fatalf("NotifyHandoff: %v", err)
	}
	if len(s.sent) != 2 {
		t.Fatalf("messages = %d, want 2", len(s.sent))
	}
	if got := s.sent[0].GetHeader("To"); len(got) != 1 || got[0] != "fin@escola" {
		t.Errorf("to = %v", got)
	}
	if subj := s.sent[0].GetHeader("Subject"); !strings.Contains(subj[0], "#12") {
		t.Errorf("subject = %v", subj)
	}

	var body bytes.Buffer
	if _, err := s.sent[0].WriteTo(&body); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if strings.Contains(body.String(), "<Souza>") {
		t.Error("body must escape appointment fields")
	}
}

func TestNotifyHandoff_NoRecipients(t *testing.T) {
	s := &fakeSender{}
	m := &Mailer{sender: s, recipients: staticRecipients{}, log: zerolog.Nop()}
	if err := m.NotifyHandoff(context.Background(), handoff()); err != nil {
		t.Fatalf("NotifyHandoff: %v", err)
	}
	if len(s.sent) != 0 {
		t.Error("nothing should be sent")
	}
}

func TestNotifyHandoff_Errors(t *testing.T) {
	m := &Mailer{sender: &fakeSender{}, recipients: staticRecipients{err: errors.New("db down")}, log: zerolog.Nop()}
	if err := m.NotifyHandoff(context.Background(), handoff()); err == nil {
		t.Error("expected recipients error")
	}

	m = &Mailer{sender: &fakeSender{err: errors.New("smtp down")}, recipients: staticRecipients{emails: []string{"fin@escola"}}, log: zerolog.Nop()}
	if err := m.NotifyHandoff(context.Background(), handoff()); err == nil {
		t.Error("expected send error")
	}
}
