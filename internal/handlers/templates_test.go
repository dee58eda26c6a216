package handlers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	for _, name := range []string{
		"login.html", "error.html", "dashboard.html", "appointment_form.html", "history.html",
		"settings.html", "admin_users.html", "user_form.html", "audit_list.html",
		"header", "footer",
	} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %s not defined", name)
		}
	}
}

func TestFuncMapDate(t *testing.T) {
	date := FuncMap()["date"].(func(models.Appointment) string)

	if got := date(models.Appointment{ScheduledDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}); got != "01/03/2024" {
		t.Errorf("date = %q", got)
	}
	if got := date(models.Appointment{}); got != "" {
		t.Errorf("zero date = %q", got)
	}
}

func TestFuncMapCanCheckout(t *testing.T) {
	can := FuncMap()["canCheckout"].(func(workflow.Caller, models.Appointment) bool)
	coord := workflow.Caller{Username: "maria", Role: models.RoleCoordination}
	admin := workflow.Caller{Username: "admin", Role: models.RoleAdmin}

	approved := models.Appointment{Status: workflow.StatusCoordinationApproved}
	if can(coord, approved) {
		t.Error("coordination can checkout an approved appointment")
	}
	if !can(admin, approved) {
		t.Error("admin cannot checkout an approved appointment")
	}
	if !can(coord, models.Appointment{Status: workflow.StatusOpen}) {
		t.Error("coordination cannot checkout an open appointment")
	}
}

func TestFlashCategory(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{apperr.Invalid("cpf_responsavel_1", "CPF inválido."), "warning"},
		{fmt.Errorf("edit: %w", apperr.ErrValidation), "warning"},
		{apperr.ErrLocked, "danger"},
		{errors.New("db down"), "danger"},
	}
	for _, tt := range tests {
		if got := flashCategory(tt.err); got != tt.want {
			t.Errorf("flashCategory(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
