package workflow

import (
	"errors"
	"testing"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

var (
	admin        = Caller{UserID: 1, Username: "admin", Role: models.RoleAdmin}
	finance      = Caller{UserID: 2, Username: "financeiro", Role: models.RoleFinance}
	coordination = Caller{UserID: 3, Username: "maria", Role: models.RoleCoordination}
)

func strPtr(s string) *string { return &s }

func TestDecide(t *testing.T) {
	open := models.Appointment{Status: StatusOpen, Setor: "Acadêmico"}
	handedOff := models.Appointment{Status: StatusCoordinationApproved, Setor: DepartmentFinance}
	approvedNotRouted := models.Appointment{Status: StatusCoordinationApproved, Setor: "Acadêmico"}

	tests := []struct {
		name      string
		caller    Caller
		current   models.Appointment
		req       TransitionRequest
		wantErr   error
		wantSetor string
		handoff   bool
	}{
		{"coordination moves within band", coordination, open,
			TransitionRequest{Status: StatusInProgress, Setor: "Comercial"}, nil, "Comercial", false},
		{"coordination handoff forces Financeiro", coordination, open,
			TransitionRequest{Status: StatusCoordinationApproved, Setor: "Comercial"}, nil, DepartmentFinance, true},
		{"coordination handoff without setor", coordination, open,
			TransitionRequest{Status: StatusCoordinationApproved}, nil, DepartmentFinance, true},
		{"coordination cannot use finance status", coordination, open,
			TransitionRequest{Status: StatusFinanceApproved}, apperr.ErrPermission, "", false},
		{"coordination cannot complete", coordination, open,
			TransitionRequest{Status: StatusCompleted}, apperr.ErrPermission, "", false},
		{"coordination locked after handoff", coordination, handedOff,
			TransitionRequest{Status: StatusOpen}, apperr.ErrLocked, "", false},
		{"lock checked before permission", coordination, handedOff,
			TransitionRequest{Status: StatusFinanceApproved}, apperr.ErrLocked, "", false},
		{"coordination blocked on approved before routing", coordination, approvedNotRouted,
			TransitionRequest{Status: StatusOpen}, apperr.ErrAlreadyApproved, "", false},
		{"finance approves", finance, handedOff,
			TransitionRequest{Status: StatusFinanceApproved, Setor: "Acadêmico"}, nil, "Acadêmico", false},
		{"finance rejects keeps setor when empty", finance, handedOff,
			TransitionRequest{Status: StatusFinanceRejected}, nil, DepartmentFinance, false},
		{"finance cannot use coordination status", finance, handedOff,
			TransitionRequest{Status: StatusCoordinationApproved}, apperr.ErrPermission, "", false},
		{"finance cannot complete", finance, handedOff,
			TransitionRequest{Status: StatusCompleted}, apperr.ErrPermission, "", false},
		{"admin completes", admin, handedOff,
			TransitionRequest{Status: StatusCompleted, Setor: "Secretaria"}, nil, "Secretaria", false},
		{"admin setting Apto-Coordenação is not a handoff", admin, open,
			TransitionRequest{Status: StatusCoordinationApproved, Setor: "Comercial"}, nil, "Comercial", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := Decide(tt.caller, tt.current, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decide() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ch.Status != tt.req.Status {
				t.Errorf("status = %q, want %q", ch.Status, tt.req.Status)
			}
			if ch.Setor != tt.wantSetor {
				t.Errorf("setor = %q, want %q", ch.Setor, tt.wantSetor)
			}
			if ch.HandedOff != tt.handoff {
				t.Errorf("handoff = %v, want %v", ch.HandedOff, tt.handoff)
			}
		})
	}
}

func TestDecide_AlreadyApprovedIsALock(t *testing.T) {
	_, err := Decide(coordination, models.Appointment{Status: StatusCoordinationApproved, Setor: "Comercial"},
		TransitionRequest{Status: StatusInProgress})
	if !errors.Is(err, apperr.ErrLocked) {
		t.Fatalf("expected ErrLocked family, got %v", err)
	}
	if !errors.Is(err, apperr.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
}

func TestChangeApply_ObservationOnlyWhenSent(t *testing.T) {
	a := models.Appointment{Status: StatusOpen, Setor: "Comercial", Observation: "antes"}
	Change{Status: StatusInProgress, Setor: "Comercial"}.Apply(&a)
	if a.Observation != "antes" {
		t.Errorf("observation overwritten without being sent: %q", a.Observation)
	}
	Change{Status: StatusInProgress, Setor: "Comercial", Observation: strPtr("")}.Apply(&a)
	if a.Observation != "" {
		t.Errorf("observation = %q, want empty", a.Observation)
	}
}

func TestLockedForCoordination(t *testing.T) {
	if !LockedForCoordination(models.Appointment{Status: StatusCoordinationApproved, Setor: DepartmentFinance}) {
		t.Error("expected locked")
	}
	if LockedForCoordination(models.Appointment{Status: StatusFinanceApproved, Setor: DepartmentFinance}) {
		t.Error("Apto-Financeiro should not be the coordination lock")
	}
}

func TestCheckoutAllowed(t *testing.T) {
	approved := models.Appointment{Status: StatusCoordinationApproved, Setor: "Comercial"}
	if CheckoutAllowed(coordination, approved) {
		t.Error("coordination should not see checkout on approved appointment")
	}
	if !CheckoutAllowed(finance, approved) || !CheckoutAllowed(admin, approved) {
		t.Error("finance and admin keep checkout")
	}
	if !CheckoutAllowed(coordination, models.Appointment{Status: StatusOpen}) {
		t.Error("open appointment should allow checkout")
	}
}
