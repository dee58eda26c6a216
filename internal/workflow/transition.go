package workflow

import (
	"fmt"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

// TransitionRequest: pedido de checkout: novo status, setor opcional e observação.
// Observation nil significa "não enviada".
type TransitionRequest struct {
	Status      string
	Setor       string
	Observation *string
}

// Change: o que será gravado se a transição for aceita.
type Change struct {
	Status      string
	Setor       string
	Observation *string
	HandedOff   bool // coordenação → financeiro
}

// State: status+setor lidos antes da escrita; usados no compare-and-set.
type State struct {
	Status string
	Setor  string
}

func StateOf(a models.Appointment) State {
	return State{Status: a.Status, Setor: a.Setor}
}

// LockedForCoordination: depois do repasse a coordenação perde a escrita.
func LockedForCoordination(a models.Appointment) bool {
	return a.Status == StatusCoordinationApproved && a.Setor == DepartmentFinance
}

// CheckoutAllowed: a coordenação não mexe mais em agendamentos já Apto-Coordenação.
// Usado pela tela para esconder o formulário; Decide continua sendo a regra.
func CheckoutAllowed(c Caller, a models.Appointment) bool {
	return !c.IsCoordination() || a.Status != StatusCoordinationApproved
}

// Decide aplica as travas, a permissão por papel e o roteamento automático.
// O status já foi validado contra os status cadastrados.
func Decide(c Caller, current models.Appointment, req TransitionRequest) (Change, error) {
	if c.IsCoordination() {
		if LockedForCoordination(current) {
			return Change{}, fmt.Errorf("appointment %d: %w", current.ID, apperr.ErrLocked)
		}
		if current.Status == StatusCoordinationApproved {
			return Change{}, fmt.Errorf("appointment %d: %w", current.ID, apperr.ErrAlreadyApproved)
		}
	}

	if !c.MayUseStatus(req.Status) {
		return Change{}, fmt.Errorf("role %s cannot set status %q: %w", c.Role, req.Status, apperr.ErrPermission)
	}

	ch := Change{Status: req.Status, Setor: req.Setor, Observation: req.Observation}
	if ch.Setor == "" {
		ch.Setor = current.Setor
	}

	// repasse: o setor enviado é ignorado
	if c.IsCoordination() && req.Status == StatusCoordinationApproved {
		ch.Setor = DepartmentFinance
		ch.HandedOff = true
	}
	return ch, nil
}

// Apply grava a mudança na cópia em memória.
func (ch Change) Apply(a *models.Appointment) {
	a.Status = ch.Status
	a.Setor = ch.Setor
	if ch.Observation != nil {
		a.Observation = *ch.Observation
	}
}
