package workflow

import (
	"context"
	"fmt"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"

	"github.com/rs/zerolog"
)

const auditEntity = "appointment"

type Service struct {
	store    Store
	notifier HandoffNotifier
	log      zerolog.Logger
}

// NewService: notifier pode ser nil (sem aviso de repasse).
func NewService(store Store, notifier HandoffNotifier, log zerolog.Logger) *Service {
	return &Service{store: store, notifier: notifier, log: log}
}

// List devolve os agendamentos que o Caller pode ver, filtrados e ordenados.
func (s *Service) List(ctx context.Context, c Caller, f Filters) ([]models.Appointment, error) {
	scope := ScopeFor(c, f)
	list, err := s.store.ListAppointments(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list appointments (%s): %w", scope, err)
	}
	return list, nil
}

// Get: um agendamento visível ao Caller.
func (s *Service) Get(ctx context.Context, c Caller, id uint) (*models.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Visible(c, *a) {
		return nil, fmt.Errorf("appointment %d: %w", id, apperr.ErrNotFound)
	}
	return a, nil
}

// History: trilha de auditoria de um agendamento visível ao Caller.
func (s *Service) History(ctx context.Context, c Caller, id uint) (*models.Appointment, []models.AuditLog, error) {
	a, err := s.Get(ctx, c, id)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.store.AuditTrail(ctx, auditEntity, id)
	if err != nil {
		return nil, nil, fmt.Errorf("audit trail %d: %w", id, err)
	}
	return a, logs, nil
}

// Create: só admin. Valida, checa conflito de horário e grava na mesma transação.
func (s *Service) Create(ctx context.Context, c Caller, in AppointmentInput) (*models.Appointment, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("create appointment: %w", apperr.ErrPermission)
	}
	a, err := in.parse()
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := checkVocabulary(ctx, tx, a); err != nil {
			return err
		}
		if err := checkConflict(ctx, tx, slotOf(a), 0); err != nil {
			return err
		}
		if err := tx.CreateAppointment(ctx, &a); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, s.audit(c, a.ID, "create",
			fmt.Sprintf("Agendamento criado: %s %s (%s), status %s", a.DateString(), a.TimeSlot, a.Coordinator, a.Status)))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("appointment_id", a.ID).Str("by", c.Username).Msg("appointment created")
	return &a, nil
}

// Edit: só admin, todos os campos. O próprio registro não conta como conflito.
func (s *Service) Edit(ctx context.Context, c Caller, id uint, in AppointmentInput) (*models.Appointment, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("edit appointment: %w", apperr.ErrPermission)
	}
	next, err := in.parse()
	if err != nil {
		return nil, err
	}

	var saved models.Appointment
	err = s.store.InTx(ctx, func(tx Store) error {
		current, err := tx.LockAppointment(ctx, id)
		if err != nil {
			return err
		}
		if err := checkVocabulary(ctx, tx, next); err != nil {
			return err
		}
		if err := checkConflict(ctx, tx, slotOf(next), id); err != nil {
			return err
		}

		next.Model = current.Model
		if err := tx.SaveAppointment(ctx, &next); err != nil {
			return err
		}
		saved = next
		return tx.RecordAudit(ctx, s.audit(c, id, "update",
			fmt.Sprintf("Agendamento atualizado: status %s → %s, setor %s → %s", current.Status, next.Status, current.Setor, next.Setor)))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("appointment_id", id).Str("by", c.Username).Msg("appointment updated")
	return &saved, nil
}

// Delete: só admin.
func (s *Service) Delete(ctx context.Context, c Caller, id uint) error {
	if !c.IsAdmin() {
		return fmt.Errorf("delete appointment: %w", apperr.ErrPermission)
	}
	err := s.store.InTx(ctx, func(tx Store) error {
		a, err := tx.LockAppointment(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteAppointment(ctx, id); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, s.audit(c, id, "delete",
			fmt.Sprintf("Agendamento excluído: %s %s (%s)", a.DateString(), a.TimeSlot, a.Coordinator)))
	})
	if err != nil {
		return err
	}
	s.log.Info().Uint("appointment_id", id).Str("by", c.Username).Msg("appointment deleted")
	return nil
}

// Transition: checkout do agendamento. Leitura, validação e escrita acontecem numa
// transação com a linha bloqueada, e a escrita ainda confere o status/setor lidos.
func (s *Service) Transition(ctx context.Context, c Caller, id uint, req TransitionRequest) (*models.Appointment, error) {
	var (
		updated models.Appointment
		change  Change
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		current, err := tx.LockAppointment(ctx, id)
		if err != nil {
			return err
		}
		if !Visible(c, *current) {
			return fmt.Errorf("appointment %d: %w", id, apperr.ErrNotFound)
		}

		if err := validateTransition(ctx, tx, c, req); err != nil {
			return err
		}
		change, err = Decide(c, *current, req)
		if err != nil {
			return err
		}

		if err := tx.ApplyTransition(ctx, id, StateOf(*current), change); err != nil {
			return err
		}

		details := fmt.Sprintf("Status %s → %s, setor %s → %s", current.Status, change.Status, current.Setor, change.Setor)
		if change.HandedOff {
			details += " (enviado ao Financeiro)"
		}
		updated = *current
		change.Apply(&updated)
		return tx.RecordAudit(ctx, s.audit(c, id, "transition", details))
	})
	if err != nil {
		s.logRejected(c, id, req, err)
		return nil, err
	}

	s.log.Info().
		Uint("appointment_id", id).
		Str("by", c.Username).
		Str("role", string(c.Role)).
		Str("status", updated.Status).
		Str("setor", updated.Setor).
		Bool("handoff", change.HandedOff).
		Msg("appointment transitioned")

	if change.HandedOff && s.notifier != nil {
		if err := s.notifier.NotifyHandoff(ctx, updated); err != nil {
			s.log.Warn().Err(err).Uint("appointment_id", id).Msg("handoff notification failed")
		}
	}
	return &updated, nil
}

func (s *Service) logRejected(c Caller, id uint, req TransitionRequest, err error) {
	evt := s.log.Info()
	if apperr.HTTPStatus(err) >= 500 {
		evt = s.log.Error()
	}
	evt.Err(err).
		Uint("appointment_id", id).
		Str("by", c.Username).
		Str("role", string(c.Role)).
		Str("requested_status", req.Status).
		Msg("transition rejected")
}

func (s *Service) audit(c Caller, id uint, action, details string) *models.AuditLog {
	return &models.AuditLog{
		UserID:   c.UserID,
		Username: c.Username,
		Entity:   auditEntity,
		EntityID: id,
		Action:   action,
		Details:  details,
	}
}

func slotOf(a models.Appointment) Slot {
	return Slot{Date: a.ScheduledDate, Time: a.TimeSlot, Coordinator: a.Coordinator}
}

// checkConflict: conflito de agenda: mesmo coordenador, mesma data e horário.
func checkConflict(ctx context.Context, st Store, slot Slot, excludeID uint) error {
	taken, err := st.SlotTaken(ctx, slot, excludeID)
	if err != nil {
		return fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return fmt.Errorf("coordinator %q at %s %s: %w",
			slot.Coordinator, slot.Date.Format(dateLayout), slot.Time, apperr.ErrConflict)
	}
	return nil
}

func checkVocabulary(ctx context.Context, st Store, a models.Appointment) error {
	checks := []struct {
		kind  models.RefKind
		value string
		msg   string
	}{
		{models.KindStatus, a.Status, "Status inválido."},
		{models.KindDepartment, a.Setor, "Setor inválido."},
		{models.KindChannel, a.Channel, "Canal inválido."},
		{models.KindCategory, a.Category, "Categoria inválida."},
	}
	for _, ch := range checks {
		ok, err := st.RefValueExists(ctx, ch.kind, ch.value)
		if err != nil {
			return fmt.Errorf("check %s: %w", ch.kind, err)
		}
		if !ok {
			return apperr.Invalid(string(ch.kind), ch.msg)
		}
	}
	return nil
}

// validateTransition: status precisa existir; setor, se enviado e não for ignorado
// pelo repasse, também.
func validateTransition(ctx context.Context, st Store, c Caller, req TransitionRequest) error {
	if req.Status == "" {
		return apperr.Invalid("status", "Status inválido ou não fornecido.")
	}
	ok, err := st.RefValueExists(ctx, models.KindStatus, req.Status)
	if err != nil {
		return fmt.Errorf("check status: %w", err)
	}
	if !ok {
		return apperr.Invalid("status", "Status inválido ou não fornecido.")
	}
	if req.Setor == "" || (c.IsCoordination() && req.Status == StatusCoordinationApproved) {
		return nil
	}
	ok, err = st.RefValueExists(ctx, models.KindDepartment, req.Setor)
	if err != nil {
		return fmt.Errorf("check setor: %w", err)
	}
	if !ok {
		return apperr.Invalid("setor", "Setor inválido.")
	}
	return nil
}
