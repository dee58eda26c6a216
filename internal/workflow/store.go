package workflow

import (
	"context"

	"agenda-escolar/internal/models"
)

// GroupCount: contagem agregada por uma coluna (status, coordenador, setor).
type GroupCount struct {
	Key   string
	Count int64
}

// Store: persistência usada pelo serviço de agendamentos.
// GetAppointment/LockAppointment devolvem apperr.ErrNotFound quando não existe.
type Store interface {
	// InTx roda fn numa transação; erro em fn desfaz tudo.
	InTx(ctx context.Context, fn func(tx Store) error) error

	ListAppointments(ctx context.Context, scope Scope) ([]models.Appointment, error)
	CountAppointmentsBy(ctx context.Context, column string) ([]GroupCount, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	// LockAppointment lê a linha bloqueando-a até o fim da transação.
	LockAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	SlotTaken(ctx context.Context, slot Slot, excludeID uint) (bool, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	SaveAppointment(ctx context.Context, a *models.Appointment) error
	// ApplyTransition só escreve se o status/setor ainda forem os de from;
	// caso contrário devolve apperr.ErrStale.
	ApplyTransition(ctx context.Context, id uint, from State, ch Change) error
	DeleteAppointment(ctx context.Context, id uint) error

	RefValueExists(ctx context.Context, kind models.RefKind, name string) (bool, error)

	RecordAudit(ctx context.Context, entry *models.AuditLog) error
	AuditTrail(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error)
}

// HandoffNotifier é avisado depois que um repasse ao financeiro foi gravado.
type HandoffNotifier interface {
	NotifyHandoff(ctx context.Context, a models.Appointment) error
}
