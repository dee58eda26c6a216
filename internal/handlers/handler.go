package handlers

import (
	"context"
	"time"

	"agenda-escolar/internal/accounts"
	"agenda-escolar/internal/catalog"
	"agenda-escolar/internal/export"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/rs/zerolog"
)

type AppointmentService interface {
	Dashboard(ctx context.Context, c workflow.Caller, f workflow.Filters) (*workflow.Dashboard, error)
	List(ctx context.Context, c workflow.Caller, f workflow.Filters) ([]models.Appointment, error)
	Get(ctx context.Context, c workflow.Caller, id uint) (*models.Appointment, error)
	History(ctx context.Context, c workflow.Caller, id uint) (*models.Appointment, []models.AuditLog, error)
	Create(ctx context.Context, c workflow.Caller, in workflow.AppointmentInput) (*models.Appointment, error)
	Edit(ctx context.Context, c workflow.Caller, id uint, in workflow.AppointmentInput) (*models.Appointment, error)
	Delete(ctx context.Context, c workflow.Caller, id uint) error
	Transition(ctx context.Context, c workflow.Caller, id uint, req workflow.TransitionRequest) (*models.Appointment, error)
}

type CatalogService interface {
	All(ctx context.Context) (catalog.Values, error)
	Add(ctx context.Context, c workflow.Caller, kind models.RefKind, name string) (*models.RefValue, error)
	Delete(ctx context.Context, c workflow.Caller, kind models.RefKind, id uint) error
}

type AccountService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	List(ctx context.Context, c workflow.Caller) ([]models.User, error)
	Get(ctx context.Context, c workflow.Caller, id uint) (*models.User, error)
	Create(ctx context.Context, c workflow.Caller, in accounts.UserInput) (*models.User, error)
	Edit(ctx context.Context, c workflow.Caller, id uint, in accounts.UserInput) (*models.User, error)
	Delete(ctx context.Context, c workflow.Caller, id uint) error
}

type AuditReader interface {
	RecentAudit(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps: dependências dos handlers. Archive pode ser nil (sem arquivamento).
type Deps struct {
	Appointments AppointmentService
	Catalog      CatalogService
	Accounts     AccountService
	Audit        AuditReader
	DB           Pinger
	PDF          export.PDFRenderer
	Archive      export.Archiver
	Log          zerolog.Logger
}

type Handler struct {
	appts    AppointmentService
	catalog  CatalogService
	accounts AccountService
	audit    AuditReader
	db       Pinger
	pdf      export.PDFRenderer
	archive  export.Archiver
	log      zerolog.Logger
	now      func() time.Time
}

func New(d Deps) *Handler {
	return &Handler{
		appts:    d.Appointments,
		catalog:  d.Catalog,
		accounts: d.Accounts,
		audit:    d.Audit,
		db:       d.DB,
		pdf:      d.PDF,
		archive:  d.Archive,
		log:      d.Log,
		now:      time.Now,
	}
}
