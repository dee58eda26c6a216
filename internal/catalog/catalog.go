// Package catalog mantém os vocabulários controlados (status, canais, setores e
// categorias) usados pelos agendamentos.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/rs/zerolog"
)

type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	ListRefValues(ctx context.Context, kind models.RefKind) ([]models.RefValue, error)
	GetRefValue(ctx context.Context, kind models.RefKind, id uint) (*models.RefValue, error)
	RefValueExists(ctx context.Context, kind models.RefKind, name string) (bool, error)
	// AddRefValue devolve apperr.ErrDuplicate se o nome já existir.
	AddRefValue(ctx context.Context, kind models.RefKind, name string) (*models.RefValue, error)
	// RefValueInUse: algum agendamento ativo referencia o nome?
	RefValueInUse(ctx context.Context, kind models.RefKind, name string) (bool, error)
	DeleteRefValue(ctx context.Context, kind models.RefKind, id uint) error

	RecordAudit(ctx context.Context, entry *models.AuditLog) error
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Values: conteúdo das quatro tabelas, na ordem de RefKinds.
type Values map[models.RefKind][]models.RefValue

func (v Values) Names(kind models.RefKind) []string {
	out := make([]string, 0, len(v[kind]))
	for _, r := range v[kind] {
		out = append(out, r.Name)
	}
	return out
}

// All devolve todos os vocabulários; qualquer usuário autenticado pode ler.
func (s *Service) All(ctx context.Context) (Values, error) {
	out := make(Values, len(models.RefKinds))
	for _, k := range models.RefKinds {
		list, err := s.store.ListRefValues(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", k, err)
		}
		out[k] = list
	}
	return out, nil
}

// Add cadastra um valor novo. Só admin.
func (s *Service) Add(ctx context.Context, c workflow.Caller, kind models.RefKind, name string) (*models.RefValue, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("add %s: %w", kind, apperr.ErrPermission)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("nome", kind.Label()+" não pode ser vazio.")
	}

	var added *models.RefValue
	err := s.store.InTx(ctx, func(tx Store) error {
		exists, err := tx.RefValueExists(ctx, kind, name)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s %q: %w", kind, name, apperr.ErrDuplicate)
		}
		if added, err = tx.AddRefValue(ctx, kind, name); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, audit(c, kind, added.ID, "create", kind.Label()+" adicionado: "+name))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("kind", string(kind)).Str("name", name).Str("by", c.Username).Msg("reference value added")
	return added, nil
}

// Delete remove um valor que nenhum agendamento usa. Só admin.
func (s *Service) Delete(ctx context.Context, c workflow.Caller, kind models.RefKind, id uint) error {
	if !c.IsAdmin() {
		return fmt.Errorf("delete %s: %w", kind, apperr.ErrPermission)
	}

	var name string
	err := s.store.InTx(ctx, func(tx Store) error {
		v, err := tx.GetRefValue(ctx, kind, id)
		if err != nil {
			return err
		}
		name = v.Name

		inUse, err := tx.RefValueInUse(ctx, kind, v.Name)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%s %q: %w", kind, v.Name, apperr.ErrInUse)
		}
		if err := tx.DeleteRefValue(ctx, kind, id); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, audit(c, kind, id, "delete", kind.Label()+" excluído: "+v.Name))
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("kind", string(kind)).Str("name", name).Str("by", c.Username).Msg("reference value deleted")
	return nil
}

func audit(c workflow.Caller, kind models.RefKind, id uint, action, details string) *models.AuditLog {
	return &models.AuditLog{
		UserID:   c.UserID,
		Username: c.Username,
		Entity:   string(kind),
		EntityID: id,
		Action:   action,
		Details:  details,
	}
}
