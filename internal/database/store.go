package database

import (
	"context"
	"errors"
	"fmt"

	"agenda-escolar/internal/accounts"
	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/catalog"
	"agenda-escolar/internal/workflow"

	"gorm.io/gorm"
)

// Store: todas as consultas do app sobre um *gorm.DB (conexão ou transação).
// Appointments, Catalog e Accounts expõem a mesma base com o InTx de cada serviço.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) tx(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

type appointmentStore struct{ *Store }

func (s *Store) Appointments() workflow.Store { return appointmentStore{s} }

func (s appointmentStore) InTx(ctx context.Context, fn func(tx workflow.Store) error) error {
	return s.tx(ctx, func(tx *Store) error { return fn(appointmentStore{tx}) })
}

type catalogStore struct{ *Store }

func (s *Store) Catalog() catalog.Store { return catalogStore{s} }

func (s catalogStore) InTx(ctx context.Context, fn func(tx catalog.Store) error) error {
	return s.tx(ctx, func(tx *Store) error { return fn(catalogStore{tx}) })
}

type accountStore struct{ *Store }

func (s *Store) Accounts() accounts.Store { return accountStore{s} }

func (s accountStore) InTx(ctx context.Context, fn func(tx accounts.Store) error) error {
	return s.tx(ctx, func(tx *Store) error { return fn(accountStore{tx}) })
}

// translate converte erros do gorm para a taxonomia do app.
// dup é o erro usado para violação de índice único.
func translate(err error, what string, dup error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, dup)
	}
	return fmt.Errorf("%s: %w", what, err)
}
