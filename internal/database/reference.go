package database

import (
	"context"
	"fmt"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

func refTable(kind models.RefKind) (string, error) {
	t := kind.Table()
	if t == "" {
		return "", fmt.Errorf("unknown reference kind %q", kind)
	}
	return t, nil
}

func (s *Store) ListRefValues(ctx context.Context, kind models.RefKind) ([]models.RefValue, error) {
	table, err := refTable(kind)
	if err != nil {
		return nil, err
	}
	var out []models.RefValue
	if err := s.db.WithContext(ctx).Table(table).Select("id, name").Order("id").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return out, nil
}

func (s *Store) GetRefValue(ctx context.Context, kind models.RefKind, id uint) (*models.RefValue, error) {
	table, err := refTable(kind)
	if err != nil {
		return nil, err
	}
	var v models.RefValue
	res := s.db.WithContext(ctx).Table(table).Select("id, name").Where("id = ?", id).Limit(1).Scan(&v)
	if res.Error != nil {
		return nil, fmt.Errorf("get %s %d: %w", table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%s %d: %w", kind, id, apperr.ErrNotFound)
	}
	return &v, nil
}

func (s *Store) RefValueExists(ctx context.Context, kind models.RefKind, name string) (bool, error) {
	table, err := refTable(kind)
	if err != nil {
		return false, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Table(table).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return n > 0, nil
}

func (s *Store) AddRefValue(ctx context.Context, kind models.RefKind, name string) (*models.RefValue, error) {
	table, err := refTable(kind)
	if err != nil {
		return nil, err
	}
	v := models.RefValue{Name: name}
	if err := s.db.WithContext(ctx).Table(table).Create(&v).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("add %s %q", kind, name), apperr.ErrDuplicate)
	}
	return &v, nil
}

// RefValueInUse ignora agendamentos excluídos (soft delete).
func (s *Store) RefValueInUse(ctx context.Context, kind models.RefKind, name string) (bool, error) {
	col := kind.AppointmentColumn()
	if col == "" {
		return false, fmt.Errorf("unknown reference kind %q", kind)
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).Where(col+" = ?", name).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("usage of %s %q: %w", kind, name, err)
	}
	return n > 0, nil
}

func (s *Store) DeleteRefValue(ctx context.Context, kind models.RefKind, id uint) error {
	table, err := refTable(kind)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, apperr.ErrNotFound)
	}
	return nil
}
