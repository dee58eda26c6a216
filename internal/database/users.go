package database

import (
	"context"
	"fmt"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id), apperr.ErrDuplicate)
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", username), apperr.ErrDuplicate)
	}
	return &u, nil
}

func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return s.userFieldTaken(ctx, "username", username, excludeID)
}

func (s *Store) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return s.userFieldTaken(ctx, "email", email, excludeID)
}

// userFieldTaken inclui usuários com soft delete: o índice único também os enxerga.
func (s *Store) userFieldTaken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("lookup user %s: %w", column, err)
	}
	return n > 0, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "create user "+u.Username, apperr.ErrDuplicate)
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error, "save user "+u.Username, apperr.ErrDuplicate)
}

// DeleteUser apaga de vez, liberando username e e-mail.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Unscoped().Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
