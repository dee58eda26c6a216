package database

import (
	"context"
	"fmt"
	"strings"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// colunas aceitas no agrupamento do painel
var countColumns = map[string]string{
	"status":      "status",
	"coordinator": "coordinator",
	"setor":       "setor",
}

func (s *Store) ListAppointments(ctx context.Context, scope workflow.Scope) ([]models.Appointment, error) {
	var list []models.Appointment
	err := applyScope(s.db.WithContext(ctx).Model(&models.Appointment{}), scope).
		Order("scheduled_date desc, time_slot desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// applyScope traduz a regra de visibilidade e os filtros para WHERE.
func applyScope(q *gorm.DB, scope workflow.Scope) *gorm.DB {
	if scope.OwnedBy != nil {
		q = q.Where("coordinator = ?", *scope.OwnedBy)
	}
	if len(scope.StatusIn) > 0 {
		q = q.Where("status IN ?", scope.StatusIn)
	}
	if scope.Date != nil {
		q = q.Where("scheduled_date = ?", scope.Date.Format(dateLayout))
	}
	if scope.Status != "" {
		q = q.Where("status = ?", scope.Status)
	}
	if scope.Setor != "" {
		q = q.Where("setor = ?", scope.Setor)
	}
	for _, t := range scope.Terms {
		cond, args := searchCondition(t)
		q = q.Where(cond, args...)
	}
	return q
}

// searchCondition: um termo casa com qualquer coluna de texto, ou com a data.
func searchCondition(t workflow.SearchTerm) (string, []any) {
	like := "%" + escapeLike(t.Text) + "%"
	parts := make([]string, 0, len(workflow.SearchColumns)+1)
	args := make([]any, 0, len(workflow.SearchColumns)+1)
	for _, col := range workflow.SearchColumns {
		parts = append(parts, col+" ILIKE ?")
		args = append(args, like)
	}
	if t.Date != nil {
		parts = append(parts, "scheduled_date = ?")
		args = append(args, t.Date.Format(dateLayout))
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (s *Store) CountAppointmentsBy(ctx context.Context, column string) ([]workflow.GroupCount, error) {
	col, ok := countColumns[column]
	if !ok {
		return nil, fmt.Errorf("count appointments: unknown column %q", column)
	}
	var out []workflow.GroupCount
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Select(col + " AS key, count(*) AS count").
		Group(col).
		Order("count desc, key").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("count appointments by %s: %w", column, err)
	}
	return out, nil
}

func (s *Store) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("appointment %d", id), apperr.ErrConflict)
	}
	return &a, nil
}

// LockAppointment: SELECT ... FOR UPDATE; só faz sentido dentro de InTx.
func (s *Store) LockAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("lock appointment %d", id), apperr.ErrConflict)
	}
	return &a, nil
}

func (s *Store) SlotTaken(ctx context.Context, slot workflow.Slot, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("scheduled_date = ? AND time_slot = ? AND coordinator = ?",
			slot.Date.Format(dateLayout), slot.Time, slot.Coordinator)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("slot lookup: %w", err)
	}
	return n > 0, nil
}

// CreateAppointment: o índice idx_slot_owner segura corridas que passaram pelo SlotTaken.
func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return translate(s.db.WithContext(ctx).Create(a).Error, "create appointment", apperr.ErrConflict)
}

func (s *Store) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	return translate(s.db.WithContext(ctx).Save(a).Error, fmt.Sprintf("save appointment %d", a.ID), apperr.ErrConflict)
}

// ApplyTransition grava status/setor só se ainda estiverem como foram lidos.
func (s *Store) ApplyTransition(ctx context.Context, id uint, from workflow.State, ch workflow.Change) error {
	updates := map[string]any{
		"status": ch.Status,
		"setor":  ch.Setor,
	}
	if ch.Observation != nil {
		updates["observation"] = *ch.Observation
	}

	res := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ? AND setor = ?", id, from.Status, from.Setor).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("transition appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transition appointment %d: %w", id, apperr.ErrStale)
	}
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
