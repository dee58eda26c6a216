package workflow

import (
	"context"
	"fmt"

	"agenda-escolar/internal/models"
)

// Dashboard: lista visível + contadores do papel.
type Dashboard struct {
	Appointments []models.Appointment
	Open         int64
	Completed    int64

	// só para admin: agregados sobre todos os agendamentos
	ByStatus      []GroupCount
	ByCoordinator []GroupCount
	BySetor       []GroupCount
}

func (s *Service) Dashboard(ctx context.Context, c Caller, f Filters) (*Dashboard, error) {
	list, err := s.List(ctx, c, f)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Appointments: list}

	switch {
	case c.IsAdmin():
		// contadores do admin ignoram os filtros
		if d.ByStatus, err = s.store.CountAppointmentsBy(ctx, "status"); err != nil {
			return nil, fmt.Errorf("count by status: %w", err)
		}
		if d.ByCoordinator, err = s.store.CountAppointmentsBy(ctx, "coordinator"); err != nil {
			return nil, fmt.Errorf("count by coordinator: %w", err)
		}
		if d.BySetor, err = s.store.CountAppointmentsBy(ctx, "setor"); err != nil {
			return nil, fmt.Errorf("count by setor: %w", err)
		}
		for _, g := range d.ByStatus {
			if adminOpenStatuses.has(g.Key) {
				d.Open += g.Count
			}
			if adminDoneStatuses.has(g.Key) {
				d.Completed += g.Count
			}
		}
	case c.IsFinance():
		d.Open, d.Completed = countIn(list, financeOpenStatuses), countIn(list, financeDoneStatuses)
	default:
		d.Open, d.Completed = countIn(list, coordinationOpenStatuses), countIn(list, coordinationDoneStatuses)
	}
	return d, nil
}

func countIn(list []models.Appointment, set statusSet) int64 {
	var n int64
	for _, a := range list {
		if set.has(a.Status) {
			n++
		}
	}
	return n
}
