package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

// -- memStore: Store em memória; InTx serializa e desfaz em caso de erro --

type memStore struct {
	mu     sync.Mutex
	nextID uint
	appts  map[uint]models.Appointment
	refs   map[models.RefKind]map[string]bool
	audit  []models.AuditLog

	staleOnApply bool
}

func newMemStore() *memStore {
	m := &memStore{
		appts: make(map[uint]models.Appointment),
		refs:  make(map[models.RefKind]map[string]bool),
	}
	m.addRefs(models.KindStatus, DefaultStatuses...)
	m.addRefs(models.KindDepartment, "Comercial", "Acadêmico", DepartmentFinance)
	m.addRefs(models.KindChannel, "Telefone", "WhatsApp")
	m.addRefs(models.KindCategory, "Matrícula", "Bolsa")
	return m
}

func (m *memStore) addRefs(kind models.RefKind, names ...string) {
	if m.refs[kind] == nil {
		m.refs[kind] = make(map[string]bool)
	}
	for _, n := range names {
		m.refs[kind][n] = true
	}
}

// seed grava direto, sem passar pelo serviço.
func (m *memStore) seed(a models.Appointment) models.Appointment {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.appts[a.ID] = a
	return a
}

func (m *memStore) InTx(_ context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[uint]models.Appointment, len(m.appts))
	for k, v := range m.appts {
		snapshot[k] = v
	}
	auditLen, nextID := len(m.audit), m.nextID

	if err := fn(m); err != nil {
		m.appts, m.audit, m.nextID = snapshot, m.audit[:auditLen], nextID
		return err
	}
	return nil
}

func (m *memStore) ListAppointments(_ context.Context, scope Scope) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range m.appts {
		if scope.Match(a) {
			out = append(out, a)
		}
	}
	SortAppointments(out)
	return out, nil
}

func (m *memStore) CountAppointmentsBy(_ context.Context, column string) ([]GroupCount, error) {
	counts := map[string]int64{}
	for _, a := range m.appts {
		switch column {
		case "status":
			counts[a.Status]++
		case "coordinator":
			counts[a.Coordinator]++
		case "setor":
			counts[a.Setor]++
		default:
			return nil, fmt.Errorf("unknown column %q", column)
		}
	}
	var out []GroupCount
	for k, v := range counts {
		out = append(out, GroupCount{Key: k, Count: v})
	}
	return out, nil
}

func (m *memStore) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d: %w", id, apperr.ErrNotFound)
	}
	return &a, nil
}

func (m *memStore) LockAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	return m.GetAppointment(ctx, id)
}

func (m *memStore) SlotTaken(_ context.Context, slot Slot, excludeID uint) (bool, error) {
	for id, a := range m.appts {
		if id != excludeID && slot.Equal(a) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateAppointment(_ context.Context, a *models.Appointment) error {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.appts[a.ID] = *a
	return nil
}

func (m *memStore) SaveAppointment(_ context.Context, a *models.Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.appts[a.ID] = *a
	return nil
}

func (m *memStore) ApplyTransition(_ context.Context, id uint, from State, ch Change) error {
	a, ok := m.appts[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if m.staleOnApply || StateOf(a) != from {
		return apperr.ErrStale
	}
	ch.Apply(&a)
	m.appts[id] = a
	return nil
}

func (m *memStore) DeleteAppointment(_ context.Context, id uint) error {
	if _, ok := m.appts[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *memStore) RefValueExists(_ context.Context, kind models.RefKind, name string) (bool, error) {
	return m.refs[kind][name], nil
}

func (m *memStore) RecordAudit(_ context.Context, e *models.AuditLog) error {
	e.ID = uint(len(m.audit) + 1)
	m.audit = append(m.audit, *e)
	return nil
}

func (m *memStore) AuditTrail(_ context.Context, entity string, id uint) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for _, e := range m.audit {
		if e.Entity == entity && e.EntityID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// -- notifier de teste --

type recordingNotifier struct {
	mu   sync.Mutex
	sent []uint
	err  error
}

func (n *recordingNotifier) NotifyHandoff(_ context.Context, a models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, a.ID)
	return n.err
}
