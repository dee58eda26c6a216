package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"

	"github.com/rs/zerolog"
)

func newTestService() (*Service, *memStore, *recordingNotifier) {
	st := newMemStore()
	n := &recordingNotifier{}
	return NewService(st, n, zerolog.Nop()), st, n
}

func validInput() AppointmentInput {
	return AppointmentInput{
		Date:             "2024-03-01",
		Time:             "09:00",
		Coordinator:      "maria",
		Channel:          "Telefone",
		Category:         "Matrícula",
		Status:           StatusOpen,
		Setor:            "Acadêmico",
		Responsible1Name: "Ana Souza",
		Responsible1CPF:  "123.456.789-01",
		Responsible2Name: "Carlos Souza",
		Responsible2CPF:  "98765432100",
		StudentName:      "Pedro",
	}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreate_NormalizesCPFAndRecordsAudit(t *testing.T) {
	svc, st, _ := newTestService()

	a, err := svc.Create(context.Background(), admin, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Responsible1CPF != "12345678901" {
		t.Errorf("cpf = %q, want digits only", a.Responsible1CPF)
	}
	if len(st.audit) != 1 || st.audit[0].Action != "create" || st.audit[0].EntityID != a.ID {
		t.Errorf("unexpected audit trail: %+v", st.audit)
	}
}

func TestCreate_SameSlotConflicts(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, admin, validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, admin, validInput())
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second create error = %v, want ErrConflict", err)
	}
	if len(st.appts) != 1 {
		t.Errorf("appointments = %d, want 1", len(st.appts))
	}

	other := validInput()
	other.Coordinator = "joao"
	if _, err := svc.Create(ctx, admin, other); err != nil {
		t.Errorf("different coordinator should not conflict: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*AppointmentInput)
		field string
	}{
		{"bad date", func(in *AppointmentInput) { in.Date = "01/03/2024" }, "data_agendamento"},
		{"bad time", func(in *AppointmentInput) { in.Time = "9h" }, "horario"},
		{"short cpf", func(in *AppointmentInput) { in.Responsible1CPF = "123" }, "cpf"},
		{"missing second cpf", func(in *AppointmentInput) { in.Responsible2CPF = "" }, "cpf"},
		{"missing channel", func(in *AppointmentInput) { in.Channel = " " }, "canal"},
		{"missing responsible", func(in *AppointmentInput) { in.Responsible2Name = "" }, "nome_responsavel_2"},
		{"unknown status", func(in *AppointmentInput) { in.Status = "Inventado" }, "status"},
		{"unknown setor", func(in *AppointmentInput) { in.Setor = "Cantina" }, "setor"},
		{"unknown channel", func(in *AppointmentInput) { in.Channel = "Carta" }, "canal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, _ := newTestService()
			in := validInput()
			tt.mut(&in)

			_, err := svc.Create(context.Background(), admin, in)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
			if len(st.appts) != 0 || len(st.audit) != 0 {
				t.Error("nothing should be written on validation failure")
			}
		})
	}
}

func TestCreate_AdminOnly(t *testing.T) {
	svc, _, _ := newTestService()
	for _, c := range []Caller{finance, coordination} {
		if _, err := svc.Create(context.Background(), c, validInput()); !errors.Is(err, apperr.ErrPermission) {
			t.Errorf("%s: error = %v, want ErrPermission", c.Role, err)
		}
	}
}

func TestEdit_OwnSlotIsNotAConflict(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, admin, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	in := validInput()
	in.StudentName = "Pedro Henrique"
	updated, err := svc.Edit(ctx, admin, a.ID, in)
	if err != nil {
		t.Fatalf("Edit same slot: %v", err)
	}
	if updated.ID != a.ID || updated.StudentName != "Pedro Henrique" {
		t.Errorf("unexpected result: %+v", updated)
	}

	other := validInput()
	other.Time = "10:00"
	b, err := svc.Create(ctx, admin, other)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if _, err := svc.Edit(ctx, admin, b.ID, validInput()); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("moving onto a taken slot: error = %v, want ErrConflict", err)
	}
}

func TestDelete(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00", Coordinator: "maria", Status: StatusOpen})

	if err := svc.Delete(ctx, coordination, a.ID); !errors.Is(err, apperr.ErrPermission) {
		t.Errorf("coordination delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: error = %v, want ErrNotFound", err)
	}
}

func TestTransition_HandoffRoutesToFinance(t *testing.T) {
	svc, st, n := newTestService()
	ctx := context.Background()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})

	got, err := svc.Transition(ctx, coordination, a.ID,
		TransitionRequest{Status: StatusCoordinationApproved, Setor: "Comercial"})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != StatusCoordinationApproved || got.Setor != DepartmentFinance {
		t.Errorf("got %s/%s, want %s/%s", got.Status, got.Setor, StatusCoordinationApproved, DepartmentFinance)
	}
	if stored := st.appts[a.ID]; stored.Setor != DepartmentFinance {
		t.Errorf("stored setor = %q", stored.Setor)
	}
	if len(n.sent) != 1 || n.sent[0] != a.ID {
		t.Errorf("notifier calls = %v", n.sent)
	}

	// agora o financeiro enxerga e a coordenação está travada
	if _, err := svc.Get(ctx, finance, a.ID); err != nil {
		t.Errorf("finance should see handed-off appointment: %v", err)
	}
	_, err = svc.Transition(ctx, coordination, a.ID, TransitionRequest{Status: StatusInProgress})
	if !errors.Is(err, apperr.ErrLocked) {
		t.Errorf("coordination after handoff: error = %v, want ErrLocked", err)
	}
}

func TestTransition_FinanceDecision(t *testing.T) {
	svc, st, n := newTestService()
	ctx := context.Background()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusCoordinationApproved, Setor: DepartmentFinance})

	if _, err := svc.Transition(ctx, finance, a.ID, TransitionRequest{Status: StatusCompleted}); !errors.Is(err, apperr.ErrPermission) {
		t.Errorf("finance completing: error = %v, want ErrPermission", err)
	}
	got, err := svc.Transition(ctx, finance, a.ID,
		TransitionRequest{Status: StatusFinanceApproved, Setor: "Acadêmico", Observation: strPtr("ok")})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != StatusFinanceApproved || got.Setor != "Acadêmico" || got.Observation != "ok" {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(n.sent) != 0 {
		t.Errorf("finance decision must not notify: %v", n.sent)
	}
}

func TestTransition_RejectedWritesNothing(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})

	tests := []struct {
		name   string
		caller Caller
		req    TransitionRequest
		want   error
	}{
		{"empty status", coordination, TransitionRequest{}, apperr.ErrValidation},
		{"unknown status", coordination, TransitionRequest{Status: "Inventado"}, apperr.ErrValidation},
		{"unknown setor", coordination, TransitionRequest{Status: StatusInProgress, Setor: "Cantina"}, apperr.ErrValidation},
		{"not permitted", coordination, TransitionRequest{Status: StatusCompleted}, apperr.ErrPermission},
		{"other coordinator", Caller{UserID: 9, Username: "joao", Role: models.RoleCoordination},
			TransitionRequest{Status: StatusInProgress}, apperr.ErrNotFound},
		{"finance cannot see open", finance, TransitionRequest{Status: StatusFinanceApproved}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transition(ctx, tt.caller, a.ID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if stored := st.appts[a.ID]; stored.Status != StatusOpen || stored.Setor != "Acadêmico" {
				t.Errorf("appointment changed: %s/%s", stored.Status, stored.Setor)
			}
			if len(st.audit) != 0 {
				t.Errorf("audit written on rejection: %+v", st.audit)
			}
		})
	}
}

func TestTransition_HandoffIgnoresInvalidSetor(t *testing.T) {
	svc, st, _ := newTestService()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})

	got, err := svc.Transition(context.Background(), coordination, a.ID,
		TransitionRequest{Status: StatusCoordinationApproved, Setor: "Cantina"})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Setor != DepartmentFinance {
		t.Errorf("setor = %q, want %q", got.Setor, DepartmentFinance)
	}
}

func TestTransition_RepeatedApprovalIsRejected(t *testing.T) {
	svc, st, n := newTestService()
	ctx := context.Background()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})

	req := TransitionRequest{Status: StatusCoordinationApproved}
	if _, err := svc.Transition(ctx, coordination, a.ID, req); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if _, err := svc.Transition(ctx, coordination, a.ID, req); !errors.Is(err, apperr.ErrLocked) {
		t.Fatalf("second approval: error = %v, want ErrLocked", err)
	}
	if len(n.sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(n.sent))
	}
}

func TestTransition_ConcurrentHandoffHappensOnce(t *testing.T) {
	svc, st, n := newTestService()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, lock int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transition(context.Background(), coordination, a.ID,
				TransitionRequest{Status: StatusCoordinationApproved})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperr.ErrLocked):
				lock++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || lock != workers-1 {
		t.Errorf("ok=%d locked=%d, want 1/%d", ok, lock, workers-1)
	}
	if len(n.sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(n.sent))
	}
}

func TestTransition_StaleWriteIsAConflict(t *testing.T) {
	svc, st, n := newTestService()
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})
	st.staleOnApply = true

	_, err := svc.Transition(context.Background(), coordination, a.ID,
		TransitionRequest{Status: StatusCoordinationApproved})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	if len(st.audit) != 0 || len(n.sent) != 0 {
		t.Error("stale write must not audit or notify")
	}
}

func TestTransition_NotifierFailureDoesNotFail(t *testing.T) {
	svc, st, n := newTestService()
	n.err = errors.New("smtp down")
	a := st.seed(models.Appointment{ScheduledDate: day("2024-03-01"), TimeSlot: "09:00",
		Coordinator: "maria", Status: StatusOpen, Setor: "Acadêmico"})

	if _, err := svc.Transition(context.Background(), coordination, a.ID,
		TransitionRequest{Status: StatusCoordinationApproved}); err != nil {
		t.Fatalf("Transition: %v", err)
	}
}

func TestHistory(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, admin, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Transition(ctx, coordination, a.ID, TransitionRequest{Status: StatusInProgress}); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	_, logs, err := svc.History(ctx, coordination, a.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(logs) != 2 || logs[1].Action != "transition" || logs[1].Username != "maria" {
		t.Errorf("unexpected history: %+v", logs)
	}
	if _, _, err := svc.History(ctx, finance, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("finance history: error = %v, want ErrNotFound", err)
	}
}
