package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

const dateLayout = "2006-01-02"

// Filters: filtros opcionais do painel e das exportações.
type Filters struct {
	Date   *time.Time
	Status string
	Setor  string
	Search string
}

// ParseDate lê uma data YYYY-MM-DD. Vazio devolve nil sem erro.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, apperr.Invalid("data", "Formato de data inválido. Use YYYY-MM-DD.")
	}
	return &d, nil
}

// Applied: descrição legível dos filtros em uso (cabeçalho do relatório).
func (f Filters) Applied() []string {
	var out []string
	if f.Date != nil {
		out = append(out, "Data: "+f.Date.Format("02/01/2006"))
	}
	if f.Status != "" {
		out = append(out, "Status: "+f.Status)
	}
	if f.Setor != "" {
		out = append(out, "Setor: "+f.Setor)
	}
	if f.Search != "" {
		out = append(out, "Busca: "+f.Search)
	}
	return out
}

// Scope: conjunto de agendamentos consultável por um Caller. O store traduz para SQL;
// Match é a mesma regra em memória.
type Scope struct {
	Filters
	Terms []SearchTerm

	// restrições do papel
	StatusIn []string
	OwnedBy  *string
}

// ScopeFor aplica a regra de visibilidade do papel sobre os filtros.
func ScopeFor(c Caller, f Filters) Scope {
	s := Scope{Filters: f, Terms: ParseSearch(f.Search)}
	switch {
	case c.IsAdmin():
	case c.IsFinance():
		s.StatusIn = append([]string(nil), financeVisible...)
	default:
		owner := c.Username
		s.OwnedBy = &owner
	}
	return s
}

// Visible: o Caller enxerga esse agendamento (sem filtros opcionais)?
func Visible(c Caller, a models.Appointment) bool {
	return ScopeFor(c, Filters{}).Match(a)
}

func (s Scope) Match(a models.Appointment) bool {
	if s.OwnedBy != nil && a.Coordinator != *s.OwnedBy {
		return false
	}
	if len(s.StatusIn) > 0 && !contains(s.StatusIn, a.Status) {
		return false
	}
	if s.Date != nil && !sameDay(*s.Date, a.ScheduledDate) {
		return false
	}
	if s.Status != "" && a.Status != s.Status {
		return false
	}
	if s.Setor != "" && a.Setor != s.Setor {
		return false
	}
	for _, t := range s.Terms {
		if !t.Match(a) {
			return false
		}
	}
	return true
}

// SortAppointments: data desc, horário desc; id desc desempata.
func SortAppointments(list []models.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.ScheduledDate.Equal(b.ScheduledDate) {
			return a.ScheduledDate.After(b.ScheduledDate)
		}
		if a.TimeSlot != b.TimeSlot {
			return a.TimeSlot > b.TimeSlot
		}
		return a.ID > b.ID
	})
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s Scope) String() string {
	owner := "-"
	if s.OwnedBy != nil {
		owner = *s.OwnedBy
	}
	return fmt.Sprintf("scope(owner=%s statuses=%v status=%q setor=%q terms=%d)",
		owner, s.StatusIn, s.Status, s.Setor, len(s.Terms))
}
