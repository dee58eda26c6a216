package workflow

import "strings"

// Status conhecidos do fluxo Coordenação → Financeiro → Secretaria.
const (
	StatusOpen                 = "Aberto-Coordenação"
	StatusInProgress           = "Em andamento-Coordenação"
	StatusRescheduled          = "Remarcado-Coordenação"
	StatusCoordinationApproved = "Apto-Coordenação"
	StatusCoordinationRejected = "Não-Apto-Coordenação"
	StatusFinanceApproved      = "Apto-Financeiro"
	StatusFinanceRejected      = "Não-Apto-Financeiro"
	StatusCompleted            = "Concluído-Secretaria"

	DepartmentFinance = "Financeiro"
)

// DefaultStatuses: ordem em que o init-db cadastra os status.
var DefaultStatuses = []string{
	StatusOpen,
	StatusInProgress,
	StatusRescheduled,
	StatusCoordinationApproved,
	StatusCoordinationRejected,
	StatusFinanceApproved,
	StatusFinanceRejected,
	StatusCompleted,
}

type statusSet map[string]struct{}

func newStatusSet(names ...string) statusSet {
	s := make(statusSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s statusSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

var (
	coordinationStatuses = newStatusSet(
		StatusOpen,
		StatusInProgress,
		StatusRescheduled,
		StatusCoordinationApproved,
		StatusCoordinationRejected,
	)
	financeStatuses = newStatusSet(StatusFinanceApproved, StatusFinanceRejected)

	// o que o financeiro enxerga: itens entregues a ele ou já resolvidos por ele
	financeVisible = []string{StatusFinanceApproved, StatusFinanceRejected, StatusCoordinationApproved}
)

// contadores do painel
var (
	adminOpenStatuses = newStatusSet(
		StatusOpen,
		StatusInProgress,
		StatusRescheduled,
		StatusCoordinationApproved,
		StatusCoordinationRejected,
		StatusFinanceRejected,
		StatusFinanceApproved,
	)
	adminDoneStatuses = newStatusSet(StatusCompleted)

	financeOpenStatuses = newStatusSet(StatusCoordinationApproved)
	financeDoneStatuses = newStatusSet(StatusFinanceApproved, StatusFinanceRejected)

	coordinationOpenStatuses = newStatusSet(StatusOpen, StatusInProgress, StatusRescheduled)
	coordinationDoneStatuses = newStatusSet(
		StatusCoordinationApproved,
		StatusCoordinationRejected,
		StatusCompleted,
		StatusFinanceApproved,
		StatusFinanceRejected,
	)
)

// BadgeClass devolve a classe CSS do selo de status.
func BadgeClass(status string) string {
	if status == "" {
		return "badge bg-secondary"
	}
	s := strings.ToLower(strings.ReplaceAll(status, " ", "-"))
	switch {
	case strings.Contains(s, "não-apto-coordenação"), strings.Contains(s, "nao-apto-coordenacao"):
		return "badge status-nao-apto-coordenacao"
	case strings.Contains(s, "não-apto-financeiro"), strings.Contains(s, "nao-apto-financeiro"):
		return "badge status-nao-apto-financeiro"
	case strings.Contains(s, "apto-coordenação"), strings.Contains(s, "apto-coordenacao"):
		return "badge status-apto-coordenacao"
	case strings.Contains(s, "apto-financeiro"):
		return "badge status-apto-financeiro"
	case strings.Contains(s, "concluído-secretaria"), strings.Contains(s, "concluido-secretaria"):
		return "badge status-concluido-secretaria"
	}
	return "badge bg-secondary"
}
