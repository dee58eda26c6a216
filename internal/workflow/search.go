package workflow

import (
	"strings"
	"time"

	"agenda-escolar/internal/models"
)

var searchDateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// SearchTerm: um termo da busca livre. Date é preenchido quando o termo é uma data.
type SearchTerm struct {
	Text string
	Date *time.Time
}

// ParseSearch quebra a busca livre por vírgula; todos os termos precisam casar.
func ParseSearch(q string) []SearchTerm {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	var terms []SearchTerm
	for _, part := range strings.Split(q, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t := SearchTerm{Text: part}
		for _, layout := range searchDateLayouts {
			if d, err := time.Parse(layout, part); err == nil {
				t.Date = &d
				break
			}
		}
		terms = append(terms, t)
	}
	return terms
}

// SearchColumns: colunas comparadas por substring (sem diferenciar maiúsculas).
var SearchColumns = []string{
	"channel", "setor", "status", "category",
	"responsible1_name", "responsible2_name", "student_name",
}

func (t SearchTerm) Match(a models.Appointment) bool {
	needle := strings.ToLower(t.Text)
	for _, v := range []string{
		a.Channel, a.Setor, a.Status, a.Category,
		a.Responsible1Name, a.Responsible2Name, a.StudentName,
	} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return t.Date != nil && sameDay(*t.Date, a.ScheduledDate)
}
