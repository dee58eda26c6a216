// Package export gera as planilhas e relatórios dos agendamentos e arquiva os arquivos gerados.
package export

import (
	"fmt"
	"time"

	"agenda-escolar/internal/models"
)

const notAvailable = "N/A"

// Columns: cabeçalho da planilha, na ordem de Record.Cells.
var Columns = []string{
	"ID", "Data Agendamento", "Horário", "Canal",
	"Nome Responsável 1", "CPF Responsável 1", "Nome Responsável 2", "CPF Responsável 2",
	"Status", "Setor", "Aluno", "Escola do Aluno", "Categoria", "Motivo",
	"Coordenador", "Observação",
}

// Record: agendamento já formatado para exportação. Vazio vira "N/A", exceto a observação.
type Record struct {
	ID               uint
	Date             string
	Time             string
	Channel          string
	Responsible1Name string
	Responsible1CPF  string
	Responsible2Name string
	Responsible2CPF  string
	Status           string
	Setor            string
	StudentName      string
	StudentSchool    string
	Category         string
	Reason           string
	Coordinator      string
	Observation      string
}

func NewRecord(a models.Appointment) Record {
	date := notAvailable
	if !a.ScheduledDate.IsZero() {
		date = a.ScheduledDate.Format("02/01/2006")
	}
	return Record{
		ID:               a.ID,
		Date:             date,
		Time:             orNA(a.TimeSlot),
		Channel:          orNA(a.Channel),
		Responsible1Name: orNA(a.Responsible1Name),
		Responsible1CPF:  orNA(a.Responsible1CPF),
		Responsible2Name: orNA(a.Responsible2Name),
		Responsible2CPF:  orNA(a.Responsible2CPF),
		Status:           orNA(a.Status),
		Setor:            orNA(a.Setor),
		StudentName:      orNA(a.StudentName),
		StudentSchool:    orNA(a.StudentSchool),
		Category:         orNA(a.Category),
		Reason:           orNA(a.Reason),
		Coordinator:      orNA(a.Coordinator),
		Observation:      a.Observation,
	}
}

func NewRecords(list []models.Appointment) []Record {
	out := make([]Record, 0, len(list))
	for _, a := range list {
		out = append(out, NewRecord(a))
	}
	return out
}

// Cells: valores da linha da planilha; o ID vai como número.
func (r Record) Cells() []any {
	return []any{
		r.ID, r.Date, r.Time, r.Channel,
		r.Responsible1Name, r.Responsible1CPF, r.Responsible2Name, r.Responsible2CPF,
		r.Status, r.Setor, r.StudentName, r.StudentSchool, r.Category, r.Reason,
		r.Coordinator, r.Observation,
	}
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

const ExcelFilename = "agendamentos.xlsx"

// PDFFilename: agendamentos_YYYYmmdd_HHMMSS.pdf
func PDFFilename(now time.Time) string {
	return fmt.Sprintf("agendamentos_%s.pdf", now.Format("20060102_150405"))
}
