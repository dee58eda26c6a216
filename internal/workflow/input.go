package workflow

import (
	"strings"
	"time"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
)

const timeLayout = "15:04"

// AppointmentInput: campos do formulário de agendamento, como vieram da requisição.
type AppointmentInput struct {
	Date             string `form:"data_agendamento"`
	Time             string `form:"horario"`
	Coordinator      string `form:"coordenador"`
	Channel          string `form:"canal"`
	Category         string `form:"categoria"`
	Status           string `form:"status"`
	Setor            string `form:"setor"`
	Responsible1Name string `form:"nome_responsavel_1"`
	Responsible1CPF  string `form:"cpf_responsavel_1"`
	Responsible2Name string `form:"nome_responsavel_2"`
	Responsible2CPF  string `form:"cpf_responsavel_2"`
	StudentName      string `form:"aluno"`
	StudentSchool    string `form:"escola_aluno"`
	Reason           string `form:"motivo"`
	Observation      string `form:"observacao"`
}

// InputFrom preenche o formulário de edição com o agendamento gravado.
func InputFrom(a models.Appointment) AppointmentInput {
	return AppointmentInput{
		Date:             a.DateString(),
		Time:             a.TimeSlot,
		Coordinator:      a.Coordinator,
		Channel:          a.Channel,
		Category:         a.Category,
		Status:           a.Status,
		Setor:            a.Setor,
		Responsible1Name: a.Responsible1Name,
		Responsible1CPF:  a.Responsible1CPF,
		Responsible2Name: a.Responsible2Name,
		Responsible2CPF:  a.Responsible2CPF,
		StudentName:      a.StudentName,
		StudentSchool:    a.StudentSchool,
		Reason:           a.Reason,
		Observation:      a.Observation,
	}
}

// Cleaned: valores para reexibir após erro: espaços aparados, CPF só com dígitos e
// apagado quando não tem 11 dígitos.
func (in AppointmentInput) Cleaned() AppointmentInput {
	out := in.trimmed()
	if cpf, ok := NormalizeCPF(out.Responsible1CPF); ok {
		out.Responsible1CPF = cpf
	} else {
		out.Responsible1CPF = ""
	}
	if cpf, ok := NormalizeCPF(out.Responsible2CPF); ok {
		out.Responsible2CPF = cpf
	} else {
		out.Responsible2CPF = ""
	}
	return out
}

func (in AppointmentInput) trimmed() AppointmentInput {
	for _, p := range []*string{
		&in.Date, &in.Time, &in.Coordinator, &in.Channel, &in.Category, &in.Status,
		&in.Setor, &in.Responsible1Name, &in.Responsible1CPF, &in.Responsible2Name,
		&in.Responsible2CPF, &in.StudentName, &in.StudentSchool,
	} {
		*p = strings.TrimSpace(*p)
	}
	return in
}

// Slot: a tripla que não pode se repetir entre agendamentos ativos.
type Slot struct {
	Date        time.Time
	Time        string
	Coordinator string
}

func (s Slot) Equal(a models.Appointment) bool {
	return sameDay(s.Date, a.ScheduledDate) && s.Time == a.TimeSlot && s.Coordinator == a.Coordinator
}

// parse valida formato e campos obrigatórios; o vocabulário é conferido no serviço.
func (in AppointmentInput) parse() (models.Appointment, error) {
	in = in.trimmed()

	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return models.Appointment{}, apperr.Invalid("data_agendamento", "Data inválida. Use YYYY-MM-DD.")
	}
	slot, err := time.Parse(timeLayout, in.Time)
	if err != nil {
		return models.Appointment{}, apperr.Invalid("horario", "Horário inválido. Use HH:MM.")
	}

	cpf1, ok1 := NormalizeCPF(in.Responsible1CPF)
	cpf2, ok2 := NormalizeCPF(in.Responsible2CPF)
	if !ok1 || !ok2 {
		return models.Appointment{}, apperr.Invalid("cpf", "CPF(s) inválido(s). Digite exatamente 11 números.")
	}

	required := []struct{ field, value, label string }{
		{"canal", in.Channel, "Canal"},
		{"categoria", in.Category, "Categoria"},
		{"status", in.Status, "Status"},
		{"setor", in.Setor, "Setor"},
		{"nome_responsavel_1", in.Responsible1Name, "Nome do responsável 1"},
		{"nome_responsavel_2", in.Responsible2Name, "Nome do responsável 2"},
	}
	for _, r := range required {
		if r.value == "" {
			return models.Appointment{}, apperr.Invalid(r.field, r.label+" é obrigatório.")
		}
	}

	return models.Appointment{
		ScheduledDate:    date,
		TimeSlot:         slot.Format(timeLayout),
		Coordinator:      in.Coordinator,
		Channel:          in.Channel,
		Category:         in.Category,
		Status:           in.Status,
		Setor:            in.Setor,
		Responsible1Name: in.Responsible1Name,
		Responsible1CPF:  cpf1,
		Responsible2Name: in.Responsible2Name,
		Responsible2CPF:  cpf2,
		StudentName:      in.StudentName,
		StudentSchool:    in.StudentSchool,
		Reason:           in.Reason,
		Observation:      in.Observation,
	}, nil
}

// TimeOptions: horários de 30 em 30 minutos, 00:00 a 23:30.
func TimeOptions() []string {
	opts := make([]string, 0, 48)
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 30} {
			opts = append(opts, time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format(timeLayout))
		}
	}
	return opts
}
