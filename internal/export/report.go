package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"agenda-escolar/internal/workflow"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTmpl = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{"statusClass": workflow.BadgeClass}).
		ParseFS(templateFS, "templates/report.html"),
)

// Report: dados do relatório (prévia HTML e PDF).
type Report struct {
	Records        []Record
	FiltersApplied []string
	GeneratedAt    string
}

func NewReport(records []Record, filters []string, now time.Time) Report {
	return Report{
		Records:        records,
		FiltersApplied: filters,
		GeneratedAt:    now.Format("02/01/2006 15:04"),
	}
}

func RenderHTML(w io.Writer, r Report) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
