package handlers

import (
	"html/template"

	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"
	"agenda-escolar/web"
)

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"eq":          func(a, b interface{}) bool { return a == b },
		"statusClass": workflow.BadgeClass,
		"canCheckout": workflow.CheckoutAllowed,
		"date": func(a models.Appointment) string {
			if a.ScheduledDate.IsZero() {
				return ""
			}
			return a.ScheduledDate.Format("02/01/2006")
		},
		"kindLabel": func(k models.RefKind) string { return k.Label() },
	}
}

// Templates carrega web/templates com as funções acima.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(web.Templates, "templates/*.html")
}
