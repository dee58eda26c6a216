package handlers

import (
	"net/http"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/catalog"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/gin-gonic/gin"
)

// formOrQuery: filtros chegam por GET (painel, Excel) ou POST (PDF).
func formOrQuery(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

// parseFilters lê data/status/setor/q. Data inválida vira aviso e o filtro é ignorado.
func parseFilters(c *gin.Context) workflow.Filters {
	f := workflow.Filters{
		Status: formOrQuery(c, "status"),
		Setor:  formOrQuery(c, "setor"),
		Search: formOrQuery(c, "q"),
	}
	d, err := workflow.ParseDate(formOrQuery(c, "data"))
	if err != nil {
		addFlash(c, "warning", apperr.Message(err))
	} else {
		f.Date = d
	}
	return f
}

func (h *Handler) Dashboard(c *gin.Context) {
	cl := currentCaller(c)
	f := parseFilters(c)

	d, err := h.appts.Dashboard(c.Request.Context(), cl, f)
	if err != nil {
		h.renderError(c, err)
		return
	}
	values, err := h.catalog.All(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"Dashboard":        d,
		"Filters":          f,
		"FilterDate":       c.Query("data"),
		"Statuses":         values.Names(models.KindStatus),
		"Setores":          values.Names(models.KindDepartment),
		"CheckoutStatuses": cl.AllowedStatuses(values.Names(models.KindStatus)),
	})
}

// formOptions: listas dos selects do formulário de agendamento.
func formOptions(values catalog.Values, data gin.H) gin.H {
	data["Statuses"] = values.Names(models.KindStatus)
	data["Setores"] = values.Names(models.KindDepartment)
	data["Canais"] = values.Names(models.KindChannel)
	data["Categorias"] = values.Names(models.KindCategory)
	data["TimeOptions"] = workflow.TimeOptions()
	return data
}
