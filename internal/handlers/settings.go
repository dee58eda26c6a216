package handlers

import (
	"net/http"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Settings(c *gin.Context) {
	values, err := h.catalog.All(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "settings.html", gin.H{
		"Kinds":  models.RefKinds,
		"Values": values,
	})
}

func (h *Handler) AddSetting(c *gin.Context) {
	kind, ok := models.ParseRefKind(c.Param("kind"))
	if !ok {
		addFlash(c, "danger", "Configuração inválida.")
		c.Redirect(http.StatusFound, "/settings")
		return
	}

	v, err := h.catalog.Add(c.Request.Context(), currentCaller(c), kind, c.PostForm("nome"))
	if err != nil {
		h.fail(c, err, "/settings")
		return
	}
	addFlash(c, "success", kind.Label()+" "+v.Name+" adicionado.")
	c.Redirect(http.StatusFound, "/settings")
}

func (h *Handler) DeleteSetting(c *gin.Context) {
	kind, ok := models.ParseRefKind(c.Param("kind"))
	if !ok {
		addFlash(c, "danger", "Configuração inválida.")
		c.Redirect(http.StatusFound, "/settings")
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err, "/settings")
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), currentCaller(c), kind, id); err != nil {
		if apperr.HTTPStatus(err) == http.StatusConflict {
			addFlash(c, "danger", "Não é possível excluir este "+kind.Label()+" porque existem agendamentos associados a ele.")
			c.Redirect(http.StatusFound, "/settings")
			return
		}
		h.fail(c, err, "/settings")
		return
	}
	addFlash(c, "success", kind.Label()+" excluído com sucesso.")
	c.Redirect(http.StatusFound, "/settings")
}
