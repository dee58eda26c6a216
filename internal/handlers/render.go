package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/middleware"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash: mensagem de uma requisição para a próxima. Category segue as classes do
// Bootstrap: success, warning, danger.
type Flash struct {
	Category string
	Message  string
}

func addFlash(c *gin.Context, category, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(category + "|" + msg)
	_ = sess.Save()
}

func popFlashes(c *gin.Context) []Flash {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save()

	out := make([]Flash, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		cat, msg, found := strings.Cut(s, "|")
		if !found {
			cat, msg = "info", s
		}
		out = append(out, Flash{Category: cat, Message: msg})
	}
	return out
}

// render: c.HTML com CurrentUser, Caller e flashes em todos os templates.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if uVal, ok := c.Get(middleware.CurrentUserKey); ok {
		if u, ok := uVal.(models.User); ok {
			data["CurrentUser"] = u
			data["CurrentUsername"] = u.Username
		}
	}
	if caller, ok := middleware.CallerFrom(c); ok {
		data["Caller"] = caller
		data["IsAdmin"] = caller.IsAdmin()
	}
	data["Flashes"] = popFlashes(c)

	c.HTML(status, tmpl, data)
}

// fail registra o erro como flash e redireciona. Erros internos vão para o log.
func (h *Handler) fail(c *gin.Context, err error, to string) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	addFlash(c, flashCategory(err), apperr.Message(err))
	c.Redirect(http.StatusFound, to)
}

// renderError: página de erro com o status do apperr, para GETs sem para onde voltar.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	render(c, status, "error.html", gin.H{"Status": status, "Message": apperr.Message(err)})
}

func flashCategory(err error) string {
	if errors.Is(err, apperr.ErrValidation) {
		return "warning"
	}
	return "danger"
}

// currentCaller: rotas atrás do RequireAuth sempre têm Caller.
func currentCaller(c *gin.Context) workflow.Caller {
	cl, _ := middleware.CallerFrom(c)
	return cl
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrNotFound
	}
	return uint(id), nil
}
