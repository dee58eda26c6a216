package handlers

import (
	"errors"
	"net/http"

	"agenda-escolar/internal/accounts"
	"agenda-escolar/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Index(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Dados inválidos."})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, accounts.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("login failed")
		}
		h.log.Info().Str("username", form.Username).Msg("login rejected")
		render(c, http.StatusUnauthorized, "login.html", gin.H{
			"error":    "Usuário ou senha inválidos.",
			"username": form.Username,
		})
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(middleware.SessionUserID, user.ID)
	_ = sess.Save()

	h.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("login")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}
