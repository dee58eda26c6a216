package handlers

import (
	"fmt"
	"net/http"

	"agenda-escolar/internal/accounts"
	"agenda-escolar/internal/apperr"

	"github.com/gin-gonic/gin"
)

func (h *Handler) renderUsers(c *gin.Context, status int, data gin.H) {
	users, err := h.accounts.List(c.Request.Context(), currentCaller(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	data["Users"] = users
	render(c, status, "admin_users.html", data)
}

func (h *Handler) ListUsers(c *gin.Context) {
	h.renderUsers(c, http.StatusOK, gin.H{"Form": accounts.UserInput{}})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var in accounts.UserInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, apperr.Invalid("", "Dados inválidos."), "/admin/users")
		return
	}

	u, err := h.accounts.Create(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
			h.fail(c, err, "/admin/users")
			return
		}
		in.Password = ""
		h.renderUsers(c, apperr.HTTPStatus(err), gin.H{"Form": in, "Error": userMessage(err)})
		return
	}

	addFlash(c, "success", fmt.Sprintf("Usuário %s criado com sucesso.", u.Username))
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *Handler) EditUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	u, err := h.accounts.Get(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "user_form.html", gin.H{
		"UserID": u.ID,
		"Form": accounts.UserInput{
			Username: u.Username,
			Email:    u.Email,
			Profile:  u.Profile,
			Setor:    u.Setor,
			IsAdmin:  u.IsAdmin,
		},
	})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	var in accounts.UserInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, apperr.Invalid("", "Dados inválidos."), fmt.Sprintf("/admin/users/%d/edit", id))
		return
	}

	if _, err := h.accounts.Edit(c.Request.Context(), currentCaller(c), id, in); err != nil {
		status := apperr.HTTPStatus(err)
		if status >= http.StatusInternalServerError || status == http.StatusNotFound {
			h.fail(c, err, "/admin/users")
			return
		}
		in.Password = ""
		render(c, status, "user_form.html", gin.H{"UserID": id, "Form": in, "Error": userMessage(err)})
		return
	}

	addFlash(c, "success", "Usuário atualizado com sucesso.")
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err, "/admin/users")
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), currentCaller(c), id); err != nil {
		h.fail(c, err, "/admin/users")
		return
	}
	addFlash(c, "success", "Usuário excluído com sucesso.")
	c.Redirect(http.StatusFound, "/admin/users")
}

func userMessage(err error) string {
	if apperr.HTTPStatus(err) == http.StatusConflict {
		return "Nome de usuário ou e-mail já registrado."
	}
	return apperr.Message(err)
}
