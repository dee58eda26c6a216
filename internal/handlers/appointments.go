package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/workflow"

	"github.com/gin-gonic/gin"
)

func (h *Handler) renderAppointmentForm(c *gin.Context, status int, data gin.H) {
	values, err := h.catalog.All(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, status, "appointment_form.html", formOptions(values, data))
}

func (h *Handler) NewAppointment(c *gin.Context) {
	h.renderAppointmentForm(c, http.StatusOK, gin.H{
		"Title":  "Novo agendamento",
		"Action": "/appointments/new",
		"Form":   workflow.AppointmentInput{Status: workflow.StatusOpen},
	})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var in workflow.AppointmentInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, apperr.Invalid("", "Dados inválidos."), "/appointments/new")
		return
	}

	a, err := h.appts.Create(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		h.rejectAppointmentForm(c, err, gin.H{
			"Title":  "Novo agendamento",
			"Action": "/appointments/new",
			"Form":   in.Cleaned(),
		})
		return
	}

	addFlash(c, "success", fmt.Sprintf("Agendamento #%d criado com sucesso!", a.ID))
	c.Redirect(http.StatusFound, "/dashboard")
}

// rejectAppointmentForm devolve o formulário com os dados limpos e a mensagem do erro.
func (h *Handler) rejectAppointmentForm(c *gin.Context, err error, data gin.H) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError || errors.Is(err, apperr.ErrPermission) {
		h.fail(c, err, "/dashboard")
		return
	}
	data["Error"] = apperr.Message(err)
	h.renderAppointmentForm(c, status, data)
}

func (h *Handler) EditAppointment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	a, err := h.appts.Get(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderAppointmentForm(c, http.StatusOK, gin.H{
		"Title":  fmt.Sprintf("Editar agendamento #%d", a.ID),
		"Action": fmt.Sprintf("/appointments/%d/edit", a.ID),
		"Form":   workflow.InputFrom(*a),
	})
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	action := fmt.Sprintf("/appointments/%d/edit", id)

	var in workflow.AppointmentInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, apperr.Invalid("", "Dados inválidos."), action)
		return
	}

	if _, err := h.appts.Edit(c.Request.Context(), currentCaller(c), id, in); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.fail(c, err, "/dashboard")
			return
		}
		h.rejectAppointmentForm(c, err, gin.H{
			"Title":  fmt.Sprintf("Editar agendamento #%d", id),
			"Action": action,
			"Form":   in.Cleaned(),
		})
		return
	}

	addFlash(c, "success", "Agendamento atualizado com sucesso!")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err, "/dashboard")
		return
	}
	if err := h.appts.Delete(c.Request.Context(), currentCaller(c), id); err != nil {
		h.fail(c, err, "/dashboard")
		return
	}
	addFlash(c, "success", "Agendamento excluído com sucesso!")
	c.Redirect(http.StatusFound, "/dashboard")
}

// Checkout: mudança de status/setor pelo painel.
func (h *Handler) Checkout(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err, "/dashboard")
		return
	}

	req := workflow.TransitionRequest{
		Status: c.PostForm("status"),
		Setor:  c.PostForm("setor"),
	}
	if obs, ok := c.GetPostForm("observacao"); ok {
		req.Observation = &obs
	}

	a, err := h.appts.Transition(c.Request.Context(), currentCaller(c), id, req)
	if err != nil {
		h.fail(c, err, "/dashboard")
		return
	}

	msg := fmt.Sprintf("Status do agendamento #%d atualizado para %s.", a.ID, a.Status)
	if a.Status == workflow.StatusCoordinationApproved && a.Setor == workflow.DepartmentFinance && currentCaller(c).IsCoordination() {
		msg = fmt.Sprintf("Agendamento #%d enviado para o Financeiro.", a.ID)
	}
	addFlash(c, "success", msg)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) History(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.renderError(c, err)
		return
	}
	a, logs, err := h.appts.History(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "history.html", gin.H{
		"Appointment": a,
		"Logs":        logs,
	})
}
