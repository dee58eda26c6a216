// Package apperr define a taxonomia de erros dos serviços. Todos são recuperáveis na borda da
// requisição: a operação foi abortada sem escrita parcial.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("scheduling conflict")
	ErrPermission = errors.New("permission denied")
	ErrLocked     = errors.New("appointment locked for coordination")
	ErrDuplicate  = errors.New("duplicate value")
	ErrInUse      = errors.New("value in use")
	ErrSelfDelete = errors.New("cannot delete own user")
	ErrNotFound   = errors.New("not found")

	// guarda mais estreita da coordenação: já está Apto-Coordenação, mesmo que o setor
	// ainda não tenha virado Financeiro
	ErrAlreadyApproved = fmt.Errorf("%w: already approved by coordination", ErrLocked)

	// a linha mudou entre a leitura e a escrita
	ErrStale = fmt.Errorf("%w: appointment changed concurrently", ErrConflict)
)

// ValidationError aponta o campo do formulário com problema.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// HTTPStatus: código HTTP correspondente ao erro do serviço.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermission), errors.Is(err, ErrLocked), errors.Is(err, ErrSelfDelete):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message: texto exibido ao usuário. ValidationError traz o próprio texto.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	switch {
	case errors.Is(err, ErrAlreadyApproved):
		return `Não é permitido alterar um agendamento que já está marcado como "Apto-Coordenação".`
	case errors.Is(err, ErrLocked):
		return "Este agendamento já foi enviado para o Financeiro e não pode mais ser editado pela Coordenação."
	case errors.Is(err, ErrStale):
		return "O agendamento foi alterado por outra pessoa. Recarregue a página e tente novamente."
	case errors.Is(err, ErrConflict):
		return "O coordenador já possui um agendamento neste horário."
	case errors.Is(err, ErrPermission):
		return "Você não tem permissão para esta ação."
	case errors.Is(err, ErrDuplicate):
		return "Valor já cadastrado."
	case errors.Is(err, ErrInUse):
		return "Não é possível excluir: existem agendamentos associados."
	case errors.Is(err, ErrSelfDelete):
		return "Você não pode excluir a si mesmo."
	case errors.Is(err, ErrNotFound):
		return "Registro não encontrado."
	case errors.Is(err, ErrValidation):
		return "Dados inválidos."
	}
	return "Erro interno. Tente novamente."
}
