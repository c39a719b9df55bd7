package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", NotFound("Cliente não encontrado"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load order: %w", NotFound("Ordem de serviço não encontrada")), http.StatusNotFound},
		{"validation", InvalidField("cpf", "já cadastrado"), http.StatusBadRequest},
		{"conflict", Conflict("linha 2 foi alterada"), http.StatusConflict},
		{"backend", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("find client: %w", NotFound("Cliente não encontrado"))
	assert.Equal(t, "Cliente não encontrado", Message(err))

	verr := &ValidationError{Message: "dados inválidos", Fields: map[string]string{"nome": "obrigatório", "cpf": "obrigatório"}}
	assert.Equal(t, "dados inválidos: cpf: obrigatório, nome: obrigatório", Message(verr))

	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestValidationError_Is(t *testing.T) {
	err := Validation("índice %d fora do intervalo", 3)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "índice 3 fora do intervalo", err.Error())
}
