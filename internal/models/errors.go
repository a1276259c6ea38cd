package models

import "errors"

// ErrBeneficiaryNotFound is returned when no record exists for a CPF
var ErrBeneficiaryNotFound = errors.New("beneficiary not found")

// Validation messages returned to the clerk in the "erro" field
const (
	MsgInvalidName   = "Nome inválido"
	MsgInvalidCPF    = "CPF inválido"
	MsgInvalidPhone  = "Telefone inválido"
	MsgInvalidIncome = "Renda inválida"
	MsgInvalidCount  = "Quantidade inválida"
	MsgInvalidForm   = "Formulário inválido"
	MsgNotFound      = "CPF não encontrado"
	MsgInternal      = "Erro interno do servidor"
)

// ValidationError reports the first form field that failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
