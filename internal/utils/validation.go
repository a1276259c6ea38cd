package utils

import (
	"regexp"
	"strings"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
)

// nameRegex accepts ASCII letters, the Latin-1 accented block and spaces
var nameRegex = regexp.MustCompile(`^[A-Za-zÀ-ÿ ]+$`)

// ValidateName checks that a beneficiary name has only letters and spaces
func ValidateName(name string) bool {
	return nameRegex.MatchString(name)
}

// ValidatePhone checks that a phone number is digits only. Length is not
// enforced.
func ValidatePhone(phone string) bool {
	return isDigits(phone)
}

// ValidateIncome is a loose numeric check: every "." is removed and the rest
// must be digits. Misplaced separators such as "1.2.3" pass.
func ValidateIncome(income string) bool {
	return isDigits(strings.ReplaceAll(income, ".", ""))
}

// ValidateRegistration runs the form checks in order and returns the first
// failure, or nil when the form is acceptable. Spouse fields are never
// checked.
func ValidateRegistration(form models.RegistrationForm) *models.ValidationError {
	if !ValidateName(form.Get(models.FieldNome)) {
		return models.NewValidationError(models.FieldNome, models.MsgInvalidName)
	}
	if !ValidateCPF(form.Get(models.FieldCPF)) {
		return models.NewValidationError(models.FieldCPF, models.MsgInvalidCPF)
	}
	if !ValidatePhone(form.Get(models.FieldTelefone)) {
		return models.NewValidationError(models.FieldTelefone, models.MsgInvalidPhone)
	}
	if !ValidateIncome(form.Get(models.FieldRenda)) {
		return models.NewValidationError(models.FieldRenda, models.MsgInvalidIncome)
	}

	for _, field := range models.CountFields {
		if _, err := models.ParseCount(form.Get(field)); err != nil {
			return models.NewValidationError(field, models.MsgInvalidCount+": "+field)
		}
	}

	return nil
}
