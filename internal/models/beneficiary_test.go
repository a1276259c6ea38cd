package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		FieldNome:        "José da Silva",
		FieldCPF:         "11144477735",
		FieldProfissao:   "Agricultor",
		FieldAtividade:   "Lavoura",
		FieldRenda:       "1500.50",
		FieldEstadoCivil: "Solteiro",
		FieldBeneficio:   "Construção",
		FieldEndereco:    "Comunidade São José, km 12",
		FieldTelefone:    "93991234567",
		FieldPCD:         "1",
		FieldIdosos:      "",
		FieldCriancas:    "2",
		FieldMoradores:   "4",
	}
}

func TestMaritalStatus_HasSpouse(t *testing.T) {
	tests := []struct {
		status MaritalStatus
		want   bool
	}{
		{MaritalStatusSingle, false},
		{MaritalStatusMarried, true},
		{MaritalStatusStableUnion, true},
		{MaritalStatus("Viúvo"), false},
		{MaritalStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.HasSpouse())
		})
	}
}

func TestRegistrationForm_ToBeneficiary(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	b, err := validForm().ToBeneficiary(now)
	require.NoError(t, err)

	assert.Equal(t, "11144477735", b.CPF)
	assert.Equal(t, "José da Silva", b.Name)
	assert.Equal(t, 1500.50, b.Income)
	assert.Equal(t, MaritalStatusSingle, b.MaritalStatus)
	assert.Equal(t, 1, b.PCD)
	assert.Equal(t, 0, b.Elderly)
	assert.Equal(t, 2, b.Children)
	assert.Equal(t, 4, b.Residents)
	assert.Nil(t, b.Spouse)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), b.RegisteredAt)
	assert.Equal(t, now, b.UpdatedAt)
	assert.Equal(t, "José da Silva.pdf", b.DocumentFileName())
}

func TestRegistrationForm_ToBeneficiary_Spouse(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantSpouse bool
	}{
		{name: "married", status: "Casado", wantSpouse: true},
		{name: "stable union", status: "União Estável", wantSpouse: true},
		{name: "single drops spouse fields", status: "Solteiro", wantSpouse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form[FieldEstadoCivil] = tt.status
			form[FieldConjugeNome] = "Maria da Silva"
			form[FieldConjugeCPF] = "52998224725"
			form[FieldConjugeRenda] = "800"

			b, err := form.ToBeneficiary(time.Now())
			require.NoError(t, err)

			if !tt.wantSpouse {
				assert.Nil(t, b.Spouse)
				return
			}
			require.NotNil(t, b.Spouse)
			assert.Equal(t, "Maria da Silva", b.Spouse.Name)
			assert.Equal(t, "52998224725", b.Spouse.CPF)
			assert.Equal(t, 800.0, b.Spouse.Income)
		})
	}
}

func TestRegistrationForm_ToBeneficiary_SpouseIncomeDefaultsToZero(t *testing.T) {
	form := validForm()
	form[FieldEstadoCivil] = "Casado"

	b, err := form.ToBeneficiary(time.Now())
	require.NoError(t, err)
	require.NotNil(t, b.Spouse)
	assert.Zero(t, b.Spouse.Income)
}

func TestRegistrationForm_ToBeneficiary_ConversionErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "income with several dots", field: FieldRenda, value: "1.2.3"},
		{name: "count not numeric", field: FieldMoradores, value: "quatro"},
		{name: "negative count", field: FieldPCD, value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form[tt.field] = tt.value

			b, err := form.ToBeneficiary(time.Now())
			assert.Nil(t, b)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount("")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ParseCount(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseCount("2.5")
	assert.Error(t, err)
}

func TestFormFields_CoverCounts(t *testing.T) {
	for _, field := range CountFields {
		assert.Contains(t, FormFields, field)
	}
	assert.Len(t, FormFields, 18)
}
