package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaritalStatus is the beneficiary's declared civil status. Values outside
// the known set are carried through unchanged.
type MaritalStatus string

const (
	MaritalStatusSingle      MaritalStatus = "Solteiro"
	MaritalStatusMarried     MaritalStatus = "Casado"
	MaritalStatusStableUnion MaritalStatus = "União Estável"
)

// HasSpouse reports whether the status carries spouse data
func (m MaritalStatus) HasSpouse() bool {
	return m == MaritalStatusMarried || m == MaritalStatusStableUnion
}

// Form field names, in the order they are exported
const (
	FieldNome             = "nome"
	FieldCPF              = "cpf"
	FieldProfissao        = "profissao"
	FieldAtividade        = "atividade"
	FieldRenda            = "renda"
	FieldEstadoCivil      = "estado_civil"
	FieldBeneficio        = "beneficio"
	FieldEndereco         = "endereco"
	FieldTelefone         = "telefone"
	FieldPCD              = "pcd"
	FieldIdosos           = "idosos"
	FieldCriancas         = "criancas"
	FieldMoradores        = "moradores"
	FieldConjugeNome      = "conjuge_nome"
	FieldConjugeCPF       = "conjuge_cpf"
	FieldConjugeProfissao = "conjuge_profissao"
	FieldConjugeAtividade = "conjuge_atividade"
	FieldConjugeRenda     = "conjuge_renda"
)

// FormFields lists every submitted field in export order
var FormFields = []string{
	FieldNome, FieldCPF, FieldProfissao, FieldAtividade, FieldRenda,
	FieldEstadoCivil, FieldBeneficio, FieldEndereco, FieldTelefone,
	FieldPCD, FieldIdosos, FieldCriancas, FieldMoradores,
	FieldConjugeNome, FieldConjugeCPF, FieldConjugeProfissao,
	FieldConjugeAtividade, FieldConjugeRenda,
}

// CountFields are the household counters that default to zero
var CountFields = []string{FieldPCD, FieldIdosos, FieldCriancas, FieldMoradores}

// Spouse holds the partner data kept for married or stable-union beneficiaries
type Spouse struct {
	Name       string  `bson:"nome" json:"nome"`
	CPF        string  `bson:"cpf" json:"cpf"`
	Profession string  `bson:"profissao" json:"profissao"`
	Activity   string  `bson:"atividade" json:"atividade"`
	Income     float64 `bson:"renda" json:"renda"`
}

// Beneficiary is a registered MCMV Rural applicant, keyed by CPF
type Beneficiary struct {
	CPF           string        `bson:"cpf" json:"cpf"`
	Name          string        `bson:"nome" json:"nome"`
	Profession    string        `bson:"profissao" json:"profissao"`
	Activity      string        `bson:"atividade" json:"atividade"`
	Income        float64       `bson:"renda" json:"renda"`
	MaritalStatus MaritalStatus `bson:"estado_civil" json:"estado_civil"`
	Benefit       string        `bson:"beneficio" json:"beneficio"`
	Address       string        `bson:"endereco" json:"endereco"`
	Phone         string        `bson:"telefone" json:"telefone"`
	PCD           int           `bson:"pcd" json:"pcd"`
	Elderly       int           `bson:"idosos" json:"idosos"`
	Children      int           `bson:"criancas" json:"criancas"`
	Residents     int           `bson:"moradores" json:"moradores"`
	Spouse        *Spouse       `bson:"conjuge,omitempty" json:"conjuge,omitempty"`
	RegisteredAt  time.Time     `bson:"data_cadastro" json:"data_cadastro"`
	UpdatedAt     time.Time     `bson:"atualizado_em" json:"atualizado_em"`
}

// DocumentFileName is the name of the registration PDF generated for b
func (b *Beneficiary) DocumentFileName() string {
	return b.Name + ".pdf"
}

// RegistrationForm is the flat form payload as submitted by the clerk
type RegistrationForm map[string]string

// Get returns the submitted value for key, or "" when absent
func (f RegistrationForm) Get(key string) string {
	return f[key]
}

// ToBeneficiary converts a validated form into a Beneficiary stamped with
// now. Income values that only passed the loose digit check (for example
// "1.2.3") fail here.
func (f RegistrationForm) ToBeneficiary(now time.Time) (*Beneficiary, error) {
	income, err := parseDecimal(f.Get(FieldRenda))
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", FieldRenda, err)
	}

	counts := make(map[string]int, len(CountFields))
	for _, field := range CountFields {
		n, err := ParseCount(f.Get(field))
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", field, err)
		}
		counts[field] = n
	}

	b := &Beneficiary{
		CPF:           f.Get(FieldCPF),
		Name:          f.Get(FieldNome),
		Profession:    f.Get(FieldProfissao),
		Activity:      f.Get(FieldAtividade),
		Income:        income,
		MaritalStatus: MaritalStatus(f.Get(FieldEstadoCivil)),
		Benefit:       f.Get(FieldBeneficio),
		Address:       f.Get(FieldEndereco),
		Phone:         f.Get(FieldTelefone),
		PCD:           counts[FieldPCD],
		Elderly:       counts[FieldIdosos],
		Children:      counts[FieldCriancas],
		Residents:     counts[FieldMoradores],
		RegisteredAt:  RegistrationDate(now),
		UpdatedAt:     now.UTC(),
	}

	if b.MaritalStatus.HasSpouse() {
		spouseIncome := 0.0
		if raw := f.Get(FieldConjugeRenda); raw != "" {
			spouseIncome, err = parseDecimal(raw)
			if err != nil {
				return nil, fmt.Errorf("convert %s: %w", FieldConjugeRenda, err)
			}
		}
		b.Spouse = &Spouse{
			Name:       f.Get(FieldConjugeNome),
			CPF:        f.Get(FieldConjugeCPF),
			Profession: f.Get(FieldConjugeProfissao),
			Activity:   f.Get(FieldConjugeAtividade),
			Income:     spouseIncome,
		}
	}

	return b, nil
}

// RegistrationDate truncates t to its calendar day in UTC
func RegistrationDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCount reads a household counter; empty means zero
func ParseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

func parseDecimal(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
