// Package repository persists beneficiary records keyed by CPF.
package repository

import (
	"context"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
)

// BeneficiaryTable is the relational table (and Mongo collection default)
// holding beneficiary records
const BeneficiaryTable = "beneficiarios"

// BeneficiaryRepository stores one record per CPF with replace-on-conflict
// semantics. RegisteredAt is written on first insert only.
type BeneficiaryRepository interface {
	// Upsert inserts b or replaces the stored record with the same CPF,
	// keeping the original registration date.
	Upsert(ctx context.Context, b *models.Beneficiary) error
	// FindByCPF returns models.ErrBeneficiaryNotFound when no record matches.
	FindByCPF(ctx context.Context, cpf string) (*models.Beneficiary, error)
	Ping(ctx context.Context) error
	Close() error
}
