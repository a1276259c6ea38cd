package repository

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
)

// setupTestDB creates a named shared in-memory SQLite database with the
// schema applied. The name is derived from t.Name() so tests stay isolated.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", url.PathEscape(t.Name()))

	db, err := openDB(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestBeneficiary(cpf string, registeredAt time.Time) *models.Beneficiary {
	return &models.Beneficiary{
		CPF:           cpf,
		Name:          "José da Silva",
		Profession:    "Agricultor",
		Activity:      "Lavoura de mandioca",
		Income:        1500.5,
		MaritalStatus: models.MaritalStatusSingle,
		Benefit:       "Construção",
		Address:       "Comunidade Santa Rosa",
		Phone:         "93991234567",
		PCD:           0,
		Elderly:       1,
		Children:      2,
		Residents:     4,
		RegisteredAt:  models.RegistrationDate(registeredAt),
		UpdatedAt:     registeredAt.UTC(),
	}
}
