package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func TestRegistrationService_Register(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, exporter, _ := newTestRegistrationService(t, repo, nil, testNow)
	ctx := context.Background()

	result, err := svc.Register(ctx, validForm())
	require.NoError(t, err)

	assert.Equal(t, "José da Silva.pdf", result.FileName)
	assert.FileExists(t, result.DocumentPath)
	assert.Equal(t, 1500.5, result.Beneficiary.Income)
	assert.Nil(t, result.Beneficiary.Spouse)

	stored, err := repo.FindByCPF(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "José da Silva", stored.Name)
	assert.Equal(t, 4, stored.Residents)

	assert.Len(t, readExportRows(t, exporter.Path()), 2)
}

func TestRegistrationService_Register_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(models.RegistrationForm)
		field   string
		message string
	}{
		{
			name:    "name with digits",
			mutate:  func(f models.RegistrationForm) { f[models.FieldNome] = "Jose 2" },
			field:   models.FieldNome,
			message: models.MsgInvalidName,
		},
		{
			name:    "bad CPF checksum",
			mutate:  func(f models.RegistrationForm) { f[models.FieldCPF] = "11144477736" },
			field:   models.FieldCPF,
			message: models.MsgInvalidCPF,
		},
		{
			name:    "phone with dash",
			mutate:  func(f models.RegistrationForm) { f[models.FieldTelefone] = "93-99123" },
			field:   models.FieldTelefone,
			message: models.MsgInvalidPhone,
		},
		{
			name:    "income with comma",
			mutate:  func(f models.RegistrationForm) { f[models.FieldRenda] = "1,5" },
			field:   models.FieldRenda,
			message: models.MsgInvalidIncome,
		},
		{
			name: "name checked before CPF",
			mutate: func(f models.RegistrationForm) {
				f[models.FieldNome] = ""
				f[models.FieldCPF] = "123"
			},
			field:   models.FieldNome,
			message: models.MsgInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newSQLiteRepository(t)
			svc, exporter, dir := newTestRegistrationService(t, repo, nil, testNow)

			form := validForm()
			tt.mutate(form)

			result, err := svc.Register(context.Background(), form)
			assert.Nil(t, result)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)

			_, err = repo.FindByCPF(context.Background(), "11144477735")
			assert.ErrorIs(t, err, models.ErrBeneficiaryNotFound)
			assert.NoFileExists(t, exporter.Path())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRegistrationService_Register_ResubmissionUpdates(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, exporter, _ := newTestRegistrationService(t, repo, nil, testNow)
	ctx := context.Background()

	_, err := svc.Register(ctx, validForm())
	require.NoError(t, err)

	later := testNow.Add(48 * time.Hour)
	svc.now = func() time.Time { return later }

	form := marriedForm()
	form[models.FieldBeneficio] = "Reforma"
	_, err = svc.Register(ctx, form)
	require.NoError(t, err)

	stored, err := repo.FindByCPF(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "Reforma", stored.Benefit)
	require.NotNil(t, stored.Spouse)
	assert.Equal(t, 800.0, stored.Spouse.Income)
	assert.Equal(t, models.RegistrationDate(testNow), stored.RegisteredAt)
	assert.Equal(t, later, stored.UpdatedAt)

	assert.Len(t, readExportRows(t, exporter.Path()), 3)
}

func TestRegistrationService_Register_SpouseDroppedWhenSingle(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, _, _ := newTestRegistrationService(t, repo, nil, testNow)

	form := marriedForm()
	form[models.FieldEstadoCivil] = "Solteiro"
	form[models.FieldConjugeRenda] = "abc"

	result, err := svc.Register(context.Background(), form)
	require.NoError(t, err)
	assert.Nil(t, result.Beneficiary.Spouse)
}

func TestRegistrationService_Register_LooseIncomeFailsConversion(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, exporter, _ := newTestRegistrationService(t, repo, nil, testNow)

	form := validForm()
	form[models.FieldRenda] = "1.2.3"

	_, err := svc.Register(context.Background(), form)
	require.Error(t, err)

	var verr *models.ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.NoFileExists(t, exporter.Path())
}

func TestRegistrationService_Register_ExportFailureKeepsRecord(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, _, _ := newTestRegistrationService(t, repo, nil, testNow)
	svc.exporter = failingExporter{}

	_, err := svc.Register(context.Background(), validForm())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	stored, err := repo.FindByCPF(context.Background(), "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "José da Silva", stored.Name)
}

func TestRegistrationService_Register_StoreFailure(t *testing.T) {
	storeErr := errors.New("database is locked")
	svc, exporter, _ := newTestRegistrationService(t, failingRepository{err: storeErr}, nil, testNow)

	_, err := svc.Register(context.Background(), validForm())
	assert.ErrorIs(t, err, storeErr)
	assert.NoFileExists(t, exporter.Path())
}

func TestRegistrationService_Register_InvalidatesCache(t *testing.T) {
	repo := newSQLiteRepository(t)
	cache := newFakeCache()
	svc, _, _ := newTestRegistrationService(t, repo, cache, testNow)
	ctx := context.Background()

	_, err := svc.Register(ctx, validForm())
	require.NoError(t, err)

	found, err := svc.Find(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "Solteiro", string(found.MaritalStatus))
	require.Contains(t, cache.entries, "11144477735")

	_, err = svc.Register(ctx, marriedForm())
	require.NoError(t, err)
	assert.Equal(t, []string{"11144477735", "11144477735"}, cache.invalidated)
	assert.NotContains(t, cache.entries, "11144477735")

	found, err = svc.Find(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, models.MaritalStatusMarried, found.MaritalStatus)
}

func TestRegistrationService_Find(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, _, _ := newTestRegistrationService(t, repo, nil, testNow)
	ctx := context.Background()

	_, err := svc.Find(ctx, "11144477735")
	assert.ErrorIs(t, err, models.ErrBeneficiaryNotFound)

	_, err = svc.Register(ctx, validForm())
	require.NoError(t, err)

	found, err := svc.Find(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "José da Silva", found.Name)
}

func TestRegistrationService_Find_CacheHit(t *testing.T) {
	cache := newFakeCache()
	cache.entries["11144477735"] = &models.Beneficiary{CPF: "11144477735", Name: "Cached"}

	svc, _, _ := newTestRegistrationService(t, failingRepository{err: errors.New("should not be called")}, cache, testNow)

	found, err := svc.Find(context.Background(), "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "Cached", found.Name)
}

func TestRegistrationService_Find_CacheErrorFallsBack(t *testing.T) {
	repo := newSQLiteRepository(t)
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")

	svc, _, _ := newTestRegistrationService(t, repo, cache, testNow)
	ctx := context.Background()

	_, err := svc.Register(ctx, validForm())
	require.NoError(t, err)

	found, err := svc.Find(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "José da Silva", found.Name)
}

func TestRegistrationService_Register_ResultCarriesStoredRegistrationDate(t *testing.T) {
	repo := newSQLiteRepository(t)
	svc, _, _ := newTestRegistrationService(t, repo, nil, testNow)
	ctx := context.Background()

	first, err := svc.Register(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationDate(testNow), first.Beneficiary.RegisteredAt)

	svc.now = func() time.Time { return testNow.AddDate(0, 1, 0) }

	second, err := svc.Register(ctx, marriedForm())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationDate(testNow), second.Beneficiary.RegisteredAt)
	require.NotNil(t, second.Beneficiary.Spouse)
	assert.Equal(t, "Maria da Silva", second.Beneficiary.Spouse.Name)
}

func TestRegistrationService_Find_DoesNotCacheReplacedRecord(t *testing.T) {
	base := newSQLiteRepository(t)
	cache := newFakeCache()
	ctx := context.Background()

	seed, _, _ := newTestRegistrationService(t, base, nil, testNow)
	_, err := seed.Register(ctx, validForm())
	require.NoError(t, err)

	gated := newGatedRepository(base)
	svc, _, _ := newTestRegistrationService(t, gated, cache, testNow)

	findDone := make(chan error, 1)
	go func() {
		_, err := svc.Find(ctx, "11144477735")
		findDone <- err
	}()
	<-gated.read

	registerDone := make(chan error, 1)
	go func() {
		_, err := svc.Register(ctx, marriedForm())
		registerDone <- err
	}()

	// give the submission time to reach the store while the lookup is paused
	time.Sleep(50 * time.Millisecond)
	close(gated.release)

	require.NoError(t, <-findDone)
	require.NoError(t, <-registerDone)

	stored, err := base.FindByCPF(ctx, "11144477735")
	require.NoError(t, err)
	require.Equal(t, models.MaritalStatusMarried, stored.MaritalStatus)

	found, err := svc.Find(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, models.MaritalStatusMarried, found.MaritalStatus)
	assert.Equal(t, 0, svc.locks.size())
}
