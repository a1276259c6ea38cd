package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/repository"
	"github.com/stretchr/testify/require"
)

func validForm() models.RegistrationForm {
	return models.RegistrationForm{
		models.FieldNome:        "José da Silva",
		models.FieldCPF:         "11144477735",
		models.FieldProfissao:   "Agricultor",
		models.FieldAtividade:   "Lavoura",
		models.FieldRenda:       "1500.50",
		models.FieldEstadoCivil: "Solteiro",
		models.FieldBeneficio:   "Construção",
		models.FieldEndereco:    "Comunidade Santa Rosa",
		models.FieldTelefone:    "93991234567",
		models.FieldPCD:         "0",
		models.FieldIdosos:      "1",
		models.FieldCriancas:    "2",
		models.FieldMoradores:   "4",
	}
}

func marriedForm() models.RegistrationForm {
	form := validForm()
	form[models.FieldEstadoCivil] = string(models.MaritalStatusMarried)
	form[models.FieldConjugeNome] = "Maria da Silva"
	form[models.FieldConjugeCPF] = "52998224725"
	form[models.FieldConjugeProfissao] = "Agricultora"
	form[models.FieldConjugeAtividade] = "Horta"
	form[models.FieldConjugeRenda] = "800"
	return form
}

// newSQLiteRepository opens a migrated SQLite database under t.TempDir()
func newSQLiteRepository(t *testing.T) *repository.SQLiteRepository {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "database.db"))
	require.NoError(t, err)
	require.NoError(t, repository.RunMigrations(db.Writer))

	repo := repository.NewSQLiteRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// newTestRegistrationService wires real export and document services into
// a temp dir and pins the clock
func newTestRegistrationService(t *testing.T, repo repository.BeneficiaryRepository, cache BeneficiaryCache, now time.Time) (*RegistrationService, *ExportService, string) {
	t.Helper()

	dir := t.TempDir()
	exporter := NewExportService(filepath.Join(dir, "cadastros.xlsx"), logging.Logger)
	documents := NewDocumentService(dir, "Mojuí dos Campos - Pará", logging.Logger)

	svc := NewRegistrationService(repo, cache, exporter, documents, logging.Logger)
	svc.now = func() time.Time { return now }
	return svc, exporter, dir
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]*models.Beneficiary
	invalidated []string
	getErr      error
	setErr      error
	gets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*models.Beneficiary)}
}

func (c *fakeCache) Get(_ context.Context, cpf string) (*models.Beneficiary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.entries[cpf]
	return b, ok, nil
}

func (c *fakeCache) Set(_ context.Context, b *models.Beneficiary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[b.CPF] = b
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, cpf string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, cpf)
	delete(c.entries, cpf)
	return nil
}

type failingExporter struct{}

func (failingExporter) Append(context.Context, models.RegistrationForm, time.Time) error {
	return errors.New("disk full")
}

type failingRepository struct {
	repository.BeneficiaryRepository
	err error
}

func (r failingRepository) Upsert(context.Context, *models.Beneficiary) error {
	return r.err
}

func (r failingRepository) FindByCPF(context.Context, string) (*models.Beneficiary, error) {
	return nil, r.err
}

// gatedRepository pauses the first FindByCPF after it has read the row,
// until release is closed
type gatedRepository struct {
	repository.BeneficiaryRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func newGatedRepository(repo repository.BeneficiaryRepository) *gatedRepository {
	return &gatedRepository{
		BeneficiaryRepository: repo,
		read:                  make(chan struct{}),
		release:               make(chan struct{}),
	}
}

func (r *gatedRepository) FindByCPF(ctx context.Context, cpf string) (*models.Beneficiary, error) {
	b, err := r.BeneficiaryRepository.FindByCPF(ctx, cpf)
	r.once.Do(func() {
		close(r.read)
		<-r.release
	})
	return b, err
}
