package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"

	_ "modernc.org/sqlite"
)

// Compile-time interface satisfaction check.
var _ BeneficiaryRepository = (*SQLiteRepository)(nil)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// DB provides dual reader/writer SQLite connections with WAL mode enabled.
// The writer is limited to a single connection to avoid "database is locked"
// errors.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
}

// NewDB opens the database file at dbPath
func NewDB(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		dbPath,
	)
	return openDB(dsn)
}

func openDB(dsn string) (*DB, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.Ping(); err != nil {
		writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.Ping(); err != nil {
		reader.Close()
		writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader}, nil
}

// Close closes both connections and returns the first error encountered
func (db *DB) Close() error {
	var firstErr error
	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}
	return firstErr
}

// SQLiteRepository is the relational BeneficiaryRepository
type SQLiteRepository struct {
	db *DB
}

// NewSQLiteRepository creates a repository backed by db. Migrations must
// have been applied with RunMigrations.
func NewSQLiteRepository(db *DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts or replaces the record keyed by CPF. data_cadastro is left
// untouched on conflict.
func (r *SQLiteRepository) Upsert(ctx context.Context, b *models.Beneficiary) error {
	const query = `
INSERT INTO beneficiarios (
    cpf, nome, profissao, atividade, renda, estado_civil, beneficio, endereco, telefone,
    pcd, idosos, criancas, moradores,
    conjuge_nome, conjuge_cpf, conjuge_profissao, conjuge_atividade, conjuge_renda,
    data_cadastro, atualizado_em
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(cpf) DO UPDATE SET
    nome = excluded.nome,
    profissao = excluded.profissao,
    atividade = excluded.atividade,
    renda = excluded.renda,
    estado_civil = excluded.estado_civil,
    beneficio = excluded.beneficio,
    endereco = excluded.endereco,
    telefone = excluded.telefone,
    pcd = excluded.pcd,
    idosos = excluded.idosos,
    criancas = excluded.criancas,
    moradores = excluded.moradores,
    conjuge_nome = excluded.conjuge_nome,
    conjuge_cpf = excluded.conjuge_cpf,
    conjuge_profissao = excluded.conjuge_profissao,
    conjuge_atividade = excluded.conjuge_atividade,
    conjuge_renda = excluded.conjuge_renda,
    atualizado_em = excluded.atualizado_em`

	ctx, span := utils.TraceDatabaseUpsert(ctx, "sqlite", BeneficiaryTable)
	defer span.End()

	var spouseName, spouseCPF, spouseProfession, spouseActivity sql.NullString
	var spouseIncome sql.NullFloat64
	if s := b.Spouse; s != nil {
		spouseName = sql.NullString{String: s.Name, Valid: true}
		spouseCPF = sql.NullString{String: s.CPF, Valid: true}
		spouseProfession = sql.NullString{String: s.Profession, Valid: true}
		spouseActivity = sql.NullString{String: s.Activity, Valid: true}
		spouseIncome = sql.NullFloat64{Float64: s.Income, Valid: true}
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		b.CPF, b.Name, b.Profession, b.Activity, b.Income, string(b.MaritalStatus),
		b.Benefit, b.Address, b.Phone,
		b.PCD, b.Elderly, b.Children, b.Residents,
		spouseName, spouseCPF, spouseProfession, spouseActivity, spouseIncome,
		b.RegisteredAt.Format(dateLayout), b.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"db.table": BeneficiaryTable})
		observability.DatabaseOperations.WithLabelValues("upsert", "error").Inc()
		return fmt.Errorf("upsert beneficiary %s: %w", observability.MaskCPF(b.CPF), err)
	}

	observability.DatabaseOperations.WithLabelValues("upsert", "success").Inc()
	return nil
}

// FindByCPF returns the stored record for cpf
func (r *SQLiteRepository) FindByCPF(ctx context.Context, cpf string) (*models.Beneficiary, error) {
	const query = `
SELECT cpf, nome, profissao, atividade, renda, estado_civil, beneficio, endereco, telefone,
       pcd, idosos, criancas, moradores,
       conjuge_nome, conjuge_cpf, conjuge_profissao, conjuge_atividade, conjuge_renda,
       data_cadastro, atualizado_em
FROM beneficiarios WHERE cpf = ?`

	ctx, span := utils.TraceDatabaseFind(ctx, "sqlite", BeneficiaryTable)
	defer span.End()

	b, err := scanBeneficiary(r.db.Reader.QueryRowContext(ctx, query, cpf))
	if errors.Is(err, sql.ErrNoRows) {
		observability.DatabaseOperations.WithLabelValues("find", "not_found").Inc()
		return nil, models.ErrBeneficiaryNotFound
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"db.table": BeneficiaryTable})
		observability.DatabaseOperations.WithLabelValues("find", "error").Inc()
		return nil, fmt.Errorf("find beneficiary %s: %w", observability.MaskCPF(cpf), err)
	}

	observability.DatabaseOperations.WithLabelValues("find", "success").Inc()
	return b, nil
}

// Ping checks the writer connection
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.Writer.PingContext(ctx)
}

// Close closes the underlying connections
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanBeneficiary(row *sql.Row) (*models.Beneficiary, error) {
	var (
		b                                                       models.Beneficiary
		maritalStatus, registeredAt, updatedAt                  string
		spouseName, spouseCPF, spouseProfession, spouseActivity sql.NullString
		spouseIncome                                            sql.NullFloat64
	)

	err := row.Scan(
		&b.CPF, &b.Name, &b.Profession, &b.Activity, &b.Income, &maritalStatus,
		&b.Benefit, &b.Address, &b.Phone,
		&b.PCD, &b.Elderly, &b.Children, &b.Residents,
		&spouseName, &spouseCPF, &spouseProfession, &spouseActivity, &spouseIncome,
		&registeredAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.MaritalStatus = models.MaritalStatus(maritalStatus)

	if b.RegisteredAt, err = time.Parse(dateLayout, registeredAt); err != nil {
		return nil, fmt.Errorf("parse data_cadastro: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse atualizado_em: %w", err)
	}

	if spouseName.Valid {
		b.Spouse = &models.Spouse{
			Name:       spouseName.String,
			CPF:        spouseCPF.String,
			Profession: spouseProfession.String,
			Activity:   spouseActivity.String,
			Income:     spouseIncome.Float64,
		}
	}

	return &b, nil
}
