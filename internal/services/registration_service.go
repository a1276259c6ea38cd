package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/repository"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Exporter appends a submitted form to the spreadsheet export
type Exporter interface {
	Append(ctx context.Context, form models.RegistrationForm, submittedAt time.Time) error
}

// DocumentRenderer produces the registration PDF and returns its path
type DocumentRenderer interface {
	Render(ctx context.Context, b *models.Beneficiary, issuedAt time.Time) (string, error)
}

var (
	_ Exporter         = (*ExportService)(nil)
	_ DocumentRenderer = (*DocumentService)(nil)
)

// RegistrationResult is what a successful submission hands back to the clerk
type RegistrationResult struct {
	Beneficiary  *models.Beneficiary
	DocumentPath string
	FileName     string
}

// RegistrationService runs a submission through validation, storage, export
// and document generation
type RegistrationService struct {
	repo      repository.BeneficiaryRepository
	cache     BeneficiaryCache
	exporter  Exporter
	documents DocumentRenderer
	logger    *logging.SafeLogger
	locks     *cpfLocks
	now       func() time.Time
}

// NewRegistrationService wires the registration pipeline. cache may be nil,
// which disables lookup caching.
func NewRegistrationService(
	repo repository.BeneficiaryRepository,
	cache BeneficiaryCache,
	exporter Exporter,
	documents DocumentRenderer,
	logger *logging.SafeLogger,
) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		cache:     cache,
		exporter:  exporter,
		documents: documents,
		logger:    logger,
		locks:     newCPFLocks(),
		now:       time.Now,
	}
}

// Register validates form and, when acceptable, upserts the record, appends
// the export row and renders the PDF, in that order. A *models.ValidationError
// means nothing was written. Later failures do not undo earlier steps. The
// returned Beneficiary is the stored record.
func (s *RegistrationService) Register(ctx context.Context, form models.RegistrationForm) (*RegistrationResult, error) {
	cpf := form.Get(models.FieldCPF)
	ctx, span, cleanup := utils.TraceOperation(ctx, "registration.register", map[string]interface{}{
		"cpf.masked": observability.MaskCPF(cpf),
	})
	defer cleanup()

	s.logger.Debug("registration received", zap.Any("form", observability.MaskSensitiveData(form)))

	_, validationSpan := utils.TraceInputValidation(ctx, "registration_form", "form")
	verr := utils.ValidateRegistration(form)
	validationSpan.End()
	if verr != nil {
		observability.RegistrationsTotal.WithLabelValues("invalid").Inc()
		utils.AddSpanAttribute(span, "validation.field", verr.Field)
		s.logger.Info("registration rejected",
			zap.String("field", verr.Field),
			zap.String("reason", verr.Message))
		return nil, verr
	}

	now := s.now()

	b, err := form.ToBeneficiary(now)
	if err != nil {
		return nil, s.fail(span, "convert", fmt.Errorf("convert form: %w", err))
	}

	stored, err := s.store(ctx, b)
	if err != nil {
		return nil, s.fail(span, "store", err)
	}
	b = stored

	if err := s.exporter.Append(ctx, form, now); err != nil {
		return nil, s.fail(span, "export", fmt.Errorf("append export row: %w", err))
	}

	path, err := s.documents.Render(ctx, b, now)
	if err != nil {
		return nil, s.fail(span, "document", fmt.Errorf("render document: %w", err))
	}

	observability.RegistrationsTotal.WithLabelValues("success").Inc()
	s.logger.Info("beneficiary registered",
		zap.String("cpf", observability.MaskCPF(cpf)),
		zap.String("nome", observability.MaskName(b.Name)),
		zap.String("estado_civil", string(b.MaritalStatus)),
		zap.String("document", path))

	return &RegistrationResult{
		Beneficiary:  b,
		DocumentPath: path,
		FileName:     b.DocumentFileName(),
	}, nil
}

// store upserts b, drops the cached copy and returns the record as persisted,
// so a re-submission carries its original registration date. Lookups of the
// same CPF wait for it, which keeps them from caching the row being replaced.
func (s *RegistrationService) store(ctx context.Context, b *models.Beneficiary) (*models.Beneficiary, error) {
	unlock := s.locks.Lock(b.CPF)
	defer unlock()

	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, b.CPF); err != nil {
			s.logger.Warn("failed to invalidate beneficiary cache",
				zap.String("cpf", observability.MaskCPF(b.CPF)),
				zap.Error(err))
		}
	}

	stored, err := s.repo.FindByCPF(ctx, b.CPF)
	if err != nil {
		return nil, fmt.Errorf("reload stored beneficiary: %w", err)
	}
	return stored, nil
}

func (s *RegistrationService) fail(span trace.Span, stage string, err error) error {
	utils.RecordErrorInSpan(span, err, map[string]interface{}{"registration.stage": stage})
	observability.RegistrationsTotal.WithLabelValues("error").Inc()
	s.logger.Error("registration failed", zap.String("stage", stage), zap.Error(err))
	return err
}

// Find returns the stored record for cpf, reading through the cache when one
// is configured. A miss is models.ErrBeneficiaryNotFound.
func (s *RegistrationService) Find(ctx context.Context, cpf string) (*models.Beneficiary, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "registration.find", map[string]interface{}{
		"cpf.masked": observability.MaskCPF(cpf),
	})
	defer cleanup()

	if s.cache != nil {
		b, found, err := s.cache.Get(ctx, cpf)
		if err != nil {
			s.logger.Warn("beneficiary cache read failed",
				zap.String("cpf", observability.MaskCPF(cpf)),
				zap.Error(err))
		} else if found {
			utils.AddSpanAttribute(span, "cache.hit", true)
			return b, nil
		}
	}

	unlock := s.locks.Lock(cpf)
	defer unlock()

	b, err := s.repo.FindByCPF(ctx, cpf)
	if err != nil {
		if !errors.Is(err, models.ErrBeneficiaryNotFound) {
			utils.RecordErrorInSpan(span, err, nil)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, b); err != nil {
			s.logger.Warn("failed to cache beneficiary",
				zap.String("cpf", observability.MaskCPF(cpf)),
				zap.Error(err))
		}
	}

	return b, nil
}
