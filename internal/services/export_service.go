package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// ExportSheet is the worksheet that receives one row per submission
	ExportSheet = "Cadastros"
	// ExportDateColumn is the trailing column holding the submission date
	ExportDateColumn = "data_cadastro"

	exportDateLayout = "02/01/2006"
)

// ExportService appends every submission to a spreadsheet workbook
type ExportService struct {
	path   string
	mu     sync.Mutex
	logger *logging.SafeLogger
}

// NewExportService creates an export service writing to the workbook at path
func NewExportService(path string, logger *logging.SafeLogger) *ExportService {
	return &ExportService{
		path:   path,
		logger: logger,
	}
}

// Path returns the workbook location
func (s *ExportService) Path() string {
	return s.path
}

// ExportHeader returns the header row written when the workbook is created
func ExportHeader() []interface{} {
	header := make([]interface{}, 0, len(models.FormFields)+1)
	for _, field := range models.FormFields {
		header = append(header, field)
	}
	return append(header, ExportDateColumn)
}

// Append writes one row with the raw form values. The workbook and its header
// are created on first use. Appends are serialized so concurrent submissions
// never overwrite each other's row.
func (s *ExportService) Append(ctx context.Context, form models.RegistrationForm, submittedAt time.Time) error {
	_, span := utils.TraceFileWrite(ctx, "xlsx", s.path)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendRow(form, submittedAt); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"export.path": s.path})
		observability.ExportRows.WithLabelValues("error").Inc()
		return err
	}

	observability.ExportRows.WithLabelValues("success").Inc()
	s.logger.Debug("export row appended",
		zap.String("path", s.path),
		zap.String("cpf", observability.MaskCPF(form.Get(models.FieldCPF))))
	return nil
}

func (s *ExportService) appendRow(form models.RegistrationForm, submittedAt time.Time) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("failed to close workbook", zap.String("path", s.path), zap.Error(cerr))
		}
	}()

	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", ExportSheet, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("compute next row: %w", err)
	}

	row := make([]interface{}, 0, len(models.FormFields)+1)
	for _, field := range models.FormFields {
		row = append(row, form.Get(field))
	}
	row = append(row, submittedAt.Format(exportDateLayout))

	if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
		return fmt.Errorf("write row %s: %w", cell, err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

// open loads the workbook, creating it (or the sheet) with a header row when
// missing
func (s *ExportService) open() (*excelize.File, error) {
	var f *excelize.File
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("name sheet: %w", err)
		}
		s.logger.Info("creating export workbook", zap.String("path", s.path))
	} else if err != nil {
		return nil, fmt.Errorf("stat workbook %s: %w", s.path, err)
	} else {
		f, err = excelize.OpenFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
		}
	}

	idx, err := f.GetSheetIndex(ExportSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("find sheet %s: %w", ExportSheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(ExportSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", ExportSheet, err)
		}
	}

	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %s: %w", ExportSheet, err)
	}
	if len(rows) == 0 {
		header := ExportHeader()
		if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	return f, nil
}
