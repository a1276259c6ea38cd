package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DocumentTitle heads every registration form
const DocumentTitle = "FICHA DE CADASTRO – MCMV RURAL"

const (
	pageMargin     = 40.0
	pageTop        = 50.0
	titleHeight    = 30.0
	sectionHeight  = 18.0
	lineHeight     = 14.0
	footerSpacing  = 30.0
	footerDateForm = "02/01/2006"
)

// DocumentService renders the one-page registration PDF handed to the clerk
type DocumentService struct {
	dir      string
	location string
	compress bool
	logger   *logging.SafeLogger
}

// NewDocumentService creates a renderer writing into dir. location is the
// "<Município> - <UF>" text printed in the footer.
func NewDocumentService(dir, location string, logger *logging.SafeLogger) *DocumentService {
	return &DocumentService{
		dir:      dir,
		location: location,
		compress: true,
		logger:   logger,
	}
}

// Render writes <dir>/<nome>.pdf for b and returns its path. An existing file
// with the same name is overwritten.
func (s *DocumentService) Render(ctx context.Context, b *models.Beneficiary, issuedAt time.Time) (string, error) {
	path := filepath.Join(s.dir, b.DocumentFileName())

	_, span := utils.TraceFileWrite(ctx, "pdf", path)
	defer span.End()

	if err := s.render(path, b, issuedAt); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"document.path": path})
		observability.DocumentsGenerated.WithLabelValues("error").Inc()
		return "", err
	}

	observability.DocumentsGenerated.WithLabelValues("success").Inc()
	s.logger.Debug("registration document rendered",
		zap.String("path", path),
		zap.String("cpf", observability.MaskCPF(b.CPF)))
	return path, nil
}

func (s *DocumentService) render(path string, b *models.Beneficiary, issuedAt time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create document dir %s: %w", s.dir, err)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(s.compress)
	pdf.SetTitle(DocumentTitle, true)
	pdf.SetCreationDate(issuedAt)
	pdf.SetMargins(pageMargin, pageTop, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	w := documentWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	w.title(DocumentTitle)

	w.section("Dados do Beneficiário")
	w.line("Nome:", b.Name)
	w.line("CPF:", utils.FormatCPF(b.CPF))
	w.line("Profissão:", b.Profession)
	w.line("Atividade:", b.Activity)
	w.line("Renda:", formatCurrency(b.Income))
	w.line("Estado Civil:", string(b.MaritalStatus))
	w.line("Benefício:", b.Benefit)

	if b.MaritalStatus.HasSpouse() && b.Spouse != nil {
		w.section("Dados do Cônjuge")
		w.line("Nome:", b.Spouse.Name)
		w.line("CPF:", utils.FormatCPF(b.Spouse.CPF))
		w.line("Profissão:", b.Spouse.Profession)
		w.line("Atividade:", b.Spouse.Activity)
		w.line("Renda:", formatCurrency(b.Spouse.Income))
	}

	w.section("Contato")
	w.line("Endereço:", b.Address)
	w.line("Telefone:", utils.FormatPhoneForDocument(b.Phone))

	w.section("Informações Adicionais")
	w.line("PCD:", strconv.Itoa(b.PCD))
	w.line("Idosos:", strconv.Itoa(b.Elderly))
	w.line("Crianças:", strconv.Itoa(b.Children))
	w.line("Moradores:", strconv.Itoa(b.Residents))

	pdf.Ln(footerSpacing)
	w.footer(fmt.Sprintf("%s, %s", s.location, issuedAt.Format(footerDateForm)))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}
	return nil
}

// documentWriter lays out text top-down on a single page
type documentWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w documentWriter) title(text string) {
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.CellFormat(0, titleHeight, w.tr(text), "", 1, "C", false, 0, "")
}

func (w documentWriter) section(text string) {
	w.pdf.SetFont("Helvetica", "B", 11)
	w.pdf.CellFormat(0, sectionHeight, w.tr(text), "", 1, "L", false, 0, "")
}

func (w documentWriter) line(label, value string) {
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.CellFormat(0, lineHeight, w.tr(label+" "+value), "", 1, "L", false, 0, "")
}

func (w documentWriter) footer(text string) {
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.CellFormat(0, lineHeight, w.tr(text), "", 1, "R", false, 0, "")
}

// formatCurrency renders v as Brazilian reais, e.g. R$ 1.500,50
func formatCurrency(v float64) string {
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf("R$ %.2f", v)
}
