package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/services"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxFormMemory = 1 << 20

// RegistrationService is the part of services.RegistrationService the
// handlers depend on
type RegistrationService interface {
	Register(ctx context.Context, form models.RegistrationForm) (*services.RegistrationResult, error)
	Find(ctx context.Context, cpf string) (*models.Beneficiary, error)
}

var _ RegistrationService = (*services.RegistrationService)(nil)

// BeneficiaryHandlers serves the registration and lookup endpoints
type BeneficiaryHandlers struct {
	logger  *logging.SafeLogger
	service RegistrationService
}

// NewBeneficiaryHandlers creates the beneficiary handlers
func NewBeneficiaryHandlers(logger *logging.SafeLogger, service RegistrationService) *BeneficiaryHandlers {
	return &BeneficiaryHandlers{
		logger:  logger,
		service: service,
	}
}

// Submit godoc
// @Summary Cadastrar beneficiário
// @Description Valida o formulário, grava (ou substitui) o cadastro pelo CPF, acrescenta uma linha à planilha de exportação e devolve a ficha em PDF.
// @Tags beneficiarios
// @Accept x-www-form-urlencoded
// @Produce application/pdf
// @Produce json
// @Param nome formData string true "Nome completo (apenas letras e espaços)"
// @Param cpf formData string true "CPF com 11 dígitos, sem pontuação"
// @Param profissao formData string false "Profissão"
// @Param atividade formData string false "Atividade rural"
// @Param renda formData string true "Renda (apenas dígitos e ponto)"
// @Param estado_civil formData string false "Solteiro, Casado ou União Estável"
// @Param beneficio formData string false "Benefício pretendido"
// @Param endereco formData string false "Endereço"
// @Param telefone formData string true "Telefone (apenas dígitos)"
// @Param pcd formData int false "Pessoas com deficiência"
// @Param idosos formData int false "Idosos"
// @Param criancas formData int false "Crianças"
// @Param moradores formData int false "Moradores"
// @Param conjuge_nome formData string false "Nome do cônjuge"
// @Param conjuge_cpf formData string false "CPF do cônjuge"
// @Param conjuge_profissao formData string false "Profissão do cônjuge"
// @Param conjuge_atividade formData string false "Atividade do cônjuge"
// @Param conjuge_renda formData string false "Renda do cônjuge"
// @Success 200 {file} file "Ficha de cadastro em PDF"
// @Failure 400 {object} ErrorResponse "Campo inválido"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /submit [post]
func (h *BeneficiaryHandlers) Submit(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SubmitRegistration")
	defer span.End()

	form, err := readForm(c)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		h.logger.Warn("failed to parse registration form", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Erro: models.MsgInvalidForm})
		return
	}

	cpf := form.Get(models.FieldCPF)
	span.SetAttributes(
		attribute.String("cpf.masked", observability.MaskCPF(cpf)),
		attribute.String("operation", "submit_registration"),
	)

	result, err := h.service.Register(ctx, form)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Erro: verr.Message})
			return
		}
		utils.RecordErrorInSpan(span, err, nil)
		h.logger.Error("failed to register beneficiary",
			zap.String("cpf", observability.MaskCPF(cpf)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Erro: models.MsgInternal})
		return
	}

	c.Header("Content-Disposition", attachmentDisposition(result.FileName))
	c.File(result.DocumentPath)

	h.logger.Info("SubmitRegistration completed",
		zap.String("cpf", observability.MaskCPF(cpf)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// Lookup godoc
// @Summary Consultar beneficiário
// @Description Retorna o cadastro gravado para o CPF. Quando não existe, responde 200 com o campo erro.
// @Tags beneficiarios
// @Produce json
// @Param cpf path string true "CPF com 11 dígitos"
// @Success 200 {object} models.Beneficiary "Cadastro encontrado, ou {\"erro\": \"CPF não encontrado\"}"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /lookup/{cpf} [get]
func (h *BeneficiaryHandlers) Lookup(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "LookupBeneficiary")
	defer span.End()

	cpf := c.Param("cpf")
	span.SetAttributes(
		attribute.String("cpf.masked", observability.MaskCPF(cpf)),
		attribute.String("operation", "lookup_beneficiary"),
	)

	b, err := h.service.Find(ctx, cpf)
	if err != nil {
		if errors.Is(err, models.ErrBeneficiaryNotFound) {
			utils.AddSpanAttribute(span, "beneficiary.found", false)
			c.JSON(http.StatusOK, ErrorResponse{Erro: models.MsgNotFound})
			return
		}
		utils.RecordErrorInSpan(span, err, nil)
		h.logger.Error("failed to look up beneficiary",
			zap.String("cpf", observability.MaskCPF(cpf)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Erro: models.MsgInternal})
		return
	}

	utils.AddSpanAttribute(span, "beneficiary.found", true)
	c.JSON(http.StatusOK, b)
}

// readForm flattens the urlencoded or multipart body, keeping the first value
// of each key
func readForm(c *gin.Context) (models.RegistrationForm, error) {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	form := make(models.RegistrationForm, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			form[key] = values[0]
		}
	}
	return form, nil
}

// attachmentDisposition keeps the beneficiary's name intact in the download.
// Non-ASCII names get an accent-stripped filename plus the RFC 5987
// filename* form.
func attachmentDisposition(fileName string) string {
	fallback := asciiFileName(fileName)
	if fallback == fileName {
		return `attachment; filename="` + fileName + `"`
	}
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + url.PathEscape(fileName)
}

func asciiFileName(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r < ' ' || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, stripped)
}
