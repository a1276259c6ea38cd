package observability

import (
	"strings"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCPF masks a CPF number for logging
func MaskCPF(cpf string) string {
	if len(cpf) != 11 {
		return "***.***.***-**"
	}
	return cpf[:3] + ".***." + cpf[6:9] + "-**"
}

var sensitiveFields = map[string]struct{}{
	"cpf":           {},
	"telefone":      {},
	"renda":         {},
	"conjuge_cpf":   {},
	"conjuge_renda": {},
}

// MaskSensitiveData returns a copy of data with personal fields replaced,
// suitable for logging a submitted form
func MaskSensitiveData(data map[string]string) map[string]string {
	masked := make(map[string]string, len(data))
	for k, v := range data {
		if _, ok := sensitiveFields[k]; ok && v != "" {
			masked[k] = "********"
			continue
		}
		masked[k] = v
	}
	return masked
}

// MaskName keeps the first name and the initial of every other part, e.g.
// "José da Silva" -> "José d* S****"
func MaskName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}

	masked := make([]string, len(parts))
	masked[0] = parts[0]
	for i, part := range parts[1:] {
		runes := []rune(part)
		masked[i+1] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
	}
	return strings.Join(masked, " ")
}
