package utils

// ValidateCPF validates a CPF number.
// The input must be exactly 11 ASCII digits, not all identical, and both
// check digits must match. Formatted input such as "111.444.777-35" is
// rejected.
func ValidateCPF(cpf string) bool {
	if len(cpf) != 11 || !isDigits(cpf) {
		return false
	}

	// Repeated digits satisfy the checksum but are never issued
	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	// Check digit i is weighted over the i preceding digits with weights
	// i+1 down to 2, so the second check includes the first one.
	for i := 9; i < 11; i++ {
		sum := 0
		for k := 0; k < i; k++ {
			sum += int(cpf[k]-'0') * (i + 1 - k)
		}
		expected := (sum * 10 % 11) % 10
		if int(cpf[i]-'0') != expected {
			return false
		}
	}

	return true
}

// FormatCPF renders an 11-digit CPF as 000.000.000-00. Any other input is
// returned unchanged.
func FormatCPF(cpf string) string {
	if len(cpf) != 11 || !isDigits(cpf) {
		return cpf
	}
	return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:]
}

// isDigits reports whether s is non-empty and made only of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
