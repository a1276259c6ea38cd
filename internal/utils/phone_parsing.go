package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ParsePhoneNumber parses a Brazilian phone number as typed in the form
// (digits only, optionally prefixed with 55).
func ParsePhoneNumber(phoneString string) (*phonenumbers.PhoneNumber, error) {
	cleanPhone := strings.TrimSpace(phoneString)

	// Form input never carries "+"; numbers starting with 55 and longer than
	// a national number already include the country code.
	if !strings.HasPrefix(cleanPhone, "+") {
		if strings.HasPrefix(cleanPhone, "55") && len(cleanPhone) > 11 {
			cleanPhone = "+" + cleanPhone
		} else {
			cleanPhone = "+55" + cleanPhone
		}
	}

	num, err := phonenumbers.Parse(cleanPhone, "BR")
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	return num, nil
}

// FormatPhoneForDocument renders a phone in Brazilian national format, e.g.
// "(21) 98765-4321". Numbers libphonenumber cannot validate are returned as
// typed, since the form accepts any digit string.
func FormatPhoneForDocument(phone string) string {
	num, err := ParsePhoneNumber(phone)
	if err != nil {
		return phone
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
