// Package validation checks request input before any remote call is
// made. Serials follow the dashboard's canonical XXXX-XXXX-XXXX format
// over uppercase alphanumerics.
package validation

import (
	"strings"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
)

// isUpperAlphaNum returns true if the byte is an uppercase ASCII letter
// or digit.
func isUpperAlphaNum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// NormalizeSerial trims and uppercases a serial so lookups are
// case-insensitive.
func NormalizeSerial(serial string) string {
	return strings.ToUpper(strings.TrimSpace(serial))
}

// ValidateSerial validates the structural serial format. The field name
// is carried into the error for the response message.
func ValidateSerial(field, serial string) error {
	if !validSerial(serial) {
		return &domain.ValidationFormatError{Field: field, Value: serial}
	}
	return nil
}

func validSerial(serial string) bool {
	if len(serial) != 14 {
		return false
	}
	for i := 0; i < len(serial); i++ {
		if i == 4 || i == 9 {
			if serial[i] != '-' {
				return false
			}
			continue
		}
		if !isUpperAlphaNum(serial[i]) {
			return false
		}
	}
	return true
}
