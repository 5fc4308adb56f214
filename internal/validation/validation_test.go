package validation

import (
	"errors"
	"testing"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
)

func TestValidateSerial(t *testing.T) {
	tests := []struct {
		name    string
		serial  string
		wantErr bool
	}{
		{"valid serial", "Q2QN-9J8L-SLPD", false},
		{"valid all digits", "1234-5678-9012", false},
		{"valid all letters", "ABCD-EFGH-IJKL", false},
		{"empty", "", true},
		{"lowercase", "q2qn-9j8l-slpd", true},
		{"missing dashes", "Q2QN9J8LSLPD", true},
		{"wrong group length", "Q2Q-9J8L-SLPD", true},
		{"too many groups", "Q2QN-9J8L-SLPD-AAAA", true},
		{"underscore", "Q2QN-9J8L-SL_D", true},
		{"space inside", "Q2QN 9J8L SLPD", true},
		{"trailing dash", "Q2QN-9J8L-SLP-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSerial("serial", tt.serial)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSerial(%q) error = %v, wantErr %v", tt.serial, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSerialErrorType(t *testing.T) {
	err := ValidateSerial("failedSerial", "bogus")
	var formatErr *domain.ValidationFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected ValidationFormatError, got %T", err)
	}
	if formatErr.Field != "failedSerial" {
		t.Errorf("Expected field failedSerial, got %s", formatErr.Field)
	}
}

func TestNormalizeSerial(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" q2qn-9j8l-slpd ", "Q2QN-9J8L-SLPD"},
		{"Q2QN-9J8L-SLPD", "Q2QN-9J8L-SLPD"},
		{"\tabcd-1234-efgh\n", "ABCD-1234-EFGH"},
	}

	for _, tt := range tests {
		if got := NormalizeSerial(tt.in); got != tt.want {
			t.Errorf("NormalizeSerial(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
