package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanIdentification(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain digits", "1792146739001", "1792146739001"},
		{"with dashes", "17-9214673-9001", "1792146739001"},
		{"with spaces", " 1792 146739 001 ", "1792146739001"},
		{"with letters", "RUC:1792146739001", "1792146739001"},
		{"empty", "", ""},
		{"only letters", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanIdentification(tt.input))
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("0123456789"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("123a"))
	assert.False(t, IsDigits("12 3"))
}

func TestValidateCedula(t *testing.T) {
	tests := []struct {
		name   string
		cedula string
		valid  bool
	}{
		{"valid cedula", "1712345675", true},
		{"wrong check digit", "1712345670", false},
		{"too short", "171234567", false},
		{"too long", "17123456751", false},
		{"non numeric", "171234567a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateCedula(tt.cedula))
		})
	}
}

func TestValidateCedulaChecksumMutation(t *testing.T) {
	// Exactly one check digit can close a valid cedula prefix.
	prefix := "171234567"
	validCount := 0
	for d := byte('0'); d <= '9'; d++ {
		if ValidateCedula(prefix + string(d)) {
			validCount++
		}
	}
	assert.Equal(t, 1, validCount)
}

func TestValidateRucBasicFormat(t *testing.T) {
	tests := []struct {
		name  string
		ruc   string
		valid bool
	}{
		{"natural person", "1712345675001", true},
		{"private entity", "1792146739001", true},
		{"public institution", "1760001550000", true},
		{"province lower bound", "0112345675001", true},
		{"province upper bound", "2412345675001", true},
		{"province zero", "0012345675001", false},
		{"province too high", "2512345675001", false},
		{"third digit seven", "1772345675001", false},
		{"third digit eight", "1782345675001", false},
		{"too short", "171234567500", false},
		{"too long", "17123456750011", false},
		{"non numeric", "17123456750ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateRucBasicFormat(tt.ruc))
		})
	}
}

func TestCheckRuc(t *testing.T) {
	tests := []struct {
		name string
		ruc  string
		code ValidationCode
	}{
		{"natural person valid", "1712345675001", Valid},
		{"private entity valid", "1792146739001", Valid},
		{"public institution valid", "1760001550000", Valid},
		{"formatted input", "17-1234567-5-001", Valid},
		{"wrong length", "171234567500", InvalidLength},
		{"empty", "", InvalidLength},
		{"province zero", "0012345675001", InvalidProvinceCode},
		{"province too high", "2512345675001", InvalidProvinceCode},
		{"unassigned third digit", "1772345675001", InvalidThirdDigit},
		{"bad cedula checksum", "1712345670001", InvalidChecksum},
		{"natural person wrong suffix", "1712345675002", InvalidEstablishmentCode},
		{"private entity wrong suffix", "1792146739000", InvalidEstablishmentCode},
		{"public institution wrong suffix", "1760001550001", InvalidEstablishmentCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckRuc(tt.ruc)
			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, tt.code == Valid, result.IsValid())
		})
	}
}

func TestCheckRucPrivateEntitySkipsChecksum(t *testing.T) {
	// Third digit 9 carries no embedded cedula; the first ten digits would
	// fail the checksum as a cedula but the RUC is still valid.
	assert.False(t, ValidateCedula("1792146739"))
	assert.True(t, CheckRuc("1792146739001").IsValid())
}

func TestValidateRuc(t *testing.T) {
	assert.True(t, ValidateRuc("1712345675001"))
	assert.False(t, ValidateRuc("1712345670001"))
}

func TestRucTaxpayerKind(t *testing.T) {
	assert.Equal(t, NaturalPerson, RucTaxpayerKind("1712345675001"))
	assert.Equal(t, PublicInstitution, RucTaxpayerKind("1760001550000"))
	assert.Equal(t, PrivateEntity, RucTaxpayerKind("1792146739001"))
	assert.Equal(t, UnknownKind, RucTaxpayerKind("1772345675001"))
	assert.Equal(t, UnknownKind, RucTaxpayerKind("123"))
}

func TestFormatRuc(t *testing.T) {
	assert.Equal(t, "17-9-2146739-001", FormatRuc("1792146739001"))
	assert.Equal(t, "123", FormatRuc("123"))
}

func TestAnalyzeRuc(t *testing.T) {
	info := AnalyzeRuc("17-1234567-5-001")
	assert.Equal(t, "17-1234567-5-001", info.Original)
	assert.Equal(t, "1712345675001", info.Cleaned)
	assert.Equal(t, "17-1-2345675-001", info.Formatted)
	assert.Equal(t, NaturalPerson, info.Kind)
	assert.Equal(t, Valid, info.Code)
	assert.True(t, info.Valid)

	invalid := AnalyzeRuc("1712345670001")
	assert.Equal(t, InvalidChecksum, invalid.Code)
	assert.False(t, invalid.Valid)
	assert.Empty(t, invalid.Formatted)
}

func TestExtractRucsFromText(t *testing.T) {
	text := "Facturas de 1792146739001 y 1712345675001, otra vez 1792146739001. " +
		"Ignorar 2512345675001 y 12345."

	rucs := ExtractRucsFromText(text)
	assert.Equal(t, []string{"1792146739001", "1712345675001"}, rucs)
}

func TestExtractRucsFromTextEmpty(t *testing.T) {
	assert.Empty(t, ExtractRucsFromText("sin identificadores"))
}
