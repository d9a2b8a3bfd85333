package utils

import (
	"regexp"
)

// ValidationCode classifies why an identifier failed (or passed) validation.
type ValidationCode string

const (
	Valid                    ValidationCode = "VALID"
	InvalidLength            ValidationCode = "INVALID_LENGTH"
	InvalidCharacters        ValidationCode = "INVALID_CHARACTERS"
	InvalidProvinceCode      ValidationCode = "INVALID_PROVINCE_CODE"
	InvalidThirdDigit        ValidationCode = "INVALID_THIRD_DIGIT"
	InvalidChecksum          ValidationCode = "INVALID_CHECKSUM"
	InvalidEstablishmentCode ValidationCode = "INVALID_ESTABLISHMENT_CODE"
)

// ValidationResult is the outcome of checking an identifier.
type ValidationResult struct {
	Code       ValidationCode `json:"code"`
	Identifier string         `json:"identifier"`
}

// IsValid reports whether the identifier passed all checks.
func (r ValidationResult) IsValid() bool {
	return r.Code == Valid
}

// cedulaCoefficients are the per-position weights of the "module 10" algorithm
// used by Ecuadorian cédulas (digits 0..8; digit 9 is the check digit).
var cedulaCoefficients = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

var nonDigit = regexp.MustCompile(`\D`)

// CleanIdentification removes all non-numeric characters from an identifier.
func CleanIdentification(id string) string {
	return nonDigit.ReplaceAllString(id, "")
}

// IsDigits reports whether s is non-empty and consists only of ASCII digits.
func IsDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateCedula validates a 10-digit Ecuadorian cédula using the module 10
// checksum. Products >= 10 are reduced by 9 before summing; the expected check
// digit is 0 when the total is a multiple of 10, otherwise 10 minus the
// remainder.
func ValidateCedula(cedula string) bool {
	if len(cedula) != 10 || !IsDigits(cedula) {
		return false
	}

	total := 0
	for i := 0; i < 9; i++ {
		value := int(cedula[i]-'0') * cedulaCoefficients[i]
		if value >= 10 {
			value -= 9
		}
		total += value
	}

	expected := 0
	if remainder := total % 10; remainder != 0 {
		expected = 10 - remainder
	}

	return expected == int(cedula[9]-'0')
}

// ValidateRucBasicFormat checks the structural rules of a 13-digit RUC without
// running the embedded cédula checksum: province code 01..24 and a valid
// taxpayer-type third digit (0-5 natural person, 6 public institution,
// 9 private or foreign entity; 7 and 8 are unassigned).
func ValidateRucBasicFormat(ruc string) bool {
	if len(ruc) != 13 || !IsDigits(ruc) {
		return false
	}

	province := ruc[0:2]
	if province < "01" || province > "24" {
		return false
	}

	switch ruc[2] {
	case '0', '1', '2', '3', '4', '5', '6', '9':
		return true
	}
	return false
}

// ValidateRuc runs the full validation of a 13-digit RUC, including the
// embedded cédula checksum for natural persons and the establishment-code
// suffix rules per taxpayer type.
func ValidateRuc(ruc string) bool {
	return CheckRuc(ruc).IsValid()
}

// CheckRuc validates a RUC and reports which rule failed, so callers can build
// field-scoped error messages. The identifier in the result is the cleaned
// input.
func CheckRuc(ruc string) ValidationResult {
	cleaned := CleanIdentification(ruc)
	result := ValidationResult{Identifier: cleaned}

	if len(cleaned) != 13 {
		result.Code = InvalidLength
		return result
	}
	if !IsDigits(cleaned) {
		result.Code = InvalidCharacters
		return result
	}

	if province := cleaned[0:2]; province < "01" || province > "24" {
		result.Code = InvalidProvinceCode
		return result
	}

	third := cleaned[2]
	suffix := cleaned[10:13]

	switch {
	case third >= '0' && third <= '5':
		// Natural person: the first 10 digits are a cédula and the RUC must
		// point at the main establishment.
		if !ValidateCedula(cleaned[0:10]) {
			result.Code = InvalidChecksum
			return result
		}
		if suffix != "001" {
			result.Code = InvalidEstablishmentCode
			return result
		}
	case third == '9':
		// Private or foreign entity: no embedded cédula, suffix 001.
		if suffix != "001" {
			result.Code = InvalidEstablishmentCode
			return result
		}
	case third == '6':
		// Public institution. The registry encodes these with suffix 000,
		// unlike every other branch.
		if suffix != "000" {
			result.Code = InvalidEstablishmentCode
			return result
		}
	default:
		result.Code = InvalidThirdDigit
		return result
	}

	result.Code = Valid
	return result
}

// TaxpayerKind describes the classification encoded in a RUC's third digit.
type TaxpayerKind string

const (
	NaturalPerson     TaxpayerKind = "NATURAL_PERSON"
	PublicInstitution TaxpayerKind = "PUBLIC_INSTITUTION"
	PrivateEntity     TaxpayerKind = "PRIVATE_ENTITY"
	UnknownKind       TaxpayerKind = "UNKNOWN"
)

// RucTaxpayerKind returns the taxpayer classification encoded in the third
// digit of a RUC.
func RucTaxpayerKind(ruc string) TaxpayerKind {
	cleaned := CleanIdentification(ruc)
	if len(cleaned) != 13 {
		return UnknownKind
	}

	switch {
	case cleaned[2] >= '0' && cleaned[2] <= '5':
		return NaturalPerson
	case cleaned[2] == '6':
		return PublicInstitution
	case cleaned[2] == '9':
		return PrivateEntity
	}
	return UnknownKind
}

// FormatRuc formats a RUC as CC-D-NNNNNNN-EEE (province, type, sequence,
// establishment). Returns the input unchanged when the length is not 13.
func FormatRuc(ruc string) string {
	cleaned := CleanIdentification(ruc)
	if len(cleaned) != 13 {
		return ruc
	}

	return cleaned[0:2] + "-" + cleaned[2:3] + "-" + cleaned[3:10] + "-" + cleaned[10:13]
}

// RucInfo holds the analysis of a RUC string.
type RucInfo struct {
	Original  string         `json:"original"`
	Cleaned   string         `json:"cleaned"`
	Formatted string         `json:"formatted"`
	Kind      TaxpayerKind   `json:"kind"`
	Code      ValidationCode `json:"code"`
	Valid     bool           `json:"valid"`
}

// AnalyzeRuc analyzes a RUC string and returns detailed information.
func AnalyzeRuc(ruc string) RucInfo {
	result := CheckRuc(ruc)

	info := RucInfo{
		Original: ruc,
		Cleaned:  result.Identifier,
		Kind:     RucTaxpayerKind(result.Identifier),
		Code:     result.Code,
		Valid:    result.IsValid(),
	}
	if info.Valid {
		info.Formatted = FormatRuc(result.Identifier)
	}

	return info
}

var rucPattern = regexp.MustCompile(`\b\d{13}\b`)

// ExtractRucsFromText extracts structurally valid RUC numbers from free text,
// deduplicating repeats.
func ExtractRucsFromText(text string) []string {
	var rucs []string

	for _, candidate := range rucPattern.FindAllString(text, -1) {
		if !ValidateRucBasicFormat(candidate) {
			continue
		}
		seen := false
		for _, existing := range rucs {
			if existing == candidate {
				seen = true
				break
			}
		}
		if !seen {
			rucs = append(rucs, candidate)
		}
	}

	return rucs
}
