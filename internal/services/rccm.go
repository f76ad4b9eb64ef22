package services

import "regexp"

// RCCM codes follow RB/CITY/YEAR/LETTER/NUMBER, e.g. RB/COT/2024/A/001.
var rccmPattern = regexp.MustCompile(`^RB/[A-Z]{3}/\d{4}/[A-Z]/\d{3,4}$`)

// ValidateRCCM reports whether the business registration code matches the
// expected format. It is a pure format check independent of the store.
func ValidateRCCM(code string) bool {
	return rccmPattern.MatchString(code)
}
