package helpers

import "strings"

// OptionalString returns nil for blank input and a pointer to the trimmed
// value otherwise, so empty form fields are stored as NULL.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeStudentCode trims and upper-cases a student code.
func NormalizeStudentCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CapitalizeFirst upper-cases the first letter of s ("physics" => "Physics").
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
