package normalize

import "strings"

// Email trims surrounding whitespace and lower-cases the address so it can
// be stored and compared.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// OptionalText trims s and maps blank input to nil.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
