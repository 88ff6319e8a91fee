package naming

import "strings"

// illegalCharacters are characters not allowed in filenames on most
// filesystems.
var illegalCharacters = []rune{'<', '>', ':', '"', '/', '\\', '|', '?', '*'}

func isIllegalChar(r rune) bool {
	for _, illegal := range illegalCharacters {
		if r == illegal {
			return true
		}
	}
	return false
}

// stripIllegal removes filesystem-illegal characters, preserving all other
// characters including Unicode and accents.
func stripIllegal(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		if isIllegalChar(r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// cleanupSpaces collapses runs of spaces and trims the string.
func cleanupSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// avoidReservedNames handles Windows reserved device names.
func avoidReservedNames(s string) string {
	reserved := []string{
		"CON", "PRN", "AUX", "NUL",
		"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
		"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
	}

	upper := strings.ToUpper(s)
	for _, r := range reserved {
		if upper == r {
			return s + "_"
		}
	}

	return s
}

// Sanitize applies all filename safety rules to a name stem: illegal
// character removal, space cleanup and Windows reserved-name avoidance.
func Sanitize(s string) string {
	if s == "" {
		return s
	}

	s = cleanupSpaces(stripIllegal(s))

	// Trailing dots are problematic on Windows.
	s = strings.Trim(s, " .")

	return avoidReservedNames(s)
}
