package utils

import (
	"os"
	"regexp"
	"strings"
)

const rowSeparator = " - "

var validCellRegex = regexp.MustCompile(
	`^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$|` +
		`^\d{2}\.\d{2}\.\d{4}, \d{2}:\d{2}$`,
)

// IsValid reports whether text is a dotted-quad IPv4 address or a
// "DD.MM.YYYY, HH:MM" timestamp. Only digit counts are checked for the
// timestamp, so "99.99.9999, 99:99" matches.
func IsValid(text string) bool {
	return validCellRegex.MatchString(text)
}

func FilterValid(cells []string) []string {
	valid := make([]string, 0, len(cells))
	for _, cell := range cells {
		if IsValid(cell) {
			valid = append(valid, cell)
		}
	}
	return valid
}

// FormatRow joins the valid cells of a row. A row without valid cells
// becomes an empty string, not a skipped line.
func FormatRow(cells []string) string {
	return strings.Join(FilterValid(cells), rowSeparator)
}

func CheckIfFileExists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}

	if os.IsNotExist(err) {
		return false
	}

	return false
}
