package trade

import (
	"regexp"
	"strconv"
	"strings"
)

// Settings keys used by transaction numbering
const (
	SettingLastNumber = "transaction_last_number"
	SettingPrefix     = "transaction_prefix"
)

// maxAutoDigits bounds the numeric body of an auto number
const maxAutoDigits = 9

var (
	nonDigits           = regexp.MustCompile(`\D`)
	numericTxLeadPrefix = regexp.MustCompile(`^[A-Z]{1,2}[-_]?`)
)

// IsAutoNumber reports whether no is an allocator-issued number.
// Manual numbers contain '/', '-' or a space.
func IsAutoNumber(no string) bool {
	return no != "" && !strings.ContainsAny(no, "/- ")
}

// AutoNumericValue returns the numeric value of an auto number after stripping
// prefix. Manual numbers and bodies longer than nine digits are rejected.
func AutoNumericValue(no, prefix string) (int64, bool) {
	if !IsAutoNumber(no) {
		return 0, false
	}
	body := no
	if prefix != "" {
		body = strings.TrimPrefix(no, prefix)
	}
	digits := nonDigits.ReplaceAllString(body, "")
	if digits == "" || len(digits) > maxAutoDigits {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractNumericPart concatenates every digit of no, e.g. "T-2024-001" is 2024001.
func ExtractNumericPart(no string) (int64, bool) {
	digits := nonDigits.ReplaceAllString(no, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsNumericTransaction reports whether no is at least four digits behind an
// optional one or two letter prefix.
func IsNumericTransaction(no string) bool {
	cleaned := numericTxLeadPrefix.ReplaceAllString(strings.ToUpper(no), "")
	if len(cleaned) < 4 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatNumber renders n with an optional prefix
func FormatNumber(n int64, prefix string) string {
	return prefix + strconv.FormatInt(n, 10)
}
