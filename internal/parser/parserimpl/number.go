package parserimpl

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	shortNumberRe = regexp.MustCompile(`^([\d.]+)([KkMm]?)$`)
	digitRunRe    = regexp.MustCompile(`\d[\d,]*`)
)

// ParseShortNumber interprets localized engagement strings: "3,204" -> 3204,
// "1.2K" -> 1200, "2M" -> 2000000. Suffixes are case-insensitive, commas and
// non-breaking spaces are ignored. ok is false when no number can be read.
func ParseShortNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	if m := shortNumberRe.FindStringSubmatch(s); m != nil {
		num, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			switch strings.ToUpper(m[2]) {
			case "K":
				num *= 1_000
			case "M":
				num *= 1_000_000
			}
			return int(math.Round(num)), true
		}
	}

	// Fall back to the first run of digits anywhere in the string.
	if m := digitRunRe.FindString(s); m != "" {
		n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
		if err == nil {
			return n, true
		}
	}

	return 0, false
}
