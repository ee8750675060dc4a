// Package dates extracts calendar dates from bill text and filenames using
// a fixed priority order of patterns. Dates travel as yyyy-MM-dd strings;
// an empty string means "nothing found" and callers decide the fallback.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// monthNumbers maps lowercase Spanish month names to zero-padded numbers.
var monthNumbers = map[string]string{
	"enero":      "01",
	"febrero":    "02",
	"marzo":      "03",
	"abril":      "04",
	"mayo":       "05",
	"junio":      "06",
	"julio":      "07",
	"agosto":     "08",
	"septiembre": "09",
	"setiembre":  "09",
	"octubre":    "10",
	"noviembre":  "11",
	"diciembre":  "12",
}

// digitClass accepts digits plus the characters OCR engines most often
// confuse for them (O/o for 0, l/I for 1, S/s for 5, B for 8).
const digitClass = `[0-9OolISsB]`

// --- Compiled extraction patterns (priority order) ---

var (
	// 1. Spanish long form: "8 de agosto de 2025".
	reSpanishLong = regexp.MustCompile(
		`(?i)(\d{1,2})\s+de\s+([a-záéíóúñ]+)\s+de\s+(\d{4})`)

	// 2. Emission-date labels followed by a numeric date.
	reEmission = regexp.MustCompile(
		`(?i)(?:EMISI[ÓO]N|FECHA|emisi[óo]n)\s*:?\s*(` +
			digitClass + `{1,2}[/.-]` + digitClass + `{1,2}[/.-]` + digitClass + `{2,4})`)

	// 3. Due-date labels followed by a numeric date.
	reDue = regexp.MustCompile(
		`(?i)(?:vencimiento|vto\.?:?)\s*:?\s*(` +
			digitClass + `{1,2}[/.-]` + digitClass + `{1,2}[/.-]` + digitClass + `{2,4})`)

	// 4. Any bare numeric date, ISO or day-first, first occurrence wins.
	reBareNumeric = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2}|` + digitClass + `{1,2}[/.-]` + digitClass + `{1,2}[/.-]` + digitClass + `{2,4}`)

	// Narrow filename pass: only an ISO token counts.
	reISOToken = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ocrRepairer undoes the usual character confusions before a candidate is
// parsed as a number. Applied only to date-shaped substrings, never to the
// whole document.
var ocrRepairer = strings.NewReplacer(
	"O", "0", "o", "0",
	"l", "1", "I", "1",
	"S", "5", "s", "5",
	"B", "8",
)

// ExtractDateFromContent scans bill text for a date, trying each strategy in
// priority order: Spanish long form, emission labels, due labels, then any
// bare numeric date in document order. Returns yyyy-MM-dd, or "" when no
// pattern matches (a soft miss, not an error — callers substitute today).
func ExtractDateFromContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	if m := reSpanishLong.FindStringSubmatch(content); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[2])]; ok {
			day := fmt.Sprintf("%02d", atoi(m[1]))
			return m[3] + "-" + month + "-" + day
		}
	}

	if m := reEmission.FindStringSubmatch(content); m != nil {
		if d := StandardizeDate(ocrRepairer.Replace(m[1])); d != "" {
			return d
		}
	}

	if m := reDue.FindStringSubmatch(content); m != nil {
		if d := StandardizeDate(ocrRepairer.Replace(m[1])); d != "" {
			return d
		}
	}

	for _, raw := range reBareNumeric.FindAllString(content, -1) {
		if d := StandardizeDate(ocrRepairer.Replace(raw)); d != "" {
			return d
		}
	}
	return ""
}

// ExtractDateFromFilename pulls a yyyy-MM-dd token out of an already-named
// file. Returns "" when the name carries no ISO date; never fails on empty
// input.
func ExtractDateFromFilename(name string) string {
	if name == "" {
		return ""
	}
	return reISOToken.FindString(name)
}

// StandardizeDate normalizes a numeric date triplet to yyyy-MM-dd. A leading
// 4-digit group is taken as an already-ISO date; anything else is read as
// day/month/year (Argentine convention). Day and month are zero-padded and
// 2-digit years expanded (<50 becomes 20YY, otherwise 19YY). Returns "" for
// input that is not a date triplet. Idempotent on already-ISO input.
func StandardizeDate(raw string) string {
	parts := splitDate(strings.TrimSpace(raw))
	if len(parts) != 3 {
		return ""
	}

	if len(parts[0]) == 4 {
		year, month, day := parts[0], parts[1], parts[2]
		if !allDigits(year) || !allDigits(month) || !allDigits(day) {
			return ""
		}
		return year + "-" + pad2(month) + "-" + pad2(day)
	}

	day, month, year := parts[0], parts[1], parts[2]
	if !allDigits(day) || !allDigits(month) || !allDigits(year) {
		return ""
	}
	switch len(year) {
	case 2:
		if atoi(year) < 50 {
			year = "20" + year
		} else {
			year = "19" + year
		}
	case 4:
		// already full
	default:
		return ""
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

// splitDate breaks a date string on the accepted separators (/, -, .).
func splitDate(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
