package extract

import (
	"regexp"
	"strings"

	"casedesk/internal/domain"
)

var (
	// "АБ 123456": a letter series glued to the number.
	seriesNumberPattern = regexp.MustCompile(`([A-Za-zА-ЯЁ]{2,})\s+(\d{4,})`)
	fourDigitsPattern   = regexp.MustCompile(`\d{4,}`)
	nonDigitPattern     = regexp.MustCompile(`[^0-9]`)
	standaloneToken     = regexp.MustCompile(`\b\d{6,7}\b`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// numberRule recovers a diploma number from a single text value.
type numberRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(match []string) string
}

// numberRules are tried in order against each string value; the first match
// anywhere ends the scan.
var numberRules = []numberRule{
	{
		name:    "six_space_six_or_seven",
		pattern: regexp.MustCompile(`\b(\d{6})\s+(\d{6,7})\b`),
		extract: func(m []string) string { return m[1] + " " + m[2] },
	},
	{
		name:    "long_digit_run",
		pattern: regexp.MustCompile(`\b\d{12,}\b`),
		extract: func(m []string) string { return splitDigitRun(m[0]) },
	},
}

// splitDigitRun formats a run of 12+ digits as "NNNNNN rest".
func splitDigitRun(digits string) string {
	return digits[:6] + " " + digits[6:]
}

func normalizeDiploma(d *domain.ExtractedData) {
	series := d.Text(domain.FieldDiplomaSeries)
	number := d.Text(domain.FieldDiplomaNumber)

	if series == "" {
		if m := seriesNumberPattern.FindStringSubmatch(number); m != nil {
			d.SetString(domain.FieldDiplomaSeries, m[1])
			d.SetString(domain.FieldDiplomaNumber, m[2])
		}
	}

	final := d.Text(domain.FieldDiplomaNumber)
	if final == "" {
		final = numberFromGeneric(d.Text(domain.FieldNumber))
	}
	if final == "" {
		final = ScanDiplomaNumber(d)
	}
	if final != "" {
		d.SetString(domain.FieldDiplomaNumber, collapseSpaces(final))
	}

	format := domain.DiplomaFormatNew
	if d.Text(domain.FieldDiplomaSeries) != "" {
		format = domain.DiplomaFormatOld
	}
	d.SetString(domain.FieldDiplomaFormat, string(format))
}

// numberFromGeneric derives a diploma number from the generic "number" field
// when it holds a 4+ digit run.
func numberFromGeneric(generic string) string {
	if !fourDigitsPattern.MatchString(generic) {
		return ""
	}
	digits := nonDigitPattern.ReplaceAllString(generic, "")
	if len(digits) >= 12 {
		return splitDigitRun(digits)
	}
	return digits
}

// ScanDiplomaNumber looks through every string value of d, in key order, for
// something shaped like a new-format diploma number. Returns "" if none.
func ScanDiplomaNumber(d *domain.ExtractedData) string {
	var found string
	var tokens []string
	d.Range(func(_ string, v domain.Value) bool {
		s, ok := v.Str()
		if !ok {
			return true
		}
		s = strings.TrimSpace(s)
		for _, rule := range numberRules {
			if m := rule.pattern.FindStringSubmatch(s); m != nil {
				found = rule.extract(m)
				return false
			}
		}
		tokens = append(tokens, standaloneToken.FindAllString(s, -1)...)
		return true
	})
	if found != "" {
		return found
	}
	return pairTokens(tokens)
}

// pairTokens joins the first 6-digit token with the first different 6-7 digit
// token.
func pairTokens(tokens []string) string {
	if len(tokens) < 2 {
		return ""
	}
	first := ""
	for _, t := range tokens {
		if len(t) == 6 {
			first = t
			break
		}
	}
	if first == "" {
		return ""
	}
	for _, t := range tokens {
		if t != first && (len(t) == 6 || len(t) == 7) {
			return first + " " + t
		}
	}
	return ""
}

func collapseSpaces(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
