package rules

import (
	"regexp"
	"strings"
)

// Rule classifies a document by keywords and supplies the naming tokens.
// Keywords are stored pre-lowered; all of them must appear in the content
// for the rule to match. ForcedDate, when set, replaces the extracted date
// for documents whose content is too sparse to carry a real one (informal
// receipts, payment confirmations).
type Rule struct {
	Name       string
	Keywords   []string
	Provider   string
	Payment    string
	ForcedDate string
}

// Set is an ordered rule catalog plus the fallback tokens used when no rule
// matches. It is built once at startup and is read-only afterwards, so it is
// safe to share across workers without locking.
type Set struct {
	Rules           []Rule
	DefaultProvider string
	DefaultPayment  string

	// Minimal-content thresholds for the forced-date override. Content at or
	// below both is considered too sparse to have yielded a real date.
	MinContentWords int
	MinContentChars int
}

// Matches reports whether every keyword of the rule appears in content.
// content must already be lowercased by the caller.
func (r *Rule) Matches(content string) bool {
	if len(r.Keywords) == 0 {
		return false
	}
	for _, kw := range r.Keywords {
		if !strings.Contains(content, kw) {
			return false
		}
	}
	return true
}

// FindMatchingRule returns the first rule (in catalog order) whose keywords
// all appear in content, or nil when content is blank or nothing matches.
func (s *Set) FindMatchingRule(content string) *Rule {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	lower := strings.ToLower(content)
	for i := range s.Rules {
		if s.Rules[i].Matches(lower) {
			return &s.Rules[i]
		}
	}
	return nil
}

// GenerateFilename builds the canonical base name (no extension) for a
// document: {provider}_{date}_{payment}, sanitized. provider and payment come
// from the matching rule or the catalog defaults. A rule's forced date is
// applied only when the content is minimal; otherwise the passed-in date is
// kept as-is.
func (s *Set) GenerateFilename(content, date string) string {
	provider := s.DefaultProvider
	payment := s.DefaultPayment

	if rule := s.FindMatchingRule(content); rule != nil {
		if rule.Provider != "" {
			provider = rule.Provider
		}
		if strings.TrimSpace(rule.Payment) != "" {
			payment = rule.Payment
		}
		if rule.ForcedDate != "" && s.isMinimalContent(content) {
			date = rule.ForcedDate
		}
	}

	return SanitizeFilename(provider + "_" + date + "_" + payment)
}

// isMinimalContent reports whether content is sparse enough that a rule's
// forced date should take precedence over the extracted one.
func (s *Set) isMinimalContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	return len(strings.Fields(trimmed)) <= s.MinContentWords &&
		len(trimmed) <= s.MinContentChars
}

var (
	reInvalidChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	reRepeatedSep  = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename replaces path-hostile characters with underscores,
// collapses runs of underscores, and trims leading/trailing ones. An input
// that sanitizes down to nothing yields "unknown_file" so callers always get
// a usable name.
func SanitizeFilename(name string) string {
	clean := reInvalidChars.ReplaceAllString(name, "_")
	clean = reRepeatedSep.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")
	if clean == "" {
		return "unknown_file"
	}
	return clean
}

// reAlreadyNamed recognizes the canonical convention: provider token, ISO
// date, payment token, joined by underscores. Day-first dates do not match.
var reAlreadyNamed = regexp.MustCompile(`^[A-Za-z0-9_]+_\d{4}-\d{2}-\d{2}_[A-Za-z0-9_]+$`)

// IsAlreadyNamedFilename reports whether name (without extension) already
// follows the {provider}_{yyyy-MM-dd}_{payment} convention. Files that pass
// this predicate skip content re-extraction on later runs.
func IsAlreadyNamedFilename(name string) bool {
	return reAlreadyNamed.MatchString(name)
}
