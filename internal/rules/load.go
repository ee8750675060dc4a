package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleFile mirrors the YAML catalog layout. Rule order in the file is
// priority order.
type ruleFile struct {
	DefaultProvider string     `yaml:"default_provider"`
	DefaultPayment  string     `yaml:"default_payment"`
	Rules           []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Name       string   `yaml:"name"`
	Keywords   []string `yaml:"keywords"`
	Provider   string   `yaml:"provider"`
	Payment    string   `yaml:"payment"`
	ForcedDate string   `yaml:"forced_date"`
}

// Load reads a YAML rule catalog from path. Keywords are lowercased once
// here so matching never re-converts per document. Rules without keywords or
// without a provider are rejected: they could never match or never name.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Set from raw YAML catalog bytes.
func Parse(data []byte) (*Set, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	set := &Set{
		DefaultProvider: strings.TrimSpace(rf.DefaultProvider),
		DefaultPayment:  strings.TrimSpace(rf.DefaultPayment),
		MinContentWords: DefaultMinContentWords,
		MinContentChars: DefaultMinContentChars,
	}
	if set.DefaultProvider == "" {
		set.DefaultProvider = DefaultProvider
	}
	if set.DefaultPayment == "" {
		set.DefaultPayment = DefaultPayment
	}

	for i, rs := range rf.Rules {
		name := strings.TrimSpace(rs.Name)
		if name == "" {
			name = fmt.Sprintf("rule-%d", i+1)
		}
		if len(rs.Keywords) == 0 {
			return nil, fmt.Errorf("rule %q has no keywords", name)
		}
		if strings.TrimSpace(rs.Provider) == "" {
			return nil, fmt.Errorf("rule %q has no provider", name)
		}
		keywords := make([]string, 0, len(rs.Keywords))
		for _, kw := range rs.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("rule %q has only blank keywords", name)
		}
		set.Rules = append(set.Rules, Rule{
			Name:       name,
			Keywords:   keywords,
			Provider:   strings.TrimSpace(rs.Provider),
			Payment:    strings.TrimSpace(rs.Payment),
			ForcedDate: strings.TrimSpace(rs.ForcedDate),
		})
	}
	return set, nil
}

// Fallback tokens used when the catalog does not define its own defaults.
const (
	DefaultProvider = "desconocido"
	DefaultPayment  = "santander"
)

// Default minimal-content thresholds. The exact cutoff is a product
// decision; both are configurable (--min-content-words and friends).
const (
	DefaultMinContentWords = 12
	DefaultMinContentChars = 80
)

// BuiltinSet returns the compiled-in catalog used when no rules file is
// configured. Covers the common Argentine utility providers.
func BuiltinSet() *Set {
	return &Set{
		DefaultProvider: DefaultProvider,
		DefaultPayment:  DefaultPayment,
		MinContentWords: DefaultMinContentWords,
		MinContentChars: DefaultMinContentChars,
		Rules: []Rule{
			{Name: "aysa", Keywords: []string{"aysa"}, Provider: "aysa"},
			{Name: "edesur", Keywords: []string{"edesur"}, Provider: "edesur"},
			{Name: "edenor", Keywords: []string{"edenor"}, Provider: "edenor"},
			{Name: "metrogas", Keywords: []string{"metrogas"}, Provider: "metrogas"},
			{Name: "naturgy", Keywords: []string{"naturgy"}, Provider: "naturgy"},
			{Name: "telecentro", Keywords: []string{"telecentro"}, Provider: "telecentro"},
			{Name: "personal", Keywords: []string{"telecom", "personal"}, Provider: "personal"},
			{Name: "movistar", Keywords: []string{"movistar"}, Provider: "movistar"},
			{Name: "expensas", Keywords: []string{"expensas"}, Provider: "expensas", Payment: "transferencia"},
			{Name: "gloria", Keywords: []string{"gloria"}, Provider: "gloria", Payment: "mercadopago"},
			{Name: "abl", Keywords: []string{"agip", "inmobiliario"}, Provider: "abl"},
			{Name: "monotributo", Keywords: []string{"afip", "monotributo"}, Provider: "monotributo", Payment: "debito"},
		},
	}
}
