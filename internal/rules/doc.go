// Package rules holds the naming-rule catalog: keyword-based provider
// matching, canonical filename generation, and the already-named predicate.
//
// A rule matches a document when every one of its keywords appears as a
// case-insensitive substring of the extracted content. Rules are evaluated
// in catalog order; first match wins. When nothing matches, the catalog
// defaults (provider and payment method) are used instead.
package rules
