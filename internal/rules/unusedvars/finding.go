package unusedvars

import (
	"strings"

	"tsunused/internal/diag"
	"tsunused/internal/source"
)

// MessageVariant selects the message template of a Finding.
type MessageVariant uint8

const (
	VariantUnused MessageVariant = iota
	VariantUnusedWithIgnorePattern
	VariantUnusedImport
)

// ID returns the message id.
func (v MessageVariant) ID() string {
	switch v {
	case VariantUnused:
		return "unused"
	case VariantUnusedWithIgnorePattern:
		return "unusedWithIgnorePattern"
	case VariantUnusedImport:
		return "unusedImport"
	}
	return "unknown"
}

// Template returns the message template with {{type}}, {{name}} and
// {{pattern}} placeholders.
func (v MessageVariant) Template() string {
	switch v {
	case VariantUnused:
		return "{{type}} '{{name}}' is declared but its value is never read."
	case VariantUnusedWithIgnorePattern:
		return "{{type}} '{{name}}' is declared but its value is never read. Allowed unused names must match {{pattern}}"
	case VariantUnusedImport:
		return "All imports in import declaration are unused."
	}
	return ""
}

// Code returns the diagnostic code the variant is reported with.
func (v MessageVariant) Code() diag.Code {
	switch v {
	case VariantUnused:
		return diag.UnusedBinding
	case VariantUnusedWithIgnorePattern:
		return diag.UnusedBindingPattern
	case VariantUnusedImport:
		return diag.UnusedImportDecl
	}
	return diag.UnknownCode
}

// Variants lists every message variant in id order.
func Variants() []MessageVariant {
	return []MessageVariant{VariantUnused, VariantUnusedWithIgnorePattern, VariantUnusedImport}
}

// Finding is one binding the rule reports.
type Finding struct {
	Kind    BindingKind
	Name    string
	Span    source.Span
	Variant MessageVariant
	// Pattern is the /source/ form of the ignore pattern for
	// VariantUnusedWithIgnorePattern, empty otherwise.
	Pattern string
	// CheckerCode is the TypeScript diagnostic code the finding came from.
	CheckerCode int
}

// Message renders the variant template with the finding's data.
func (f Finding) Message() string {
	return strings.NewReplacer(
		"{{type}}", f.Kind.String(),
		"{{name}}", f.Name,
		"{{pattern}}", f.Pattern,
	).Replace(f.Variant.Template())
}
