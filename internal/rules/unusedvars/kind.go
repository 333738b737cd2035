package unusedvars

// BindingKind is the category of an unused binding.
type BindingKind uint8

const (
	BindingVariable BindingKind = iota
	BindingParameter
	BindingFunction
	BindingClass
	BindingInterface
	BindingType
	BindingEnum
	BindingMethod
	BindingProperty
	BindingImport
	BindingDestructuredVariable
)

// String returns the display name used in messages.
func (k BindingKind) String() string {
	switch k {
	case BindingVariable:
		return "Variable"
	case BindingParameter:
		return "Parameter"
	case BindingFunction:
		return "Function"
	case BindingClass:
		return "Class"
	case BindingInterface:
		return "Interface"
	case BindingType:
		return "Type"
	case BindingEnum:
		return "Enum"
	case BindingMethod:
		return "Method"
	case BindingProperty:
		return "Property"
	case BindingImport:
		return "Import"
	case BindingDestructuredVariable:
		return "Destructured Variable"
	}
	return "Unknown"
}

// usesArgumentsPattern reports whether names of this kind are matched
// against the arguments ignore pattern instead of the variables one.
func (k BindingKind) usesArgumentsPattern() bool {
	return k == BindingParameter
}

// BindingKinds lists every kind in declaration order.
func BindingKinds() []BindingKind {
	out := make([]BindingKind, 0, int(BindingDestructuredVariable)+1)
	for k := BindingVariable; k <= BindingDestructuredVariable; k++ {
		out = append(out, k)
	}
	return out
}
