package apimodel

// Kind is the api-extractor item kind.
type Kind string

const (
	KindPackage            Kind = "Package"
	KindEntryPoint         Kind = "EntryPoint"
	KindClass              Kind = "Class"
	KindEnum               Kind = "Enum"
	KindEnumMember         Kind = "EnumMember"
	KindInterface          Kind = "Interface"
	KindTypeAlias          Kind = "TypeAlias"
	KindVariable           Kind = "Variable"
	KindFunction           Kind = "Function"
	KindNamespace          Kind = "Namespace"
	KindConstructor        Kind = "Constructor"
	KindConstructSignature Kind = "ConstructSignature"
	KindCallSignature      Kind = "CallSignature"
	KindIndexSignature     Kind = "IndexSignature"
	KindMethod             Kind = "Method"
	KindMethodSignature    Kind = "MethodSignature"
	KindProperty           Kind = "Property"
	KindPropertySignature  Kind = "PropertySignature"
)

// HasParameters reports whether items of this kind carry a parameter list.
func (k Kind) HasParameters() bool {
	switch k {
	case KindFunction, KindConstructor, KindConstructSignature, KindCallSignature,
		KindMethod, KindMethodSignature, KindIndexSignature:
		return true
	}
	return false
}

// IsTopLevel reports whether items of this kind get their own page.
func (k Kind) IsTopLevel() bool {
	switch k {
	case KindClass, KindEnum, KindInterface, KindTypeAlias, KindVariable, KindFunction, KindNamespace:
		return true
	}
	return false
}
