package scipws

import (
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"codeslice/internal/semantic"
)

// symbolEntry couples the public symbol with everything the workspace needs
// to answer queries about it.
type symbolEntry struct {
	sym  *semantic.Symbol
	info *scippb.SymbolInformation

	// containerDisplay is the display key of the innermost containing
	// type, empty for top-level types and namespace-level symbols
	containerDisplay string

	// defDoc / defOcc locate the first definition occurrence
	defDoc *docEntry
	defOcc *scippb.Occurrence

	// defDocs holds every document containing a definition occurrence,
	// one per partial declaration
	defDocs []*docEntry
	defOccs []*scippb.Occurrence
}

// isLocalSymbol reports whether the raw SCIP symbol is document-local
// (parameters, locals, range variables)
func isLocalSymbol(raw string) bool {
	return strings.HasPrefix(raw, "local ")
}

// parsedDescriptors extracts the descriptor chain of a global symbol,
// tolerating symbols the parser rejects.
func parsedDescriptors(raw string) []*scippb.Descriptor {
	parsed, err := scippb.ParseSymbol(raw)
	if err != nil || parsed == nil {
		return nil
	}
	return parsed.Descriptors
}

// simpleName trims the C# generic arity marker from a descriptor name
// ("List`1" reads as "List").
func simpleName(name string) string {
	if i := strings.IndexByte(name, '`'); i > 0 {
		return name[:i]
	}
	return name
}

// displayParts renders the namespace path and the dotted display string of
// a descriptor chain.
func displayParts(descs []*scippb.Descriptor) (namespace, display, name string) {
	var nsParts, allParts []string
	for _, d := range descs {
		switch d.Suffix {
		case scippb.Descriptor_Namespace:
			nsParts = append(nsParts, simpleName(d.Name))
			allParts = append(allParts, simpleName(d.Name))
		case scippb.Descriptor_Type:
			allParts = append(allParts, simpleName(d.Name))
		case scippb.Descriptor_Term:
			allParts = append(allParts, simpleName(d.Name))
		case scippb.Descriptor_Method:
			part := simpleName(d.Name) + "(" + d.Disambiguator + ")"
			allParts = append(allParts, part)
		case scippb.Descriptor_Meta, scippb.Descriptor_TypeParameter, scippb.Descriptor_Parameter:
			// never part of a display key
		default:
			allParts = append(allParts, simpleName(d.Name))
		}
	}
	namespace = strings.Join(nsParts, ".")
	display = strings.Join(allParts, ".")
	if n := len(allParts); n > 0 {
		name = allParts[n-1]
	}
	return namespace, display, name
}

// containerDisplayOf computes the display key of the innermost containing
// type from a descriptor chain, or "" when the symbol is not nested in one.
func containerDisplayOf(descs []*scippb.Descriptor) string {
	lastType := -1
	for i, d := range descs[:max(len(descs)-1, 0)] {
		if d.Suffix == scippb.Descriptor_Type {
			lastType = i
		}
	}
	if lastType < 0 {
		return ""
	}
	_, display, _ := displayParts(descs[:lastType+1])
	return display
}

// classifyKind maps a SCIP symbol onto the extractor's kind taxonomy, using
// the index's kind when present and falling back to descriptor shape.
func classifyKind(info *scippb.SymbolInformation, descs []*scippb.Descriptor) semantic.SymbolKind {
	if info != nil {
		switch info.Kind {
		case scippb.SymbolInformation_Class:
			return semantic.KindClass
		case scippb.SymbolInformation_Struct:
			return semantic.KindStruct
		case scippb.SymbolInformation_Interface:
			return semantic.KindInterface
		case scippb.SymbolInformation_Enum:
			return semantic.KindEnum
		case scippb.SymbolInformation_Delegate:
			return semantic.KindDelegate
		case scippb.SymbolInformation_EnumMember:
			return semantic.KindEnumMember
		case scippb.SymbolInformation_Method, scippb.SymbolInformation_StaticMethod:
			return methodKind(descs)
		case scippb.SymbolInformation_Constructor:
			return constructorKind(descs)
		case scippb.SymbolInformation_Property:
			return semantic.KindProperty
		case scippb.SymbolInformation_Field, scippb.SymbolInformation_StaticField:
			return semantic.KindField
		case scippb.SymbolInformation_Constant:
			return semantic.KindField
		case scippb.SymbolInformation_Event:
			return semantic.KindEvent
		case scippb.SymbolInformation_Parameter:
			return semantic.KindParameter
		case scippb.SymbolInformation_TypeParameter:
			return semantic.KindTypeParameter
		case scippb.SymbolInformation_Namespace, scippb.SymbolInformation_Package:
			return semantic.KindNamespace
		case scippb.SymbolInformation_Variable:
			return semantic.KindLocal
		}
	}

	if len(descs) == 0 {
		return semantic.KindUnknown
	}
	switch descs[len(descs)-1].Suffix {
	case scippb.Descriptor_Type:
		return semantic.KindClass
	case scippb.Descriptor_Method:
		return methodKind(descs)
	case scippb.Descriptor_Term:
		return semantic.KindField
	case scippb.Descriptor_TypeParameter:
		return semantic.KindTypeParameter
	case scippb.Descriptor_Parameter:
		return semantic.KindParameter
	case scippb.Descriptor_Namespace:
		return semantic.KindNamespace
	case scippb.Descriptor_Local:
		return semantic.KindLocal
	default:
		return semantic.KindUnknown
	}
}

// methodKind distinguishes constructors from plain methods by their
// metadata names: ".ctor" for instance and ".cctor" for static.
func methodKind(descs []*scippb.Descriptor) semantic.SymbolKind {
	if len(descs) == 0 {
		return semantic.KindMethod
	}
	switch simpleName(descs[len(descs)-1].Name) {
	case ".cctor", "cctor":
		return semantic.KindStaticConstructor
	case ".ctor", "ctor":
		return semantic.KindConstructor
	}
	return semantic.KindMethod
}

func constructorKind(descs []*scippb.Descriptor) semantic.SymbolKind {
	if k := methodKind(descs); k == semantic.KindStaticConstructor {
		return k
	}
	return semantic.KindConstructor
}

// accessorTarget maps a property or event accessor method name onto the name
// of the member it belongs to: accessors share their member's display key.
func accessorTarget(name string) (string, bool) {
	for _, prefix := range []string{"get_", "set_", "add_", "remove_"} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return name[len(prefix):], true
		}
	}
	return "", false
}
