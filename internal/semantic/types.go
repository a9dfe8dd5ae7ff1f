// Package semantic defines the surface the extractor core consumes: symbols,
// documents, declaration syntax, and the Workspace contract that yields them.
// Implementations live below this package (see scipws); everything above it
// is agnostic of the host index and parser.
package semantic

// SymbolKind classifies a declared entity
type SymbolKind string

const (
	KindClass             SymbolKind = "class"
	KindStruct            SymbolKind = "struct"
	KindInterface         SymbolKind = "interface"
	KindRecord            SymbolKind = "record"
	KindEnum              SymbolKind = "enum"
	KindDelegate          SymbolKind = "delegate"
	KindMethod            SymbolKind = "method"
	KindConstructor       SymbolKind = "constructor"
	KindStaticConstructor SymbolKind = "static-constructor"
	KindProperty          SymbolKind = "property"
	KindField             SymbolKind = "field"
	KindEvent             SymbolKind = "event"
	KindEnumMember        SymbolKind = "enum-member"
	KindNamespace         SymbolKind = "namespace"
	KindParameter         SymbolKind = "parameter"
	KindLocal             SymbolKind = "local"
	KindRangeVariable     SymbolKind = "range-variable"
	KindLabel             SymbolKind = "label"
	KindTypeParameter     SymbolKind = "type-parameter"
	KindError             SymbolKind = "error"
	KindUnknown           SymbolKind = "unknown"
)

// IsType reports whether the kind declares a named type
func (k SymbolKind) IsType() bool {
	switch k {
	case KindClass, KindStruct, KindInterface, KindRecord, KindEnum, KindDelegate:
		return true
	}
	return false
}

// Crawlable reports whether symbols of this kind participate in seeding and
// registration. Parameters, locals, range variables, labels, type parameters,
// namespaces and error types never do.
func (k SymbolKind) Crawlable() bool {
	switch k {
	case KindParameter, KindLocal, KindRangeVariable, KindLabel,
		KindTypeParameter, KindNamespace, KindError, KindUnknown:
		return false
	}
	return true
}

// Symbol is a logical declared entity: a type or a member. Symbols handed out
// by a Workspace are canonical for identity purposes once passed through
// OriginalDefinition; Display is the stable key derived from the original
// definition's display string.
type Symbol struct {
	// ID is the workspace-level identifier (index symbol string)
	ID string

	// Display is the stable display key
	Display string

	// Name is the simple name
	Name string

	// Kind classifies the symbol
	Kind SymbolKind

	// Namespace is the dotted concatenation of containing namespaces
	Namespace string

	// ContainerID is the ID of the containing type, empty for top-level
	// types and namespace-level symbols
	ContainerID string

	// InSource is false for metadata-only symbols with no declaration in
	// the analyzed source tree
	InSource bool

	// IsConst marks constant fields
	IsConst bool

	// IsStaticReadonly marks static readonly fields
	IsStaticReadonly bool
}

// IsType reports whether the symbol is itself a named type
func (s *Symbol) IsType() bool {
	return s.Kind.IsType()
}

// MandatoryMember reports whether the symbol must survive whenever its owner
// type is retained: static constructors and const/static-readonly fields are
// implicit dependencies of constructing or initializing the type.
func (s *Symbol) MandatoryMember() bool {
	return s.Kind == KindStaticConstructor || s.IsConst || s.IsStaticReadonly
}

// Location is a position in source
type Location struct {
	File     string
	Line     int // 1-indexed
	Column   int // 1-indexed
	LineText string
}

// UseSite is a syntactic occurrence that resolves to a symbol and is not
// itself a declaration of it
type UseSite struct {
	Symbol   *Symbol
	Location Location
}

// Document is a source file known to the workspace
type Document struct {
	// Path is the absolute path of the file
	Path string

	// RelativePath is the path relative to the workspace source root
	RelativePath string
}

// DeclForm distinguishes the syntactic shapes the emitter handles
type DeclForm string

const (
	// FormCompound is a class, struct, interface, or record declaration
	// with a member list
	FormCompound DeclForm = "compound"
	// FormEnum is an enum declaration, emitted unchanged
	FormEnum DeclForm = "enum"
	// FormDelegate is a delegate declaration, emitted unchanged
	FormDelegate DeclForm = "delegate"
	// FormOther is any other declaration form, emitted as-is
	FormOther DeclForm = "other"
)

// MemberDecl is one syntactic member of a compound declaration. Lead holds
// the source text between the previous member (or the opening brace) and the
// member's first token, so concatenating every member's Lead+Text between
// Header and Footer reproduces the original declaration byte-for-byte.
type MemberDecl struct {
	// Lead is the trivia preceding the member: whitespace, blank lines,
	// and any comments between it and the previous member
	Lead string

	// Text is the member's source text from first token through its end
	Text string

	// Indent is the line indentation of the member's first line
	Indent string

	// Keys are the display keys of every symbol this member declares: a
	// field declaration may bind several variables, a property contributes
	// its property symbol (accessors share its key), a method its own.
	Keys []string
}

// Declaration is one (partial) declaration of a symbol as found in source
type Declaration struct {
	// File is the absolute path of the declaring file
	File string

	// Form is the syntactic shape
	Form DeclForm

	// Indent is the line indentation of the declaration's first line
	Indent string

	// Text is the full original text of the declaration, starting at the
	// first line's indentation
	Text string

	// Header is the text from the start of Text through the opening brace
	// of the member list (compound forms only)
	Header string

	// Footer is the text from the end of the last member through the end
	// of the declaration (compound forms only)
	Footer string

	// Members are the syntactic members in original order (compound only)
	Members []MemberDecl
}
