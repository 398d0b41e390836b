package parser

// File is the result of scanning one source file for dependency literals.
type File struct {
	Path         string
	Language     string
	Dependencies []Dependency
}

// Dependency is one string literal naming a module.
type Dependency struct {
	// Value is the literal's raw text between its quotes.
	Value string
	// Start and End are byte offsets of Value within the source. Replacing
	// source[Start:End] keeps the original quotes in place.
	Start uint
	End   uint
	// Form names the construct the literal appeared in, e.g. "import",
	// "require" or "jest.mock".
	Form     string
	Location Location
}

type Location struct {
	File   string
	Line   int
	Column int
}

const (
	FormImport        = "import"
	FormExport        = "export"
	FormDynamicImport = "import()"
	FormImportRequire = "import=require"
)
