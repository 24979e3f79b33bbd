package ir

// Marker annotations that override default translation policy.
const (
	// AnnDartName renames the declaration in the output (Str holds the name).
	AnnDartName = "DartName"
	// AnnDartPositional makes defaulted parameters optional-positional instead of named.
	AnnDartPositional = "DartPositional"
	// AnnDartConstructor maps a function to a constructor of its return type.
	AnnDartConstructor = "DartConstructor"
	// AnnDartIndex renumbers a parameter within its parameter block (Int holds the index).
	AnnDartIndex = "DartIndex"
)

// Annotation is a marker annotation with at most one argument.
type Annotation struct {
	Name string
	Str  string
	Int  int
}

// FindAnnotation returns the first annotation called name.
func FindAnnotation(list []Annotation, name string) (Annotation, bool) {
	for _, a := range list {
		if a.Name == name {
			return a, true
		}
	}
	return Annotation{}, false
}

// HasAnnotation reports whether list contains an annotation called name.
func HasAnnotation(list []Annotation, name string) bool {
	_, ok := FindAnnotation(list, name)
	return ok
}
