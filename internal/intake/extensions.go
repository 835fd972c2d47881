package intake

import "strings"

// allowedExtensions lists the file types accepted for extraction.
var allowedExtensions = map[string]Kind{
	"txt": KindTXT,
	"pdf": KindPDF,
}

// AllowedFile reports whether name has an accepted extension. The extension
// is whatever follows the last dot and is compared case-insensitively.
func AllowedFile(name string) bool {
	return KindOf(name) != KindUnsupported
}

// KindOf returns the source kind for a file name.
func KindOf(name string) Kind {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return KindUnsupported
	}
	if kind, ok := allowedExtensions[strings.ToLower(name[idx+1:])]; ok {
		return kind
	}
	return KindUnsupported
}

// AllowedExtensions returns the accepted extensions in a stable order.
func AllowedExtensions() []string {
	return []string{"txt", "pdf"}
}
