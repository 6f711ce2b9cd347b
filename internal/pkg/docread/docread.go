package docread

import (
	"log"
	"os"
	"strings"
)

// Supported reports whether the extension (without dot, any case) is one the
// reader can handle.
func Supported(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt", "pdf", "docx":
		return true
	}
	return false
}

// Read extracts plain text from the file at path, dispatching on the declared
// extension. Every failure path, including unsupported extensions, degrades
// to an empty string: the caller treats no content as an ingestion failure,
// not a crash.
func Read(path, ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt":
		return readText(path)
	case "pdf":
		return readPDF(path)
	case "docx":
		return readDOCX(path)
	default:
		log.Printf("docread: unsupported file type %q for %s", ext, path)
		return ""
	}
}

// readText reads the file verbatim, dropping invalid UTF-8 bytes instead of
// failing on them.
func readText(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("docread: read %s failed: %v", path, err)
		return ""
	}
	return strings.ToValidUTF8(string(b), "")
}
