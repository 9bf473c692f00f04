package constants

import (
	"path/filepath"
	"strings"
)

// CurrentDetailsMarker inside a filename declares the CURRENT layout.
const CurrentDetailsMarker = "Current_details"

// AllowedExtensions holds the file extensions the batch ingester picks up.
// txt carries pre-extracted text and skips the pdftotext step.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// DocumentTypeForFilename derives the declared layout from the file name.
func DocumentTypeForFilename(name string) DocumentType {
	if strings.Contains(filepath.Base(name), CurrentDetailsMarker) {
		return DocumentTypeCurrent
	}
	return DocumentTypeHistorical
}
