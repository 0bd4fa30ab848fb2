package entity

import (
	"path/filepath"
	"strings"
)

// allowedReceiptExtensions is the accepted set of receipt file types. The
// match is on the file name extension, case-insensitive.
var allowedReceiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedReceiptFile reports whether the file name carries an accepted
// receipt extension (jpg, jpeg or png, case-insensitive).
func AllowedReceiptFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return allowedReceiptExtensions[ext]
}
