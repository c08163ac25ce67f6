package utils

import "strings"

// extensionCutset is the whitespace stripped from denylist tokens.
const extensionCutset = " \t\r\n"

// ExtensionOf returns the text following the last '.' in filename.
// It returns "" when there is no '.' or when the name ends with '.'.
// The filename is opaque: path separators are not interpreted.
func ExtensionOf(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return ""
	}
	return filename[idx+1:]
}

// CanonicalExtension returns an extension token in canonical form:
// - Trimmed of surrounding space, tab, CR and LF
// - ASCII letters lowercased, every other byte kept verbatim
func CanonicalExtension(s string) string {
	return asciiLower(strings.Trim(s, extensionCutset))
}

// LowerExtension folds ASCII letters to lowercase and keeps every other byte,
// whitespace included. Extensions taken from filenames go through this rather
// than CanonicalExtension: "file.exe " has the extension "exe ", not "exe".
func LowerExtension(s string) string {
	return asciiLower(s)
}

func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
