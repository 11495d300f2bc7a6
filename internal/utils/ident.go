package utils

import "unicode/utf8"

// IsWordByte reports whether c can appear in a C identifier.
func IsWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// IsIdentifier reports whether s is a C identifier: [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c >= '0' && c <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsWordByte(s[i]) {
			return false
		}
	}
	return true
}

// IsValidBuffer rejects buffers that are not UTF-8 or exceed maxBytes.
// maxBytes <= 0 disables the size check.
func IsValidBuffer(s string, maxBytes int) bool {
	if maxBytes > 0 && len(s) > maxBytes {
		return false
	}
	return utf8.ValidString(s)
}
