package blocklist

import "golang.org/x/text/unicode/norm"

// PreviewLength is the maximum number of characters kept from a blocked message body.
const PreviewLength = 50

// NormalizeName returns the display name in Unicode NFC so the same label
// typed on different keyboards is stored identically.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Preview returns the first PreviewLength characters (code points, after NFC
// normalization) of body. No truncation marker is appended.
func Preview(body string) string {
	normalized := norm.NFC.String(body)
	runes := []rune(normalized)
	if len(runes) <= PreviewLength {
		return normalized
	}
	return string(runes[:PreviewLength])
}
