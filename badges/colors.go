// Package badges picks display colours for group badges.
package badges

import "unicode/utf16"

// Palette is the set of badge colour classes, darkest first.
var Palette = []string{
	"bg-blue-900 text-blue-100 border-blue-700",
	"bg-blue-800 text-blue-100 border-blue-600",
	"bg-blue-700 text-blue-50 border-blue-500",
	"bg-cyan-900 text-cyan-100 border-cyan-700",
	"bg-cyan-800 text-cyan-100 border-cyan-600",
	"bg-indigo-900 text-indigo-100 border-indigo-700",
	"bg-indigo-800 text-indigo-100 border-indigo-600",
	"bg-sky-900 text-sky-100 border-sky-700",
}

// Hash is a 32-bit string hash over UTF-16 code units, h = h*31 + c with
// two's complement wrap, so the same name maps to the same colour in the
// browser client.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(c)
	}
	return h
}

// GroupColor returns the palette entry for a group name.
func GroupColor(name string) string {
	h := int64(Hash(name))
	if h < 0 {
		h = -h
	}
	return Palette[h%int64(len(Palette))]
}
