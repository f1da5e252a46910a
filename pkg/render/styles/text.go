package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"unicode/utf8"
)

const (
	fontCharWidth = 0.55
	fontSizeMin   = 8.0
	fontSizeMax   = 18.0
	textPadding   = 0.9
)

// FontSize returns the largest font size, within bounds, at which text fits
// on one line of the given width.
func FontSize(text string, width float64) float64 {
	n := max(1, utf8.RuneCountInString(text))
	byWidth := width * textPadding / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

// Truncate shortens text so that it fits in width at the given font size.
func Truncate(text string, width, fontSize float64) string {
	maxChars := max(3, int(width*textPadding/(fontSize*fontCharWidth)))
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-1]) + "…"
}

// AgeLabel formats an age in years, or returns "" when it is unknown.
func AgeLabel(age int) string {
	if age < 0 {
		return ""
	}
	return strconv.Itoa(age) + " ans"
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
