// Package fieldname decodes the raw identifier tokens stored on form fields.
// Names arrive either as plain text, as a literal wrapped in parentheses, or
// as a big-endian UTF-16 hex string prefixed with the FEFF byte-order mark
// (for example "<FEFF0046005B0030005D>" for "F[0]").
package fieldname

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	hexPrefix = "<FEFF"
	hexSuffix = ">"
)

// Encoding identifies which form a raw token was stored in.
type Encoding string

const (
	EncodingPlain    Encoding = "plain"
	EncodingHexUTF16 Encoding = "hex-utf16be"
	EncodingLiteral  Encoding = "literal"
)

// Result carries a decoded name together with how it was obtained. Fallback
// is set when the token looked hex encoded but could not be decoded, in
// which case Name holds the raw token unchanged.
type Result struct {
	Name     string
	Encoding Encoding
	Fallback bool
}

// Decode returns the plain local name for raw. It never fails; malformed
// hex tokens are returned as-is.
func Decode(raw string) string {
	return DecodeName(raw).Name
}

// DecodeName is Decode with the encoding and fallback details exposed.
func DecodeName(raw string) Result {
	if isHexToken(raw) {
		name, ok := decodeHex(raw[len(hexPrefix) : len(raw)-len(hexSuffix)])
		if !ok {
			return Result{Name: raw, Encoding: EncodingHexUTF16, Fallback: true}
		}
		return Result{Name: name, Encoding: EncodingHexUTF16}
	}
	if len(raw) >= 2 && strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		return Result{Name: raw[1 : len(raw)-1], Encoding: EncodingLiteral}
	}
	return Result{Name: raw, Encoding: EncodingPlain}
}

// Encode renders name as a FEFF-prefixed UTF-16BE hex token, the inverse of
// the hex branch of Decode.
func Encode(name string) string {
	units := utf16.Encode([]rune(name))
	var b strings.Builder
	b.Grow(len(hexPrefix) + len(units)*4 + len(hexSuffix))
	b.WriteString(hexPrefix)
	for _, unit := range units {
		digits := strings.ToUpper(strconv.FormatUint(uint64(unit), 16))
		b.WriteString(strings.Repeat("0", 4-len(digits)))
		b.WriteString(digits)
	}
	b.WriteString(hexSuffix)
	return b.String()
}

func isHexToken(raw string) bool {
	if len(raw) < len(hexPrefix)+len(hexSuffix) {
		return false
	}
	return strings.EqualFold(raw[:len(hexPrefix)], hexPrefix) && strings.HasSuffix(raw, hexSuffix)
}

func decodeHex(digits string) (string, bool) {
	if len(digits)%4 != 0 {
		return "", false
	}
	units := make([]uint16, 0, len(digits)/4)
	for i := 0; i < len(digits); i += 4 {
		unit, err := strconv.ParseUint(digits[i:i+4], 16, 16)
		if err != nil {
			return "", false
		}
		units = append(units, uint16(unit))
	}
	return string(utf16.Decode(units)), true
}
