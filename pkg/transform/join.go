package transform

import "strings"

// JoinSSN formats the parts as "AAA-GG-SSSS". Empty parts are skipped so a
// blank SSN joins to "".
func JoinSSN(parts SSN) string {
	return joinNonEmpty("-", parts.Area, parts.Group, parts.Serial)
}

// JoinPhone formats the parts as "AAA-EEE-LLLL".
func JoinPhone(parts Phone) string {
	return joinNonEmpty("-", parts.Area, parts.Exchange, parts.Line)
}

// JoinDate formats the parts as "MM/DD/YYYY", or "" when any part is empty.
func JoinDate(parts Date) string {
	if parts.Month == "" || parts.Day == "" || parts.Year == "" {
		return ""
	}
	return parts.Month + "/" + parts.Day + "/" + parts.Year
}

// JoinZIP formats the parts as "ZZZZZ" or "ZZZZZ-EEEE".
func JoinZIP(parts ZIP) string {
	return joinNonEmpty("-", parts.Zip5, parts.Zip4)
}

// JoinOverflow restores the original value: the chunk (second sub-field)
// comes first, then the remainder (first sub-field).
func JoinOverflow(parts Overflow) string {
	return parts.Chunk + parts.Remainder
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
