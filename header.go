package multipart

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// headerScanStatus reports the outcome of scanHeaderLine.
type headerScanStatus int

const (
	headerOK headerScanStatus = iota
	headerNeedMore
	headerMalformed
)

// scanHeaderLine scans one header line starting at buf[start:], stopping
// at the first CRLF. It enforces strict CRLF termination: a lone LF is
// never accepted, and a CR not immediately followed by LF is
// headerMalformed. Any other control byte (anything below 0x20 besides
// CR/LF and HTAB, or DEL) appearing anywhere in the line is also
// headerMalformed.
// An empty line (CRLF with nothing before it) reports blank=true and
// terminates the header block. Otherwise the line is split on the first
// ':'; the name must be composed entirely of header-name-token bytes
// (ASCII letters, digits, '-') or the line is headerMalformed, and is
// then lowercased. The value has leading and trailing SP/HTAB trimmed.
func scanHeaderLine(buf []byte, start int) (name, value string, next int, blank bool, status headerScanStatus) {
	n := len(buf)
	i := start
	for i < n {
		switch buf[i] {
		case '\n':
			return "", "", start, false, headerMalformed
		case '\r':
			if i+1 >= n {
				return "", "", start, false, headerNeedMore
			}
			if buf[i+1] != '\n' {
				return "", "", start, false, headerMalformed
			}
			line := buf[start:i]
			next = i + 2
			if len(line) == 0 {
				return "", "", next, true, headerOK
			}
			colon := bytes.IndexByte(line, ':')
			if colon < 0 {
				return "", "", start, false, headerMalformed
			}
			for k := 0; k < colon; k++ {
				if !isHeaderNameByte(line[k]) {
					return "", "", start, false, headerMalformed
				}
			}
			lname := make([]byte, colon)
			for k := 0; k < colon; k++ {
				lname[k] = bytescase.ByteToLower(line[k])
			}
			return string(lname), trimOWS(line[colon+1:]), next, false, headerOK
		default:
			if isControlByte(buf[i]) {
				return "", "", start, false, headerMalformed
			}
			i++
		}
	}
	return "", "", start, false, headerNeedMore
}

// isControlByte reports whether b is a C0 control byte or DEL, excluding
// HTAB (allowed as OWS around a value) and CR/LF, which scanHeaderLine
// handles as explicit cases before reaching this check.
func isControlByte(b byte) bool {
	return (b < 0x20 && b != '\t') || b == 0x7f
}

// isHeaderNameByte reports whether b is a valid header-name byte: an
// ASCII letter, digit, or '-'.
func isHeaderNameByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-':
		return true
	default:
		return false
	}
}

// trimOWS trims leading and trailing SP/HTAB, the "optional whitespace"
// the header grammar allows around a value.
func trimOWS(b []byte) string {
	start := 0
	for start < len(b) && isOWS(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isOWS(b[end-1]) {
		end--
	}
	return string(b[start:end])
}

func isOWS(b byte) bool {
	return b == ' ' || b == '\t'
}
