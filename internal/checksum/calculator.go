package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Calculator is an interface for computing document checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	// Normalization makes checksums resilient to formatting changes.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
// Normalization for XML documents:
//  1. Remove comments and processing instructions (including the XML declaration)
//  2. Collapse whitespace runs to single spaces and drop whitespace between tags
//
// Attribute values and CDATA sections are kept verbatim. Case is preserved
// because XML names and values are case-sensitive.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	normalized := c.normalize(string(content))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// normalize strips markup that carries no content and collapses whitespace.
func (c SHA256) normalize(content string) string {
	cleaned := c.removeComments(content)

	var b strings.Builder
	b.Grow(len(cleaned))

	var last byte
	write := func(ch byte) {
		b.WriteByte(ch)
		last = ch
	}

	pendingSpace := false
	tagOpen := false
	quote := byte(0)
	for i := 0; i < len(cleaned); i++ {
		ch := cleaned[i]
		if quote != 0 {
			write(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		if strings.HasPrefix(cleaned[i:], "<![CDATA[") {
			if pendingSpace && last != 0 && last != '>' {
				write(' ')
			}
			pendingSpace = false
			end := strings.Index(cleaned[i:], "]]>")
			if end < 0 {
				end = len(cleaned) - i
			} else {
				end += 3
			}
			b.WriteString(cleaned[i : i+end])
			last = '>'
			i += end - 1
			continue
		}
		if unicode.IsSpace(rune(ch)) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			selfClose := ch == '/' && i+1 < len(cleaned) && cleaned[i+1] == '>'
			if last != 0 && last != '>' && ch != '<' && ch != '>' && !selfClose {
				write(' ')
			}
			pendingSpace = false
		}
		switch {
		case ch == '<':
			tagOpen = true
		case ch == '>':
			tagOpen = false
		case tagOpen && (ch == '"' || ch == '\''):
			quote = ch
		}
		write(ch)
	}

	return b.String()
}

type commentState int

const (
	csNormal commentState = iota
	csComment
	csProcessing
	csQuote
	csCDATA
)

// removeComments removes comments and processing instructions while
// preserving quoted attribute values and CDATA sections.
func (c SHA256) removeComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := csNormal
	quote := byte(0)
	tagOpen := false
	i := 0

	for i < len(content) {
		ch := content[i]
		rest := content[i:]

		switch state {
		case csNormal:
			switch {
			case strings.HasPrefix(rest, "<!--"):
				state = csComment
				i += 4
			case strings.HasPrefix(rest, "<?"):
				state = csProcessing
				i += 2
			case strings.HasPrefix(rest, "<![CDATA["):
				state = csCDATA
				b.WriteString("<![CDATA[")
				i += 9
			case tagOpen && (ch == '"' || ch == '\''):
				state = csQuote
				quote = ch
				b.WriteByte(ch)
				i++
			default:
				if ch == '<' {
					tagOpen = true
				} else if ch == '>' {
					tagOpen = false
				}
				b.WriteByte(ch)
				i++
			}

		case csComment:
			if strings.HasPrefix(rest, "-->") {
				state = csNormal
				b.WriteByte(' ')
				i += 3
			} else {
				i++
			}

		case csProcessing:
			if strings.HasPrefix(rest, "?>") {
				state = csNormal
				b.WriteByte(' ')
				i += 2
			} else {
				i++
			}

		case csQuote:
			b.WriteByte(ch)
			if ch == quote {
				state = csNormal
			}
			i++

		case csCDATA:
			if strings.HasPrefix(rest, "]]>") {
				b.WriteString("]]>")
				state = csNormal
				i += 3
			} else {
				b.WriteByte(ch)
				i++
			}
		}
	}

	return b.String()
}
