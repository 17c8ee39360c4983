// Package decode turns raw documents (booking emails, KML exports and
// Markdown itineraries) into plain values the record builders work on.
// Decoders never panic on malformed input; they degrade to the best text
// they can recover.
package decode

import (
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	textPlainRe        = regexp.MustCompile(`(?i)Content-Type:\s*text/plain`)
	textHTMLRe         = regexp.MustCompile(`(?i)Content-Type:\s*text/html`)
	boundaryParamRe    = regexp.MustCompile(`(?i)boundary\s*=\s*"?([^";\r\n]+)"?`)
	outlookBoundaryRe  = regexp.MustCompile(`--_[-\w]+`)
	transferEncodingRe = regexp.MustCompile(`(?i)Content-Transfer-Encoding:\s*([\w-]+)`)
	base64LikeRe       = regexp.MustCompile(`^[A-Za-z0-9+/=\s]+$`)
)

// base64Probe is how many leading bytes of a body are inspected to decide
// whether it looks like base64.
const base64Probe = 200

// PlainTextFromEML extracts the human-readable body of a MIME message.
//
// The first text/plain part wins. Its body runs from the blank line after
// the part headers to the next MIME boundary. Base64 and quoted-printable
// bodies are decoded; when decoding fails the raw body is returned. When no
// text/plain part exists the first text/html part is converted to text.
// Returns "" when neither exists, in which case callers should fall back to
// the raw message.
func PlainTextFromEML(raw string) string {
	if body, ok := partBody(raw, textPlainRe); ok {
		return body
	}
	if body, ok := partBody(raw, textHTMLRe); ok {
		return HTMLToText(body)
	}
	return ""
}

func partBody(raw string, marker *regexp.Regexp) (string, bool) {
	loc := marker.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}
	part := strings.ReplaceAll(raw[loc[0]:], "\r", "")
	headerEnd := strings.Index(part, "\n\n")
	if headerEnd < 0 {
		return "", false
	}
	headers, body := part[:headerEnd], part[headerEnd+2:]
	body = strings.TrimSpace(cutAtBoundary(body, declaredBoundaries(raw)))

	encoding := ""
	if m := transferEncodingRe.FindStringSubmatch(headers); m != nil {
		encoding = strings.ToLower(m[1])
	}
	return decodeBody(body, encoding), true
}

func declaredBoundaries(raw string) []string {
	var out []string
	for _, m := range boundaryParamRe.FindAllStringSubmatch(raw, -1) {
		if b := strings.TrimSpace(m[1]); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// cutAtBoundary truncates body at the earliest "--boundary" delimiter. With
// no declared boundaries it looks for the "--_" delimiters Outlook emits.
func cutAtBoundary(body string, boundaries []string) string {
	end := len(body)
	for _, b := range boundaries {
		if i := strings.Index(body, "--"+b); i >= 0 && i < end {
			end = i
		}
	}
	if len(boundaries) == 0 {
		if loc := outlookBoundaryRe.FindStringIndex(body); loc != nil {
			end = loc[0]
		}
	}
	return body[:end]
}

func decodeBody(body, encoding string) string {
	switch {
	case encoding == "quoted-printable":
		b, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
		if err != nil {
			return body
		}
		return bytesToText(b)
	case encoding == "base64" || looksLikeBase64(body):
		if text, ok := decodeBase64Text(body); ok {
			return text
		}
		return body
	default:
		return body
	}
}

func looksLikeBase64(body string) bool {
	if body == "" {
		return false
	}
	probe := body
	if len(probe) > base64Probe {
		probe = probe[:base64Probe]
	}
	return base64LikeRe.MatchString(probe)
}

// decodeBase64Text decodes body and accepts the result only when it is
// printable UTF-8, so ordinary prose that happens to use the base64
// alphabet is left alone.
func decodeBase64Text(body string) (string, bool) {
	compact := strings.Join(strings.Fields(body), "")
	b, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(compact, "="))
		if err != nil {
			return "", false
		}
	}
	if !utf8.Valid(b) {
		return "", false
	}
	text := string(b)
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return "", false
		}
	}
	return text, true
}

// bytesToText reads b as UTF-8, or as Latin-1 when it is not valid UTF-8.
func bytesToText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
