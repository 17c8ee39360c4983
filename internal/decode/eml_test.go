package decode_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tripboard/internal/decode"
)

func TestPlainTextFromEML_Base64Multipart(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte("Olá Ana\nCheck-in 23 June 2026"))
	raw := strings.Join([]string{
		`From: noreply@booking.com`,
		`Reply-To: "Casa Velha" <casa@example.com>`,
		`Content-Type: multipart/alternative; boundary="b1"`,
		``,
		`--b1`,
		`Content-Type: text/plain; charset=utf-8`,
		`Content-Transfer-Encoding: base64`,
		``,
		body[:20],
		body[20:],
		`--b1`,
		`Content-Type: text/html; charset=utf-8`,
		``,
		`<p>ignored</p>`,
		`--b1--`,
	}, "\r\n")

	got := decode.PlainTextFromEML(raw)

	assert.Equal(t, "Olá Ana\nCheck-in 23 June 2026", got)
}

func TestPlainTextFromEML_QuotedPrintable(t *testing.T) {
	raw := "Content-Type: multipart/mixed; boundary=xyz\n\n--xyz\n" +
		"Content-Type: text/plain; charset=utf-8\n" +
		"Content-Transfer-Encoding: quoted-printable\n\n" +
		"Ol=C3=A1 =\nAna\n--xyz--\n"

	assert.Equal(t, "Olá Ana", decode.PlainTextFromEML(raw))
}

func TestPlainTextFromEML_PlainBodyLeftAlone(t *testing.T) {
	raw := "Content-Type: text/plain\n\nHello, world!\nSee you soon."

	assert.Equal(t, "Hello, world!\nSee you soon.", decode.PlainTextFromEML(raw))
}

func TestPlainTextFromEML_ProseThatLooksLikeBase64(t *testing.T) {
	raw := "Content-Type: text/plain\n\nThanks for booking\n"

	assert.Equal(t, "Thanks for booking", decode.PlainTextFromEML(raw))
}

func TestPlainTextFromEML_OutlookBoundaryWithoutDeclaration(t *testing.T) {
	raw := "Content-Type: text/plain\n\nHello.\n--_000_abc-def\nContent-Type: text/html\n\n<p>x</p>"

	assert.Equal(t, "Hello.", decode.PlainTextFromEML(raw))
}

func TestPlainTextFromEML_HTMLFallback(t *testing.T) {
	raw := "Content-Type: text/html; charset=utf-8\n\n" +
		"<html><head><style>p{}</style></head><body><p>Hello <b>there</b></p><p>Rua &amp; Largo</p></body></html>"

	assert.Equal(t, "Hello there\nRua & Largo", decode.PlainTextFromEML(raw))
}

func TestPlainTextFromEML_NoTextPart(t *testing.T) {
	assert.Empty(t, decode.PlainTextFromEML("Subject: hi\n\njust a body"))
}

func TestPlainTextFromEML_HeadersWithoutBody(t *testing.T) {
	assert.Empty(t, decode.PlainTextFromEML("Content-Type: text/plain; charset=utf-8"))
}
