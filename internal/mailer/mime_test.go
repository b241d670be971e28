package mailer

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boundaryPattern = regexp.MustCompile(`boundary="([^"]+)"`)

// parseMIME splits the raw message into its top headers and decoded
// multipart sections.
func parseMIME(t *testing.T, raw []byte) (string, []*multipart.Part, [][]byte) {
	t.Helper()
	head, body, found := strings.Cut(string(raw), "\r\n\r\n")
	require.True(t, found)

	m := boundaryPattern.FindStringSubmatch(head)
	require.NotNil(t, m, "no boundary in headers")

	var parts []*multipart.Part
	var contents [][]byte
	mr := multipart.NewReader(strings.NewReader(body), m[1])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, p)
		contents = append(contents, data)
	}
	return head, parts, contents
}

func TestBuildMIME(t *testing.T) {
	msg := Message{
		From:     "offers@truesoulpartners.com",
		To:       "jane@example.com",
		Subject:  "Cash offer for 123 Main St",
		HTMLBody: "<p>Hello Jane</p>",
		Attachments: []Attachment{
			{Filename: "Offer-123-Main-St.pdf", Content: []byte("%PDF-fake"), ContentType: "application/pdf"},
		},
	}

	head, parts, contents := parseMIME(t, BuildMIME(msg))

	assert.Contains(t, head, "From: offers@truesoulpartners.com\r\n")
	assert.Contains(t, head, "To: jane@example.com\r\n")
	// ASCII subjects pass through unencoded
	assert.Contains(t, head, "Subject: Cash offer for 123 Main St\r\n")

	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "<p>Hello Jane</p>", string(contents[0]))

	assert.Equal(t, `attachment; filename="Offer-123-Main-St.pdf"`,
		parts[1].Header.Get("Content-Disposition"))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-fake")), string(contents[1]))
}

func TestBuildMIMEInlineAttachment(t *testing.T) {
	msg := Message{
		From:     "a@b.c",
		To:       "d@e.f",
		Subject:  "s",
		HTMLBody: `<img src="cid:company_logo">`,
		Attachments: []Attachment{
			{Filename: "logo.png", Content: []byte{1, 2, 3}, ContentType: "image/png", ContentID: "company_logo"},
		},
	}

	_, parts, _ := parseMIME(t, BuildMIME(msg))
	require.Len(t, parts, 2)
	assert.Equal(t, "<company_logo>", parts[1].Header.Get("Content-Id"))
	assert.Contains(t, parts[1].Header.Get("Content-Disposition"), "inline")
}

func TestBuildMIMEBoundaryNotGuessable(t *testing.T) {
	// a body that names a likely fixed boundary must not break parsing
	hostile := "--offerengine_boundary--\r\nplus <p>normal content</p>"
	msg := Message{
		From:     "a@b.c",
		To:       "d@e.f",
		Subject:  "s",
		HTMLBody: hostile,
	}

	head, parts, contents := parseMIME(t, BuildMIME(msg))
	require.Len(t, parts, 1)
	assert.Equal(t, hostile, string(contents[0]))

	m := boundaryPattern.FindStringSubmatch(head)
	assert.NotContains(t, hostile, m[1])
}

func TestBuildMIMESubjectQEncoded(t *testing.T) {
	msg := Message{
		From:     "a@b.c",
		To:       "d@e.f",
		Subject:  "Angebot für München",
		HTMLBody: "<p>Hallo</p>",
	}

	head, _, _ := parseMIME(t, BuildMIME(msg))

	var subject string
	for _, line := range strings.Split(head, "\r\n") {
		if strings.HasPrefix(line, "Subject: ") {
			subject = strings.TrimPrefix(line, "Subject: ")
		}
	}
	require.NotEmpty(t, subject)
	assert.True(t, strings.HasPrefix(subject, "=?"), "subject not encoded: %q", subject)

	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Angebot für München", decoded)
}
