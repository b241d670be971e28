// internal/mailer/gmail.go
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender sends through the Gmail API using a service account with
// domain-wide delegation: each Send impersonates the From address.
type GmailSender struct {
	serviceAccountKey []byte
}

func NewGmailSender(serviceAccountKeyJSON string) (*GmailSender, error) {
	if serviceAccountKeyJSON == "" {
		return nil, fmt.Errorf("google service account key is not provided")
	}
	return &GmailSender{serviceAccountKey: []byte(serviceAccountKeyJSON)}, nil
}

func (g *GmailSender) Send(ctx context.Context, msg Message) (*SendResult, error) {
	jwtCfg, err := google.JWTConfigFromJSON(g.serviceAccountKey, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	// Impersonation target changes per message, so the client is built
	// per send rather than cached.
	jwtCfg.Subject = msg.From

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	raw := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(BuildMIME(msg))
	res, err := svc.Users.Messages.Send(msg.From, &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail send: %w", err)
	}
	return &SendResult{MessageID: res.Id, ThreadID: res.ThreadId}, nil
}

// BuildMIME assembles the multipart/mixed message body: HTML part first,
// then base64 attachments. The boundary is multipart's random one, so
// body content can never collide with it, and the subject is Q-encoded
// for non-ASCII addresses.
func BuildMIME(msg Message) []byte {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary()))
	b.WriteString("\r\n")

	htmlPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"7bit"},
	})
	htmlPart.Write([]byte(msg.HTMLBody))

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, att.Filename)},
			"Content-Transfer-Encoding": {"base64"},
		}
		if att.ContentID != "" {
			header.Set("Content-ID", "<"+att.ContentID+">")
			header.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.Filename))
		} else {
			header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
		}
		part, _ := mw.CreatePart(header)
		part.Write([]byte(base64.StdEncoding.EncodeToString(att.Content)))
	}
	mw.Close()

	return append([]byte(b.String()), body.Bytes()...)
}

var _ Sender = (*GmailSender)(nil)
