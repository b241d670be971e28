// Package content fills the email and PDF letter-of-intent templates
// with per-lead personalization data.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/truesoul/offerengine-backend/internal/model"
	"github.com/truesoul/offerengine-backend/internal/offer"
)

// Static boilerplate carried into every letter. Hardcoded for now.
const (
	companyName      = "True Soul Partners LLC"
	senderTitle      = "Acquisitions Director"
	inspectionPeriod = "7 days (excluding weekends and federal holidays)"
)

const bodyTemplateFile = "email_body.html.tmpl"

// Context is the flat field set both templates render against.
type Context struct {
	// Lead
	ContactName        string
	GreetingName       string
	ContactEmail       string
	PropertyAddress    string
	PropertyCity       string
	PropertyState      string
	PropertyPostalCode string

	// Offer
	OfferPrice          string
	EMDAmount           string
	ClosingDate         string
	OfferExpirationDate string
	CurrentDate         string

	// Sender
	SenderName  string
	SenderEmail string

	// Boilerplate
	SenderTitle      string
	CompanyName      string
	InspectionPeriod string
	CurrentYear      int
}

// Assets is the rendered output handed to the mail client.
type Assets struct {
	Subject            string
	HTMLBody           string
	AttachmentFilename string
	Context            Context
}

// Renderer loads templates from a directory resolved at dispatch time
// from the settings store.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// BuildContext composes the template context for a job's lead and
// sender. Fails when assessed_total is missing or non-positive: no
// meaningful offer can be computed, and sending a zero-dollar letter
// would be worse than not sending.
func (r *Renderer) BuildContext(lead *model.Lead, sender *model.Sender) (Context, error) {
	if lead.AssessedTotal == nil || *lead.AssessedTotal <= 0 {
		return Context{}, fmt.Errorf("cannot generate offer details: assessed_total is invalid or missing")
	}

	contactName := ""
	if lead.ContactName != nil {
		contactName = strings.TrimSpace(*lead.ContactName)
	}

	now := r.now()
	details := offer.GenerateDetailsAt(*lead.AssessedTotal, contactName, now)

	return Context{
		ContactName:        contactName,
		GreetingName:       details.GreetingName,
		ContactEmail:       lead.ContactEmail,
		PropertyAddress:    lead.PropertyAddress,
		PropertyCity:       lead.PropertyCity,
		PropertyState:      lead.PropertyState,
		PropertyPostalCode: lead.PropertyPostalCode,

		OfferPrice:          details.OfferPriceFormatted,
		EMDAmount:           details.EMDAmountFormatted,
		ClosingDate:         details.ClosingDateFormatted,
		OfferExpirationDate: details.OfferExpirationDateFormatted,
		CurrentDate:         details.CurrentDateFormatted,

		SenderName:  sender.SenderName,
		SenderEmail: sender.SenderEmail,

		SenderTitle:      senderTitle,
		CompanyName:      companyName,
		InspectionPeriod: inspectionPeriod,
		CurrentYear:      now.Year(),
	}, nil
}

// RenderEmail fills the subject template and the HTML body template.
// The subject uses the campaign's subject_template with the same
// placeholder syntax as the body.
func (r *Renderer) RenderEmail(templateDir, subjectTemplate string, tc Context) (*Assets, error) {
	subject, err := renderString("subject", subjectTemplate, tc)
	if err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}

	bodyPath := filepath.Join(templateDir, bodyTemplateFile)
	bodyTmpl, err := template.ParseFiles(bodyPath)
	if err != nil {
		return nil, fmt.Errorf("parse body template: %w", err)
	}
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, tc); err != nil {
		return nil, fmt.Errorf("render body template: %w", err)
	}

	return &Assets{
		Subject:            strings.TrimSpace(subject),
		HTMLBody:           body.String(),
		AttachmentFilename: AttachmentFilename(tc.PropertyAddress),
		Context:            tc,
	}, nil
}

func renderString(name, text string, tc Context) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, tc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// AttachmentFilename derives a safe PDF filename from the property
// address, e.g. "Offer-123-Main-St.pdf".
func AttachmentFilename(propertyAddress string) string {
	addr := strings.TrimSpace(propertyAddress)
	if addr == "" {
		addr = "Property"
	}
	addr = unsafeFilenameChars.ReplaceAllString(addr, "-")
	addr = strings.Trim(addr, "-")
	return "Offer-" + addr + ".pdf"
}
