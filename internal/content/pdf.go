// internal/content/pdf.go
package content

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// RenderPDF draws the letter-of-intent PDF carrying the same
// personalization data as the email body. Layout is a single A4 page:
// date, greeting, offer terms, signature block.
func (r *Renderer) RenderPDF(tc Context) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Letter of Intent to Purchase", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tc.CurrentDate, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.MultiCell(0, 6, fmt.Sprintf("Dear %s,", tc.GreetingName), "", "L", false)
	pdf.Ln(2)

	intro := fmt.Sprintf(
		"%s is pleased to present this letter of intent to purchase the property located at %s, %s, %s %s under the following terms:",
		tc.CompanyName, tc.PropertyAddress, tc.PropertyCity, tc.PropertyState, tc.PropertyPostalCode,
	)
	pdf.MultiCell(0, 6, intro, "", "L", false)
	pdf.Ln(4)

	terms := [][2]string{
		{"Purchase Price", tc.OfferPrice},
		{"Earnest Money Deposit", tc.EMDAmount},
		{"Closing Date", tc.ClosingDate},
		{"Inspection Period", tc.InspectionPeriod},
		{"Offer Valid Until", tc.OfferExpirationDate},
	}
	for _, row := range terms {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(60, 7, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	outro := "This letter is an expression of intent only and does not constitute a binding agreement. We look forward to working with you toward a simple, as-is cash closing."
	pdf.MultiCell(0, 6, outro, "", "L", false)
	pdf.Ln(10)

	pdf.CellFormat(0, 6, "Sincerely,", "", 1, "L", false, 0, "")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, tc.SenderName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tc.SenderTitle, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tc.CompanyName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tc.SenderEmail, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
