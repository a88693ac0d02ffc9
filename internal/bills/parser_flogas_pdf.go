package bills

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	pdf "github.com/ledongthuc/pdf"
)

func init() {
	RegisterParser(ParserConfig{
		Key:       "flogas",
		Name:      "Flogas Natural Gas",
		Utility:   UtilityGas,
		ParsePDF:  ParseFlogasBillFromPDF,
		ParseText: ParseFlogasBillFromText,
	})
}

// ParseFlogasBillFromPDF opens a Flogas gas bill PDF at the given path,
// extracts text, and delegates to ParseFlogasBillFromText.
func ParseFlogasBillFromPDF(path string) (*RawBill, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	rc, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	bill, err := ParseFlogasBillFromText(buf.String())
	if err != nil {
		return nil, err
	}
	bill.Filename = filepath.Base(path)
	return bill, nil
}

var (
	flogasGPRNRe       = regexp.MustCompile(`GPRN[:\s]+(\d{7})`)
	flogasPeriodRe     = regexp.MustCompile(`(?i)Billing Period[:\s]+(\d{2}/\d{2}/\d{4})\s*(?:-|to)\s*(\d{2}/\d{2}/\d{4})`)
	flogasUnitsRe      = regexp.MustCompile(`(?i)Units Consumed[:\s]+([0-9,]+(?:\.[0-9]+)?)`)
	flogasConversionRe = regexp.MustCompile(`(?i)Conversion Factor[:\s]+([0-9]+(?:\.[0-9]+)?)`)
	flogasKWhRe        = regexp.MustCompile(`(?i)Consumption[:\s]+([0-9,]+(?:\.[0-9]+)?)\s*kWh`)
	flogasTotalRe      = regexp.MustCompile(`(?i)Total (?:Due|Amount)[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	flogasVATRe        = regexp.MustCompile(`(?i)VAT(?:\s*@\s*[0-9.]+%)?[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	flogasCarbonRe     = regexp.MustCompile(`(?i)Carbon Tax[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	flogasStandingRe   = regexp.MustCompile(`(?i)Standing Charge[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	flogasCommodityRe  = regexp.MustCompile(`(?i)Commodity(?: Cost)?[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
)

// ParseFlogasBillFromText parses a plain-text representation of a Flogas gas
// bill.
func ParseFlogasBillFromText(text string) (*RawBill, error) {
	summary := map[string]any{
		"supplier": "Flogas",
	}
	if m := flogasGPRNRe.FindStringSubmatch(text); len(m) == 2 {
		summary["gprn"] = m[1]
	}
	if m := flogasPeriodRe.FindStringSubmatch(text); len(m) == 3 {
		if t := parseDate(m[1]); !t.IsZero() {
			summary["billing_period_start"] = isoDate(t)
		}
		if t := parseDate(m[2]); !t.IsZero() {
			summary["billing_period_end"] = isoDate(t)
			summary["bill_date"] = isoDate(t)
		}
	}
	if v, ok := firstFloat(flogasKWhRe, text); ok {
		summary["consumption_kwh"] = v
	}
	if v, ok := firstFloat(flogasUnitsRe, text); ok {
		summary["units_consumed"] = v
	}
	if v, ok := firstFloat(flogasConversionRe, text); ok {
		summary["conversion_factor"] = v
	}
	if v, ok := firstFloat(flogasTotalRe, text); ok {
		summary["total_cost"] = v
	}
	if v, ok := firstFloat(flogasVATRe, text); ok {
		summary["vat_amount"] = v
	}

	var items []Charge
	if v, ok := firstFloat(flogasCarbonRe, text); ok {
		items = append(items, Charge{Description: "Carbon Tax", Amount: v})
	}
	if v, ok := firstFloat(flogasStandingRe, text); ok {
		items = append(items, Charge{Description: "Standing Charge", Amount: v})
	}
	if v, ok := firstFloat(flogasCommodityRe, text); ok {
		items = append(items, Charge{Description: "Commodity Cost", Amount: v})
	}

	return &RawBill{
		UtilityType: string(UtilityGas),
		Summary:     summary,
		LineItems:   items,
	}, nil
}
