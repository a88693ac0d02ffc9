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
		Key:       "esb",
		Name:      "Electric Ireland",
		Utility:   UtilityElectricity,
		ParsePDF:  ParseESBBillFromPDF,
		ParseText: ParseESBBillFromText,
	})
}

// ParseESBBillFromPDF opens an Electric Ireland bill PDF at the given path,
// extracts text, and delegates to ParseESBBillFromText.
func ParseESBBillFromPDF(path string) (*RawBill, error) {
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

	bill, err := ParseESBBillFromText(buf.String())
	if err != nil {
		return nil, err
	}
	bill.Filename = filepath.Base(path)
	return bill, nil
}

var (
	esbMPRNRe      = regexp.MustCompile(`MPRN[:\s]+(\d{11})`)
	esbMICRe       = regexp.MustCompile(`(?i)MIC[:\s]+([0-9]+(?:\.[0-9]+)?)\s*kVA`)
	esbMaxDemandRe = regexp.MustCompile(`(?i)Max(?:imum)? Demand[:\s]+([0-9]+(?:\.[0-9]+)?)\s*kVA`)
	esbPeriodRe    = regexp.MustCompile(`(?i)Billing Period[:\s]+(\d{2}/\d{2}/\d{4})\s*(?:-|to)\s*(\d{2}/\d{2}/\d{4})`)
	esbDayRe       = regexp.MustCompile(`(?i)Day Units[:\s]+([0-9,]+(?:\.[0-9]+)?)\s*kWh`)
	esbNightRe     = regexp.MustCompile(`(?i)Night Units[:\s]+([0-9,]+(?:\.[0-9]+)?)\s*kWh`)
	esbTotalDueRe  = regexp.MustCompile(`(?i)Total (?:Due|Amount)[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	esbVATRe       = regexp.MustCompile(`(?i)VAT(?:\s*@\s*[0-9.]+%)?[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	esbStandingRe  = regexp.MustCompile(`(?i)Standing Charge[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
	esbTaxRe       = regexp.MustCompile(`(?i)Electricity Tax[:\s]+€?\s*([0-9,]+(?:\.[0-9]+)?)`)
)

// ParseESBBillFromText parses a plain-text representation of an Electric
// Ireland bill. Missing fields are simply absent from the summary; the field
// resolver downstream handles the gaps.
func ParseESBBillFromText(text string) (*RawBill, error) {
	summary := map[string]any{
		"supplier": "Electric Ireland",
	}
	if m := esbMPRNRe.FindStringSubmatch(text); len(m) == 2 {
		summary["mprn"] = m[1]
	}
	if v, ok := firstFloat(esbMICRe, text); ok {
		summary["mic_value"] = v
	}
	if v, ok := firstFloat(esbMaxDemandRe, text); ok {
		summary["max_demand"] = v
	}
	if m := esbPeriodRe.FindStringSubmatch(text); len(m) == 3 {
		if t := parseDate(m[1]); !t.IsZero() {
			summary["billing_period_start"] = isoDate(t)
		}
		if t := parseDate(m[2]); !t.IsZero() {
			summary["billing_period_end"] = isoDate(t)
			summary["bill_date"] = isoDate(t)
		}
	}
	if v, ok := firstFloat(esbDayRe, text); ok {
		summary["day_kwh"] = v
	}
	if v, ok := firstFloat(esbNightRe, text); ok {
		summary["night_kwh"] = v
	}
	if v, ok := firstFloat(esbTotalDueRe, text); ok {
		summary["total_cost"] = v
	}
	if v, ok := firstFloat(esbVATRe, text); ok {
		summary["vat_amount"] = v
	}

	var charges []Charge
	if v, ok := firstFloat(esbStandingRe, text); ok {
		charges = append(charges, Charge{Description: "Standing Charge", Amount: v})
	}
	if v, ok := firstFloat(esbTaxRe, text); ok {
		charges = append(charges, Charge{Description: "Electricity Tax", Amount: v})
	}

	return &RawBill{
		UtilityType: string(UtilityElectricity),
		Summary:     summary,
		Charges:     charges,
	}, nil
}

// firstFloat extracts the first capture group of re as a float, tolerating
// thousands separators.
func firstFloat(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0, false
	}
	return coerceFloat(m[1])
}
