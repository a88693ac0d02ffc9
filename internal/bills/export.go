package bills

import (
	"fmt"
	"io"
	"strings"
)

var electricityHeaders = []string{
	"Hotel", "Date", "Billing Period", "Supplier", "MPRN", "Meter Number",
	"Day kWh", "Night kWh", "Total kWh", "MIC Value", "Max Demand",
	"MIC Excess", "MIC Excess Cost", "Standing Charge", "Electricity Tax",
	"VAT", "Total Cost", "Filename",
}

var gasHeaders = []string{
	"Hotel", "Date", "Billing Period", "Supplier", "GPRN", "Meter Number",
	"Consumption kWh", "Units Consumed", "Conversion Factor", "Carbon Tax",
	"Standing Charge", "Commodity Cost", "VAT", "Total Cost", "Filename",
}

// WriteCSV serializes rows as the two-section export consumed by the
// dashboards: an ELECTRICITY BILLS block followed by a GAS BILLS block, each
// with its own fixed header line. Fields containing commas, quotes or
// newlines are quoted, with embedded quotes doubled.
func WriteCSV(w io.Writer, rows []Row) error {
	if err := writeLine(w, []string{"ELECTRICITY BILLS"}); err != nil {
		return err
	}
	if err := writeLine(w, electricityHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if r.Type != UtilityElectricity {
			continue
		}
		rec := []string{
			r.HotelName, r.Date, r.BillingPeriod, r.Supplier, r.MPRN, r.MeterNumber,
			num(r.DayKWh), num(r.NightKWh), num(r.TotalKWh), num(r.MICValue), num(r.MaxDemand),
			num(r.MICExcess), num(r.MICExcessCost), num(r.StandingCharge), num(r.ElectricityTax),
			num(r.VATAmount), num(r.TotalCost), r.Filename,
		}
		if err := writeLine(w, rec); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if err := writeLine(w, []string{"GAS BILLS"}); err != nil {
		return err
	}
	if err := writeLine(w, gasHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if r.Type != UtilityGas {
			continue
		}
		rec := []string{
			r.HotelName, r.Date, r.BillingPeriod, r.Supplier, r.GPRN, r.MeterNumber,
			num(r.ConsumptionKWh), num(r.UnitsConsumed), num(r.ConversionFactor), num(r.CarbonTax),
			num(r.StandingCharge), num(r.CommodityCost), num(r.VATAmount), num(r.TotalCost), r.Filename,
		}
		if err := writeLine(w, rec); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = csvField(f)
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
