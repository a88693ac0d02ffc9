package bills

import "strings"

// FindCharge scans the itemized charges for the first entry whose description
// contains every whitespace-separated term of phrase as a case-insensitive
// substring. Terms match in any order, so "mic excess" matches "Excess MIC
// Demand Charge". There is no word-boundary awareness; a description
// containing both terms anywhere matches.
func FindCharge(items []Charge, phrase string) (Charge, bool) {
	terms := strings.Fields(strings.ToLower(phrase))
	if len(items) == 0 || len(terms) == 0 {
		return Charge{}, false
	}
	for _, it := range items {
		if matchesAll(strings.ToLower(it.Description), terms) {
			return it, true
		}
	}
	return Charge{}, false
}

// FindChargeExcluding behaves like FindCharge but skips entries whose
// description also contains the exclude term. Used to find the standard
// capacity charge line while ignoring the excess-charge line.
func FindChargeExcluding(items []Charge, phrase, exclude string) (Charge, bool) {
	terms := strings.Fields(strings.ToLower(phrase))
	exclude = strings.ToLower(exclude)
	if len(items) == 0 || len(terms) == 0 {
		return Charge{}, false
	}
	for _, it := range items {
		desc := strings.ToLower(it.Description)
		if exclude != "" && strings.Contains(desc, exclude) {
			continue
		}
		if matchesAll(desc, terms) {
			return it, true
		}
	}
	return Charge{}, false
}

// ChargeAmount returns the amount of the first matching charge, or 0 when
// there is no match or the matched amount is not numeric.
func ChargeAmount(items []Charge, phrase string) float64 {
	it, ok := FindCharge(items, phrase)
	if !ok {
		return 0
	}
	v, ok := coerceFloat(it.Amount)
	if !ok {
		return 0
	}
	return v
}

func matchesAll(desc string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(desc, t) {
			return false
		}
	}
	return true
}
