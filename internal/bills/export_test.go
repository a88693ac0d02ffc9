package bills

import (
	"strings"
	"sync"
	"testing"
)

func TestWriteCSVSections(t *testing.T) {
	rows := []Row{
		{ID: "a", Type: UtilityElectricity, HotelName: "Moxy Dublin Docklands", Date: "2024-01-15",
			Supplier: "Electric Ireland", TotalKWh: 1000, TotalCost: 850},
		{ID: "b", Type: UtilityGas, HotelName: "Moxy Dublin Docklands", Date: "2024-02-03",
			Supplier: "Flogas", ConsumptionKWh: 5200, TotalCost: 410},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	out := sb.String()

	elecIdx := strings.Index(out, "ELECTRICITY BILLS")
	gasIdx := strings.Index(out, "GAS BILLS")
	if elecIdx < 0 || gasIdx < 0 || gasIdx < elecIdx {
		t.Fatalf("expected electricity section before gas section:\n%s", out)
	}

	if !strings.Contains(out, "Hotel,Date,Billing Period,Supplier,MPRN") {
		t.Error("missing electricity header")
	}
	if !strings.Contains(out, "Hotel,Date,Billing Period,Supplier,GPRN") {
		t.Error("missing gas header")
	}
	if !strings.Contains(out, "850.00") {
		t.Error("missing electricity row value")
	}
	if !strings.Contains(out, "5200.00") {
		t.Error("missing gas row value")
	}

	// The electricity section must not contain the gas row.
	if strings.Contains(out[elecIdx:gasIdx], "Flogas") {
		t.Error("gas row leaked into the electricity section")
	}
}

func TestWriteLineLeavesInputUnchanged(t *testing.T) {
	fields := []string{"plain", "has,comma", `has"quote`}
	var sb strings.Builder
	if err := writeLine(&sb, fields); err != nil {
		t.Fatalf("writeLine failed: %v", err)
	}
	if fields[1] != "has,comma" || fields[2] != `has"quote` {
		t.Errorf("input slice was mutated: %q", fields)
	}
	if got := sb.String(); got != "plain,\"has,comma\",\"has\"\"quote\"\n" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestWriteCSVConcurrent(t *testing.T) {
	rows := []Row{
		{ID: "a", Type: UtilityElectricity, HotelName: "Moxy Dublin Docklands", Date: "2024-01-15",
			Supplier: "Electric Ireland", TotalKWh: 1000, TotalCost: 850},
		{ID: "b", Type: UtilityGas, HotelName: "Moxy Dublin Docklands", Date: "2024-02-03",
			Supplier: "Flogas", ConsumptionKWh: 5200, TotalCost: 410},
	}

	var baseline strings.Builder
	if err := WriteCSV(&baseline, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	// Exports run per request; parallel writers must not interfere through
	// the shared header slices.
	const n = 8
	outs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var sb strings.Builder
			if err := WriteCSV(&sb, rows); err != nil {
				t.Errorf("concurrent WriteCSV failed: %v", err)
				return
			}
			outs[i] = sb.String()
		}(i)
	}
	wg.Wait()

	for i, out := range outs {
		if out != baseline.String() {
			t.Errorf("writer %d diverged from baseline:\n%s", i, out)
		}
	}
}

func TestCSVFieldQuoting(t *testing.T) {
	cases := map[string]string{
		"plain":          "plain",
		"has,comma":      `"has,comma"`,
		`has"quote`:      `"has""quote"`,
		"has\nnewline":   "\"has\nnewline\"",
		"":               "",
	}
	for in, want := range cases {
		if got := csvField(in); got != want {
			t.Errorf("csvField(%q) = %q, want %q", in, got, want)
		}
	}
}
