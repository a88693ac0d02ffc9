package bills

import "testing"

func sampleRows() []Row {
	return []Row{
		{ID: "a", Type: UtilityElectricity, HotelID: "hiex", HotelName: "Holiday Inn Express Dublin City Centre",
			Date: "2024-01-15", Supplier: "Electric Ireland", MPRN: "10300123456",
			TotalCost: 850, TotalKWh: 1000, DayKWh: 700, NightKWh: 300, MICStandardRate: 5.12, MICExcessCost: 120, MICExcessRate: 8},
		{ID: "b", Type: UtilityGas, HotelID: "hiex", HotelName: "Holiday Inn Express Dublin City Centre",
			Date: "2024-02-03", Supplier: "Flogas", GPRN: "1234567",
			TotalCost: 410, ConsumptionKWh: 5200},
		{ID: "c", Type: UtilityElectricity, HotelID: "moxy", HotelName: "Moxy Dublin Docklands",
			Date: "2024-03-20", Supplier: "Energia",
			TotalCost: 620, TotalKWh: 800},
	}
}

func TestFilterByHotelAndType(t *testing.T) {
	rows := sampleRows()

	got := Filter(rows, Query{HotelID: "hiex"})
	if len(got) != 2 {
		t.Errorf("expected 2 hiex rows, got %d", len(got))
	}

	got = Filter(rows, Query{Type: "gas"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected only the gas row, got %+v", got)
	}

	// "all" and empty are wildcards.
	if len(Filter(rows, Query{HotelID: "all", Type: "all"})) != 3 {
		t.Error("'all' should match every row")
	}
}

func TestFilterDateBounds(t *testing.T) {
	rows := sampleRows()
	got := Filter(rows, Query{From: "2024-02-01", To: "2024-02-28"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected only February row, got %+v", got)
	}
}

func TestFilterSearch(t *testing.T) {
	rows := sampleRows()
	if got := Filter(rows, Query{Search: "flogas"}); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("search by supplier failed, got %+v", got)
	}
	if got := Filter(rows, Query{Search: "10300"}); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("search by mprn failed, got %+v", got)
	}
	if got := Filter(rows, Query{Search: "moxy"}); len(got) != 1 || got[0].ID != "c" {
		t.Errorf("search by hotel name failed, got %+v", got)
	}
}

func TestFilterIdempotent(t *testing.T) {
	rows := sampleRows()
	q := Query{HotelID: "hiex", Type: "electricity"}
	once := Filter(rows, q)
	twice := Filter(once, q)
	if len(once) != len(twice) {
		t.Errorf("filter not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestSortRowsNumericAndString(t *testing.T) {
	rows := sampleRows()

	byCost := SortRows(rows, "total_cost", false)
	if byCost[0].ID != "b" || byCost[2].ID != "a" {
		t.Errorf("ascending cost order wrong: %s, %s, %s", byCost[0].ID, byCost[1].ID, byCost[2].ID)
	}

	byCostDesc := SortRows(rows, "total_cost", true)
	if byCostDesc[0].ID != "a" {
		t.Errorf("descending cost order wrong, first=%s", byCostDesc[0].ID)
	}

	bySupplier := SortRows(rows, "supplier", false)
	if bySupplier[0].Supplier != "Electric Ireland" {
		t.Errorf("string sort wrong, first=%s", bySupplier[0].Supplier)
	}

	// Input must not be mutated.
	if rows[0].ID != "a" {
		t.Error("SortRows mutated its input")
	}
}

func TestSortRowsMissingValuesAlwaysLast(t *testing.T) {
	rows := []Row{
		{ID: "x", Supplier: ""},
		{ID: "y", Supplier: "Energia"},
		{ID: "z", Supplier: "Flogas"},
	}

	asc := SortRows(rows, "supplier", false)
	if asc[len(asc)-1].ID != "x" {
		t.Errorf("missing value should sort last ascending, got order %s,%s,%s", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	desc := SortRows(rows, "supplier", true)
	if desc[len(desc)-1].ID != "x" {
		t.Errorf("missing value should sort last descending too, got order %s,%s,%s", desc[0].ID, desc[1].ID, desc[2].ID)
	}
}

func TestComputeTotals(t *testing.T) {
	tot := ComputeTotals(sampleRows(), nil)
	if tot.Count != 3 {
		t.Errorf("expected count 3, got %d", tot.Count)
	}
	if tot.ElectricityCost != 1470 {
		t.Errorf("expected electricity cost 1470, got %f", tot.ElectricityCost)
	}
	if tot.GasCost != 410 || tot.GasKWh != 5200 {
		t.Errorf("unexpected gas totals %f / %f", tot.GasCost, tot.GasKWh)
	}
	// Row c has no MIC rate; the average is over non-zero rows only.
	if tot.AverageMicRate != 5.12 {
		t.Errorf("expected mic rate average 5.12 over one row, got %f", tot.AverageMicRate)
	}
	if tot.AverageMicExcessRate != 8 {
		t.Errorf("expected excess rate average 8, got %f", tot.AverageMicExcessRate)
	}
}

func TestComputeTotalsSelectedSubset(t *testing.T) {
	tot := ComputeTotals(sampleRows(), map[string]bool{"b": true})
	if tot.Count != 1 {
		t.Errorf("expected count 1, got %d", tot.Count)
	}
	if tot.ElectricityCost != 0 || tot.GasCost != 410 {
		t.Errorf("selection not respected: %+v", tot)
	}
}
