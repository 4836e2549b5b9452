package projections

import (
	"context"
	"strings"
	"testing"
	"time"

	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/domain/fine"
	"strafenkasse/internal/domain/member"
)

// mockFines implements FinesForList and records the requested fiscal year.
type mockFines struct {
	fines         []fine.Fine
	requestedYear string
}

func (m *mockFines) List(_ context.Context, _ string, fiscalYear string) ([]fine.Fine, error) {
	m.requestedYear = fiscalYear
	return m.fines, nil
}

// mockFiscalYears implements FiscalYearsForList.
type mockFiscalYears struct {
	years []string
}

func (m *mockFiscalYears) FiscalYears(_ context.Context, _ string) ([]string, error) {
	return m.years, nil
}

func testFineDeps() (GetFineListDeps, *mockFines) {
	day := func(d int) time.Time { return time.Date(2025, 9, d, 12, 0, 0, 0, time.UTC) }
	fines := &mockFines{fines: []fine.Fine{
		{ID: "f-1", MemberID: "2", FineTypeLabel: "Zu spät", Amount: 5, Date: day(1), FiscalYear: "2025/2026"},
		{ID: "f-2", MemberID: "10", FineTypeLabel: "Handy klingelt", Amount: 10, Date: day(3), FiscalYear: "2025/2026"},
		{ID: "f-3", MemberID: "gone", FineTypeLabel: "Sonstiges", Amount: 2.5, Date: day(2), FiscalYear: "2025/2026"},
	}}
	deps := GetFineListDeps{
		Fines: fines,
		Members: &mockMembers{members: []member.Member{
			{ID: "2", Name: "Bernd Lauch", Status: member.StatusAktiv},
			{ID: "10", Name: "Anna Acker", Status: member.StatusAktiv},
		}},
		FiscalYears: &mockFiscalYears{years: []string{"2024/2025", "2025/2026"}},
	}
	return deps, fines
}

func TestQueryGetFineList_DefaultsToCurrentFiscalYear(t *testing.T) {
	deps, fines := testFineDeps()
	res, err := QueryGetFineList(context.Background(), GetFineListQuery{
		BearerToken: "bearer-abc",
		Params:      listutil.ListParams{PageParams: listutil.PageParams{Page: 1, PerPage: 25}},
	}, deps)
	if err != nil {
		t.Fatalf("QueryGetFineList failed: %v", err)
	}
	want := fine.CurrentFiscalYear()
	if fines.requestedYear != want || res.FiscalYear != want {
		t.Errorf("fiscal year = %q/%q, want %q", fines.requestedYear, res.FiscalYear, want)
	}
	if len(res.FiscalYears) != 2 {
		t.Errorf("year picker = %v", res.FiscalYears)
	}
}

func TestQueryGetFineList_JoinsNamesAndTotals(t *testing.T) {
	deps, _ := testFineDeps()
	res, err := QueryGetFineList(context.Background(), GetFineListQuery{
		BearerToken: "bearer-abc",
		FiscalYear:  "2025/2026",
		Params:      listutil.ListParams{PageParams: listutil.PageParams{Page: 1, PerPage: 25}},
	}, deps)
	if err != nil {
		t.Fatalf("QueryGetFineList failed: %v", err)
	}
	if res.TotalCount != 3 || res.TotalAmount != 17.5 {
		t.Errorf("totals = %d / %v, want 3 / 17.5", res.TotalCount, res.TotalAmount)
	}
	// Default order is newest first.
	if res.Fines[0].ID != "f-2" || res.Fines[0].MemberName != "Anna Acker" {
		t.Errorf("first row = %+v, want the Sept 3 fine with its member name", res.Fines[0])
	}
	// A booking whose member vanished still renders, flagged as unknown.
	var goneRow *FineRow
	for i := range res.Fines {
		if res.Fines[i].ID == "f-3" {
			goneRow = &res.Fines[i]
		}
	}
	if goneRow == nil || !strings.Contains(goneRow.MemberName, "Unbekannt") {
		t.Errorf("expected unknown-member label, got %+v", goneRow)
	}
}

func TestQueryGetFineList_SearchFiltersTotals(t *testing.T) {
	deps, _ := testFineDeps()
	res, err := QueryGetFineList(context.Background(), GetFineListQuery{
		BearerToken: "bearer-abc",
		FiscalYear:  "2025/2026",
		Params: listutil.ListParams{
			PageParams:   listutil.PageParams{Page: 1, PerPage: 25},
			FilterParams: listutil.FilterParams{Search: "anna"},
		},
	}, deps)
	if err != nil {
		t.Fatalf("QueryGetFineList failed: %v", err)
	}
	if res.TotalCount != 1 || res.TotalAmount != 10 {
		t.Errorf("totals = %d / %v, want only Anna's fine", res.TotalCount, res.TotalAmount)
	}
}

func TestQueryGetFineList_SortByAmount(t *testing.T) {
	deps, _ := testFineDeps()
	res, err := QueryGetFineList(context.Background(), GetFineListQuery{
		BearerToken: "bearer-abc",
		FiscalYear:  "2025/2026",
		Params: listutil.ListParams{
			PageParams: listutil.PageParams{Page: 1, PerPage: 25},
			SortParams: listutil.SortParams{Sort: "amount", Dir: "desc"},
		},
	}, deps)
	if err != nil {
		t.Fatalf("QueryGetFineList failed: %v", err)
	}
	if res.Fines[0].Amount != 10 || res.Fines[2].Amount != 2.5 {
		t.Errorf("amount sort wrong: %v, %v, %v",
			res.Fines[0].Amount, res.Fines[1].Amount, res.Fines[2].Amount)
	}
}
