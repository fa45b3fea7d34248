package reports

import (
	"sort"
	"testing"
)

// Every report the warehouse ships with.
var builtinReports = []string{
	"german_store_types",
	"monthly_sales",
	"online_sales_split",
	"peak_month_by_year",
	"sales_by_store_type",
	"sales_velocity",
	"staff_by_country",
	"stores_by_country",
	"top_localities",
}

func TestBuiltinReportsRegistered(t *testing.T) {
	for _, name := range builtinReports {
		rep, err := Get(name)
		if err != nil {
			t.Errorf("Get(%q): %v", name, err)
			continue
		}
		if rep.Name() != name {
			t.Errorf("Get(%q).Name() = %q", name, rep.Name())
		}
		if rep.Description() == "" {
			t.Errorf("report %q has no description", name)
		}
	}
}

func TestGetUnknownReport(t *testing.T) {
	if _, err := Get("nonexistent"); err == nil {
		t.Error("expected error for unknown report, got nil")
	}
}

func TestListSortedAndContainsBuiltins(t *testing.T) {
	// Other tests register throwaway reports into the shared registry,
	// so assert the builtins appear in order rather than an exact set.
	names := List()

	if !sort.StringsAreSorted(names) {
		t.Errorf("List() not sorted: %v", names)
	}

	i := 0
	for _, name := range names {
		if i < len(builtinReports) && name == builtinReports[i] {
			i++
		}
	}
	if i != len(builtinReports) {
		t.Errorf("List() = %v, missing builtin %q", names, builtinReports[i])
	}
}

func TestAllMatchesList(t *testing.T) {
	names := List()
	all := All()

	if len(all) != len(names) {
		t.Fatalf("All() returned %d reports, List() %d", len(all), len(names))
	}
	for i, rep := range all {
		if rep.Name() != names[i] {
			t.Errorf("All()[%d].Name() = %q, want %q", i, rep.Name(), names[i])
		}
	}
}

func TestRegisterOverwrites(t *testing.T) {
	// Registering under an existing name replaces the report; restore the
	// original afterwards so other tests see the builtin.
	orig, err := Get("stores_by_country")
	if err != nil {
		t.Fatal(err)
	}
	defer Register(orig)

	Register(stubReport{name: "stores_by_country"})

	rep, err := Get("stores_by_country")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rep.(stubReport); !ok {
		t.Errorf("Get returned %T, want the replacement stub", rep)
	}
}
