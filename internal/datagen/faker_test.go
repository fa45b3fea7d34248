package datagen

import (
	"regexp"
	"testing"
	"time"
)

func TestFakerReproducibility(t *testing.T) {
	a := NewFakerWithSeed(42)
	b := NewFakerWithSeed(42)

	for i := 0; i < 20; i++ {
		if got, want := a.StoreCode("Berlin"), b.StoreCode("Berlin"); got != want {
			t.Fatalf("iteration %d: same seed produced %q and %q", i, got, want)
		}
		if got, want := a.Int(1, 1000), b.Int(1, 1000); got != want {
			t.Fatalf("iteration %d: same seed produced %d and %d", i, got, want)
		}
	}
}

func TestStoreCodeShape(t *testing.T) {
	f := NewFakerWithSeed(7)
	re := regexp.MustCompile(`^[A-Z]{2}-[0-9]{7}[A-Z]$`)

	for i := 0; i < 50; i++ {
		code := f.StoreCode("Hamburg")
		if !re.MatchString(code) {
			t.Errorf("store code %q does not match LL-NNNNNNNL", code)
		}
		if code[:2] != "HA" {
			t.Errorf("store code %q does not carry the locality prefix", code)
		}
	}

	// Short localities fall back to the ST prefix.
	if code := f.StoreCode("X"); code[:2] != "ST" {
		t.Errorf("store code %q for short locality, want ST prefix", code)
	}
}

func TestProductCodeShape(t *testing.T) {
	f := NewFakerWithSeed(7)
	re := regexp.MustCompile(`^[A-Z][0-9]-[0-9]{7}[A-Za-z]$`)

	for i := 0; i < 50; i++ {
		if code := f.ProductCode(); !re.MatchString(code) {
			t.Errorf("product code %q does not match LN-NNNNNNNl", code)
		}
	}
}

func TestEAN(t *testing.T) {
	f := NewFakerWithSeed(7)
	re := regexp.MustCompile(`^[0-9]{13}$`)

	for i := 0; i < 20; i++ {
		if ean := f.EAN(); !re.MatchString(ean) {
			t.Errorf("EAN %q is not 13 digits", ean)
		}
	}
}

func TestDateRange(t *testing.T) {
	f := NewFakerWithSeed(7)
	start := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC)

	for i := 0; i < 50; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("date %v outside [%v, %v]", d, start, end)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(7)
	items := []string{"a", "b", "c"}
	valid := map[string]bool{"a": true, "b": true, "c": true}

	for i := 0; i < 50; i++ {
		if got := Choose(f, items); !valid[got] {
			t.Errorf("Choose returned %q, not in the input", got)
		}
	}

	if got := Choose(f, []string{}); got != "" {
		t.Errorf("Choose on empty slice = %q, want zero value", got)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(7)
	items := []string{"common", "rare"}
	weights := []int{99, 1}

	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}

	if counts["common"] < counts["rare"] {
		t.Errorf("weights ignored: common=%d rare=%d", counts["common"], counts["rare"])
	}
	if counts["common"]+counts["rare"] != 1000 {
		t.Errorf("ChooseWeighted produced values outside the input: %v", counts)
	}

	if got := ChooseWeighted(f, []string{}, []int{}); got != "" {
		t.Errorf("ChooseWeighted on empty input = %q, want zero value", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Errorf("Truncate = %q, want %q", got, "abcd")
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Errorf("Truncate = %q, want %q", got, "abc")
	}
}
