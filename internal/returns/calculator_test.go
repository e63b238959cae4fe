package returns

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

func series(prices ...float64) models.PriceSeries {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := models.PriceSeries{Symbol: "TEST"}
	for i, p := range prices {
		s.Points = append(s.Points, models.PricePoint{Date: base.AddDate(0, 0, i), Price: p})
	}
	return s
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompute_FirstRowUndefined(t *testing.T) {
	tbl, err := Compute(series(100, 110, 99, 105), 252, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(tbl.Records) != 4 {
		t.Fatalf("want 4 records, got %d", len(tbl.Records))
	}

	first := tbl.Records[0]
	if first.Return.Valid || first.LogReturn.Valid || first.CumReturn.Valid {
		t.Fatal("first row returns should be null")
	}

	defined := 0
	for _, r := range tbl.Records[1:] {
		if r.Return.Valid && r.LogReturn.Valid {
			defined++
		}
	}
	if defined != 3 {
		t.Fatalf("want 3 defined returns, got %d", defined)
	}
	if tbl.Window != 252 {
		t.Fatalf("window should default to annualization, got %d", tbl.Window)
	}
}

func TestCompute_ReturnValues(t *testing.T) {
	tbl, err := Compute(series(100, 110, 99), 252, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := tbl.Records[1].Return.Float64; !near(got, 0.1) {
		t.Fatalf("return[1]: got %v", got)
	}
	if got := tbl.Records[2].Return.Float64; !near(got, -0.1) {
		t.Fatalf("return[2]: got %v", got)
	}
	if got := tbl.Records[1].LogReturn.Float64; !near(got, math.Log(1.1)) {
		t.Fatalf("logreturn[1]: got %v", got)
	}
}

func TestCompute_CumulativeMatchesPriceRatio(t *testing.T) {
	prices := []float64{50, 52.5, 51, 49.75, 55, 60.1, 58}
	tbl, err := Compute(series(prices...), 252, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(prices); i++ {
		want := prices[i] / prices[0]
		if got := tbl.Records[i].CumReturn.Float64; math.Abs(got-want) > 1e-12 {
			t.Fatalf("cum[%d]: got %v want %v", i, got, want)
		}
	}
}

func TestCompute_VolatilityWarmUp(t *testing.T) {
	prices := []float64{100, 101, 99, 102, 104, 103, 105}
	window := 3
	tbl, err := Compute(series(prices...), 252, window)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i, r := range tbl.Records {
		if i < window && r.AnnualVol.Valid {
			t.Fatalf("vol[%d] should be null", i)
		}
		if i >= window && !r.AnnualVol.Valid {
			t.Fatalf("vol[%d] should be defined", i)
		}
	}

	// manual sample std-dev of the three log returns ending at index 3
	l := []float64{math.Log(101.0 / 100), math.Log(99.0 / 101), math.Log(102.0 / 99)}
	mean := (l[0] + l[1] + l[2]) / 3
	var ss float64
	for _, v := range l {
		ss += (v - mean) * (v - mean)
	}
	want := math.Sqrt(ss/2) * math.Sqrt(252)
	if got := tbl.Records[3].AnnualVol.Float64; math.Abs(got-want) > 1e-12 {
		t.Fatalf("vol[3]: got %v want %v", got, want)
	}
}

func TestCompute_ConstantPricesZeroVol(t *testing.T) {
	tbl, err := Compute(series(10, 10, 10, 10, 10, 10), 252, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, r := range tbl.Records[4:] {
		if !r.AnnualVol.Valid || r.AnnualVol.Float64 != 0 {
			t.Fatalf("constant series should have vol exactly 0, got %+v", r.AnnualVol)
		}
	}
}

func TestCompute_ShortSeries(t *testing.T) {
	tbl, err := Compute(series(42), 252, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(tbl.Records) != 1 || tbl.Records[0].Return.Valid || tbl.Records[0].AnnualVol.Valid {
		t.Fatalf("single observation should yield one all-null row: %+v", tbl.Records)
	}

	empty, err := Compute(models.PriceSeries{Symbol: "X"}, 252, 0)
	if err != nil || len(empty.Records) != 0 {
		t.Fatalf("empty series: %+v %v", empty, err)
	}
}

func TestCompute_InvalidWindow(t *testing.T) {
	for _, tc := range []struct{ ann, win int }{{0, 0}, {252, 1}, {-1, 5}} {
		if _, err := Compute(series(1, 2, 3), tc.ann, tc.win); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("ann=%d win=%d: expected ErrInvalidWindow, got %v", tc.ann, tc.win, err)
		}
	}
}
