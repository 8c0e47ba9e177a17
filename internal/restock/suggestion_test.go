package restock

import (
	"math"
	"testing"
)

func strp(s string) *string { return &s }

func TestEvaluateTrendingProduct(t *testing.T) {
	row := ProductSales{ID: 1, Name: "Cola", Price: 120, Stock: 5, Sold7d: 14, SoldNd: 30}
	p := Params{Days: 30, TargetDays: 14, SafetyDays: 3, MinSold: 1, Limit: 100}

	s := Evaluate(row, p)

	if s.VelocityPerDay != 2.0 {
		t.Fatalf("velocity = %v, want 2.0", s.VelocityPerDay)
	}
	if s.DaysOfSupply != 2.5 {
		t.Fatalf("days_of_supply = %v, want 2.5", s.DaysOfSupply)
	}
	if s.SuggestedQty != 29 {
		t.Fatalf("suggested_qty = %d, want 29", s.SuggestedQty)
	}
	if s.Reason != "only 3 days of supply left" {
		t.Fatalf("reason = %q", s.Reason)
	}
	if s.WindowDays != 30 {
		t.Fatalf("window_days = %d, want 30", s.WindowDays)
	}
}

func TestEvaluateOutOfStockNeverSold(t *testing.T) {
	row := ProductSales{ID: 2, Name: "Onigiri", Stock: 0}
	p := DefaultParams()
	p.IncludeOOS = true

	s := Evaluate(row, p)
	if s.SuggestedQty < 1 {
		t.Fatalf("suggested_qty = %d, want >= 1", s.SuggestedQty)
	}
	if s.Reason != ReasonOutOfStock {
		t.Fatalf("reason = %q, want %q", s.Reason, ReasonOutOfStock)
	}
	if s.DaysOfSupply != 0 || s.UnboundedSupply {
		t.Fatalf("days_of_supply = %v unbounded=%v, want 0", s.DaysOfSupply, s.UnboundedSupply)
	}

	p.IncludeOOS = false
	if got := Evaluate(row, p).SuggestedQty; got != 0 {
		t.Fatalf("without includeOOS suggested_qty = %d, want 0", got)
	}
}

func TestEvaluateUnsoldStockIsUnbounded(t *testing.T) {
	s := Evaluate(ProductSales{ID: 3, Stock: 12}, DefaultParams())

	if !s.UnboundedSupply {
		t.Fatal("expected unbounded supply")
	}
	if s.DaysOfSupply != InfiniteSupplyDays {
		t.Fatalf("days_of_supply = %v, want %d", s.DaysOfSupply, InfiniteSupplyDays)
	}
	if s.SuggestedQty != 0 || s.Reason != "" {
		t.Fatalf("suggested=%d reason=%q, want 0 and empty", s.SuggestedQty, s.Reason)
	}
}

func TestEvaluateSteadyProductUsesLongWindow(t *testing.T) {
	// 7 günde 1, 30 günde 30: trend yok, hız uzun pencereden
	row := ProductSales{ID: 4, Stock: 40, Sold7d: 1, SoldNd: 30}
	s := Evaluate(row, Params{Days: 30, TargetDays: 14, SafetyDays: 3})

	if s.VelocityPerDay != 1.0 {
		t.Fatalf("velocity = %v, want 1.0", s.VelocityPerDay)
	}
	if s.SuggestedQty != 0 {
		t.Fatalf("suggested_qty = %d, want 0", s.SuggestedQty)
	}
	if s.Reason != "" {
		t.Fatalf("reason = %q, want empty", s.Reason)
	}
}

func TestEvaluateTrendingWithEnoughSupply(t *testing.T) {
	row := ProductSales{ID: 5, Stock: 100, Sold7d: 14, SoldNd: 30}
	s := Evaluate(row, Params{Days: 30, TargetDays: 14, SafetyDays: 3})

	if s.Reason != ReasonTrending {
		t.Fatalf("reason = %q, want %q", s.Reason, ReasonTrending)
	}
}

func TestEvaluateQuantityShrinksAsStockGrows(t *testing.T) {
	p := Params{Days: 30, TargetDays: 14, SafetyDays: 3}
	prev := -1
	for stock := 60; stock >= 0; stock -= 5 {
		qty := Evaluate(ProductSales{Stock: stock, Sold7d: 7, SoldNd: 45}, p).SuggestedQty
		if prev >= 0 && qty < prev {
			t.Fatalf("stock %d: qty %d dropped below %d", stock, qty, prev)
		}
		prev = qty
	}
}

func TestEvaluateQuantityGrowsWithHorizon(t *testing.T) {
	rows := []ProductSales{
		{Stock: 5, Sold7d: 14, SoldNd: 30},
		{Stock: 0, Sold7d: 1, SoldNd: 2},
		{Stock: 40, Sold7d: 0, SoldNd: 9},
	}
	horizons := []int{
		-5, 0, 1, 3, 14, 30, 365, MaxHorizonDays, MaxHorizonDays + 1,
		1 << 40, 5e18, math.MaxInt64,
	}

	for _, row := range rows {
		prev := -1
		for _, target := range horizons {
			p := Params{Days: 30, TargetDays: target, SafetyDays: 3}
			qty := Evaluate(row, p).SuggestedQty
			if qty < 0 || qty < prev {
				t.Fatalf("row %+v targetDays %d: qty %d after %d", row, target, qty, prev)
			}
			prev = qty
		}

		prev = -1
		for _, safety := range horizons {
			p := Params{Days: 30, TargetDays: 14, SafetyDays: safety}
			qty := Evaluate(row, p).SuggestedQty
			if qty < 0 || qty < prev {
				t.Fatalf("row %+v safetyDays %d: qty %d after %d", row, safety, qty, prev)
			}
			prev = qty
		}
	}
}

func TestEvaluateExtremeHorizonStaysBounded(t *testing.T) {
	row := ProductSales{Stock: 5, Sold7d: 14, SoldNd: 30}
	p := Params{Days: 30, TargetDays: math.MaxInt64, SafetyDays: math.MaxInt64}

	s := Evaluate(row, p)
	// 2/gün * (3650 + 3650) - 5
	if s.SuggestedQty != 14595 {
		t.Fatalf("suggested_qty = %d, want 14595", s.SuggestedQty)
	}

	report := Suggest([]ProductSales{row}, ParseParams(func(key string) string {
		if key == "targetDays" {
			return "9223372036854775807"
		}
		return ""
	}))
	if len(report.Suggestions) != 1 || report.Suggestions[0].SuggestedQty <= 0 {
		t.Fatalf("huge targetDays dropped the product: %+v", report.Suggestions)
	}
	if report.Meta.TargetDays != MaxHorizonDays {
		t.Fatalf("meta targetDays = %d, want %d", report.Meta.TargetDays, MaxHorizonDays)
	}
}

func TestSuggestFiltersAndSorts(t *testing.T) {
	rows := []ProductSales{
		{ID: 1, Name: "fast", Stock: 2, Sold7d: 14, SoldNd: 60},
		{ID: 2, Name: "slow", Stock: 1, Sold7d: 1, SoldNd: 3},
		{ID: 3, Name: "idle", Stock: 10},
		{ID: 4, Name: "oos", Stock: 0, Barcode: strp("4901")},
		{ID: 5, Name: "full", Stock: 500, Sold7d: 7, SoldNd: 30},
	}
	p := Params{Days: 30, TargetDays: 14, SafetyDays: 3, MinSold: 1, Limit: 100}

	report := Suggest(rows, p)
	var names []string
	for _, s := range report.Suggestions {
		names = append(names, s.Name)
	}
	if len(names) != 2 || names[0] != "fast" || names[1] != "slow" {
		t.Fatalf("suggestions = %v, want [fast slow]", names)
	}

	p.IncludeOOS = true
	report = Suggest(rows, p)
	if len(report.Suggestions) != 3 {
		t.Fatalf("with includeOOS got %d suggestions, want 3", len(report.Suggestions))
	}
	last := report.Suggestions[2]
	if last.Name != "oos" || last.SuggestedQty != 1 {
		t.Fatalf("last = %+v, want oos with qty 1", last)
	}
	for i := 1; i < len(report.Suggestions); i++ {
		if report.Suggestions[i-1].SuggestedQty < report.Suggestions[i].SuggestedQty {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
}

func TestSuggestMinSoldZeroStillSkipsIdleStock(t *testing.T) {
	rows := []ProductSales{
		{ID: 1, Name: "idle", Stock: 10},
		{ID: 2, Name: "slow", Stock: 1, Sold7d: 1, SoldNd: 3},
	}
	p := Params{Days: 30, TargetDays: 14, SafetyDays: 3, MinSold: 0, Limit: 100}

	for _, includeOOS := range []bool{false, true} {
		p.IncludeOOS = includeOOS
		report := Suggest(rows, p)
		if len(report.Suggestions) != 1 || report.Suggestions[0].Name != "slow" {
			t.Fatalf("includeOOS=%v suggestions = %+v, want only slow", includeOOS, report.Suggestions)
		}
	}

	idle := Evaluate(rows[0], p)
	if !idle.UnboundedSupply || idle.SuggestedQty != 0 {
		t.Fatalf("idle = %+v, want unbounded supply and no reorder", idle)
	}
}

func TestSuggestMinSoldThreshold(t *testing.T) {
	rows := []ProductSales{{ID: 1, Stock: 1, Sold7d: 2, SoldNd: 4}}
	p := Params{Days: 30, TargetDays: 14, SafetyDays: 3, MinSold: 5, Limit: 100}

	if got := len(Suggest(rows, p).Suggestions); got != 0 {
		t.Fatalf("got %d suggestions, want 0 below min sold", got)
	}
	p.MinSold = 4
	if got := len(Suggest(rows, p).Suggestions); got != 1 {
		t.Fatalf("got %d suggestions, want 1 at min sold", got)
	}
}

func TestSuggestLimitAndStableOrder(t *testing.T) {
	var rows []ProductSales
	for i := 1; i <= 6; i++ {
		rows = append(rows, ProductSales{ID: uint(i), Stock: 0, Sold7d: 7, SoldNd: 30})
	}
	p := Params{Days: 30, TargetDays: 14, SafetyDays: 3, MinSold: 1, Limit: 4}

	report := Suggest(rows, p)
	if len(report.Suggestions) != 4 {
		t.Fatalf("got %d suggestions, want 4", len(report.Suggestions))
	}
	for i, s := range report.Suggestions {
		if s.ID != uint(i+1) {
			t.Fatalf("position %d has id %d, equal quantities must keep input order", i, s.ID)
		}
	}
	if report.Meta.Limit != 4 || report.Meta.Days != 30 {
		t.Fatalf("meta = %+v", report.Meta)
	}
}

func TestParseParams(t *testing.T) {
	cases := []struct {
		name  string
		query map[string]string
		want  Params
	}{
		{
			name:  "defaults",
			query: map[string]string{},
			want:  DefaultParams(),
		},
		{
			name:  "explicit",
			query: map[string]string{"days": "14", "targetDays": "7", "safetyDays": "1", "minSold": "2", "limit": "20", "includeOOS": "true"},
			want:  Params{Days: 14, TargetDays: 7, SafetyDays: 1, MinSold: 2, Limit: 20, IncludeOOS: true},
		},
		{
			name:  "days floor and limit fallback",
			query: map[string]string{"days": "0", "limit": "0"},
			want:  Params{Days: 1, TargetDays: DefaultTargetDays, SafetyDays: DefaultSafetyDays, MinSold: DefaultMinSold, Limit: DefaultLimit},
		},
		{
			name:  "limit cap",
			query: map[string]string{"limit": "9000"},
			want:  Params{Days: DefaultDays, TargetDays: DefaultTargetDays, SafetyDays: DefaultSafetyDays, MinSold: DefaultMinSold, Limit: MaxLimit},
		},
		{
			name:  "horizons bounded",
			query: map[string]string{"days": "99999999", "targetDays": "-4", "safetyDays": "9223372036854775807"},
			want:  Params{Days: MaxHorizonDays, TargetDays: 0, SafetyDays: MaxHorizonDays, MinSold: DefaultMinSold, Limit: DefaultLimit},
		},
		{
			name:  "garbage keeps defaults",
			query: map[string]string{"days": "abc", "includeOOS": "1"},
			want:  DefaultParams(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseParams(func(key string) string { return tc.query[key] })
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
