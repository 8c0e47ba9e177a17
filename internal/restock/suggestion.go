package restock

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cast"
)

// InfiniteSupplyDays is reported as days_of_supply when a product has stock
// but no sales in either window.
const InfiniteSupplyDays = 9999

const (
	DefaultDays       = 30
	DefaultTargetDays = 14
	DefaultSafetyDays = 3
	DefaultMinSold    = 1
	DefaultLimit      = 100
	MaxLimit          = 500
	// MaxHorizonDays bounds days, targetDays and safetyDays.
	MaxHorizonDays = 3650
	// MaxSuggestedQty caps a single reorder quantity.
	MaxSuggestedQty = math.MaxInt32
)

const (
	ReasonOutOfStock = "out of stock"
	ReasonTrending   = "trending upward"
)

type Params struct {
	Days       int
	TargetDays int
	SafetyDays int
	MinSold    int
	Limit      int
	// IncludeOOS also lists out-of-stock products that never sold.
	IncludeOOS bool
}

func DefaultParams() Params {
	return Params{
		Days:       DefaultDays,
		TargetDays: DefaultTargetDays,
		SafetyDays: DefaultSafetyDays,
		MinSold:    DefaultMinSold,
		Limit:      DefaultLimit,
	}
}

// ParseParams reads the query values through get. Missing or unparsable
// numbers keep their defaults; days is kept within 1..MaxHorizonDays,
// targetDays and safetyDays within 0..MaxHorizonDays, a non-positive limit
// falls back to the default and any limit is capped at MaxLimit.
func ParseParams(get func(key string) string) Params {
	p := DefaultParams()
	intParam(get("days"), &p.Days)
	intParam(get("targetDays"), &p.TargetDays)
	intParam(get("safetyDays"), &p.SafetyDays)
	intParam(get("minSold"), &p.MinSold)
	intParam(get("limit"), &p.Limit)
	p.IncludeOOS = get("includeOOS") == "true"
	return p.normalize()
}

func intParam(raw string, dst *int) {
	if raw == "" {
		return
	}
	if v, err := cast.ToIntE(raw); err == nil {
		*dst = v
	}
}

func (p Params) normalize() Params {
	p.Days = clampInt(p.Days, 1, MaxHorizonDays)
	p.TargetDays = clampInt(p.TargetDays, 0, MaxHorizonDays)
	p.SafetyDays = clampInt(p.SafetyDays, 0, MaxHorizonDays)
	if p.MinSold < 0 {
		p.MinSold = 0
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

type Suggestion struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Barcode        *string `json:"barcode"`
	Price          int     `json:"price"`
	Stock          int     `json:"stock"`
	Sold7d         int     `json:"sold_7d"`
	SoldNd         int     `json:"sold_nd"`
	WindowDays     int     `json:"window_days"`
	VelocityPerDay float64 `json:"velocity_per_day"`
	DaysOfSupply   float64 `json:"days_of_supply"`
	LastSoldAt     string  `json:"last_sold_at"`
	SuggestedQty   int     `json:"suggested_qty"`
	Reason         string  `json:"reason"`

	// UnboundedSupply marks DaysOfSupply as the InfiniteSupplyDays sentinel.
	UnboundedSupply bool `json:"-"`
}

type Meta struct {
	Days       int `json:"days"`
	TargetDays int `json:"targetDays"`
	SafetyDays int `json:"safetyDays"`
	MinSold    int `json:"minSold"`
	Limit      int `json:"limit"`
}

type Report struct {
	Suggestions []Suggestion `json:"suggestions"`
	Meta        Meta         `json:"meta"`
}

// Evaluate computes the velocity, supply and reorder quantity of one product
// without any filtering.
func Evaluate(row ProductSales, p Params) Suggestion {
	p = p.normalize()
	avg7d := float64(row.Sold7d) / Days7
	avgNd := float64(row.SoldNd) / float64(max(p.Days, 1))
	isTrending := avg7d > avgNd

	// trend wins: a recent spike is sized on the short window
	velocity := avgNd
	if isTrending {
		velocity = avg7d
	}

	stock := row.Stock
	isOOS := stock <= 0

	var daysOfSupply float64
	unbounded := false
	switch {
	case velocity > 0:
		daysOfSupply = float64(stock) / velocity
	case isOOS:
		daysOfSupply = 0
	default:
		daysOfSupply = InfiniteSupplyDays
		unbounded = true
	}

	need := velocity*float64(p.TargetDays+p.SafetyDays) - float64(stock)
	suggested := int(math.Ceil(math.Min(math.Max(0, need), MaxSuggestedQty)))
	if isOOS && velocity == 0 && p.IncludeOOS {
		suggested = max(suggested, 1)
	}

	reason := ""
	switch {
	case isOOS:
		reason = ReasonOutOfStock
	case velocity > 0 && daysOfSupply < float64(p.TargetDays):
		reason = fmt.Sprintf("only %d days of supply left", int(math.Ceil(daysOfSupply)))
	case isTrending:
		reason = ReasonTrending
	}

	s := Suggestion{
		ID:              row.ID,
		Name:            row.Name,
		Barcode:         row.Barcode,
		Price:           row.Price,
		Stock:           stock,
		Sold7d:          row.Sold7d,
		SoldNd:          row.SoldNd,
		WindowDays:      p.Days,
		VelocityPerDay:  roundTo(velocity, 3),
		LastSoldAt:      row.LastSoldAt,
		SuggestedQty:    suggested,
		Reason:          reason,
		UnboundedSupply: unbounded,
	}
	if unbounded {
		s.DaysOfSupply = InfiniteSupplyDays
	} else {
		s.DaysOfSupply = roundTo(daysOfSupply, 1)
	}
	return s
}

// Suggest evaluates every row, keeps the products worth reordering and
// returns them by descending suggested quantity, at most p.Limit of them.
func Suggest(rows []ProductSales, p Params) Report {
	p = p.normalize()

	out := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		s := Evaluate(row, p)
		if s.SuggestedQty <= 0 {
			continue
		}
		if s.SoldNd >= p.MinSold || (p.IncludeOOS && s.Stock <= 0) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuggestedQty > out[j].SuggestedQty
	})
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}

	return Report{
		Suggestions: out,
		Meta: Meta{
			Days:       p.Days,
			TargetDays: p.TargetDays,
			SafetyDays: p.SafetyDays,
			MinSold:    p.MinSold,
			Limit:      p.Limit,
		},
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
