package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Purchase metrics
	PurchaseOutcomes      *prometheus.CounterVec
	PurchasedItemsCounter prometheus.Counter
	DedupRejections       prometheus.Counter

	// Restock metrics
	SuggestionDuration prometheus.Histogram
	RestockImportItems prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Inventory metrics
	ProductStockGauge *prometheus.GaugeVec
)

// InitMetrics registers every collector once under the given prefix. Until it
// runs the Record* helpers are no-ops, which keeps tests free of the global
// registry.
func InitMetrics(prefix string) {
	once.Do(func() {
		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		PurchaseOutcomes = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_purchase_requests_total",
				Help: "Purchase confirmations by outcome",
			},
			[]string{"outcome"},
		)

		PurchasedItemsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_purchased_items_total",
				Help: "Purchase rows committed",
			},
		)

		DedupRejections = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_dedup_rejections_total",
				Help: "Purchase confirmations rejected as rapid duplicates",
			},
		)

		SuggestionDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_restock_suggestion_duration_seconds",
				Help:    "Time spent computing restock suggestions",
				Buckets: prometheus.DefBuckets,
			},
		)

		RestockImportItems = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_restock_import_items_total",
				Help: "Restock line items imported",
			},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		ProductStockGauge = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_stock",
				Help: "Current stock level per product",
			},
			[]string{"product_id", "product_name"},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

func RecordHTTPRequest(method, path, status string, d time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// RecordPurchase counts one confirmation outcome; items is only added on "committed".
func RecordPurchase(outcome string, items int) {
	if PurchaseOutcomes == nil {
		return
	}
	PurchaseOutcomes.WithLabelValues(outcome).Inc()
	if outcome == "committed" {
		PurchasedItemsCounter.Add(float64(items))
	}
	if outcome == "duplicate" {
		DedupRejections.Inc()
	}
}

func ObserveSuggestion(d time.Duration) {
	if SuggestionDuration == nil {
		return
	}
	SuggestionDuration.Observe(d.Seconds())
}

func RecordRestockImport(items int) {
	if RestockImportItems == nil {
		return
	}
	RestockImportItems.Add(float64(items))
}

func UpdateProductStock(productID, productName string, stock int) {
	if ProductStockGauge == nil {
		return
	}
	ProductStockGauge.WithLabelValues(productID, productName).Set(float64(stock))
}

// ResetProductStock drops every stock series so deleted products disappear
// on the next refresh.
func ResetProductStock() {
	if ProductStockGauge == nil {
		return
	}
	ProductStockGauge.Reset()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
