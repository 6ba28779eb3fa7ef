// Package metrics holds the Prometheus collectors shared by the listing
// handlers, the DynamoDB store and the accumulation loop.
//
//   - catalog_requests_total{route,status}: responses by route and status code
//   - catalog_store_queries_total{collection,result}: DynamoDB queries issued
//   - catalog_pages_fetched_total{source}: pages pulled by the accumulation loop
//   - catalog_items_accumulated{source}: size of each fully accumulated result set
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Listing responses by route and status code",
	}, []string{"route", "status"})

	storeQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_store_queries_total",
		Help: "Store queries by collection and result",
	}, []string{"collection", "result"})

	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_pages_fetched_total",
		Help: "Pages fetched while accumulating a full result set",
	}, []string{"source"})

	itemsAccumulated = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_items_accumulated",
		Help:    "Items held in memory per accumulated result set",
		Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
	}, []string{"source"})
)

func ObserveRequest(route string, statusCode int) {
	requestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

func ObserveQuery(collection string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeQueriesTotal.WithLabelValues(collection, result).Inc()
}

func ObservePage(source string) {
	pagesFetchedTotal.WithLabelValues(source).Inc()
}

func ObserveAccumulated(source string, count int) {
	itemsAccumulated.WithLabelValues(source).Observe(float64(count))
}
