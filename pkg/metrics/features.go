package metrics

import "github.com/prometheus/client_golang/prometheus"

var BarsProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fastind_bars_processed_total",
		Help: "number of bars fed into the feature builder",
	}, []string{"symbol"})

var FeatureValuesWritten = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fastind_feature_values_written_total",
		Help: "number of feature values upserted into the feature store",
	}, []string{"symbol"})

var IndicatorErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fastind_indicator_errors_total",
		Help: "number of indicator computations that failed",
	}, []string{"indicator"})

func init() {
	prometheus.MustRegister(BarsProcessed, FeatureValuesWritten, IndicatorErrors)
}
