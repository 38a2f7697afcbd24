package metrics

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "posadmin_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	reportFetchTotal   *prometheus.CounterVec
	reportFetchLatency *prometheus.HistogramVec

	reportEditTotal      *prometheus.CounterVec
	reportEditRejections *prometheus.CounterVec

	reportSaveTotal   *prometheus.CounterVec
	reportSaveLatency *prometheus.HistogramVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	catalogRequests *prometheus.CounterVec

	noticeClients prometheus.Gauge
)

// Init registers observability metrics.
func Init(logger *log.Logger) {
	registerOnce.Do(func() {
		reportFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_fetch_total",
				Help: "Total report fetch operations by result",
			},
			[]string{"result"},
		)
		reportFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_fetch_latency_seconds",
				Help:    "Report fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportEditTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_edit_total",
				Help: "Total ledger cell edits by result",
			},
			[]string{"result"},
		)
		reportEditRejections = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_edit_rejections_total",
				Help: "Total rejected ledger cell edits by reason",
			},
			[]string{"reason"},
		)

		reportSaveTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_save_total",
				Help: "Total report save operations by result",
			},
			[]string{"result"},
		)
		reportSaveLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_save_latency_seconds",
				Help:    "Report save latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report export operations by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		catalogRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "catalog_requests_total",
				Help: "Total catalog pass-through requests by entity and result",
			},
			[]string{"entity", "result"},
		)

		noticeClients = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "notice_stream_clients",
				Help: "Connected SSE notice stream clients",
			},
		)

		collectors := []prometheus.Collector{
			reportFetchTotal, reportFetchLatency,
			reportEditTotal, reportEditRejections,
			reportSaveTotal, reportSaveLatency,
			reportExportTotal, reportExportLatency,
			catalogRequests, noticeClients,
		}
		for _, collector := range collectors {
			if err := prometheus.Register(collector); err != nil {
				if logger != nil {
					logger.Printf("metrics register error: %v", err)
				}
			}
		}
	})
}

// ObserveReportFetch records one fetch operation.
func ObserveReportFetch(result string, d time.Duration) {
	if reportFetchTotal == nil {
		return
	}
	reportFetchTotal.WithLabelValues(result).Inc()
	reportFetchLatency.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveReportEdit records one edit attempt.
func ObserveReportEdit(result string) {
	if reportEditTotal == nil {
		return
	}
	reportEditTotal.WithLabelValues(result).Inc()
}

// ObserveEditRejection records a rejected edit by reason.
func ObserveEditRejection(reason string) {
	if reportEditRejections == nil {
		return
	}
	reportEditRejections.WithLabelValues(reason).Inc()
}

// ObserveReportSave records one save operation.
func ObserveReportSave(result string, d time.Duration) {
	if reportSaveTotal == nil {
		return
	}
	reportSaveTotal.WithLabelValues(result).Inc()
	reportSaveLatency.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveReportExport records one export operation.
func ObserveReportExport(format, result string, d time.Duration) {
	if reportExportTotal == nil {
		return
	}
	reportExportTotal.WithLabelValues(format, result).Inc()
	reportExportLatency.WithLabelValues(format, result).Observe(d.Seconds())
}

// ObserveCatalogRequest records one catalog pass-through call.
func ObserveCatalogRequest(entity, result string) {
	if catalogRequests == nil {
		return
	}
	catalogRequests.WithLabelValues(entity, result).Inc()
}

// NoticeClientConnected tracks an SSE client connect.
func NoticeClientConnected() {
	if noticeClients != nil {
		noticeClients.Inc()
	}
}

// NoticeClientDisconnected tracks an SSE client disconnect.
func NoticeClientDisconnected() {
	if noticeClients != nil {
		noticeClients.Dec()
	}
}
