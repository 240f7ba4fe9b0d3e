package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var labels = []string{"device", "variable"}

// Metrics 服务指标，使用独立的 Registry 注册
type Metrics struct {
	registry *prometheus.Registry

	SensorValue   *prometheus.GaugeVec
	Evaluations   *prometheus.CounterVec
	PollFailures  *prometheus.CounterVec
	PollDuration  prometheus.Histogram
	ChatQuestions *prometheus.CounterVec
	Viewers       prometheus.Gauge
}

// New 创建并注册指标
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SensorValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pengawas_sensor_value",
			Help: "Latest sensor value polled from Ubidots",
		}, labels),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pengawas_evaluations_total",
			Help: "Threshold evaluations by variable and category",
		}, []string{"variable", "category"}),
		PollFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pengawas_poll_failures_total",
			Help: "Failed variable fetches",
		}, labels),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pengawas_poll_duration_seconds",
			Help:    "Duration of a full polling cycle",
			Buckets: prometheus.DefBuckets,
		}),
		ChatQuestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pengawas_chat_questions_total",
			Help: "Chat questions by routed topic",
		}, []string{"topic"}),
		Viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pengawas_viewers",
			Help: "Connected websocket viewers",
		}),
	}

	m.registry.MustRegister(
		m.SensorValue,
		m.Evaluations,
		m.PollFailures,
		m.PollDuration,
		m.ChatQuestions,
		m.Viewers,
	)
	return m
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
