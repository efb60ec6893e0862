package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 服务指标集合
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	UpstreamDuration  *prometheus.HistogramVec
	InFlightRejected  *prometheus.CounterVec
	AbsentSynthesized prometheus.Counter
}

// New 创建并注册指标；reg 为 nil 时使用独立注册表（测试）
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "punchdesk",
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "punchdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "punchdesk",
			Name:      "upstream_request_duration_seconds",
			Help:      "外部考勤服务调用耗时",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "outcome"}),
		InFlightRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "punchdesk",
			Name:      "inflight_rejected_total",
			Help:      "因操作进行中被拒绝的重复提交次数",
		}, []string{"action"}),
		AbsentSynthesized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "punchdesk",
			Name:      "report_absent_rows_total",
			Help:      "报表中合成的缺勤行数",
		}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.UpstreamDuration, m.InFlightRejected, m.AbsentSynthesized)
	return m
}
