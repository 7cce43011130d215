// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics 定義 qshuffle 的 Prometheus 指標。
package metrics

import (
	"net/http"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer 為單一指標的觀測點，labels 依建立時的 label 名稱順序傳入。
type Observer interface {
	Observe(val float64, labels ...string)

	prometheus.Collector
}

type Metrics struct {
	// ShuffleCount 依結果 kind（ok / invalid_input / …）計數。
	ShuffleCount Observer
	// ShuffleLatency 為 Service.Shuffle 的耗時（秒），依 qubit 數分組。
	ShuffleLatency Observer
	// Shots 為每次 shuffle 的模擬次數。
	Shots Observer
	// DiscardRatio 為 stateInt >= N 被丟棄的 shot 比例。
	DiscardRatio Observer
	// InFlight 為正在執行的 shuffle 數。
	InFlight Observer
	// HTTPRequests 依 method、route、status 計數。
	HTTPRequests Observer
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ShuffleCount,
		m.ShuffleLatency,
		m.Shots,
		m.DiscardRatio,
		m.InFlight,
		m.HTTPRequests,
	}
}

// New 建立一組尚未註冊的指標。
func New() *Metrics {
	return &Metrics{
		ShuffleCount: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "qshuffle",
					Subsystem: "shuffle",
					Name:      "total",
					Help:      "Number of shuffle calls by result kind.",
				},
				[]string{"kind"},
			),
		),
		ShuffleLatency: NewPromObserverVec(
			prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
					Namespace: "qshuffle",
					Subsystem: "shuffle",
					Name:      "latency_seconds",
					Help:      "How long a shuffle takes end to end in seconds.",
				},
				[]string{"qubits"},
			),
		),
		Shots: NewPromHistogram(
			prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Buckets:   prometheus.ExponentialBuckets(100, 10, 4),
					Namespace: "qshuffle",
					Subsystem: "shuffle",
					Name:      "shots",
					Help:      "Number of simulated shots per shuffle.",
				},
			),
		),
		DiscardRatio: NewPromHistogram(
			prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Buckets:   prometheus.LinearBuckets(0, 0.1, 10),
					Namespace: "qshuffle",
					Subsystem: "shuffle",
					Name:      "discard_ratio",
					Help:      "Fraction of shots whose state index was outside the item range.",
				},
			),
		),
		InFlight: NewPromGauge(
			prometheus.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "qshuffle",
					Subsystem: "shuffle",
					Name:      "in_flight",
					Help:      "Number of shuffles currently running.",
				},
			),
		),
		HTTPRequests: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "qshuffle",
					Subsystem: "http",
					Name:      "requests_total",
					Help:      "Number of HTTP requests by method, route and status.",
				},
				[]string{"method", "route", "status"},
			),
		),
	}
}

// Registry 建立新的 registry 並註冊 m 與精簡後的 Go runtime collector。
func (m *Metrics) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorMemStatsMetricsDisabled(),
		collectors.WithGoCollectorRuntimeMetrics(
			collectors.GoRuntimeMetricsRule{
				Matcher: regexp.MustCompile(`^(/gc/heap/allocs:bytes|/gc/heap/goal:bytes|/memory/classes/total:bytes|/sched/gomaxprocs:threads|/sched/goroutines:goroutines|/sched/latencies:seconds)$`),
			},
		),
	))
	reg.MustRegister(m.Collectors()...)
	return reg
}

// Handler 回傳 reg 的 /metrics handler。
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
