package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording catalog metrics", func() {
			Convey("Then it should record loads by source", func() {
				So(func() {
					RecordCatalogLoad("snapshot")
					RecordCatalogLoad("live")
					RecordCatalogLoad("snapshot")
				}, ShouldNotPanic)
			})

			Convey("And it should record load durations", func() {
				So(func() {
					RecordCatalogLoadDuration("snapshot", 12.5)
					RecordCatalogLoadDuration("live", 480.0)
				}, ShouldNotPanic)
			})

			Convey("And it should update catalog gauges", func() {
				So(func() {
					UpdateCatalogRows("snapshot", 9200)
					UpdateCatalogRows("live", 10480)
					UpdateCatalogRegions("snapshot", 61)
				}, ShouldNotPanic)
			})

			Convey("And it should count dropped rows by reason", func() {
				So(func() {
					RecordRowsDropped("bad_time", 3)
					RecordRowsDropped("duplicate_id", 1)
				}, ShouldNotPanic)
			})

			Convey("And it should ignore non-positive drop counts", func() {
				So(func() {
					RecordRowsDropped("bad_time", 0)
					RecordRowsDropped("bad_time", -5)
				}, ShouldNotPanic)
			})

			Convey("And it should count feed fallbacks", func() {
				So(func() {
					RecordFeedFallback()
					RecordFeedFallback()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording pipeline metrics", func() {
			Convey("Then it should record runs and durations", func() {
				So(func() {
					RecordPipelineRun()
					RecordPipelineDuration(2.5)
					RecordPipelineRun()
					RecordPipelineDuration(4.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record filtered subset sizes", func() {
				So(func() {
					RecordPipelineRowsKept(0)
					RecordPipelineRowsKept(42)
					RecordPipelineRowsKept(9200)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/v1/dashboard", "POST", "200")
					RecordHTTPRequest("/v1/meta", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/v1/dashboard", "POST", "200", 10.0)
					RecordHTTPRequestDuration("/v1/quakes", "POST", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record errors by component", func() {
				So(func() {
					RecordErrorByComponent("feed", "timeout")
					RecordErrorByComponent("snapshot", "not_found")
					RecordErrorByComponent("api", "bad_request")
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by type", func() {
				So(func() {
					RecordErrorByType("timeout", "warning")
					RecordErrorByType("parse_error", "warning")
					RecordErrorByType("internal", "error")
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by endpoint", func() {
				So(func() {
					RecordErrorByEndpoint("/v1/dashboard", "POST", "bad_request")
					RecordErrorByEndpoint("/v1/meta", "GET", "unknown_source")
				}, ShouldNotPanic)
			})

			Convey("And it should record error latency", func() {
				So(func() {
					RecordErrorLatency("feed", "timeout", 100.0)
					RecordErrorLatency("api", "bad_request", 2.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024 * 100)
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(1.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When recording metrics with edge values", func() {
			Convey("And using zero values", func() {
				So(func() {
					UpdateCatalogRows("snapshot", 0)
					RecordPipelineRowsKept(0)
					RecordPipelineDuration(0.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
				}, ShouldNotPanic)
			})

			Convey("And using very large values", func() {
				So(func() {
					UpdateCatalogRows("live", 1000000)
					RecordPipelineRowsKept(1000000)
					RecordPipelineDuration(10000.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 30000.0)
				}, ShouldNotPanic)
			})

			Convey("And using empty strings", func() {
				So(func() {
					RecordHTTPRequest("", "", "200")
					RecordHTTPRequestDuration("", "", "200", 10.0)
					RecordErrorByComponent("", "")
					RecordErrorByType("", "")
					RecordErrorByEndpoint("", "", "")
					RecordErrorLatency("", "", 10.0)
				}, ShouldNotPanic)
			})

			Convey("And using special characters in labels", func() {
				So(func() {
					RecordHTTPRequest("/v1/meta?source=live", "GET", "200")
					RecordErrorByComponent("component-with-dash", "error_with_underscore")
					RecordErrorByType("error.with.dots", "error")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			// Start multiple goroutines recording metrics
			for i := 0; i < 10; i++ {
				go func(id int) {
					for j := 0; j < 100; j++ {
						RecordPipelineRun()
						UpdateCatalogRows("snapshot", 1000+j)
						RecordPipelineDuration(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}(i)
			}

			// Wait for all goroutines to complete
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given metrics options validation", t, func() {
		Convey("When creating with empty namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil custom labels", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithCustomLabels(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with zero refresh interval", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRefreshInterval(0), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with negative refresh interval", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRefreshInterval(-1*time.Second), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsExposition(t *testing.T) {
	Convey("Given managers with private registries", t, func() {
		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))

			Convey("Then recording on its instruments should not panic", func() {
				So(func() {
					manager.pipelineRuns.Inc()
					manager.feedFallbacks.Inc()
					manager.pipelineLastRows.Set(42)
				}, ShouldNotPanic)
			})

			Convey("And the registry should expose nothing", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})

		Convey("When a metric prefix is set", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithMetricPrefix("qs_"), WithPrometheusRegistry(registry))

			families, err := registry.Gather()

			Convey("Then every exposed name should carry the prefix", func() {
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, mf := range families {
					So(mf.GetName(), ShouldStartWith, "quakescope_dashboard_qs_")
				}
			})
		})

		Convey("When custom labels are set", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithCustomLabels(map[string]string{"env": "test"}), WithPrometheusRegistry(registry))

			families, err := registry.Gather()

			Convey("Then every exposed metric should carry them", func() {
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, mf := range families {
					for _, metric := range mf.GetMetric() {
						labels := make(map[string]string)
						for _, pair := range metric.GetLabel() {
							labels[pair.GetName()] = pair.GetValue()
						}
						So(labels["env"], ShouldEqual, "test")
					}
				}
			})
		})
	})
}

func TestMetricsRefreshInterval(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When asking for the refresh cadence", func() {
			Convey("Then it should report the default", func() {
				So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}
