package tunectl

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Batch jobs are gone before a scraper ever sees them, so stage metrics go
// out through a Pushgateway instead of a /metrics endpoint. With no
// TUNECTL_PUSHGATEWAY set this is a no-op.
func pushStageMetrics(stage string, dur time.Duration, ok bool) {
	gw := envStr("TUNECTL_PUSHGATEWAY", "")
	if gw == "" {
		return
	}

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tunectl",
		Subsystem: "stage",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of the last run of this stage",
	})
	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tunectl",
		Subsystem: "stage",
		Name:      "success",
		Help:      "1 if the last run of this stage exited zero",
	})
	duration.Set(dur.Seconds())
	if ok {
		success.Set(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(duration, success)
	if err := push.New(gw, "tunectl").Grouping("stage", stage).Gatherer(reg).Push(); err != nil {
		// metrics are best-effort; never fail a run over them
		log.Warn().Err(err).Str("gateway", gw).Msg("metrics push failed")
	}
}

// timedStage wraps a stage function with duration logging and the optional
// metrics push.
func timedStage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	dur := time.Since(start)
	pushStageMetrics(stage, dur, err == nil)
	if err != nil {
		log.Error().Err(err).Str("stage", stage).Dur("took", dur).Msg("stage failed")
		return err
	}
	log.Info().Str("stage", stage).Dur("took", dur).Msg("stage done")
	return nil
}
