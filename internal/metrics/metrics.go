package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts game activity. It is an engine.Observer and never fails.
type Collector struct {
	registry *prometheus.Registry

	GamesStarted      prometheus.Counter
	CommandsAttempted *prometheus.CounterVec
	GamesEnded        *prometheus.CounterVec
	TurnsPerGame      prometheus.Histogram
}

var _ engine.Observer = (*Collector)(nil)

// NewCollector registers the game metrics on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: MetricNameGamesStarted,
			Help: HelpTextGamesStarted,
		}),
		CommandsAttempted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNameCommandsAttempted,
			Help: HelpTextCommandsAttempted,
		}, []string{LabelClaimed}),
		GamesEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNameGamesEnded,
			Help: HelpTextGamesEnded,
		}, []string{LabelOutcome}),
		TurnsPerGame: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricNameTurnsPerGame,
			Help:    HelpTextTurnsPerGame,
			Buckets: TurnBuckets,
		}),
	}
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) GameStarted(context.Context, uuid.UUID) error {
	c.GamesStarted.Inc()
	return nil
}

func (c *Collector) CommandAttempted(_ context.Context, _ uuid.UUID, _ string, claimed bool, _ int) error {
	c.CommandsAttempted.WithLabelValues(strconv.FormatBool(claimed)).Inc()
	return nil
}

func (c *Collector) GameEnded(_ context.Context, _ uuid.UUID, outcome engine.Outcome, turns int) error {
	c.GamesEnded.WithLabelValues(outcome.String()).Inc()
	c.TurnsPerGame.Observe(float64(turns))
	return nil
}
