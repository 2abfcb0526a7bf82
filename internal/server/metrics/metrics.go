// Package metrics exposes Prometheus counters for the mailbox server and the
// HTTP endpoint that serves them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
)

var (
	messagesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophinvoice_messages_total",
		Help: "Mailbox messages by operation.",
	}, []string{"op"})

	offloadedBodies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gophinvoice_offloaded_bodies_total",
		Help: "Message bodies written to object storage.",
	})

	rpcErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophinvoice_rpc_errors_total",
		Help: "Failed RPCs by method and status code.",
	}, []string{"method", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gophinvoice_rpc_duration_seconds",
		Help:    "RPC handling time.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func MessagesSent(n int)         { messagesCounter.WithLabelValues("sent").Add(float64(n)) }
func MessagesListed(n int)       { messagesCounter.WithLabelValues("listed").Add(float64(n)) }
func MessagesAcknowledged(n int) { messagesCounter.WithLabelValues("acknowledged").Add(float64(n)) }
func BodyOffloaded()             { offloadedBodies.Inc() }

// ObserveRPC records the duration of one call and, for failures, its code.
func ObserveRPC(method string, started time.Time, code codes.Code) {
	rpcDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
	if code != codes.OK {
		rpcErrors.WithLabelValues(method, code.String()).Inc()
	}
}

// Serve runs the /metrics endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, l logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	l.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
