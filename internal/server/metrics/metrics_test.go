package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(messagesCounter.WithLabelValues("sent"))
	MessagesSent(2)
	require.Equal(t, before+2, testutil.ToFloat64(messagesCounter.WithLabelValues("sent")))

	before = testutil.ToFloat64(messagesCounter.WithLabelValues("acknowledged"))
	MessagesAcknowledged(3)
	require.Equal(t, before+3, testutil.ToFloat64(messagesCounter.WithLabelValues("acknowledged")))

	before = testutil.ToFloat64(offloadedBodies)
	BodyOffloaded()
	require.Equal(t, before+1, testutil.ToFloat64(offloadedBodies))
}

func TestObserveRPC_CountsOnlyFailures(t *testing.T) {
	ok := rpcErrors.WithLabelValues("/svc/Test", codes.OK.String())
	failed := rpcErrors.WithLabelValues("/svc/Test", codes.NotFound.String())
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveRPC("/svc/Test", time.Now(), codes.OK)
	ObserveRPC("/svc/Test", time.Now(), codes.NotFound)

	require.Equal(t, okBefore, testutil.ToFloat64(ok))
	require.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe_ExposesMetricsAndStops(t *testing.T) {
	MessagesListed(1)
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, logging.NewConsole(io.Discard, "error")) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	require.Contains(t, body, "gophinvoice_messages_total")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
