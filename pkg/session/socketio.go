package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/optmodeler/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketSubmitter streams programs to an engine over socket.io. The engine
// is expected to accept a "submit" event, stream "log" events while it
// works, and finish with a single "result" event carrying the response.
type SocketSubmitter struct {
	// URL is the engine endpoint, including the socket.io path.
	URL string
	// Namespace is the socket.io namespace to join.
	Namespace string
	// Timeout bounds the whole submission. Zero means 10 minutes.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
}

// opResult is a private struct to safely pass results through the done
// channel.
type opResult struct {
	value *Response
	err   error
}

// Submit connects, emits the program, streams engine log lines to the
// context logger, and blocks for the result event.
func (s *SocketSubmitter) Submit(ctx context.Context, p Program) (*Response, error) {
	logger := ctxlog.FromContext(ctx).With("submitter", "socketio", "url", s.URL, "program", p.Name)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	var isConnected atomic.Bool

	timeout := s.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)

	if s.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	payload := map[string]any{
		"name":   p.Name,
		"format": string(p.Format),
		"text":   p.Text,
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", s.Namespace, "sid", io.Id())
		io.Emit("submit", payload)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	io.On(types.EventName("log"), func(data ...any) {
		for _, line := range data {
			if text, ok := line.(string); ok {
				logger.Info("engine", "line", text)
			}
		}
	})

	io.On(types.EventName("error"), func(data ...any) {
		msg := "engine reported an error"
		if len(data) > 0 {
			msg = fmt.Sprintf("engine reported an error: %v", data[0])
		}
		done <- opResult{err: fmt.Errorf("%s", msg)}
	})

	io.On(types.EventName("result"), func(data ...any) {
		if len(data) == 0 {
			done <- opResult{err: fmt.Errorf("result event carried no payload")}
			return
		}
		resp, err := decodeResult(data[0])
		done <- opResult{value: resp, err: err}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for result of program '%s'", p.Name)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// decodeResult converts the loosely typed event payload into a Response by
// round-tripping through JSON.
func decodeResult(data any) (*Response, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode result payload: %w", err)
	}
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode result payload: %w", err)
	}
	return &out, nil
}
