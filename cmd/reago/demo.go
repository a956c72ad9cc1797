package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	rerr "github.com/reago-dev/reago/internal/errors"
	"github.com/reago-dev/reago/pkg/instrument"
	"github.com/reago-dev/reago/pkg/reactive"
)

func demoCmd() *cobra.Command {
	var (
		addr     string
		counters int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the live-state demo server",
		Long: `Serve a small web app backed by a reactive record. Writes through
the HTTP API re-run a broadcasting effect, which pushes the new state
to every connected WebSocket client. Prometheus metrics for the engine
are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(addr) == "" {
				return rerr.New("C002").WithDetail("--addr must not be empty")
			}
			if counters <= 0 {
				return rerr.New("C002").WithDetail("--counters must be > 0")
			}
			return runDemo(addr, counters)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&counters, "counters", 4, "number of counters in the demo state")

	return cmd
}

// demoServer owns one Runtime. The Runtime is confined to the loop
// goroutine; HTTP handlers never touch it directly and instead submit
// closures over cmds.
type demoServer struct {
	rt    *reactive.Runtime
	state *reactive.ObjectView
	total *reactive.Computed[int]

	cmds chan func()

	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

func newDemoServer(counters int) *demoServer {
	s := &demoServer{
		rt:      reactive.NewRuntime(),
		cmds:    make(chan func(), 64),
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Demo only; no origin policy
			},
		},
	}

	raw := make(map[string]any, counters)
	for i := 0; i < counters; i++ {
		raw[fmt.Sprintf("counter%d", i)] = 0
	}
	s.state = s.rt.Reactive(raw).(*reactive.ObjectView)

	s.total = reactive.NewComputed(s.rt, func() int {
		sum := 0
		for _, k := range s.state.Keys() {
			if n, ok := s.state.Get(k).(int); ok {
				sum += n
			}
		}
		return sum
	})

	// The broadcaster re-runs on any state change and pushes the fresh
	// snapshot to every WebSocket client.
	reactive.NewEffect(s.rt, func() any {
		s.broadcast(s.snapshotLocked())
		return nil
	})

	return s
}

// loop is the only goroutine that touches the Runtime.
func (s *demoServer) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-s.cmds:
			fn()
		}
	}
}

// do submits fn to the runtime goroutine and waits for it to finish.
func (s *demoServer) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.cmds <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// snapshotLocked reads the state and must only run on the loop
// goroutine (or during construction, before the loop starts).
func (s *demoServer) snapshotLocked() map[string]any {
	out := make(map[string]any)
	for _, k := range s.state.Keys() {
		out[k.(string)] = s.state.Get(k)
	}
	out["total"] = s.total.Get()
	return out
}

func (s *demoServer) handleGetState(w http.ResponseWriter, r *http.Request) {
	var snap map[string]any
	if err := s.do(r.Context(), func() { snap = s.snapshotLocked() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *demoServer) handleSetState(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var body struct {
		Value int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	var known bool
	err := s.do(r.Context(), func() {
		known = s.state.Has(key)
		if known {
			s.state.Set(key, body.Value)
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if !known {
		http.Error(w, fmt.Sprintf("unknown counter %q", key), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *demoServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// Send the current state so a fresh client has something to show.
	var snap map[string]any
	if err := s.do(r.Context(), func() { snap = s.snapshotLocked() }); err == nil {
		if data, err := json.Marshal(snap); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Keep connection alive until client disconnects
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *demoServer) broadcast(snap map[string]any) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}

	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.mu.Lock()
			delete(s.clients, client)
			s.mu.Unlock()
			client.Close()
		}
	}
}

func (s *demoServer) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}

func (s *demoServer) router() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	instrument.MustRegister(s.rt, instrument.WithRegistry(reg))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, demoPage)
	})
	r.Get("/state", s.handleGetState)
	r.Post("/state/{key}", s.handleSetState)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}

func runDemo(addr string, counters int) error {
	s := newDemoServer(counters)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.loop(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printBanner()
	fmt.Println()
	success("Demo server listening on %s", addr)
	info("GET  /            live page")
	info("GET  /state       current snapshot")
	info("POST /state/{key} set a counter, body {\"value\": n}")
	info("GET  /ws          WebSocket state stream")
	info("GET  /metrics     Prometheus metrics")
	fmt.Println()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	return srv.Shutdown(shutdownCtx)
}

// demoPage is the client for the live-state demo: it renders the
// snapshot pushed over the WebSocket and posts increments back.
const demoPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Reago Demo</title>
<style>
  body { font-family: monospace; max-width: 640px; margin: 40px auto; }
  h1 { font-size: 1.4em; }
  .counter { display: flex; align-items: center; gap: 12px; margin: 8px 0; }
  .counter button { width: 32px; }
  #total { margin-top: 16px; font-weight: bold; }
  #status { color: #888; }
</style>
</head>
<body>
<h1>Reago live state</h1>
<p id="status">connecting…</p>
<div id="counters"></div>
<p id="total"></p>
<script>
(function() {
    'use strict';

    var state = {};

    function render() {
        var root = document.getElementById('counters');
        root.innerHTML = '';
        Object.keys(state).sort().forEach(function(key) {
            if (key === 'total') return;
            var row = document.createElement('div');
            row.className = 'counter';

            var dec = document.createElement('button');
            dec.textContent = '-';
            dec.onclick = function() { post(key, state[key] - 1); };

            var inc = document.createElement('button');
            inc.textContent = '+';
            inc.onclick = function() { post(key, state[key] + 1); };

            var label = document.createElement('span');
            label.textContent = key + ' = ' + state[key];

            row.appendChild(dec);
            row.appendChild(inc);
            row.appendChild(label);
            root.appendChild(row);
        });
        document.getElementById('total').textContent = 'total = ' + state.total;
    }

    function post(key, value) {
        fetch('/state/' + key, {
            method: 'POST',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify({ value: value })
        });
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onopen = function() {
            document.getElementById('status').textContent = 'connected';
        };

        ws.onmessage = function(e) {
            try {
                state = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            render();
        };

        ws.onclose = function() {
            document.getElementById('status').textContent = 'disconnected, retrying…';
            setTimeout(connect, 1000);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    connect();
})();
</script>
</body>
</html>
`
