// Package web provides an HTTP server for editing and inspecting a ledger
// file in the browser.
//
// The server exposes a JSON API for reading and writing the ledger source,
// with validation errors reported on every read and write, plus account and
// balance views. Clients subscribe to /api/events to be told when the file
// changes on disk.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
// File access is restricted to the ledger file the server was started with.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/ledger/commodity"
	ledgererrors "github.com/robinvdvleuten/ledger/errors"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/parser"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// debounceDelay groups the several events editors emit for one save.
const debounceDelay = 100 * time.Millisecond

type Server struct {
	Port         int
	Host         string
	Version      string
	ReadOnly     bool
	WatchEnabled bool
	Logger       *log.Logger

	// NewRegistry creates the commodity registry for every load of the
	// ledger, e.g. one holding the configured default commodity.
	NewRegistry func() *commodity.Registry

	// mu guards the loaded ledger and everything derived from it.
	mu       sync.RWMutex
	ledger   *ledger.Ledger
	errs     []error
	rootFile string

	// inputFile is the path passed to New. After loading, rootFile holds
	// the absolute path.
	inputFile string

	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, ledgerFile string) *Server {
	return NewWithVersion(port, ledgerFile, "")
}

func NewWithVersion(port int, ledgerFile, version string) *Server {
	return &Server{
		Port:        port,
		Host:        "127.0.0.1",
		Version:     version,
		Logger:      log.New(os.Stderr),
		NewRegistry: commodity.NewRegistry,
		inputFile:   ledgerFile,
		sseClients:  make(map[chan string]struct{}),
	}
}

// Start loads the ledger and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.inputFile == "" {
		timer.End()
		return fmt.Errorf("ledger file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load_ledger %s", filepath.Base(s.inputFile)))
	err := s.reloadLedger(ctx)
	loadTimer.End()
	if err != nil {
		timer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	timer.End()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info("serving ledger", "file", s.rootFile, "addr", "http://"+srv.Addr, "read_only", s.ReadOnly)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/source", s.handleGetSource)
	mux.HandleFunc("PUT /api/source", s.requireWritable(s.handlePutSource))
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return mux
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "Server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// reloadLedger loads or reloads the ledger from disk. A file that fails to
// parse keeps the previously loaded entries and reports the parse error;
// only I/O errors are returned.
//
// Caller must NOT hold the mutex.
func (s *Server) reloadLedger(ctx context.Context) error {
	l, err := ledger.Load(ctx, s.inputFile, ledger.WithRegistry(s.NewRegistry()))

	var perr *parser.ParseError
	switch {
	case err == nil:
		var errs []error
		if checkErr := l.Check(ctx); checkErr != nil {
			errs = ledgererrors.Flatten(checkErr)
		}

		s.mu.Lock()
		s.ledger = l
		s.errs = errs
		s.rootFile = l.Filename()
		s.mu.Unlock()
		return nil

	case errors.As(err, &perr):
		s.mu.Lock()
		if s.ledger == nil {
			s.ledger = ledger.New(ledger.WithRegistry(s.NewRegistry()), ledger.WithFilename(s.inputFile))
		}
		if s.rootFile == "" {
			s.rootFile, _ = filepath.Abs(s.inputFile)
		}
		s.errs = []error{err}
		s.mu.Unlock()
		return nil

	default:
		return err
	}
}

// startWatcher watches the ledger file and reloads it when it changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	root := s.rootFile
	s.mu.RUnlock()

	// Editors often save by renaming a temporary file over the original,
	// which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(root)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(root), err)
	}

	go s.runWatcher(ctx, watcher, root)
	return nil
}

func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, root string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != root {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn("file watcher error", "err", err)
		}
	}
}

func (s *Server) handleFileChange(ctx context.Context) {
	if err := s.reloadLedger(ctx); err != nil {
		s.Logger.Error("failed to reload ledger", "err", err)
		return
	}
	s.Logger.Debug("ledger reloaded", "file", s.inputFile)
	s.broadcast("reload")
}

// handleSSE streams reload events to the client.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients. Clients with a
// full buffer miss the event.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
		}
	}
}
