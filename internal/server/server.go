package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/config"
	"github.com/quillchat/desktop/internal/events"
	"github.com/quillchat/desktop/internal/shell"
	"github.com/quillchat/desktop/internal/updater"
)

const shutdownTimeout = 5 * time.Second

// Server is the loopback HTTP surface of the daemon: update lifecycle
// commands, shell command routes and the event stream consumed by the UI
// host and the CLI.
type Server struct {
	cfg     *config.Config
	bridge  *events.Bridge
	manager *updater.Manager
	shell   *shell.Router

	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
	closeOnce  sync.Once
}

// New assembles the API server. Start binds and serves.
func New(cfg *config.Config, bridge *events.Bridge, manager *updater.Manager, shellRouter *shell.Router) *Server {
	return &Server{
		cfg:     cfg,
		bridge:  bridge,
		manager: manager,
		shell:   shellRouter,
		done:    make(chan struct{}),
	}
}

// Start binds the configured loopback address and serves in the background
// until Stop is called.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.APIListenAddress)
	if err != nil {
		return fmt.Errorf("bind api address %s: %w", s.cfg.APIListenAddress, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("api server terminated: %v", err)
		}
	}()

	log.Infof("api server listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, which differs from the configured one
// when the port was system-assigned.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler builds the route table. Exposed so tests can serve it without a
// real listener.
func (s *Server) Handler() http.Handler {
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	rootRouter := mux.NewRouter()
	router := rootRouter.PathPrefix("/api").Subrouter()
	router.Use(corsMiddleware.Handler)

	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	router.HandleFunc("/update/check", s.handleUpdateCheck).Methods(http.MethodPost)
	router.HandleFunc("/update/install", s.handleUpdateInstall).Methods(http.MethodPost)
	router.HandleFunc("/update/acknowledge", s.handleUpdateAcknowledge).Methods(http.MethodPost)

	router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	router.HandleFunc("/events/recent", s.handleRecentEvents).Methods(http.MethodGet)

	router.HandleFunc("/window", s.handleWindowState).Methods(http.MethodGet)
	router.HandleFunc("/window/report", s.handleWindowReport).Methods(http.MethodPost)
	router.HandleFunc("/window/{action:show|hide|focus|toggle}", s.handleWindowCommand).Methods(http.MethodPost)

	router.HandleFunc("/notify", s.handleNotify).Methods(http.MethodPost)
	router.HandleFunc("/badge", s.handleBadge).Methods(http.MethodPost)

	router.HandleFunc("/menu", s.handleMenu).Methods(http.MethodGet)
	router.HandleFunc("/menu/action", s.handleMenuAction).Methods(http.MethodPost)
	router.HandleFunc("/menu/item", s.handleMenuItem).Methods(http.MethodPost)

	router.HandleFunc("/shortcuts", s.handleShortcuts).Methods(http.MethodGet)
	router.HandleFunc("/shortcuts", s.handleShortcutRegister).Methods(http.MethodPost)
	router.HandleFunc("/shortcuts/unregister", s.handleShortcutUnregister).Methods(http.MethodPost)
	router.HandleFunc("/shortcuts/trigger", s.handleShortcutTrigger).Methods(http.MethodPost)

	router.HandleFunc("/open-url", s.handleOpenURL).Methods(http.MethodPost)

	router.HandleFunc("/autostart", s.handleAutostartStatus).Methods(http.MethodGet)
	router.HandleFunc("/autostart", s.handleAutostartSet).Methods(http.MethodPost)

	return rootRouter
}

// Stop closes the event streams and shuts the server down, waiting briefly
// for in-flight requests.
func (s *Server) Stop() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Debugf("closing api server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %v", err)
	}
	return nil
}
