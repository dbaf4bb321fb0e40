package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devaa4522/Vortex-Engine/internal/app/engine"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server exposes the engine over REST plus a websocket feed that pushes a
// book-and-trades snapshot to every client on a fixed interval.
type Server struct {
	engine            *engine.Engine
	hub               *Hub
	logger            *logger.Logger
	upgrader          websocket.Upgrader
	broadcastInterval time.Duration
}

// NewServer wires the API around a running engine.
func NewServer(e *engine.Engine, log *logger.Logger, broadcastInterval time.Duration) *Server {
	if broadcastInterval <= 0 {
		broadcastInterval = time.Second
	}
	return &Server{
		engine: e,
		hub:    NewHub(log),
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		broadcastInterval: broadcastInterval,
	}
}

// Router builds the route table.
//
//	/api/v1/
//	  ├── POST   /orders        - enqueue an order (202)
//	  ├── GET    /orders/{id}   - fetch one order
//	  ├── DELETE /orders/{id}   - cancel
//	  ├── PUT    /orders/{id}   - modify price/quantity
//	  ├── GET    /orderbook     - both sides of the book
//	  ├── GET    /trades        - trade history
//	  ├── POST   /book/save     - snapshot to the configured store
//	  ├── POST   /book/load     - restore from the configured store
//	  └── GET    /ws            - websocket snapshot stream
//	/metrics                    - Prometheus
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.recoveryMiddleware)
	router.Use(s.loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", s.handleCancelOrder).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id:[0-9]+}", s.handleModifyOrder).Methods(http.MethodPut)
	api.HandleFunc("/orderbook", s.handleGetOrderBook).Methods(http.MethodGet)
	api.HandleFunc("/trades", s.handleGetTrades).Methods(http.MethodGet)
	api.HandleFunc("/book/save", s.handleSaveBook).Methods(http.MethodPost)
	api.HandleFunc("/book/load", s.handleLoadBook).Methods(http.MethodPost)
	api.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return router
}

// Run serves the API until the context ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.hub.Run(ctx)
	go s.broadcastLoop(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", logger.Field{Key: "addr", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// broadcastLoop pushes the current book and trade log to every websocket
// client once per interval.
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.broadcastInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, err := json.Marshal(snapshotMessage{
				Type: "snapshot",
				OrderBook: orderBookResponse{
					Bids: s.engine.Bids(),
					Asks: s.engine.Asks(),
				},
				Trades: s.engine.Trades(),
			})
			if err != nil {
				s.logger.Error(err, logger.Field{Key: "operation", Value: "marshal snapshot"})
				continue
			}
			s.hub.Broadcast(payload)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(err, logger.Field{Key: "operation", Value: "websocket upgrade"})
		return
	}
	client := newWSClient(s.hub, conn)
	s.hub.register <- client
	go client.writePump()
	go client.readPump()
}
