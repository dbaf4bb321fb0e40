package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
)

type orderRequest struct {
	Side          string  `json:"side"`
	Type          string  `json:"type"`
	Price         float64 `json:"price"`
	StopPrice     float64 `json:"stopPrice"`
	Quantity      uint64  `json:"quantity"`
	PeakSize      uint64  `json:"peakSize"`
	ExpirySeconds int64   `json:"expirySeconds"`
}

type modifyRequest struct {
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
}

type orderBookResponse struct {
	Bids []orderbookv1.Order `json:"bids"`
	Asks []orderbookv1.Order `json:"asks"`
}

type snapshotMessage struct {
	Type      string              `json:"type"`
	OrderBook orderBookResponse   `json:"orderBook"`
	Trades    []orderbookv1.Trade `json:"trades"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *orderRequest) toCommand() (*orderbookv1.Command, string) {
	side := orderbookv1.Side(r.Side)
	if side != orderbookv1.SideBuy && side != orderbookv1.SideSell {
		return nil, "side must be \"buy\" or \"sell\""
	}
	orderType := orderbookv1.OrderType(r.Type)
	switch orderType {
	case orderbookv1.OrderTypeLimit, orderbookv1.OrderTypeMarket, orderbookv1.OrderTypeStop,
		orderbookv1.OrderTypeIceberg, orderbookv1.OrderTypeFOK, orderbookv1.OrderTypeIOC:
	default:
		return nil, "unknown order type"
	}
	if r.Quantity == 0 {
		return nil, "quantity must be positive"
	}
	if r.Price < 0 || r.StopPrice < 0 {
		return nil, "prices must not be negative"
	}
	if orderType == orderbookv1.OrderTypeStop && r.StopPrice == 0 {
		return nil, "stop orders need a stopPrice"
	}
	if orderType == orderbookv1.OrderTypeIceberg && r.PeakSize == 0 {
		return nil, "iceberg orders need a peakSize"
	}
	if r.ExpirySeconds < 0 {
		return nil, "expirySeconds must not be negative"
	}

	return &orderbookv1.Command{
		Side:         side,
		Type:         orderType,
		Price:        r.Price,
		StopPrice:    r.StopPrice,
		Quantity:     r.Quantity,
		PeakSize:     r.PeakSize,
		ExpiryOffset: time.Duration(r.ExpirySeconds) * time.Second,
	}, ""
}

// handlePlaceOrder enqueues the order for the engine worker and returns
// 202 immediately. The assigned ID is only known once the worker admits
// it, so the response carries the queue position, not an ID.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	cmd, problem := req.toCommand()
	if problem != "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: problem})
		return
	}

	s.engine.Submit(cmd)
	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"queued": s.engine.QueueLen(),
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	order, ok := s.engine.GetOrder(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !s.engine.Cancel(id) {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "order not cancellable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "cancelled", "id": id})
}

func (s *Server) handleModifyOrder(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var req modifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Quantity == 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quantity must be positive"})
		return
	}
	if req.Price < 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "price must not be negative"})
		return
	}

	trades, ok := s.engine.Modify(id, req.Price, req.Quantity)
	if !ok {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "order not modifiable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "modified",
		"id":     id,
		"trades": trades,
	})
}

func (s *Server) handleGetOrderBook(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, orderBookResponse{
		Bids: s.engine.Bids(),
		Asks: s.engine.Asks(),
	})
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Trades())
}

func (s *Server) handleSaveBook(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Save(r.Context()); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleLoadBook(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Load(r.Context()); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(err)
	}
}

// pathID parses the {id} route variable. The route pattern restricts it to
// digits, so parse errors cannot happen past the router.
func pathID(r *http.Request) uint64 {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return id
}
