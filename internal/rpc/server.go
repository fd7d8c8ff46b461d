package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/optionforge/optiond/internal/events"
)

// Server serves the JSON-RPC API over HTTP, plus a health probe and the
// websocket event stream.
type Server struct {
	handler *Handler
	mux     *http.ServeMux
}

// NewServer creates the HTTP server. hub may be nil to disable the
// websocket endpoint.
func NewServer(handler *Handler, hub *events.Hub) *Server {
	s := &Server{handler: handler, mux: http.NewServeMux()}
	s.mux.HandleFunc("/", s.serveRPC)
	s.mux.HandleFunc("/health", s.serveHealth)
	if hub != nil {
		s.mux.Handle("/ws", hub)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks until the context is cancelled, then shuts the
// HTTP server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) serveRPC(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, Response{
			JSONRPC: "2.0",
			Error:   &Error{Code: codeParse, Message: "Parse error"},
		})
		return
	}

	result, rpcErr := s.handler.Handle(req.Method, req.Params)
	resp := Response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	writeResponse(w, resp)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
