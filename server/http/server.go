package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shoptalk/agent"
	"github.com/shoptalk/agent/response"
	"github.com/shoptalk/agent/server"
)

// Agent is the surface the HTTP layer needs from the assistant facade.
type Agent interface {
	CreateSession(ctx context.Context, id string) string
	Respond(ctx context.Context, sessionId string, message string) (agent.Result, error)
}

type httpServer struct {
	options server.Options
	agent   Agent
	srv     *http.Server
}

func (s *httpServer) Run() error {
	slog.Info("http server listening", "address", s.options.Address)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *httpServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Id string `json:"id"`
	}
	if r.Body != nil {
		// An empty body means a server-generated session id.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	id := s.agent.CreateSession(r.Context(), req.Id)

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *httpServer) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionId := mux.Vars(r)["id"]

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if len(strings.TrimSpace(req.Message)) == 0 {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.agent.Respond(r.Context(), sessionId, req.Message)
	if err != nil {
		var ve *response.ValidationError
		if errors.As(err, &ve) {
			// The model emitted a turn we could not validate.
			slog.ErrorContext(r.Context(), "invalid model turn", "session", sessionId, "field", ve.Field, "reason", ve.Reason)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "chat failed", "session", sessionId, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	references := result.References
	if references == nil {
		references = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":       result.Answer,
		"references":   references,
		"final_answer": true,
	})
}

func (s *httpServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}

func NewServer(agent Agent, opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	s := &httpServer{
		options: options,
		agent:   agent,
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/sessions", s.handleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/sessions/{id}/chat", s.handleChat).Methods(http.MethodPost)

	var handler http.Handler = router
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	s.srv = &http.Server{
		Addr:    options.Address,
		Handler: handler,
	}

	return s
}
