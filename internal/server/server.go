// ABOUTME: Local fixture backend speaking the journal entry API contract.
// ABOUTME: Chi router with list, create, and delete on a single base path.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/2389-research/gratitude/internal/api"
	"github.com/2389-research/gratitude/internal/models"
)

// DefaultBasePath is where the entry resource is mounted.
const DefaultBasePath = "/entries"

// Server serves the entry API from an in-memory store.
type Server struct {
	store    *Store
	apiKey   string
	basePath string
	log      zerolog.Logger
}

// Option configures optional Server settings.
type Option func(*Server)

// WithBasePath mounts the entry resource at path instead of DefaultBasePath.
func WithBasePath(path string) Option {
	return func(s *Server) {
		s.basePath = path
	}
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a fixture server. Requests must carry apiKey in x-api-key.
func New(store *Store, apiKey string, opts ...Option) *Server {
	s := &Server{
		store:    store,
		apiKey:   apiKey,
		basePath: DefaultBasePath,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the configured chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Get(s.basePath, s.listEntries)
		r.Post(s.basePath, s.createEntry)
		r.Delete(s.basePath, s.deleteEntry)
	})

	return r
}

// listResponse mirrors a DynamoDB query result.
type listResponse struct {
	Items            []models.Entry `json:"Items"`
	Count            int            `json:"Count"`
	LastEvaluatedKey models.Entry   `json:"LastEvaluatedKey,omitempty"`
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	limit := api.PageSize
	if raw := r.URL.Query().Get(api.ParamNumEntries); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeFeedback(w, http.StatusBadRequest, "num_entries must be a positive integer")
			return
		}
		limit = n
	}

	items, lastKey := s.store.Query(r.URL.Query().Get(api.ParamExclusiveStartKey), limit)
	resp := listResponse{Items: items, Count: len(items)}
	if lastKey != "" {
		resp.LastEvaluatedKey = models.Entry{
			models.AttrPartitionKey: map[string]any{"S": "ENTRY"},
			models.AttrSortKey:      map[string]any{"S": models.EntryIDPrefix + lastKey},
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFeedback(w, http.StatusBadRequest, "you have to include a request body")
		return
	}
	raw, ok := body["entry"]
	if !ok {
		writeFeedback(w, http.StatusBadRequest, "the request body has to include an entry")
		return
	}
	var content string
	if err := json.Unmarshal(raw, &content); err != nil {
		writeFeedback(w, http.StatusBadRequest, "entry must be a string")
		return
	}

	id, err := s.store.Put(content)
	if err != nil {
		writeFeedback(w, http.StatusInternalServerError, "failed to store entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Entry received!",
		"entry_id": id,
	})
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(api.ParamEntryID)
	if id == "" {
		writeFeedback(w, http.StatusBadRequest, "entry_id is required")
		return
	}
	if !s.store.Delete(id) {
		writeFeedback(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted!"})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(api.HeaderAPIKey) != s.apiKey {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeFeedback(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"feedback": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
