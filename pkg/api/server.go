package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/helviojunior/abapscan/pkg/models"
	"github.com/helviojunior/abapscan/pkg/rules"
	"github.com/helviojunior/abapscan/pkg/scanner"
)

// Server exposes the scanner as the assessment HTTP service. It is a
// thin boundary: input validation happens here, the detector itself
// never fails on well-typed input.
type Server struct {
	detector *scanner.Detector
	log      *slog.Logger
}

// NewServer builds the HTTP surface around a rule table.
func NewServer(logger *slog.Logger, set *rules.Ruleset) *Server {
	return &Server{
		detector: scanner.NewDetector(set),
		log:      logger,
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/assess-2378796", s.handleAssess)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the service on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("assessment service listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type apiError struct {
	Detail string `json:"detail"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Detail: "method not allowed"})
		return
	}

	var units []models.Unit
	if err := json.NewDecoder(r.Body).Decode(&units); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Detail: fmt.Sprintf("invalid request body: %s", err)})
		return
	}

	for i := range units {
		if !units[i].Valid() {
			writeJSON(w, http.StatusUnprocessableEntity, apiError{
				Detail: fmt.Sprintf("unit %d: pgm_name, inc_name, type and code are required", i),
			})
			return
		}
	}

	// only units with findings are returned; clean units are omitted
	// entirely, and a flagged unit carries its findings key
	results := []models.ScanResult{}
	for _, u := range units {
		result := s.detector.Scan(u)
		if len(result.Findings) == 0 {
			continue
		}
		results = append(results, result)
	}

	s.log.Debug("assessment done", "units", len(units), "flagged", len(results))
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"note": s.detector.Rules.Note,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
