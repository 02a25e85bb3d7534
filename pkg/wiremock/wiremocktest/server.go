// Package wiremocktest provides an in-process fake of the WireMock admin API
// for tests.
package wiremocktest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Server is a fake WireMock admin API. Stubs are stored but never served.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	mappings []map[string]interface{}
	journal  []request
	resets   int
	failWith int
}

type request struct {
	Method string
	URL    string
}

// NewServer starts a fake server. Call Close when done.
func NewServer() *Server {
	s := &Server{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /__admin/reset", s.reset)
	mux.HandleFunc("POST /__admin/mappings/reset", s.resetMappings)
	mux.HandleFunc("POST /__admin/mappings", s.addMapping)
	mux.HandleFunc("GET /__admin/mappings", s.listMappings)
	mux.HandleFunc("DELETE /__admin/mappings/{id}", s.deleteMapping)
	mux.HandleFunc("POST /__admin/requests/count", s.countRequests)

	s.Server = httptest.NewServer(s.failing(mux))
	return s
}

// FailWith makes every request answer status; 0 restores normal behavior.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Record adds a request to the journal, as if the app had called the stub.
func (s *Server) Record(method, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, request{Method: method, URL: url})
}

// Mappings returns the stored mappings.
func (s *Server) Mappings() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.mappings...)
}

// Names returns the names of the stored mappings.
func (s *Server) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.mappings))
	for _, m := range s.mappings {
		name, _ := m["name"].(string)
		names = append(names, name)
	}
	return names
}

// Resets returns how many times /__admin/reset was called.
func (s *Server) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

func (s *Server) failing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failWith
		s.mu.Unlock()
		if status != 0 {
			http.Error(w, fmt.Sprintf("forced failure %d", status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.mappings = nil
	s.journal = nil
	s.resets++
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) resetMappings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.mappings = nil
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) addMapping(w http.ResponseWriter, r *http.Request) {
	var m map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if _, ok := m["id"]; !ok {
		m["id"] = fmt.Sprintf("generated-%d", len(s.Mappings())+1)
	}

	s.mu.Lock()
	s.mappings = append(s.mappings, m)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) listMappings(w http.ResponseWriter, r *http.Request) {
	mappings := s.Mappings()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mappings": mappings,
		"meta":     map[string]interface{}{"total": len(mappings)},
	})
}

func (s *Server) deleteMapping(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.mappings {
		if m["id"] == id {
			s.mappings = append(s.mappings[:i], s.mappings[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, "mapping not found", http.StatusNotFound)
}

func (s *Server) countRequests(w http.ResponseWriter, r *http.Request) {
	var pattern struct {
		Method string `json:"method"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&pattern); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	count := 0
	for _, req := range s.journal {
		if (pattern.Method == "" || pattern.Method == "ANY" || pattern.Method == req.Method) &&
			(pattern.URL == "" || pattern.URL == req.URL) {
			count++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
