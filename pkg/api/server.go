package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/monsterxx03/procmaps/pkg/maps"
	"github.com/monsterxx03/procmaps/pkg/proc"
)

// Server exposes parsed mappings over a small JSON HTTP API.
type Server struct {
	port int
	mux  *http.ServeMux
}

func NewServer(port int) *Server {
	s := &Server{
		port: port,
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("/maps", s.handleMaps)
	s.mux.HandleFunc("/summary", s.handleSummary)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	log.Infof("listening on :%d", s.port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.mux)
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	pid, err := getPID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ms, err := maps.FromPid(pid)
	if err != nil {
		httpError(w, pid, err)
		return
	}

	writeJSON(w, ms)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	pid, err := getPID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ms, err := maps.FromPid(pid)
	if err != nil {
		httpError(w, pid, err)
		return
	}

	writeJSON(w, ms.Summary())
}

// httpError maps source-access failures to 404/403 and parse failures
// to 500, so API clients see the same taxonomy library callers do.
func httpError(w http.ResponseWriter, pid int, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, proc.ErrProcessNotFound):
		status = http.StatusNotFound
	case errors.Is(err, proc.ErrPermissionDenied):
		status = http.StatusForbidden
	}
	log.WithError(err).Warnf("pid %d request failed", pid)
	http.Error(w, err.Error(), status)
}

func getPID(r *http.Request) (int, error) {
	pidStr := r.URL.Query().Get("pid")
	if pidStr == "" {
		return 0, fmt.Errorf("pid parameter is required")
	}
	return strconv.Atoi(pidStr)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
	}
}
