// Package monitoring serves scan results over HTTP.
package monitoring

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"

	"gitlab.com/akita/wavedump/dumper"
)

// A Scanner can scan a GPU for waves.
type Scanner interface {
	ID() string
	Instance() int
	Scan() (*dumper.Result, error)
}

// Server exposes a scanner through a small JSON API. Scans are serialized so
// that the scanner never sees two at the same time.
type Server struct {
	sync.Mutex

	scanner Scanner
	last    *dumper.Result
	router  *mux.Router
	logger  log.Logger
}

// NewServer creates a server on top of a scanner.
func NewServer(scanner Scanner, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	s := &Server{
		scanner: scanner,
		logger:  logger,
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/api/session", s.session).Methods(http.MethodGet)
	s.router.HandleFunc("/api/scan", s.scan).Methods(http.MethodPost)
	s.router.HandleFunc("/api/waves", s.waves).Methods(http.MethodGet)
	s.router.HandleFunc("/api/waves/{se:[0-9]+}/{sh:[0-9]+}/{cu:[0-9]+}",
		s.wavesOnCU).Methods(http.MethodGet)

	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves the API on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	level.Info(s.logger).Log("msg", "monitoring server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Record stores a result obtained outside of the server as the latest one.
func (s *Server) Record(res *dumper.Result) {
	s.Lock()
	defer s.Unlock()

	s.last = res
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       s.scanner.ID(),
		"instance": s.scanner.Instance(),
	})
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	res, err := s.scanner.Scan()
	if err != nil {
		level.Error(s.logger).Log("msg", "scan failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError,
			map[string]string{"error": err.Error()})
		return
	}

	s.last = res
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) latest() *dumper.Result {
	s.Lock()
	defer s.Unlock()

	return s.last
}

func (s *Server) waves(w http.ResponseWriter, r *http.Request) {
	res := s.latest()
	if res == nil {
		s.writeJSON(w, http.StatusNotFound,
			map[string]string{"error": "no scan yet"})
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) wavesOnCU(w http.ResponseWriter, r *http.Request) {
	res := s.latest()
	if res == nil {
		s.writeJSON(w, http.StatusNotFound,
			map[string]string{"error": "no scan yet"})
		return
	}

	vars := mux.Vars(r)
	unit := dumper.ComputeUnit{}
	for name, dst := range map[string]*uint32{
		"se": &unit.SE, "sh": &unit.SH, "cu": &unit.CU,
	} {
		v, err := strconv.ParseUint(vars[name], 10, 32)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest,
				map[string]string{"error": "bad " + name})
			return
		}
		*dst = uint32(v)
	}

	waves := res.WavesOn(unit)
	if waves == nil {
		waves = []*dumper.Wave{}
	}

	s.writeJSON(w, http.StatusOK, waves)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		level.Error(s.logger).Log("msg", "cannot write response", "err", err)
	}
}
