// Package httpapi serves profile resolution over HTTP/JSON.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xtding233/vgmprofile/internal/profile"
	"github.com/xtding233/vgmprofile/internal/rom"
	"github.com/xtding233/vgmprofile/internal/service"
)

// MaxImageSize bounds POST /v1/resolve bodies.
const MaxImageSize = 64 << 20

type errResp struct {
	Err string `json:"err"`
}

type scanReq struct {
	Dir string `json:"dir"`
	Ext string `json:"ext,omitempty"`
}

type handlers struct {
	svc *service.Service
	log hclog.Logger
}

// NewRouter returns the API routes plus /healthz and /metrics.
func NewRouter(svc *service.Service, log hclog.Logger) *mux.Router {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	h := &handlers{svc: svc, log: log}

	// routes stay on the root router so a method mismatch answers 405
	r := mux.NewRouter()
	r.HandleFunc("/v1/resolve", h.handleResolve).Methods(http.MethodPost)
	r.HandleFunc("/v1/scan", h.handleScan).Methods(http.MethodPost)
	r.HandleFunc("/v1/games", h.handleGames).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// body: raw ROM image
func (h *handlers) handleResolve(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImageSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errResp{Err: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errResp{Err: "read body: " + err.Error()})
		return
	}
	summary, err := h.svc.Resolve(image, "http")
	if err != nil {
		writeJSON(w, statusFromError(err), errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// body: {"dir": "...", "ext": ".psf"}
func (h *handlers) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Dir == "" {
		http.Error(w, "missing param dir", http.StatusBadRequest)
		return
	}
	summary, err := h.svc.Scan(req.Dir, req.Ext, "http")
	if err != nil {
		writeJSON(w, statusFromError(err), errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handlers) handleGames(w http.ResponseWriter, _ *http.Request) {
	games, err := h.svc.Games()
	if err != nil {
		writeJSON(w, statusFromError(err), errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, profile.ErrConfigNotFound), errors.Is(err, profile.ErrNoSequencesFound):
		return http.StatusNotFound
	case errors.Is(err, rom.ErrTooSmall), errors.Is(err, service.ErrOutsideRoot):
		return http.StatusBadRequest
	case errors.Is(err, profile.ErrMissingField),
		errors.Is(err, profile.ErrInvalidValue),
		errors.Is(err, profile.ErrDuplicateSongIndex),
		errors.Is(err, profile.ErrSongTableLengthMismatch),
		errors.Is(err, profile.ErrCyclicInheritance),
		errors.Is(err, profile.ErrDocumentParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
