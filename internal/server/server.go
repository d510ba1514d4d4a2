// Package server exposes the HTTP and SSE boundary consumed by the desktop
// front end.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"StaminaSentinel/internal/config"
	"StaminaSentinel/internal/format"
	"StaminaSentinel/internal/model"
	"StaminaSentinel/internal/notify"
	"StaminaSentinel/internal/projection"
	"StaminaSentinel/internal/scheduler"
	"StaminaSentinel/internal/sse"
	"StaminaSentinel/internal/store"
	"StaminaSentinel/internal/tick"
)

// Server wires the routes to the snapshot store, scheduler, and config.
type Server struct {
	Router *mux.Router

	httpServer *http.Server
	store      *store.Store
	ticks      *tick.Source
	sched      *scheduler.Scheduler
	cfg        *config.Config
	evaluator  *notify.Evaluator
	formatter  *format.Formatter
	hub        *sse.Hub
}

// New creates a Server listening on addr.
func New(addr string, st *store.Store, ts *tick.Source, sched *scheduler.Scheduler,
	cfg *config.Config, ev *notify.Evaluator, f *format.Formatter, hub *sse.Hub) *Server {
	s := &Server{
		Router:    mux.NewRouter(),
		store:     st,
		ticks:     ts,
		sched:     sched,
		cfg:       cfg,
		evaluator: ev,
		formatter: f,
		hub:       hub,
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	api := s.Router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/resources", s.handleGetResources).Methods(http.MethodGet)
	api.HandleFunc("/resources/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/notifications/preview", s.handlePreview).Methods(http.MethodPost)
	api.HandleFunc("/config/notifications", s.handleGetPolicies).Methods(http.MethodGet)
	api.HandleFunc("/config/notifications/{game}/{resource}", s.handlePutPolicy).Methods(http.MethodPut)
}

// Start runs the HTTP server. Blocks until Shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// resourceView is one resource entry in the API payload: the raw snapshot,
// its projection at the current tick, and the display strings so the front
// end never re-implements formatting.
type resourceView struct {
	model.ResourceSnapshot
	Projection model.Projection `json:"projection"`
	Display    displayView      `json:"display"`
}

type displayView struct {
	Name      string `json:"name"`
	Remaining string `json:"remaining"`
	Absolute  string `json:"absolute,omitempty"`
}

type gameView struct {
	GameID    string         `json:"game_id"`
	Name      string         `json:"name"`
	Resources []resourceView `json:"resources"`
}

type resourcesResponse struct {
	Games       []gameView `json:"games"`
	LastUpdated time.Time  `json:"last_updated,omitzero"`
	Generation  uint64     `json:"generation"`
}

func (s *Server) resourcesPayload() resourcesResponse {
	all := s.store.All()
	nowMillis := s.ticks.Now()
	now := time.UnixMilli(nowMillis)

	resp := resourcesResponse{
		LastUpdated: all.LastUpdated,
		Generation:  s.store.Generation(),
	}
	for _, game := range model.Games {
		snaps := all.Games[game.ID]
		if len(snaps) == 0 {
			continue
		}
		gv := gameView{GameID: game.ID, Name: game.DisplayName}
		for _, snap := range snaps {
			proj := projection.Project(snap, nowMillis)
			name := snap.Type
			if info, ok := model.ResourceByType(snap.GameID, snap.Type); ok {
				name = info.DisplayName
			}
			gv.Resources = append(gv.Resources, resourceView{
				ResourceSnapshot: snap,
				Projection:       proj,
				Display: displayView{
					Name:      name,
					Remaining: s.formatter.Remaining(proj, snap.Kind),
					Absolute:  s.formatter.Absolute(proj.CompletesAt, now),
				},
			})
		}
		sort.SliceStable(gv.Resources, func(i, j int) bool {
			return displayPriority(game.ID, gv.Resources[i].Type) < displayPriority(game.ID, gv.Resources[j].Type)
		})
		resp.Games = append(resp.Games, gv)
	}
	return resp
}

func displayPriority(gameID, resourceType string) int {
	if info, ok := model.ResourceByType(gameID, resourceType); ok {
		return info.DisplayPriority
	}
	return 1 << 30
}

func (s *Server) handleGetResources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.resourcesPayload())
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if err := s.sched.Refresh(); err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("refresh failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s.resourcesPayload())
}

// handleEvents upgrades the request to an SSE stream and forwards hub events
// until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := s.hub.Register()
	defer s.hub.Unregister(client.ID)
	log.Printf("[INFO] SSE client connected: %s (%d active)", client.ID, s.hub.ClientCount())

	for {
		select {
		case <-r.Context().Done():
			log.Printf("[INFO] SSE client disconnected: %s", client.ID)
			return
		case ev, open := <-client.Events:
			if !open {
				return
			}
			msg, err := sse.Marshal(ev)
			if err != nil {
				log.Printf("[WARN] marshal SSE event: %v", err)
				continue
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type previewRequest struct {
	GameID       string `json:"game_id"`
	ResourceType string `json:"resource_type"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.GameID == "" || req.ResourceType == "" {
		writeError(w, http.StatusBadRequest, "game_id and resource_type are required")
		return
	}
	intent, err := s.sched.Preview(req.GameID, req.ResourceType)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

func (s *Server) handleGetPolicies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Policies())
}

// handlePutPolicy normalizes and stores one policy, re-arms the firing state,
// and persists the config. A failed save reports the error but keeps the
// in-memory edit so a retry of Save can succeed without re-entering the form.
func (s *Server) handlePutPolicy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID, resourceType := vars["game"], vars["resource"]

	var policy model.ResourceNotificationConfig
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.cfg.SetPolicy(gameID, resourceType, policy); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.evaluator.ResetResource(gameID, resourceType)

	if err := s.cfg.Save(); err != nil {
		log.Printf("[ERROR] save config: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("policy applied but not saved: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.PolicyFor(gameID, resourceType))
}
