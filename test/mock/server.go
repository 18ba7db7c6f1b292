/*
Copyright 2025-2026 the Taskmesh Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package mock is an in-memory stand-in for the Taskmesh API, faithful to
// the status codes and body shapes the validation suites assert on. It
// exists so the suites can run hermetically when no deployment is available.
package mock

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/spjmurray/go-util/pkg/set"
)

// Options configures the known resources of the mock deployment.
type Options struct {
	// ProjectRef is the only project the mock knows about.
	ProjectRef string

	// EnvSlugs are the environments that exist for the project.
	EnvSlugs []string

	// TaskIdentifiers are the registered task identifiers.
	TaskIdentifiers []string
}

// Server holds the in-memory state behind the handler.
type Server struct {
	options Options

	tasks set.Set[string]
	envs  set.Set[string]

	mu          sync.Mutex
	schedules   map[string]map[string]any
	scheduleIDs []string
	envVars     map[string]map[string]string
	runs        map[string]*run
	runIDs      []string
	idempotency map[string]string
}

type run struct {
	id       string
	task     string
	env      string
	status   string
	metadata map[string]any
}

var terminalRunStatuses = set.New[string]("COMPLETED", "CANCELED", "FAILED")

// NewServer creates a mock server with the given known resources.
func NewServer(options Options) *Server {
	if len(options.EnvSlugs) == 0 {
		options.EnvSlugs = []string{"dev", "staging", "prod"}
	}

	s := &Server{
		options:     options,
		tasks:       set.New[string](options.TaskIdentifiers...),
		envs:        set.New[string](options.EnvSlugs...),
		schedules:   map[string]map[string]any{},
		envVars:     map[string]map[string]string{},
		runs:        map[string]*run{},
		idempotency: map[string]string{},
	}

	for _, env := range options.EnvSlugs {
		s.envVars[env] = map[string]string{}
	}

	return s
}

// Handler mounts the full API surface on a chi router. Routes are declared
// on a single mux so the JSON not-found and method-not-allowed handlers
// apply everywhere, trailing slashes included.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/api/v1/timezones", s.listTimezones)

		r.Post("/api/v1/schedules", s.createSchedule)
		r.Get("/api/v1/schedules", s.listSchedules)
		r.Get("/api/v1/schedules/{scheduleID}", s.getSchedule)
		r.Put("/api/v1/schedules/{scheduleID}", s.updateSchedule)
		r.Delete("/api/v1/schedules/{scheduleID}", s.deleteSchedule)
		r.Post("/api/v1/schedules/{scheduleID}/activate", s.activateSchedule)
		r.Post("/api/v1/schedules/{scheduleID}/deactivate", s.deactivateSchedule)

		r.Get("/api/v1/projects/{projectRef}/runs", s.listProjectRuns)
		r.Get("/api/v1/projects/{projectRef}/envvars/{env}", s.listEnvVars)
		r.Post("/api/v1/projects/{projectRef}/envvars/{env}/import", s.importEnvVars)
		r.Get("/api/v1/projects/{projectRef}/envvars/{env}/{name}", s.getEnvVar)
		r.Put("/api/v1/projects/{projectRef}/envvars/{env}/{name}", s.updateEnvVar)
		r.Delete("/api/v1/projects/{projectRef}/envvars/{env}/{name}", s.deleteEnvVar)

		r.Post("/api/v1/tasks/batch", s.batchTriggerTasks)
		r.Post("/api/v1/tasks/{taskIdentifier}/trigger", s.triggerTask)

		r.Get("/api/v1/runs/{runID}", s.getRun)
		r.Post("/api/v1/runs/{runID}/replay", s.replayRun)
		r.Post("/api/v1/runs/{runID}/reschedule", s.rescheduleRun)
		r.Put("/api/v1/runs/{runID}/metadata", s.updateRunMetadata)

		r.Post("/api/v2/runs/{runID}/cancel", s.cancelRun)
	})

	return r
}

// authenticate enforces bearer auth. Any token is accepted except the
// "invalid"/"expired" markers the suites use to drive 401 paths.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Malformed authorization header")
			return
		}

		if strings.Contains(token, "invalid") || strings.Contains(token, "expired") {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkProject rejects requests naming a project the mock does not know.
func (s *Server) checkProject(w http.ResponseWriter, r *http.Request) bool {
	if chi.URLParam(r, "projectRef") != s.options.ProjectRef {
		writeError(w, http.StatusNotFound, "Project not found")
		return false
	}

	return true
}

// checkEnv rejects requests naming an unknown environment.
func (s *Server) checkEnv(w http.ResponseWriter, r *http.Request) bool {
	if !s.envs.Contains(chi.URLParam(r, "env")) {
		writeError(w, http.StatusNotFound, "Environment not found")
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// decodeJSONObject reads the request body as a JSON object. A nil map with a
// nil error means the body was empty.
func decodeJSONObject(r *http.Request) (map[string]any, error) {
	decoder := json.NewDecoder(r.Body)

	var body map[string]any

	if err := decoder.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	return body, nil
}

func generateID(prefix string) string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(bytes))
}
