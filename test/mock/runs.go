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

package mock

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// createRunLocked records a new run. Callers must hold s.mu.
func (s *Server) createRunLocked(task string, delayed bool) *run {
	status := "PENDING"
	if delayed {
		status = "DELAYED"
	}

	newRun := &run{
		id:       generateID("run"),
		task:     task,
		env:      s.options.EnvSlugs[0],
		status:   status,
		metadata: map[string]any{},
	}

	s.runs[newRun.id] = newRun
	s.runIDs = append(s.runIDs, newRun.id)

	return newRun
}

func (s *Server) listProjectRuns(w http.ResponseWriter, r *http.Request) {
	if !s.checkProject(w, r) {
		return
	}

	query := r.URL.Query()

	limit, ok := positiveIntParam(r, "limit", 20)
	if !ok {
		writeError(w, http.StatusBadRequest, "Query parameter 'limit' must be a positive integer")
		return
	}

	for _, param := range []string{"createdAtBefore", "createdAtAfter"} {
		value := query.Get(param)
		if value == "" {
			continue
		}

		if _, err := time.Parse(time.RFC3339, value); err != nil {
			writeError(w, http.StatusBadRequest, "Query parameter '"+param+"' must be an RFC 3339 timestamp")
			return
		}
	}

	envFilter := query.Get("env")
	statusFilter := query.Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	runs := []map[string]any{}

	for _, id := range s.runIDs {
		current := s.runs[id]

		if envFilter != "" && current.env != envFilter {
			continue
		}

		if statusFilter != "" && current.status != statusFilter {
			continue
		}

		runs = append(runs, map[string]any{
			"id":     current.id,
			"task":   current.task,
			"status": current.status,
		})

		if len(runs) == limit {
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":       runs,
		"nextCursor": nil,
		"prevCursor": nil,
	})
}

// lookupRun resolves the path parameter, writing the error response itself
// when the run cannot be found.
func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*run, bool) {
	id := chi.URLParam(r, "runID")

	if len(id) > 200 {
		writeError(w, http.StatusBadRequest, "Run ID is malformed")
		return nil, false
	}

	s.mu.Lock()
	current, ok := s.runs[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Run not found")
		return nil, false
	}

	return current, true
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       current.id,
		"task":     current.task,
		"status":   current.status,
		"metadata": current.metadata,
	})
}

func (s *Server) cancelRun(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if terminalRunStatuses.Contains(current.status) {
		writeError(w, http.StatusBadRequest, "Run is already finished")
		return
	}

	current.status = "CANCELED"

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     current.id,
		"status": current.status,
	})
}

func (s *Server) replayRun(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	newRun := s.createRunLocked(current.task, false)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     newRun.id,
		"status": newRun.status,
	})
}

func (s *Server) rescheduleRun(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	body, err := decodeJSONObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	delay, ok := body["delay"].(string)
	if !ok || delay == "" {
		writeError(w, http.StatusUnprocessableEntity, "Field 'delay' is required and must be a string")
		return
	}

	if _, err := time.ParseDuration(delay); err != nil {
		if _, err := time.Parse(time.RFC3339, delay); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Field 'delay' must be a duration or an RFC 3339 timestamp")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Only runs still waiting on their delay can be rescheduled.
	if current.status != "DELAYED" {
		writeError(w, http.StatusBadRequest, "Run is not delayed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     current.id,
		"status": current.status,
	})
}

func (s *Server) updateRunMetadata(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	body, err := decodeJSONObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if body == nil {
		writeError(w, http.StatusUnprocessableEntity, "Request body is required")
		return
	}

	metadata, ok := body["metadata"].(map[string]any)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Field 'metadata' is required and must be an object")
		return
	}

	s.mu.Lock()
	current.metadata = metadata
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"metadata": metadata})
}
