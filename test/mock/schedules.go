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
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxNameLength is the point at which the API reports the payload too large
// rather than merely invalid.
const maxNameLength = 4096

// validateSchedulePayload applies the field rules shared by create and
// update. Returns a status and message on failure, 0 on success.
func validateSchedulePayload(body map[string]any, requireAll bool) (int, string) {
	name, hasName := body["name"]
	scheduleType, hasType := body["type"]

	if requireAll && (!hasName || !hasType) {
		return http.StatusUnprocessableEntity, "Fields 'name' and 'type' are required"
	}

	if hasName {
		nameString, ok := name.(string)
		if !ok {
			return http.StatusUnprocessableEntity, "Field 'name' must be a string"
		}

		if len(nameString) > maxNameLength {
			return http.StatusRequestEntityTooLarge, "Field 'name' exceeds the maximum length"
		}
	}

	if hasType {
		typeString, ok := scheduleType.(string)
		if !ok {
			return http.StatusUnprocessableEntity, "Field 'type' must be a string"
		}

		if typeString != "IMPERATIVE" && typeString != "DECLARATIVE" {
			return http.StatusUnprocessableEntity, "Field 'type' must be IMPERATIVE or DECLARATIVE"
		}
	}

	for _, field := range []string{"startAt", "endAt"} {
		value, ok := body[field]
		if !ok {
			continue
		}

		valueString, ok := value.(string)
		if !ok {
			return http.StatusUnprocessableEntity, "Field '" + field + "' must be a string"
		}

		if _, err := time.Parse(time.RFC3339, valueString); err != nil {
			return http.StatusUnprocessableEntity, "Field '" + field + "' must be an RFC 3339 timestamp"
		}
	}

	return 0, ""
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSONObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if body == nil {
		writeError(w, http.StatusUnprocessableEntity, "Request body is required")
		return
	}

	if status, message := validateSchedulePayload(body, true); status != 0 {
		writeError(w, status, message)
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)

	schedule := map[string]any{
		"id":        generateID("sched"),
		"status":    "ACTIVE",
		"createdAt": now,
		"updatedAt": now,
	}
	for key, value := range body {
		schedule[key] = value
	}

	s.mu.Lock()
	id := schedule["id"].(string)
	s.schedules[id] = schedule
	s.scheduleIDs = append(s.scheduleIDs, id)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	page, ok := positiveIntParam(r, "page", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "Query parameter 'page' must be a positive integer")
		return
	}

	perPage, ok := positiveIntParam(r, "perPage", 20)
	if !ok {
		writeError(w, http.StatusBadRequest, "Query parameter 'perPage' must be a positive integer")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := (page - 1) * perPage
	end := min(start+perPage, len(s.scheduleIDs))

	data := []map[string]any{}

	if start < end {
		for _, id := range s.scheduleIDs[start:end] {
			data = append(data, s.schedules[id])
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{
			"page":    page,
			"perPage": perPage,
			"count":   len(s.scheduleIDs),
		},
	})
}

// lookupSchedule resolves the path parameter, writing the error response
// itself when the schedule cannot be found.
func (s *Server) lookupSchedule(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	id := chi.URLParam(r, "scheduleID")

	// IDs are short opaque strings. Anything enormous is a malformed
	// request rather than a miss.
	if len(id) > 200 {
		writeError(w, http.StatusBadRequest, "Schedule ID is malformed")
		return nil, false
	}

	s.mu.Lock()
	schedule, ok := s.schedules[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Schedule not found")
		return nil, false
	}

	return schedule, true
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, ok := s.lookupSchedule(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) updateSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, ok := s.lookupSchedule(w, r)
	if !ok {
		return
	}

	body, err := decodeJSONObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if len(body) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "Request body is required")
		return
	}

	if status, message := validateSchedulePayload(body, false); status != 0 {
		writeError(w, status, message)
		return
	}

	s.mu.Lock()
	for key, value := range body {
		if key == "id" {
			continue
		}

		schedule[key] = value
	}
	schedule["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, ok := s.lookupSchedule(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	id := schedule["id"].(string)
	delete(s.schedules, id)
	s.scheduleIDs = slices.DeleteFunc(s.scheduleIDs, func(existing string) bool {
		return existing == id
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"message": "Schedule deleted successfully"})
}

func (s *Server) activateSchedule(w http.ResponseWriter, r *http.Request) {
	s.setScheduleStatus(w, r, "ACTIVE")
}

func (s *Server) deactivateSchedule(w http.ResponseWriter, r *http.Request) {
	s.setScheduleStatus(w, r, "DISABLED")
}

func (s *Server) setScheduleStatus(w http.ResponseWriter, r *http.Request, status string) {
	schedule, ok := s.lookupSchedule(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	schedule["status"] = status
	schedule["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, schedule)
}

// positiveIntParam parses an optional positive integer query parameter.
func positiveIntParam(r *http.Request, name string, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue, true
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 0, false
	}

	return parsed, true
}
