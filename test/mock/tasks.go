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

	"github.com/go-chi/chi/v5"
)

func (s *Server) triggerTask(w http.ResponseWriter, r *http.Request) {
	taskIdentifier := chi.URLParam(r, "taskIdentifier")

	if !s.tasks.Contains(taskIdentifier) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	body, err := decodeJSONObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	status, message := validateTriggerBody(body)
	if status != 0 {
		writeError(w, status, message)
		return
	}

	delayed := false
	idempotencyKey := ""

	if options, ok := body["options"].(map[string]any); ok {
		if delay, ok := options["delay"].(string); ok && delay != "" {
			delayed = true
		}

		idempotencyKey, _ = options["idempotencyKey"].(string)
	}

	s.mu.Lock()

	if idempotencyKey != "" {
		if existing, ok := s.idempotency[taskIdentifier+"/"+idempotencyKey]; ok {
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{
				"id":      existing,
				"success": true,
				"message": "Task already triggered",
			})

			return
		}
	}

	newRun := s.createRunLocked(taskIdentifier, delayed)

	if idempotencyKey != "" {
		s.idempotency[taskIdentifier+"/"+idempotencyKey] = newRun.id
	}

	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      newRun.id,
		"success": true,
		"message": "Task triggered",
	})
}

func (s *Server) batchTriggerTasks(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSONObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if body == nil {
		writeError(w, http.StatusUnprocessableEntity, "Request body is required")
		return
	}

	items, ok := body["items"].([]any)
	if !ok || len(items) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "Field 'items' is required and must be a non-empty array")
		return
	}

	type batchItem struct {
		task    string
		delayed bool
	}

	parsed := make([]batchItem, 0, len(items))

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "Batch items must be objects")
			return
		}

		task, ok := entry["task"].(string)
		if !ok || task == "" {
			writeError(w, http.StatusUnprocessableEntity, "Batch items must name a task")
			return
		}

		if !s.tasks.Contains(task) {
			writeError(w, http.StatusNotFound, "Task not found: "+task)
			return
		}

		if status, message := validateTriggerBody(entry); status != 0 {
			writeError(w, status, message)
			return
		}

		delayed := false
		if options, ok := entry["options"].(map[string]any); ok {
			if delay, ok := options["delay"].(string); ok && delay != "" {
				delayed = true
			}
		}

		parsed = append(parsed, batchItem{task: task, delayed: delayed})
	}

	s.mu.Lock()

	runs := make([]map[string]any, 0, len(parsed))

	for _, item := range parsed {
		newRun := s.createRunLocked(item.task, item.delayed)
		runs = append(runs, map[string]any{
			"id":     newRun.id,
			"status": newRun.status,
		})
	}

	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"batchId": generateID("batch"),
		"runs":    runs,
	})
}

// validateTriggerBody checks the optional trigger fields shared between
// single and batch triggers. Returns a status and message on failure.
func validateTriggerBody(body map[string]any) (int, string) {
	if body == nil {
		return 0, ""
	}

	if payload, ok := body["payload"]; ok {
		if _, isObject := payload.(map[string]any); !isObject {
			return http.StatusUnprocessableEntity, "Field 'payload' must be an object"
		}
	}

	if options, ok := body["options"]; ok {
		if _, isObject := options.(map[string]any); !isObject {
			return http.StatusUnprocessableEntity, "Field 'options' must be an object"
		}
	}

	return 0, ""
}
