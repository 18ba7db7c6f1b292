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

package api

import (
	"fmt"
	"net/url"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Schedule management endpoints.
func (e *Endpoints) CreateSchedule() string {
	return "/api/v1/schedules"
}

func (e *Endpoints) ListSchedules() string {
	return "/api/v1/schedules"
}

func (e *Endpoints) GetSchedule(scheduleID string) string {
	return fmt.Sprintf("/api/v1/schedules/%s", url.PathEscape(scheduleID))
}

func (e *Endpoints) UpdateSchedule(scheduleID string) string {
	return fmt.Sprintf("/api/v1/schedules/%s", url.PathEscape(scheduleID))
}

func (e *Endpoints) DeleteSchedule(scheduleID string) string {
	return fmt.Sprintf("/api/v1/schedules/%s", url.PathEscape(scheduleID))
}

func (e *Endpoints) ActivateSchedule(scheduleID string) string {
	return fmt.Sprintf("/api/v1/schedules/%s/activate", url.PathEscape(scheduleID))
}

func (e *Endpoints) DeactivateSchedule(scheduleID string) string {
	return fmt.Sprintf("/api/v1/schedules/%s/deactivate", url.PathEscape(scheduleID))
}

// Project environment variable endpoints.
func (e *Endpoints) ListEnvVars(projectRef, env string) string {
	return fmt.Sprintf("/api/v1/projects/%s/envvars/%s",
		url.PathEscape(projectRef), url.PathEscape(env))
}

func (e *Endpoints) ImportEnvVars(projectRef, env string) string {
	return fmt.Sprintf("/api/v1/projects/%s/envvars/%s/import",
		url.PathEscape(projectRef), url.PathEscape(env))
}

func (e *Endpoints) GetEnvVar(projectRef, env, name string) string {
	return fmt.Sprintf("/api/v1/projects/%s/envvars/%s/%s",
		url.PathEscape(projectRef), url.PathEscape(env), url.PathEscape(name))
}

func (e *Endpoints) UpdateEnvVar(projectRef, env, name string) string {
	return fmt.Sprintf("/api/v1/projects/%s/envvars/%s/%s",
		url.PathEscape(projectRef), url.PathEscape(env), url.PathEscape(name))
}

func (e *Endpoints) DeleteEnvVar(projectRef, env, name string) string {
	return fmt.Sprintf("/api/v1/projects/%s/envvars/%s/%s",
		url.PathEscape(projectRef), url.PathEscape(env), url.PathEscape(name))
}

// Task trigger endpoints.
func (e *Endpoints) TriggerTask(taskIdentifier string) string {
	return fmt.Sprintf("/api/v1/tasks/%s/trigger", url.PathEscape(taskIdentifier))
}

func (e *Endpoints) BatchTriggerTasks() string {
	return "/api/v1/tasks/batch"
}

// Run operation endpoints.
func (e *Endpoints) ListProjectRuns(projectRef string) string {
	return fmt.Sprintf("/api/v1/projects/%s/runs", url.PathEscape(projectRef))
}

func (e *Endpoints) GetRun(runID string) string {
	return fmt.Sprintf("/api/v1/runs/%s", url.PathEscape(runID))
}

func (e *Endpoints) CancelRun(runID string) string {
	return fmt.Sprintf("/api/v2/runs/%s/cancel", url.PathEscape(runID))
}

func (e *Endpoints) ReplayRun(runID string) string {
	return fmt.Sprintf("/api/v1/runs/%s/replay", url.PathEscape(runID))
}

func (e *Endpoints) RescheduleRun(runID string) string {
	return fmt.Sprintf("/api/v1/runs/%s/reschedule", url.PathEscape(runID))
}

func (e *Endpoints) UpdateRunMetadata(runID string) string {
	return fmt.Sprintf("/api/v1/runs/%s/metadata", url.PathEscape(runID))
}

// Metadata endpoints.
func (e *Endpoints) ListTimezones() string {
	return "/api/v1/timezones"
}
