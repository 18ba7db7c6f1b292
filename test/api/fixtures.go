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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// CreateScheduleWithCleanup creates a schedule and schedules automatic
// deletion, so tests never leak schedules into a shared deployment.
func CreateScheduleWithCleanup(client *APIClient, ctx context.Context, payload map[string]any) (*APIResponse, string) {
	resp, err := client.CreateSchedule(ctx, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.ExpectStatus(http.StatusOK)).To(Succeed())

	scheduleID := resp.StringProperty("id")
	Expect(scheduleID).NotTo(BeEmpty())

	GinkgoWriter.Printf("Created schedule with ID: %s\n", scheduleID)

	// Cleanup runs whether the test passes or fails.
	DeferCleanup(func(ctx context.Context) {
		GinkgoWriter.Printf("Cleaning up schedule: %s\n", scheduleID)

		deleteResp, deleteErr := client.DeleteSchedule(ctx, scheduleID)
		if deleteErr != nil {
			GinkgoWriter.Printf("Warning: failed to delete schedule %s: %v\n", scheduleID, deleteErr)
			return
		}

		// 404 means the test already deleted it, which is fine.
		if deleteResp.StatusCode != http.StatusOK && deleteResp.StatusCode != http.StatusNotFound {
			GinkgoWriter.Printf("Warning: deleting schedule %s returned status %d\n", scheduleID, deleteResp.StatusCode)
		}
	})

	return resp, scheduleID
}

// CreateEnvVarFixture imports a single environment variable and schedules
// its deletion.
func CreateEnvVarFixture(client *APIClient, ctx context.Context, config *TestConfig, name, value string) {
	payload := NewEnvVarsImport().
		WithVariable(name, value).
		WithOverride(true).
		Build()

	resp, err := client.ImportEnvVars(ctx, config.ProjectRef, config.EnvSlug, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.ExpectStatus(http.StatusOK)).To(Succeed())

	DeferCleanup(func(ctx context.Context) {
		deleteResp, deleteErr := client.DeleteEnvVar(ctx, config.ProjectRef, config.EnvSlug, name)
		if deleteErr != nil {
			GinkgoWriter.Printf("Warning: failed to delete envvar %s: %v\n", name, deleteErr)
			return
		}

		if deleteResp.StatusCode != http.StatusOK && deleteResp.StatusCode != http.StatusNotFound {
			GinkgoWriter.Printf("Warning: deleting envvar %s returned status %d\n", name, deleteResp.StatusCode)
		}
	})
}

// TriggerRunFixture triggers the configured task and returns the new run ID.
func TriggerRunFixture(client *APIClient, ctx context.Context, config *TestConfig) string {
	resp, err := client.TriggerTask(ctx, config.TaskIdentifier, NewTriggerPayload().Build())
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.ExpectStatus(http.StatusOK)).To(Succeed())

	runID := resp.StringProperty("id")
	Expect(runID).NotTo(BeEmpty())

	GinkgoWriter.Printf("Triggered run with ID: %s\n", runID)

	return runID
}

// TriggerDelayedRunFixture triggers the configured task with a delay so the
// run stays in the DELAYED state, which reschedule requires.
func TriggerDelayedRunFixture(client *APIClient, ctx context.Context, config *TestConfig) string {
	resp, err := client.TriggerTask(ctx, config.TaskIdentifier,
		NewTriggerPayload().
			WithDelay("1h").
			Build())
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.ExpectStatus(http.StatusOK)).To(Succeed())

	runID := resp.StringProperty("id")
	Expect(runID).NotTo(BeEmpty())

	return runID
}

// VerifyJSONContentType asserts the response declares application/json.
func VerifyJSONContentType(resp *APIResponse) {
	Expect(resp.ContentType()).To(ContainSubstring("application/json"),
		"expected JSON content type, got %q", resp.ContentType())
}

// VerifyErrorBody asserts the response carries a top-level error string.
func VerifyErrorBody(resp *APIResponse) {
	value, ok := resp.Property("error")
	Expect(ok).To(BeTrue(), "expected top-level 'error' property, body: %s", string(resp.Body))
	Expect(value).To(BeAssignableToTypeOf(""), "expected 'error' to be a string")
}

// VerifySchedulePresence verifies that schedule IDs appear in a list response.
func VerifySchedulePresence(resp *APIResponse, expectedIDs []string) {
	data, ok := resp.Property("data")
	Expect(ok).To(BeTrue(), "expected top-level 'data' property")

	items, ok := data.([]any)
	Expect(ok).To(BeTrue(), "expected 'data' to be an array")

	ids := make([]string, 0, len(items))

	for _, item := range items {
		schedule, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if id, ok := schedule["id"].(string); ok {
			ids = append(ids, id)
		}
	}

	for _, expectedID := range expectedIDs {
		Expect(ids).To(ContainElement(expectedID), "Expected schedule ID %s to be present in the list", expectedID)
	}
}

// VerifyEnvVarPresence verifies that a variable name appears in a list response.
func VerifyEnvVarPresence(resp *APIResponse, name string) {
	value, ok := resp.Property("envVars")
	Expect(ok).To(BeTrue(), "expected top-level 'envVars' property")

	items, ok := value.([]any)
	Expect(ok).To(BeTrue(), "expected 'envVars' to be an array")

	names := make([]string, 0, len(items))

	for _, item := range items {
		envVar, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if n, ok := envVar["name"].(string); ok {
			names = append(names, n)
		}
	}

	Expect(names).To(ContainElement(name), "Expected variable %s to be present in the list", name)
}
