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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taskmesh/api-validation/test/api"
)

var _ = Describe("Error Handling Edge Cases", func() {
	Context("When requests carry malformed bodies", func() {
		It("should reject truncated JSON on schedule creation", func() {
			resp, err := client.RawRequest(ctx, http.MethodPost,
				client.Endpoints().CreateSchedule(),
				"application/json", []byte(`{"name": "unterminated`))
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			api.VerifyJSONContentType(resp)
		})

		It("should reject a JSON array where an object is expected", func() {
			resp, err := client.RawRequest(ctx, http.MethodPost,
				client.Endpoints().CreateSchedule(),
				"application/json", []byte(`["not", "an", "object"]`))
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
		})

		It("should reject a plain-text body on task trigger", func() {
			resp, err := client.RawRequest(ctx, http.MethodPost,
				client.Endpoints().TriggerTask(config.TaskIdentifier),
				"text/plain", []byte("this is not json"))
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusBadRequest,
				http.StatusUnsupportedMediaType,
				http.StatusUnprocessableEntity,
			))
		})
	})

	Context("When path parameters are hostile", func() {
		It("should tolerate URL metacharacters in a schedule ID", func() {
			resp, err := client.GetSchedule(ctx, "../../../etc/passwd")
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusBadRequest,
				http.StatusNotFound,
				http.StatusUnprocessableEntity,
			))
		})

		It("should tolerate percent-encoded characters in a variable name", func() {
			resp, err := client.GetEnvVar(ctx, config.ProjectRef, config.EnvSlug, "VAR%20NAME")
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusBadRequest,
				http.StatusNotFound,
				http.StatusUnprocessableEntity,
			))
		})

		It("should tolerate a unicode schedule ID", func() {
			resp, err := client.GetSchedule(ctx, "计划-ид-🗓")
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusBadRequest,
				http.StatusNotFound,
				http.StatusUnprocessableEntity,
			))
		})
	})

	Context("When payloads are oversized", func() {
		It("should bound schedule names", func() {
			payload := api.NewSchedulePayload().
				WithName(strings.Repeat("n", 100000)).
				Build()

			resp, err := client.CreateSchedule(ctx, payload)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusOK,
				http.StatusBadRequest,
				http.StatusRequestEntityTooLarge,
				http.StatusUnprocessableEntity,
			))

			if resp.StatusCode == http.StatusOK {
				_, _ = client.DeleteSchedule(ctx, resp.StringProperty("id"))
			}
		})

		It("should bound metadata payloads", func() {
			runID := api.TriggerRunFixture(client, ctx, config)

			builder := api.NewMetadataPayload()
			for _, key := range []string{"a", "b", "c"} {
				builder.WithEntry(key, strings.Repeat("v", 10000))
			}

			resp, err := client.UpdateRunMetadata(ctx, runID, builder.Build())
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusOK,
				http.StatusBadRequest,
				http.StatusRequestEntityTooLarge,
				http.StatusUnprocessableEntity,
			))
		})
	})

	Context("When methods do not match routes", func() {
		It("should reject PATCH on the schedules collection", func() {
			resp, err := client.RawRequest(ctx, http.MethodPatch,
				client.Endpoints().ListSchedules(), "application/json", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusBadRequest,
				http.StatusNotFound,
				http.StatusMethodNotAllowed,
			))
		})

		It("should reject GET on the trigger endpoint", func() {
			resp, err := client.RawRequest(ctx, http.MethodGet,
				client.Endpoints().TriggerTask(config.TaskIdentifier), "application/json", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(BeElementOf(
				http.StatusBadRequest,
				http.StatusNotFound,
				http.StatusMethodNotAllowed,
			))
		})
	})

	Context("When routes do not exist", func() {
		It("should return a JSON not-found error", func() {
			resp, err := client.RawRequest(ctx, http.MethodGet,
				"/api/v1/definitely-not-a-route", "application/json", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			api.VerifyJSONContentType(resp)
		})
	})

	Context("When responses report errors", func() {
		It("should always use a JSON content type", func() {
			responses := []func() (*api.APIResponse, error){
				func() (*api.APIResponse, error) { return client.GetSchedule(ctx, "missing") },
				func() (*api.APIResponse, error) { return client.GetRun(ctx, "missing") },
				func() (*api.APIResponse, error) {
					return client.TriggerTask(ctx, "missing-task", api.NewTriggerPayload().Build())
				},
			}

			for _, request := range responses {
				resp, err := request()
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				api.VerifyJSONContentType(resp)
			}
		})
	})
})
