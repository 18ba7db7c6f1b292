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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taskmesh/api-validation/test/api"
)

var _ = Describe("Task Trigger", func() {
	Context("When triggering a single task", func() {
		Describe("Given a valid trigger payload", func() {
			It("should start a run and return its ID", func() {
				resp, err := client.TriggerTask(ctx, config.TaskIdentifier, api.NewTriggerPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				api.VerifyJSONContentType(resp)
				Expect(resp.StringProperty("id")).NotTo(BeEmpty())
				Expect(resp.HasProperty("success")).To(BeTrue())
			})

			It("should accept a custom payload object", func() {
				payload := api.NewTriggerPayload().
					WithPayload(map[string]any{"customer": "acme", "count": 3}).
					Build()

				resp, err := client.TriggerTask(ctx, config.TaskIdentifier, payload)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.StringProperty("id")).NotTo(BeEmpty())
			})

			It("should accept delay and TTL options", func() {
				payload := api.NewTriggerPayload().
					WithDelay("5m").
					WithTTL("1h").
					Build()

				resp, err := client.TriggerTask(ctx, config.TaskIdentifier, payload)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.StringProperty("id")).NotTo(BeEmpty())
			})

			It("should deduplicate triggers sharing an idempotency key", func() {
				key := api.GenerateTestID()

				first, err := client.TriggerTask(ctx, config.TaskIdentifier,
					api.NewTriggerPayload().WithIdempotencyKey(key).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(first.StatusCode).To(Equal(http.StatusOK))

				second, err := client.TriggerTask(ctx, config.TaskIdentifier,
					api.NewTriggerPayload().WithIdempotencyKey(key).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(second.StatusCode).To(Equal(http.StatusOK))

				Expect(second.StringProperty("id")).To(Equal(first.StringProperty("id")))
			})
		})

		Describe("Given an invalid trigger payload", func() {
			It("should reject a non-object payload field", func() {
				resp, err := client.TriggerTask(ctx, config.TaskIdentifier,
					map[string]any{"payload": "not-an-object"})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			})

			It("should reject non-object options", func() {
				resp, err := client.TriggerTask(ctx, config.TaskIdentifier,
					map[string]any{"payload": map[string]any{}, "options": []any{"delay"}})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			})

			It("should reject malformed JSON", func() {
				resp, err := client.RawRequest(ctx, http.MethodPost,
					client.Endpoints().TriggerTask(config.TaskIdentifier),
					"application/json", []byte(`{"payload": {`))
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			})
		})

		Describe("Given an unknown task identifier", func() {
			It("should return not found", func() {
				resp, err := client.TriggerTask(ctx, "no-such-task", api.NewTriggerPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				api.VerifyErrorBody(resp)
			})
		})

		Describe("Given no authentication", func() {
			It("should reject the request", func() {
				resp, err := client.WithAuthToken("").TriggerTask(ctx, config.TaskIdentifier,
					api.NewTriggerPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusUnauthorized, http.StatusForbidden))
			})
		})
	})

	Context("When triggering a batch of tasks", func() {
		Describe("Given a valid batch payload", func() {
			It("should start a run per item", func() {
				payload := api.NewBatchTriggerPayload().
					WithItem(config.TaskIdentifier, map[string]any{"index": 0}).
					WithItem(config.TaskIdentifier, map[string]any{"index": 1}).
					Build()

				resp, err := client.BatchTriggerTasks(ctx, payload)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				api.VerifyJSONContentType(resp)
				Expect(resp.StringProperty("batchId")).NotTo(BeEmpty())

				runs, ok := resp.Property("runs")
				Expect(ok).To(BeTrue())
				Expect(runs).To(HaveLen(2))
			})
		})

		Describe("Given an invalid batch payload", func() {
			It("should reject a missing items array", func() {
				resp, err := client.BatchTriggerTasks(ctx, map[string]any{})
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			})

			It("should reject an empty items array", func() {
				resp, err := client.BatchTriggerTasks(ctx, api.NewBatchTriggerPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			})

			It("should reject non-object items", func() {
				resp, err := client.BatchTriggerTasks(ctx,
					api.NewBatchTriggerPayload().WithRawItems([]any{"bogus"}).Build())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusBadRequest, http.StatusUnprocessableEntity))
			})
		})

		Describe("Given a batch naming an unknown task", func() {
			It("should return not found", func() {
				payload := api.NewBatchTriggerPayload().
					WithItem("no-such-task", map[string]any{}).
					Build()

				resp, err := client.BatchTriggerTasks(ctx, payload)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusNotFound, http.StatusUnprocessableEntity))
			})
		})

		Describe("Given no authentication", func() {
			It("should reject the request", func() {
				payload := api.NewBatchTriggerPayload().
					WithItem(config.TaskIdentifier, map[string]any{}).
					Build()

				resp, err := client.WithAuthToken("").BatchTriggerTasks(ctx, payload)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp.StatusCode).To(BeElementOf(http.StatusUnauthorized, http.StatusForbidden))
			})
		})
	})
})
