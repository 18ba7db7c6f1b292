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

// Package api provides integration test utilities for the Taskmesh API.
//
// # Separate Client Implementation
//
// This package intentionally maintains a separate HTTP client implementation
// (APIClient) instead of a generated OpenAPI client. Having an independent
// client implementation serves as a form of triangulation on API correctness:
// any legitimate change to the published API surface must have a compensating
// change here, making API evolution explicit and reviewable.
//
// The custom client also includes features tailored for integration testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - Flexible authentication token management, including token removal to
//     exercise unauthenticated paths
//   - Direct access to HTTP status codes, headers and response bodies, since
//     the suites assert on status-code sets rather than decoded models
//   - Best-effort response validation against the embedded OpenAPI document
//
// # Mock Server
//
// When API_BASE_URL is not set the suites mount the in-memory implementation
// from the test/mock package on an httptest server, so the whole suite runs
// hermetically in CI. Point API_BASE_URL and API_AUTH_TOKEN at a deployment
// to run the same suites against the real service.
package api
