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
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var openapiDocument []byte

// SchemaValidator checks responses against the published OpenAPI document.
// Validation is best effort: routes or statuses the document does not know
// about are skipped rather than failed, mirroring how the suites treat
// uncertain server behaviour.
type SchemaValidator struct {
	router routers.Router
}

// NewSchemaValidator loads and validates the embedded OpenAPI document.
func NewSchemaValidator() (*SchemaValidator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("loading OpenAPI document: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating OpenAPI document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI router: %w", err)
	}

	return &SchemaValidator{router: router}, nil
}

// ValidateResponse validates a response body against the schema declared for
// the route and status. Unknown routes return nil.
func (v *SchemaValidator) ValidateResponse(method, path string, status int, header http.Header, body []byte) error {
	req, err := http.NewRequest(method, "http://taskmesh.local"+path, nil)
	if err != nil {
		return fmt.Errorf("building validation request: %w", err)
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		// Deliberately-broken requests hit routes the document does not
		// describe. Those are not schema violations.
		return nil
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		},
		Status: status,
		Header: header,
	}
	input.SetBodyBytes(body)

	if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
		return fmt.Errorf("response does not match schema for %s %s (status %d): %w", method, path, status, err)
	}

	return nil
}
