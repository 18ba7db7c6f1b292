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

// taskmesh-api-preflight checks that a deployment is reachable and the
// configured token is accepted before a full validation run is scheduled.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/taskmesh/api-validation/test/api"
)

func main() {
	var (
		baseURL string
		token   string
		timeout time.Duration
	)

	pflag.StringVar(&baseURL, "base-url", os.Getenv("API_BASE_URL"), "Base URL of the deployment to probe")
	pflag.StringVar(&token, "token", os.Getenv("API_AUTH_TOKEN"), "Bearer token for the deployment")
	pflag.DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	pflag.Parse()

	if baseURL == "" {
		fmt.Fprintln(os.Stderr, "a base URL is required, set --base-url or API_BASE_URL")
		os.Exit(1)
	}

	client := api.NewAPIClientWithConfig(&api.TestConfig{
		BaseURL:        baseURL,
		AuthToken:      token,
		RequestTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ListTimezones(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deployment unreachable: %v\n", err)
		os.Exit(1)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Printf("deployment at %s is ready\n", baseURL)
	case http.StatusUnauthorized, http.StatusForbidden:
		fmt.Fprintf(os.Stderr, "deployment rejected the token (status %d), check API_AUTH_TOKEN\n", resp.StatusCode)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "unexpected status %d from %s\n", resp.StatusCode, baseURL)
		os.Exit(1)
	}
}
