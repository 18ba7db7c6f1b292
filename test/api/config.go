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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type TestConfig struct {
	BaseURL        string
	AuthToken      string
	ProjectRef     string
	EnvSlug        string
	TaskIdentifier string
	RequestTimeout time.Duration
	TestTimeout    time.Duration
	LogRequests    bool
	LogResponses   bool
	ValidateSchema bool
}

// UseMockServer reports whether the suites should run against the in-process
// mock instead of a real deployment. Leaving API_BASE_URL unset selects the
// mock, which is the default in CI.
func (c *TestConfig) UseMockServer() bool {
	return c.BaseURL == ""
}

// LoadTestConfig loads configuration from environment variables and an
// optional .env file. Returns an error if the configuration is inconsistent.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:        strings.TrimSuffix(os.Getenv("API_BASE_URL"), "/"),
		AuthToken:      os.Getenv("API_AUTH_TOKEN"),
		ProjectRef:     getStringWithDefault("TEST_PROJECT_REF", "validation-project"),
		EnvSlug:        getStringWithDefault("TEST_ENV_SLUG", "dev"),
		TaskIdentifier: getStringWithDefault("TEST_TASK_IDENTIFIER", "hello-world"),
		RequestTimeout: getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:    getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		LogRequests:    getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:   getBoolWithDefault("LOG_RESPONSES", false),
		ValidateSchema: getBoolWithDefault("VALIDATE_SCHEMA", true),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func getStringWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../../test/.env", // From test/api/suites directory
		"../../test/.env",    // From test/api directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateConfig checks that the configuration is usable. A deployment URL
// without a token would only ever exercise the 401 paths, so treat it as a
// misconfiguration and say so up front.
func validateConfig(config *TestConfig) error {
	var missing []string

	if config.BaseURL != "" {
		if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
			return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", config.BaseURL)
		}

		if config.AuthToken == "" {
			missing = append(missing, "API_AUTH_TOKEN")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s. Please set these environment variables or add them to a .env file", strings.Join(missing, ", "))
	}

	return nil
}
