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
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// generateRandomName returns a prefixed random identifier for test resources.
func generateRandomName(prefix string) string {
	bytes := make([]byte, 4)
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// SchedulePayloadBuilder builds schedule payloads for testing.
type SchedulePayloadBuilder struct {
	payload map[string]any
}

// NewSchedulePayload creates a schedule payload builder with sensible
// defaults and a unique name.
func NewSchedulePayload() *SchedulePayloadBuilder {
	timestamp := time.Now().Format("20060102-150405")
	uniqueName := fmt.Sprintf("testautomation-%s", timestamp)

	start := time.Now().Add(time.Hour).UTC()

	return &SchedulePayloadBuilder{
		payload: map[string]any{
			"name":    uniqueName,
			"type":    "IMPERATIVE",
			"startAt": start.Format(time.RFC3339),
			"endAt":   start.Add(2 * time.Hour).Format(time.RFC3339),
		},
	}
}

// WithName sets the schedule name.
func (b *SchedulePayloadBuilder) WithName(name string) *SchedulePayloadBuilder {
	b.payload["name"] = name
	return b
}

// WithType sets the schedule type.
func (b *SchedulePayloadBuilder) WithType(scheduleType string) *SchedulePayloadBuilder {
	b.payload["type"] = scheduleType
	return b
}

// WithField sets an arbitrary field, including wrong-typed values for
// validation testing.
func (b *SchedulePayloadBuilder) WithField(key string, value any) *SchedulePayloadBuilder {
	b.payload[key] = value
	return b
}

// Without removes a field to exercise missing-required-field handling.
func (b *SchedulePayloadBuilder) Without(key string) *SchedulePayloadBuilder {
	delete(b.payload, key)
	return b
}

// Build returns the completed schedule payload.
func (b *SchedulePayloadBuilder) Build() map[string]any {
	return b.payload
}

// TriggerPayloadBuilder builds task trigger payloads.
type TriggerPayloadBuilder struct {
	payload map[string]any
}

func NewTriggerPayload() *TriggerPayloadBuilder {
	return &TriggerPayloadBuilder{
		payload: map[string]any{
			"payload": map[string]any{
				"source": "validation-suite",
			},
		},
	}
}

// WithPayload replaces the task payload body.
func (b *TriggerPayloadBuilder) WithPayload(payload any) *TriggerPayloadBuilder {
	b.payload["payload"] = payload
	return b
}

// WithIdempotencyKey sets the trigger idempotency key option.
func (b *TriggerPayloadBuilder) WithIdempotencyKey(key string) *TriggerPayloadBuilder {
	b.options()["idempotencyKey"] = key
	return b
}

// WithDelay sets the trigger delay option.
func (b *TriggerPayloadBuilder) WithDelay(delay string) *TriggerPayloadBuilder {
	b.options()["delay"] = delay
	return b
}

// WithTTL sets the trigger TTL option.
func (b *TriggerPayloadBuilder) WithTTL(ttl string) *TriggerPayloadBuilder {
	b.options()["ttl"] = ttl
	return b
}

func (b *TriggerPayloadBuilder) options() map[string]any {
	options, ok := b.payload["options"].(map[string]any)
	if !ok {
		options = map[string]any{}
		b.payload["options"] = options
	}

	return options
}

// Build returns the completed trigger payload.
func (b *TriggerPayloadBuilder) Build() map[string]any {
	return b.payload
}

// BatchTriggerBuilder builds batch trigger payloads.
type BatchTriggerBuilder struct {
	payload map[string]any
	items   []map[string]any
}

func NewBatchTriggerPayload() *BatchTriggerBuilder {
	return &BatchTriggerBuilder{
		payload: map[string]any{},
		items:   []map[string]any{},
	}
}

// WithItem appends a batch item for the given task.
func (b *BatchTriggerBuilder) WithItem(taskIdentifier string, payload any) *BatchTriggerBuilder {
	b.items = append(b.items, map[string]any{
		"task":    taskIdentifier,
		"payload": payload,
	})

	return b
}

// WithRawItems replaces the items field entirely, wrong types included.
func (b *BatchTriggerBuilder) WithRawItems(items any) *BatchTriggerBuilder {
	b.payload["items"] = items
	b.items = nil

	return b
}

// Build returns the completed batch payload.
func (b *BatchTriggerBuilder) Build() map[string]any {
	if b.items != nil {
		b.payload["items"] = b.items
	}

	return b.payload
}

// EnvVarsImportBuilder builds environment variable import payloads.
type EnvVarsImportBuilder struct {
	variables map[string]any
	override  bool
}

func NewEnvVarsImport() *EnvVarsImportBuilder {
	return &EnvVarsImportBuilder{
		variables: map[string]any{},
	}
}

// WithVariable adds a variable to the import set.
func (b *EnvVarsImportBuilder) WithVariable(name, value string) *EnvVarsImportBuilder {
	b.variables[name] = value
	return b
}

// WithRawVariable adds a variable with an arbitrary value type.
func (b *EnvVarsImportBuilder) WithRawVariable(name string, value any) *EnvVarsImportBuilder {
	b.variables[name] = value
	return b
}

// WithOverride controls whether existing variables are overwritten.
func (b *EnvVarsImportBuilder) WithOverride(override bool) *EnvVarsImportBuilder {
	b.override = override
	return b
}

// Build returns the completed import payload.
func (b *EnvVarsImportBuilder) Build() map[string]any {
	return map[string]any{
		"variables": b.variables,
		"override":  b.override,
	}
}

// MetadataBuilder builds run metadata payloads.
type MetadataBuilder struct {
	metadata map[string]any
}

func NewMetadataPayload() *MetadataBuilder {
	return &MetadataBuilder{
		metadata: map[string]any{},
	}
}

// WithEntry adds a metadata entry.
func (b *MetadataBuilder) WithEntry(key string, value any) *MetadataBuilder {
	b.metadata[key] = value
	return b
}

// Build returns the completed metadata payload.
func (b *MetadataBuilder) Build() map[string]any {
	return map[string]any{
		"metadata": b.metadata,
	}
}
