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
	"strconv"
)

// knownTimezones is a representative slice of the IANA database, enough for
// the suites to assert shape and UTC exclusion.
var knownTimezones = []string{
	"UTC",
	"Africa/Cairo",
	"America/New_York",
	"America/Sao_Paulo",
	"Asia/Kolkata",
	"Asia/Tokyo",
	"Australia/Sydney",
	"Europe/Berlin",
	"Europe/London",
	"Pacific/Auckland",
}

func (s *Server) listTimezones(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	excludeUTC := false

	if query.Has("excludeUtc") {
		value := query.Get("excludeUtc")

		parsed, err := strconv.ParseBool(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Query parameter 'excludeUtc' must be a boolean")
			return
		}

		excludeUTC = parsed
	}

	timezones := []string{}

	for _, tz := range knownTimezones {
		if excludeUTC && tz == "UTC" {
			continue
		}

		timezones = append(timezones, tz)
	}

	writeJSON(w, http.StatusOK, map[string]any{"timezones": timezones})
}
