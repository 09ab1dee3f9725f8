// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minbzk/regelrecht/loader"
	"github.com/minbzk/regelrecht/service"
)

const fixtureLawYAML = `
id: test_wet
regulatory_layer: WET
valid_from: 2024-01-01
articles:
  - number: "1"
    machine_readable:
      definitions:
        threshold: 100
      execution:
        parameters:
          - name: income
            value_type: float
            required: true
        outputs: [eligible]
        actions:
          - output: eligible
            value:
              op: GREATER_THAN_OR_EQUAL
              subject: {op: REF, name: income}
              against: {op: REF, name: threshold}
`

func newTestAPI(t *testing.T) *HTTPAPI {
	t.Helper()
	law, err := loader.ParseLaw([]byte(fixtureLawYAML))
	require.NoError(t, err)

	facade := service.New(nil)
	require.NoError(t, facade.LoadLaw(law))

	return NewHTTPAPI(facade)
}

func TestHandleEvaluate_Success(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(EvaluateRequest{
		ReferenceDate: "2024-06-01",
		Parameters:    map[string]any{"income": 150},
	})
	req := httptest.NewRequest(http.MethodPost, "/evaluate/test_wet/eligible", bytes.NewReader(body)).WithContext(context.Background())
	req.SetPathValue("law_id", "test_wet")
	req.SetPathValue("output", "eligible")
	w := httptest.NewRecorder()

	api.handleEvaluate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp EvaluateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, true, resp.Outputs["eligible"])
}

func TestHandleEvaluate_UnknownLaw(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(EvaluateRequest{ReferenceDate: "2024-06-01", Parameters: map[string]any{}})
	req := httptest.NewRequest(http.MethodPost, "/evaluate/nope/eligible", bytes.NewReader(body)).WithContext(context.Background())
	req.SetPathValue("law_id", "nope")
	req.SetPathValue("output", "eligible")
	w := httptest.NewRecorder()

	api.handleEvaluate(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleEvaluate_BadJSON(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/evaluate/test_wet/eligible", bytes.NewReader([]byte("{not json"))).WithContext(context.Background())
	req.SetPathValue("law_id", "test_wet")
	req.SetPathValue("output", "eligible")
	w := httptest.NewRecorder()

	api.handleEvaluate(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	api.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
