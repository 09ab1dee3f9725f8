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

// Package api exposes the engine's Facade over HTTP: one evaluation
// endpoint plus a health check, bound to one or more listen addresses.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/minbzk/regelrecht/api/middleware"
	"github.com/minbzk/regelrecht/service"
	"github.com/minbzk/regelrecht/value"
)

type ListenerServerPair struct {
	Listener net.Listener
	Server   *http.Server
}

func NewListenerServerPair(listener net.Listener, server *http.Server) *ListenerServerPair {
	return &ListenerServerPair{Listener: listener, Server: server}
}

func (p *ListenerServerPair) Close() error {
	if err := p.Listener.Close(); err != nil {
		return err
	}
	return p.Server.Close()
}

// HTTPAPI provides HTTP endpoints over a service.Facade.
type HTTPAPI struct {
	facade    *service.Facade
	listeners []*ListenerServerPair
}

// NewHTTPAPI creates a new HTTP API instance.
func NewHTTPAPI(facade *service.Facade) *HTTPAPI {
	return &HTTPAPI{facade: facade}
}

// EvaluateRequest is the request body for POST /evaluate/{law_id}/{output}.
type EvaluateRequest struct {
	ReferenceDate string         `json:"reference_date"`
	Parameters    map[string]any `json:"parameters"`
}

// EvaluateResponse is the response body for a successful evaluation.
type EvaluateResponse struct {
	Outputs         map[string]any `json:"outputs"`
	RequirementsMet bool           `json:"requirements_met"`
	CorrelationID   string         `json:"correlation_id"`
}

func (api *HTTPAPI) Setup(ctx context.Context, port int, listen []string) error {
	mux := http.NewServeMux()

	mux.Handle("POST /evaluate/{law_id}/{output}", http.HandlerFunc(api.handleEvaluate))
	mux.Handle("GET /health", http.HandlerFunc(api.handleHealth))

	handler := middleware.RequestIDMiddleware(mux)

	bindings, err := resolveBindings(port, listen)
	if err != nil {
		return err
	}

	api.listeners = make([]*ListenerServerPair, 0, len(bindings))
	for _, binding := range bindings {
		ln, err := net.Listen("tcp", binding)
		if err != nil {
			for _, l := range api.listeners {
				l.Close()
			}
			api.listeners = nil
			return fmt.Errorf("failed to listen on %s: %w", binding, err)
		}
		api.listeners = append(api.listeners, NewListenerServerPair(ln, &http.Server{
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			BaseContext: func(l net.Listener) context.Context {
				return ctx
			},
		}))
		slog.DebugContext(ctx, "Listening on server", "binding", binding)
	}
	return nil
}

// StartServer starts the HTTP server on the specified addresses.
func (api *HTTPAPI) StartServer(ctx context.Context, port int, listen []string) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(api.listeners))

	for _, ln := range api.listeners {
		server := ln.Server
		wg.Go(func() {
			slog.DebugContext(ctx,
				"Evaluation endpoint available",
				"method", "POST",
				"address", ln.Listener.Addr().String(),
				"url", fmt.Sprintf("http://%s/evaluate/{law_id}/{output}", ln.Listener.Addr().String()))

			slog.DebugContext(ctx,
				"Health check endpoint available",
				slog.String("method", "GET"),
				slog.String("address", ln.Listener.Addr().String()),
				slog.String("url", fmt.Sprintf("http://%s/health", ln.Listener.Addr().String())))
			if err := server.Serve(ln.Listener); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		})
	}

	defer func() {
		wg.Wait()
		close(errChan)
	}()
}

// StopServer gracefully stops the HTTP server.
func (api *HTTPAPI) StopServer(ctx context.Context) error {
	if api.listeners != nil {
		for _, ln := range api.listeners {
			ln.Close()
		}
		api.listeners = nil
	}
	return nil
}

// handleEvaluate handles POST /evaluate/{law_id}/{output}.
func (api *HTTPAPI) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	lawID := r.PathValue("law_id")
	output := r.PathValue("output")
	if lawID == "" || output == "" {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid Path", "both law_id and output path segments are required")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", "the request body could not be parsed as valid JSON")
		return
	}

	dateStr := req.ReferenceDate
	if dateStr == "" {
		dateStr = time.Now().UTC().Format("2006-01-02")
	}
	referenceDate, err := value.ParseDate(dateStr)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}

	types, err := api.facade.ParameterTypes(lawID, output, referenceDate)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusUnprocessableEntity, "Evaluation Failed", err.Error())
		return
	}
	parameters, err := value.FromAnyMap(req.Parameters, types)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid Parameters", err.Error())
		return
	}

	result, err := api.facade.Evaluate(ctx, lawID, output, referenceDate, parameters)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusUnprocessableEntity, "Evaluation Failed", err.Error())
		return
	}

	resp := EvaluateResponse{
		Outputs:         value.ToAnyMap(result.Outputs),
		RequirementsMet: result.RequirementsMet,
		CorrelationID:   result.CorrelationID,
	}

	w.Header().Set("X-Request-Id", middleware.GetRequestIDFromRequest(r))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.DebugContext(ctx, "Error encoding response", "error", err)
	}
}

// handleHealth handles GET /health requests.
func (api *HTTPAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.DebugContext(r.Context(), "Error encoding health response", "error", err)
	}
}

// writeErrorResponse writes an RFC 9457 Problem Details error response.
func (api *HTTPAPI) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(statusCode)

	response := NewProblemDetails(
		fmt.Sprintf("https://minbzk.nl/regelrecht/problems/%d", statusCode),
		title,
		detail,
		r.URL.Path,
		statusCode,
		map[string]any{"timestamp": time.Now().UTC().Format(time.RFC3339)},
	)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.DebugContext(r.Context(), "Error encoding problem details response", "error", err)
	}
}
