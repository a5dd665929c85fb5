// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/rjq-project/rjq/internal/queryengine"
	"github.com/rjq-project/rjq/pkg/errutil"
)

// tracer names the spans handleQuery creates around compile+run when an
// incoming request carries a W3C traceparent header.
var tracer = otel.Tracer("github.com/rjq-project/rjq/internal/server")

// queryRequest is the POST /v1/query request body. Mode selects between the
// host API's two evaluation entry points (spec §6.1): "run" returns every
// result, "first" returns only the first (or null). Mode defaults to "run".
type queryRequest struct {
	Query string          `json:"query"`
	Input json.RawMessage `json:"input"`
	Mode  string          `json:"mode,omitempty"`
}

// queryResponse is the POST /v1/query response body. Error is populated on
// failure; on success Result holds the presented value, and the "result" key
// is omitted when that value is null.
type queryResponse struct {
	RequestID string `json:"request_id"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// programCache avoids recompiling the same query text within a process
// lifetime. It is a plain map guarded by a mutex, not an LRU — entries are
// never evicted, matching SPEC_FULL.md's "cache, not state" framing: it is
// cleared by process restart and carries no information between distinct
// input documents.
type programCache struct {
	mu       sync.RWMutex
	programs map[string]*queryengine.Program
}

func newProgramCache() *programCache {
	return &programCache{programs: make(map[string]*queryengine.Program)}
}

func (c *programCache) compile(query string) (*queryengine.Program, error) {
	c.mu.RLock()
	p, ok := c.programs[query]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := queryengine.Compile(query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.programs[query] = p
	c.mu.Unlock()
	return p, nil
}

// handleQuery implements POST /v1/query: compile the request's query,
// decode its input, run the program, and present the result per spec §6.4.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := ulid.Make().String()
	logger := slog.With("request_id", requestID)

	if r.Header.Get("traceparent") != "" {
		ctx := propagation.TraceContext{}.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, "query.compile_and_run")
		defer span.End()
		r = r.WithContext(ctx)
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeQueryError(w, http.StatusBadRequest, requestID, "malformed", start, err)
		return
	}

	program, err := s.programs.compile(req.Query)
	if err != nil {
		errutil.LogError(logger, "query compile failed", err)
		s.writeQueryError(w, http.StatusBadRequest, requestID, "parse_error", start, err)
		return
	}

	input, err := queryengine.FromJSONText(string(req.Input))
	if err != nil {
		errutil.LogError(logger, "input decode failed", err)
		s.writeQueryError(w, http.StatusBadRequest, requestID, "decode_error", start, err)
		return
	}

	results := program.Run(input)

	var result queryengine.Value
	switch req.Mode {
	case "first":
		if v, ok := program.First(input); ok {
			result = v
		} else {
			result = queryengine.Null
		}
	default:
		result = queryengine.Present(results)
	}

	s.metrics.RequestsTotal.WithLabelValues("ok").Inc()
	s.metrics.RequestDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(queryResponse{
		RequestID: requestID,
		Result:    queryengine.ToHostNative(result),
	})
}

func (s *Server) writeQueryError(w http.ResponseWriter, status int, requestID, outcome string, start time.Time, err error) {
	s.metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.RequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(queryResponse{
		RequestID: requestID,
		Error:     err.Error(),
	})
}
