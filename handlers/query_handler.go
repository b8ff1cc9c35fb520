/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package handlers provides HTTP handlers serving chart data to renderer
// clients.  A DataRequest arrives either JSON-encoded in the 'req' form value
// of a GET or form POST, or as the JSON body of a POST.  Charts with no rows
// are answered with 404 Not Found; other failures abort the whole request.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/gostafie/nextreports-engine/cursor"
	querydispatcher "github.com/gostafie/nextreports-engine/query_dispatcher"
	"github.com/gostafie/nextreports-engine/util"
)

// HandlerFunc is a HTTP handler function.
type HandlerFunc func(http.ResponseWriter, *http.Request)

// WrapFunc is a function that rewrites a HandlerFunc.
type WrapFunc func(HandlerFunc) HandlerFunc

// Handler describes a chart data HTTP handler.
type Handler interface {
	HandlersByPath() map[string]func(http.ResponseWriter, *http.Request)
}

// QueryHandler is a Handler for chart data queries.  Wrap applies wrappers,
// such as request timing, to all its handlers; the last wrapper provided is
// the outermost.
type QueryHandler interface {
	Handler
	Wrap(...WrapFunc) Handler
}

const (
	dataMethod = "/GetData"
	reqKey     = "req"

	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 1 << 20
)

type contextKey string

var httpReqKey contextKey = "chartdata_http_req"

// RequestOf returns the http Request attached to the provided Context, or nil
// if no Request is attached.  Returns an error if something other than a
// Request is stored in the Context.
func RequestOf(ctx context.Context) (*http.Request, error) {
	reqIf := ctx.Value(httpReqKey)
	if reqIf == nil {
		return nil, nil
	}
	req, ok := reqIf.(*http.Request)
	if !ok {
		return nil, fmt.Errorf("expected *http.Request to be stored in context, but got %T", reqIf)
	}
	return req, nil
}

type queryHandler struct {
	qd       *querydispatcher.QueryDispatcher
	log      logr.Logger
	wrappers []WrapFunc
}

// NewQueryHandler returns a new QueryHandler serving chart data requests
// with the provided QueryDispatcher.  Failed requests are logged to the
// provided Logger.
func NewQueryHandler(qd *querydispatcher.QueryDispatcher, log logr.Logger) QueryHandler {
	return &queryHandler{
		qd:  qd,
		log: log.WithName("query-handler"),
	}
}

func (qh *queryHandler) Wrap(wrappers ...WrapFunc) Handler {
	qh.wrappers = append(qh.wrappers, wrappers...)
	return qh
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler for
// this Handler.
func (qh *queryHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	var dh HandlerFunc = qh.getDataHandler
	for _, wrapper := range qh.wrappers {
		dh = wrapper(dh)
	}
	return map[string]func(http.ResponseWriter, *http.Request){
		dataMethod: dh,
	}
}

// readDataRequest decodes the DataRequest carried by the provided request.
func readDataRequest(w http.ResponseWriter, req *http.Request) (*util.DataRequest, error) {
	if req.Method == http.MethodPost {
		mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if mediaType == "application/json" {
			body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
			if err != nil {
				return nil, fmt.Errorf("failed to read request body: %w", err)
			}
			return util.DataRequestFromJSON(body)
		}
	}
	if err := req.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return util.DataRequestFromJSON([]byte(req.Form.Get(reqKey)))
}

// statusOf returns the HTTP status reporting the provided request failure.
func statusOf(err error) int {
	if errors.Is(err, cursor.ErrNoData) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (qh *queryHandler) getDataHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Unsupported method "+req.Method, http.StatusMethodNotAllowed)
		return
	}
	dataReq, err := readDataRequest(w, req)
	if err != nil {
		http.Error(w, "Failed to parse DataRequest: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := qh.qd.HandleDataRequest(context.WithValue(req.Context(), httpReqKey, req), dataReq)
	if err != nil {
		qh.log.Error(err, "data request failed", "series", len(dataReq.SeriesRequests))
		http.Error(w, "DataRequest failed: "+err.Error(), statusOf(err))
		return
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(respBytes)
}
