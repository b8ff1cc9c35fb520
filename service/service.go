/*
	Copyright 2024 The nextreports-engine Authors
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

// Package service assembles the chart data HTTP service.
package service

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"

	chartspec "github.com/gostafie/nextreports-engine/chart_spec"
	datasource "github.com/gostafie/nextreports-engine/data_source"
	"github.com/gostafie/nextreports-engine/handlers"
	querydispatcher "github.com/gostafie/nextreports-engine/query_dispatcher"
)

// Service serves chart data for the charts in a registry.
type Service struct {
	dataSource   *datasource.DataSource
	queryHandler handlers.Handler
}

// New returns a new Service serving the charts in the provided Registry,
// reading rows through the provided Opener and caching up to cacheSize built
// charts.
func New(registry *chartspec.Registry, opener datasource.Opener, cacheSize int, log logr.Logger) (*Service, error) {
	ds, err := datasource.New(cacheSize, registry, opener, log)
	if err != nil {
		return nil, err
	}
	qd, err := querydispatcher.New(ds)
	if err != nil {
		return nil, err
	}
	qd.WithLogger(log)
	reqLog := log.WithName("http")
	return &Service{
		dataSource: ds,
		queryHandler: handlers.NewQueryHandler(qd, log).Wrap(func(next handlers.HandlerFunc) handlers.HandlerFunc {
			return func(w http.ResponseWriter, req *http.Request) {
				start := time.Now()
				next(w, req)
				reqLog.V(2).Info("served request", "path", req.URL.Path, "duration", time.Since(start))
			}
		}),
	}, nil
}

// Refresh drops all cached charts.
func (s *Service) Refresh() {
	s.dataSource.Purge()
}

// RegisterHandlers registers the receiver's handlers on the provided mux.
func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	for path, handler := range s.queryHandler.HandlersByPath() {
		mux.HandleFunc(path, handler)
	}
}
