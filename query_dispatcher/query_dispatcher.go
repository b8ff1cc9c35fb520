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

// Package querydispatcher provides QueryDispatcher, a type for multiplexing
// chart data requests across several data sources.
package querydispatcher

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/gostafie/nextreports-engine/util"
)

// dataSource represents a single source of chart data.  dataSource instances
// must support concurrent HandleDataSeriesRequests calls.
type dataSource interface {
	// SupportedDataSeriesQueries returns the list of DataSeriesRequest query
	// names this dataSource is able to handle.  Query names should be unique
	// to their dataSource, e.g. prefixed with the kind of data they serve.
	SupportedDataSeriesQueries() []string
	// HandleDataSeriesRequests handles a set of DataSeriesRequests with the
	// supplied global filters.  dataSource implementations should use the
	// provided DataResponseBuilder to add and populate a new DataSeries per
	// request.  Any returned error cancels the entire DataRequest and
	// surfaces to the client.
	HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error
}

// QueryDispatcher routes the series requests of a DataRequest to the data
// sources that handle them.  Requests bound for different data sources are
// handled concurrently.
type QueryDispatcher struct {
	dataSources []dataSource
	// Maps data series query names to indices (in dataSources) of the
	// dataSources that handle those queries.
	dataSeriesQueryHandlers map[string]int
	log                     logr.Logger
}

// New returns a *QueryDispatcher wrapping the provided dataSources.
func New(dss ...dataSource) (*QueryDispatcher, error) {
	qd := &QueryDispatcher{
		dataSeriesQueryHandlers: map[string]int{},
		log:                     logr.Discard(),
	}
	for dsIdx, ds := range dss {
		qd.dataSources = append(qd.dataSources, ds)
		for _, queryName := range ds.SupportedDataSeriesQueries() {
			if _, ok := qd.dataSeriesQueryHandlers[queryName]; ok {
				return nil, fmt.Errorf(
					"multiple dataSources handle data query `%s`", queryName)
			}
			qd.dataSeriesQueryHandlers[queryName] = dsIdx
		}
	}
	return qd, nil
}

// WithLogger sets the receiver's Logger, returning the receiver.
func (qd *QueryDispatcher) WithLogger(log logr.Logger) *QueryDispatcher {
	qd.log = log.WithName("query-dispatcher")
	return qd
}

// HandleDataRequest distributes the provided DataRequest's constituent
// DataSeriesRequests to their appropriate dataSources for processing, then
// assembles the resulting DataSeries into a single response.  Series names
// must be unique within a DataRequest.
func (qd *QueryDispatcher) HandleDataRequest(ctx context.Context, req *util.DataRequest) (*util.Data, error) {
	drb := util.NewDataResponseBuilder()
	// A mapping from dataSource index to the set of DataSeriesRequests that
	// source can handle.
	groupedReqs := map[int][]*util.DataSeriesRequest{}
	seriesNames := map[string]struct{}{}
	for _, seriesReq := range req.SeriesRequests {
		dsIdx, ok := qd.dataSeriesQueryHandlers[seriesReq.QueryName]
		if !ok {
			return nil, fmt.Errorf("unsupported data query `%s`", seriesReq.QueryName)
		}
		if _, ok := seriesNames[seriesReq.SeriesName]; ok {
			return nil, fmt.Errorf("series name `%s` is requested more than once", seriesReq.SeriesName)
		}
		seriesNames[seriesReq.SeriesName] = struct{}{}
		groupedReqs[dsIdx] = append(groupedReqs[dsIdx], seriesReq)
	}
	qd.log.V(3).Info("dispatching data request", "series", len(req.SeriesRequests), "dataSources", len(groupedReqs))
	errg, ctx := errgroup.WithContext(ctx)
	for dsIdx, seriesReqs := range groupedReqs {
		ds := qd.dataSources[dsIdx]
		seriesReqs := seriesReqs
		errg.Go(func() error {
			return ds.HandleDataSeriesRequests(ctx, req.GlobalFilters, drb, seriesReqs)
		})
	}
	if err := errg.Wait(); err != nil {
		qd.log.Error(err, "data request failed")
		return nil, err
	}
	return drb.Data()
}
