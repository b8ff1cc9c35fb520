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

// Package datasource provides a data source serving chart data built from
// chart definitions.
package datasource

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/golang-lru/simplelru"

	axisrange "github.com/gostafie/nextreports-engine/axis_range"
	chartdata "github.com/gostafie/nextreports-engine/chart_data"
	chartspec "github.com/gostafie/nextreports-engine/chart_spec"
	seriesbuilder "github.com/gostafie/nextreports-engine/series_builder"
	"github.com/gostafie/nextreports-engine/util"
)

const (
	chartDataQuery  = "chart.data"
	chartTableQuery = "chart.table"
	chartListQuery  = "chart.list"

	chartNameKey        = "chart_name"
	chartDescriptionKey = "chart_description"
	chartTypeKey        = "chart_type"
	chartNamesKey       = "chart_names"

	// chart.list option: only list charts of these types.
	chartTypesKey = "chart_types"
	// chart.data option: re-pad the value axis with this fraction.
	axisPaddingKey = "axis_padding"
	// chart.table options: the indices of the series to tabulate, and the
	// maximum number of rows.
	seriesKey  = "series"
	maxRowsKey = "max_rows"
)

// DataSource implements querydispatcher.dataSource for chart definitions.  It
// caches the most recently built chart models.
type DataSource struct {
	registry *chartspec.Registry
	opener   Opener
	log      logr.Logger

	mu sync.Mutex
	// An LRU cache holding the most recently built models, by chart name.
	lru *simplelru.LRU
}

// New returns a new DataSource serving the charts in the provided Registry,
// reading their rows through the provided Opener, and caching up to cap
// built models.
func New(cap int, registry *chartspec.Registry, opener Opener, log logr.Logger) (*DataSource, error) {
	lru, err := simplelru.NewLRU(cap /*no onEvict policy*/, nil)
	if err != nil {
		return nil, err
	}
	return &DataSource{
		registry: registry,
		opener:   opener,
		log:      log.WithName("data-source"),
		lru:      lru,
	}, nil
}

// SupportedDataSeriesQueries returns the DataSeriesRequest query names
// supported by DataSource.
func (ds *DataSource) SupportedDataSeriesQueries() []string {
	return []string{
		chartDataQuery,
		chartTableQuery,
		chartListQuery,
	}
}

// Purge drops all cached models, so that later requests rebuild them.
func (ds *DataSource) Purge() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.lru.Purge()
}

// Model returns the model for the named chart from the LRU if it's present
// there.  If it isn't, it is built and added to the LRU before being
// returned.
func (ds *DataSource) Model(ctx context.Context, chartName string) (*chartdata.Model, error) {
	ds.mu.Lock()
	modelIf, ok := ds.lru.Get(chartName)
	ds.mu.Unlock()
	if ok {
		model, ok := modelIf.(*chartdata.Model)
		if !ok {
			return nil, fmt.Errorf("cached entry for chart '%s' wasn't a chart model", chartName)
		}
		return model, nil
	}
	chart, err := ds.registry.Get(chartName)
	if err != nil {
		return nil, err
	}
	model, err := Build(ctx, chart, ds.opener, ds.log)
	if err != nil {
		return nil, err
	}
	ds.mu.Lock()
	ds.lru.Add(chartName, model)
	ds.mu.Unlock()
	return model, nil
}

// Build builds the provided chart's model from rows read through the
// provided Opener.  Each call uses its own series builder.
func Build(ctx context.Context, chart *chartspec.Chart, opener Opener, log logr.Logger) (*chartdata.Model, error) {
	opts, err := chart.Options()
	if err != nil {
		return nil, err
	}
	rows, err := opener.Open(ctx, chart)
	if err != nil {
		return nil, fmt.Errorf("chart '%s': %w", chart.Name, err)
	}
	defer rows.Close()
	model, err := seriesbuilder.Build(rows, opts, log.WithValues("chart", chart.Name))
	if err != nil {
		return nil, fmt.Errorf("chart '%s': %w", chart.Name, err)
	}
	model.Presentation = chart.Presentation()
	return model, nil
}

// HandleDataSeriesRequests handles the provided set of DataSeriesRequests.  It
// assembles its responses in the provided DataResponseBuilder.
func (ds *DataSource) HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error {
	start := time.Now()
	queryNames := make([]string, 0, len(reqs))
	for _, req := range reqs {
		queryNames = append(queryNames, req.QueryName)
	}
	defer func() {
		ds.log.V(1).Info("handled queries", "queries", strings.Join(queryNames, ", "), "duration", time.Since(start))
	}()
	for _, req := range reqs {
		series := drb.DataSeries(req)
		var err error
		switch req.QueryName {
		case chartDataQuery:
			err = ds.handleChartDataQuery(ctx, series, req.Options, chartDataView, (*chartdata.Model).Encode)
		case chartTableQuery:
			err = ds.handleChartDataQuery(ctx, series, req.Options, chartTableView, (*chartdata.Model).EncodeTable)
		case chartListQuery:
			err = ds.handleChartListQuery(series, req.Options)
		default:
			err = fmt.Errorf("unsupported data query")
		}
		if err != nil {
			return fmt.Errorf("error handling data query %s: %w", req.QueryName, err)
		}
	}
	return nil
}

// viewFunc adapts a cached model to a request's options, without modifying
// the cached model.
type viewFunc func(model *chartdata.Model, reqOpts map[string]*util.V) (*chartdata.Model, error)

func (ds *DataSource) handleChartDataQuery(ctx context.Context, series util.DataBuilder, reqOpts map[string]*util.V, view viewFunc, encode func(*chartdata.Model, util.DataBuilder)) error {
	nameVal, ok := reqOpts[chartNameKey]
	if !ok {
		return fmt.Errorf("missing required option '%s'", chartNameKey)
	}
	chartName, err := util.ExpectStringValue(nameVal)
	if err != nil {
		return fmt.Errorf("required option '%s' must be a string", chartNameKey)
	}
	model, err := ds.Model(ctx, chartName)
	if err != nil {
		return err
	}
	if model, err = view(model, reqOpts); err != nil {
		return err
	}
	encode(model, series)
	return nil
}

// chartDataView applies the 'axis_padding' option, which recomputes the
// value axis range from the data range.
func chartDataView(model *chartdata.Model, reqOpts map[string]*util.V) (*chartdata.Model, error) {
	paddingVal, ok := reqOpts[axisPaddingKey]
	if !ok || model.DataRange == nil {
		return model, nil
	}
	padding, err := util.ExpectDoubleValue(paddingVal)
	if err != nil {
		return nil, fmt.Errorf("option '%s' must be a double", axisPaddingKey)
	}
	if padding < 0 {
		return nil, fmt.Errorf("option '%s' must not be negative", axisPaddingKey)
	}
	ret := *model
	axis := axisrange.NewCalculator(padding).Range(*model.DataRange)
	ret.AxisRange = &axis
	return &ret, nil
}

// chartTableView applies the 'series' and 'max_rows' options.
func chartTableView(model *chartdata.Model, reqOpts map[string]*util.V) (*chartdata.Model, error) {
	ret := *model
	if seriesVal, ok := reqOpts[seriesKey]; ok {
		idxs, err := util.ExpectIntegersValue(seriesVal)
		if err != nil {
			return nil, fmt.Errorf("option '%s' must be integers", seriesKey)
		}
		if model.Style.Kind() == chartdata.Proportion {
			return nil, fmt.Errorf("option '%s' does not apply to %s charts", seriesKey, model.Style)
		}
		ret.Series = make([]*chartdata.Series, len(idxs))
		for i, idx := range idxs {
			if idx < 0 || idx >= int64(len(model.Series)) {
				return nil, fmt.Errorf("series %d is out of range; the chart has %d", idx, len(model.Series))
			}
			ret.Series[i] = model.Series[idx]
		}
	}
	if maxRowsVal, ok := reqOpts[maxRowsKey]; ok {
		maxRows, err := util.ExpectIntegerValue(maxRowsVal)
		if err != nil {
			return nil, fmt.Errorf("option '%s' must be an integer", maxRowsKey)
		}
		if maxRows < 0 {
			return nil, fmt.Errorf("option '%s' must not be negative", maxRowsKey)
		}
		n := int(maxRows)
		if n < len(ret.Slices) {
			ret.Slices = ret.Slices[:n]
		}
		truncated := make([]*chartdata.Series, len(ret.Series))
		for i, s := range ret.Series {
			truncated[i] = &chartdata.Series{Name: s.Name, Points: s.Points[:min(n, len(s.Points))]}
		}
		ret.Series = truncated
	}
	return &ret, nil
}

func (ds *DataSource) handleChartListQuery(series util.DataBuilder, reqOpts map[string]*util.V) error {
	var types []string
	if typesVal, ok := reqOpts[chartTypesKey]; ok {
		var err error
		if types, err = util.ExpectStringsValue(typesVal); err != nil {
			return fmt.Errorf("option '%s' must be strings", chartTypesKey)
		}
	}
	charts := []*chartspec.Chart{}
	for _, name := range ds.registry.Names() {
		chart, err := ds.registry.Get(name)
		if err != nil {
			return err
		}
		if ofType(chart, types) {
			charts = append(charts, chart)
		}
	}
	names := make([]string, len(charts))
	for i, chart := range charts {
		names[i] = chart.Name
	}
	series.With(util.StringsProperty(chartNamesKey, names...))
	for _, chart := range charts {
		series.Child().With(
			util.StringProperty(chartNameKey, chart.Name),
			util.If(chart.Description != "", util.StringProperty(chartDescriptionKey, chart.Description)),
			util.StringProperty(chartTypeKey, chart.Type),
		)
	}
	return nil
}

// ofType returns true if the provided chart has one of the provided types,
// or if no types are provided.
func ofType(chart *chartspec.Chart, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(chart.Type)) {
			return true
		}
	}
	return false
}
