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

// Binary chartdata builds chart data from chart definitions, either printing
// a single chart's data as JSON or serving chart data over HTTP.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	chartspec "github.com/gostafie/nextreports-engine/chart_spec"
	datasource "github.com/gostafie/nextreports-engine/data_source"
	"github.com/gostafie/nextreports-engine/logging"
	"github.com/gostafie/nextreports-engine/service"
)

var (
	dbPath      string
	xlsxPath    string
	sheet       string
	specPath    string
	specDir     string
	port        int
	cacheSize   int
	axisPadding float64
	logLevel    int
	dev         bool
	pretty      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chartdata",
		Short:         "Build chart data from chart definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "Path to a sqlite database holding chart rows")
	pf.StringVar(&xlsxPath, "xlsx", "", "Path to a workbook holding chart rows")
	pf.StringVar(&sheet, "sheet", "", "Worksheet for charts that name none (default: first sheet)")
	pf.StringVar(&specPath, "spec", "", "Path to a single chart definition")
	pf.StringVar(&specDir, "spec-dir", "", "Directory of chart definitions")
	pf.Float64Var(&axisPadding, "axis-padding", 0.1, "Value axis padding fraction for charts that set none")
	pf.IntVar(&logLevel, "log-level", 0, "Maximum log verbosity")
	pf.BoolVar(&dev, "dev", false, "Human-readable development logging")

	buildCmd := &cobra.Command{
		Use:   "build [chart-name]",
		Short: "Print one chart's data as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBuild,
	}
	buildCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart data over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 7410, "Port to serve chart data on")
	serveCmd.Flags().IntVar(&cacheSize, "cache-size", 16, "Number of built charts to cache")

	rootCmd.AddCommand(buildCmd, serveCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup returns the logger, chart registry and row opener the flags describe.
// The returned closer releases the opener's resources.
func setup(cmd *cobra.Command) (logr.Logger, *chartspec.Registry, datasource.Opener, func(), error) {
	log, err := logging.New(logging.Options{Development: dev, Level: logLevel})
	if err != nil {
		return logr.Discard(), nil, nil, nil, err
	}
	registry, err := loadRegistry(cmd)
	if err != nil {
		return log, nil, nil, nil, err
	}
	opener, closer, err := openSource()
	if err != nil {
		return log, nil, nil, nil, err
	}
	return log, registry, opener, closer, nil
}

func loadRegistry(cmd *cobra.Command) (*chartspec.Registry, error) {
	var registry *chartspec.Registry
	switch {
	case specPath != "" && specDir != "":
		return nil, errors.New("--spec and --spec-dir are mutually exclusive")
	case specPath != "":
		chart, err := chartspec.Load(specPath)
		if err != nil {
			return nil, err
		}
		if registry, err = chartspec.NewRegistry(chart); err != nil {
			return nil, err
		}
	case specDir != "":
		var err error
		if registry, err = chartspec.LoadDir(specDir); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("one of --spec or --spec-dir is required")
	}
	if axisPadding < 0 {
		return nil, fmt.Errorf("--axis-padding %v is negative", axisPadding)
	}
	padding := axisPadding
	for _, name := range registry.Names() {
		chart, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		if chart.AxisPadding == nil && cmd.Flags().Changed("axis-padding") {
			chart.AxisPadding = &padding
		}
		if chart.Source.Sheet == "" && chart.Source.Query == "" {
			chart.Source.Sheet = sheet
		}
	}
	return registry, nil
}

func openSource() (datasource.Opener, func(), error) {
	switch {
	case dbPath != "" && xlsxPath != "":
		return nil, nil, errors.New("--db and --xlsx are mutually exclusive")
	case dbPath != "":
		db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database '%s': %w", dbPath, err)
		}
		return &datasource.SQLOpener{DB: db}, func() { db.Close() }, nil
	case xlsxPath != "":
		return &datasource.XLSXOpener{Path: xlsxPath}, func() {}, nil
	}
	return nil, nil, errors.New("one of --db or --xlsx is required")
}

func runBuild(cmd *cobra.Command, args []string) error {
	log, registry, opener, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer()
	names := registry.Names()
	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case len(names) == 1:
		name = names[0]
	default:
		return fmt.Errorf("a chart name is required; choose from %v", names)
	}
	chart, err := registry.Get(name)
	if err != nil {
		return err
	}
	model, err := datasource.Build(cmd.Context(), chart, opener, log)
	if err != nil {
		return err
	}
	var out []byte
	if pretty {
		out, err = json.MarshalIndent(model, "", "  ")
	} else {
		out, err = json.Marshal(model)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log, registry, opener, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer()
	svc, err := service.New(registry, opener, cacheSize, log)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	svc.RegisterHandlers(mux)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// SIGHUP drops cached charts so that they are rebuilt from fresh rows.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				log.Info("dropping cached charts")
				svc.Refresh()
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error(err, "shutdown failed")
		}
	}()

	log.Info("serving chart data", "port", port, "charts", registry.Names())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
