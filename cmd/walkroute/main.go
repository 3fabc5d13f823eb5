package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/LdDl/walkroute"
	"github.com/LdDl/walkroute/server"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	logLevel   string
	graphFile  string
	heuristic  string
)

func main() {
	root := newRootCommand()
	err := root.Execute()
	log.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "walkroute",
		Short:         "Pedestrian A* routing over a path network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env") {
				return errors.Wrapf(err, "Can't load env file '%s'", envFile)
			}
			if err := log.Start(); err != nil {
				return errors.Wrap(err, "Can't start logger")
			}
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Configuration file (YAML or JSON)")
	flags.StringVar(&envFile, "env", ".env", "File with WALKROUTE_* environment variables")
	flags.StringVar(&logLevel, "log", "", "Log level: trace / debug / info / warning / error / critical. Overrides log_level")
	flags.StringVar(&graphFile, "graph", "", "Graph file (*.graphml, *.osm, *.osm.pbf). Overrides graph_file")
	flags.StringVar(&heuristic, "heuristic", "", "Heuristic: auto / geodesic / zero. Overrides heuristic")

	root.AddCommand(
		newServeCommand(),
		newRouteCommand(),
		newVerifyCommand(),
		newInspectCommand(),
		newExportCommand(),
	)
	return root
}

// loadConfig reads configuration file and environment, then applies command line overrides
func loadConfig() (server.Config, error) {
	cfg, err := server.LoadConfig(configFile)
	if err != nil {
		return cfg, err
	}
	if graphFile != "" {
		cfg.GraphFile = graphFile
	}
	if heuristic != "" {
		cfg.Heuristic = heuristic
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "Bad configuration")
	}
	if level := log.ParseLevel(cfg.LogLevel); level != 0 {
		log.SetLogLevel(level)
	}
	return cfg, nil
}

// loadRouter reads graph described by configuration and prepares router for one-shot commands
func loadRouter(ctx context.Context, cfg server.Config) (*walkroute.Router, error) {
	g, err := walkroute.LoadGraph(ctx, cfg.GraphFile, cfg.LoaderOptions()...)
	if err != nil {
		return nil, err
	}
	router, err := walkroute.NewRouter(g, walkroute.WithHeuristicMode(cfg.HeuristicMode()), walkroute.WithExpansionLimit(cfg.MaxExpansions))
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare router")
	}
	if _, err := router.Consistency(); err != nil {
		log.Warningf("walkroute: %s; using %s heuristic", err, router.ActiveHeuristic())
	}
	return router, nil
}

// parseLatLon parses "lat,lon" string
func parseLatLon(str string) (walkroute.GeoPoint, error) {
	parts := strings.Split(str, ",")
	if len(parts) != 2 {
		return walkroute.GeoPoint{}, errors.Errorf("Expected 'lat,lon', got '%s'", str)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return walkroute.GeoPoint{}, errors.Wrapf(err, "Bad latitude in '%s'", str)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return walkroute.GeoPoint{}, errors.Wrapf(err, "Bad longitude in '%s'", str)
	}
	pt := walkroute.GeoPoint{Lat: lat, Lon: lon}
	if !pt.IsFinite() || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return walkroute.GeoPoint{}, errors.Wrapf(walkroute.ErrInvalidCoordinate, "'%s'", str)
	}
	return pt, nil
}
