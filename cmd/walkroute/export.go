package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/LdDl/walkroute"
	"github.com/LdDl/walkroute/server"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var out, geomFormat, from, to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export network as Graphviz DOT (*.dot) or CSV (*.csv)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			switch strings.ToLower(filepath.Ext(out)) {
			case ".csv":
				format, err := walkroute.ParseGeometryFormat(geomFormat)
				if err != nil {
					return err
				}
				g, err := walkroute.LoadGraph(cmd.Context(), cfg.GraphFile, cfg.LoaderOptions()...)
				if err != nil {
					return err
				}
				if err := g.ExportToCSV(out, format); err != nil {
					return errors.Wrapf(err, "Can't export to '%s'", out)
				}
			case ".dot", ".gv":
				router, err := loadRouter(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				var highlight []walkroute.NodeID
				if from != "" && to != "" {
					highlight, err = highlightRoute(cmd, cfg, router, from, to)
					if err != nil {
						return err
					}
				}
				dot, err := router.Graph().DOT(highlight)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, []byte(dot), 0644); err != nil {
					return errors.Wrapf(err, "Can't write '%s'", out)
				}
			default:
				return errors.Errorf("File extension '%s' for file '%s' is not handled yet. Expected values: .dot / .gv / .csv", filepath.Ext(out), out)
			}
			log.Infof("walkroute: exported to '%s'", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "walkroute.dot", "Output file. Extension selects format: *.dot / *.gv for Graphviz, *.csv for edges and nodes tables")
	cmd.Flags().StringVar(&geomFormat, "geomf", "wkt", "Format of CSV geometry. Expected values: wkt / geojson")
	cmd.Flags().StringVar(&from, "from", "", "Start of highlighted route as 'lat,lon' or a place name (DOT only)")
	cmd.Flags().StringVar(&to, "to", "", "End of highlighted route as 'lat,lon' or a place name (DOT only)")
	return cmd
}

func highlightRoute(cmd *cobra.Command, cfg server.Config, router *walkroute.Router, from, to string) ([]walkroute.NodeID, error) {
	start, err := resolveEndpoint(cfg, from)
	if err != nil {
		return nil, errors.Wrap(err, "Bad --from")
	}
	end, err := resolveEndpoint(cfg, to)
	if err != nil {
		return nil, errors.Wrap(err, "Bad --to")
	}
	route, err := router.Route(cmd.Context(), start, end)
	if err != nil {
		return nil, errors.Wrap(err, "Can't find route to highlight")
	}
	return route.Nodes, nil
}
