package main

import (
	"encoding/json"
	"fmt"

	"github.com/LdDl/walkroute"
	"github.com/LdDl/walkroute/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type routeOutput struct {
	Route      [][2]float64       `json:"route"`
	Nodes      []walkroute.NodeID `json:"nodes"`
	Cost       float64            `json:"cost"`
	DistanceM  float64            `json:"distance_m"`
	StartSnapM float64            `json:"start_snap_m"`
	EndSnapM   float64            `json:"end_snap_m"`
	Expanded   int                `json:"expanded"`
	Heuristic  string             `json:"heuristic"`
}

func newRouteCommand() *cobra.Command {
	var from, to, format string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Find single route between two points (or named places)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			router, err := loadRouter(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			start, err := resolveEndpoint(cfg, from)
			if err != nil {
				return errors.Wrap(err, "Bad --from")
			}
			end, err := resolveEndpoint(cfg, to)
			if err != nil {
				return errors.Wrap(err, "Bad --to")
			}
			route, err := router.Route(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "wkt":
				fmt.Fprintln(out, route.WKT())
			case "geojson":
				data, err := route.GeoJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "json":
				data, err := json.MarshalIndent(routeOutput{
					Route:      route.LatLons(),
					Nodes:      route.Nodes,
					Cost:       route.Cost,
					DistanceM:  route.LengthMeters,
					StartSnapM: route.StartSnapMeters,
					EndSnapM:   route.EndSnapMeters,
					Expanded:   route.Expanded,
					Heuristic:  router.ActiveHeuristic().String(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			default:
				return errors.Errorf("Format '%s' is not supported. Expected values: json / geojson / wkt", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start point as 'lat,lon' or a place name")
	cmd.Flags().StringVar(&to, "to", "", "End point as 'lat,lon' or a place name")
	cmd.Flags().StringVar(&format, "format", "json", "Output format. Expected values: json / geojson / wkt")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// resolveEndpoint parses "lat,lon" or, when places file is configured, looks up place by name
func resolveEndpoint(cfg server.Config, str string) (walkroute.GeoPoint, error) {
	pt, err := parseLatLon(str)
	if err == nil || cfg.PlacesFile == "" {
		return pt, err
	}
	places, perr := walkroute.ReadPlaces(cfg.PlacesFile)
	if perr != nil {
		return walkroute.GeoPoint{}, perr
	}
	place, perr := places.Find(str)
	if perr != nil {
		return walkroute.GeoPoint{}, errors.Wrapf(perr, "'%s' is neither coordinates nor a known place", str)
	}
	return place.Point(), nil
}
