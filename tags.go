package walkroute

var (
	// Values which explicitly open a way for pedestrians, even if other tags forbid it
	walkAccessInclude = map[AccessType]map[string]struct{}{
		ACCESS_FOOT: {
			"yes":         {},
			"designated":  {},
			"permissive":  {},
			"destination": {},
		},
	}

	// Values which close a way for pedestrians
	walkAccessExclude = map[AccessType]map[string]struct{}{
		ACCESS_HIGHWAY: {
			"cycleway":      {},
			"motor":         {},
			"motorway":      {},
			"motorway_link": {},
			"trunk":         {},
			"trunk_link":    {},
			"bus_guideway":  {},
			"escape":        {},
			"busway":        {},
		},
		ACCESS_FOOT: {
			"no":           {},
			"private":      {},
			"use_sidepath": {},
		},
		ACCESS_SERVICE: {
			"private": {},
		},
		ACCESS_OSM_ACCESS: {
			"private": {},
			"no":      {},
		},
		ACCESS_AREA: {
			"yes": {},
		},
	}

	// Highway values which are not part of a network at all
	negligibleHighwayTags = map[string]struct{}{
		"construction": {},
		"proposed":     {},
		"raceway":      {},
		"rest_area":    {},
		"abandoned":    {},
		"planned":      {},
		"trailhead":    {},
		"dismantled":   {},
		"disused":      {},
		"razed":        {},
		"stop":         {},
		"platform":     {},
		"bus_stop":     {},
	}

	// Values of 'oneway:foot' which make a way one-directional for pedestrians.
	// Plain 'oneway' is ignored: it restricts vehicles only
	onewayFootForward = map[string]struct{}{
		"yes":  {},
		"1":    {},
		"true": {},
	}
	onewayFootReversed = map[string]struct{}{
		"-1":      {},
		"reverse": {},
	}
)
