package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/LdDl/walkroute"
	"github.com/bluele/gcache"
	"github.com/pkg/errors"
	"github.com/r3labs/diff/v3"
	"github.com/safing/portbase/log"
	"github.com/tevino/abool"
)

// ErrReloadInProgress is returned when reload is requested while another one is running
var ErrReloadInProgress = errors.New("reload already in progress")

// Snapshot is an immutable generation of served data
type Snapshot struct {
	Version  uint64
	Graph    *walkroute.Graph
	Router   *walkroute.Router
	Places   *walkroute.Places
	Stats    walkroute.GraphStats
	LoadedAt time.Time
}

// pathCache is LRU of search results bound to a single snapshot
type pathCache struct {
	cache gcache.Cache
}

func newPathCache(size int) *pathCache {
	return &pathCache{
		cache: gcache.New(size).LRU().Build(),
	}
}

type pathKey struct {
	start walkroute.NodeID
	end   walkroute.NodeID
}

// Get implements walkroute.PathCache
func (pc *pathCache) Get(start, end walkroute.NodeID) (*walkroute.Path, bool) {
	value, err := pc.cache.Get(pathKey{start, end})
	if err != nil {
		return nil, false
	}
	return value.(*walkroute.Path), true
}

// Set implements walkroute.PathCache
func (pc *pathCache) Set(start, end walkroute.NodeID, path *walkroute.Path) {
	// Error is possible only for loader-backed caches
	_ = pc.cache.Set(pathKey{start, end}, path)
}

// Store holds current snapshot. Readers never block; reload builds new snapshot aside and swaps pointer
type Store struct {
	cfg       Config
	current   atomic.Pointer[Snapshot]
	version   atomic.Uint64
	reloading *abool.AtomicBool
}

// NewStore returns empty store. Call Reload or Publish before serving
func NewStore(cfg Config) *Store {
	return &Store{
		cfg:       cfg,
		reloading: abool.New(),
	}
}

// Current returns snapshot being served, nil if nothing has been loaded yet
func (store *Store) Current() *Snapshot {
	return store.current.Load()
}

// Reload reads graph and places files from configuration and publishes them
func (store *Store) Reload(ctx context.Context) (*Snapshot, diff.Changelog, error) {
	if !store.reloading.SetToIf(false, true) {
		return nil, nil, ErrReloadInProgress
	}
	defer store.reloading.UnSet()

	st := time.Now()
	g, err := walkroute.LoadGraph(ctx, store.cfg.GraphFile, store.cfg.LoaderOptions()...)
	if err != nil {
		return nil, nil, err
	}
	var places *walkroute.Places
	if store.cfg.PlacesFile != "" {
		places, err = walkroute.ReadPlaces(store.cfg.PlacesFile)
		if err != nil {
			return nil, nil, err
		}
	}
	log.Infof("server: loaded '%s' in %v", store.cfg.GraphFile, time.Since(st))
	return store.publish(g, places)
}

// Publish swaps in snapshot built from already loaded data
func (store *Store) Publish(g *walkroute.Graph, places *walkroute.Places) (*Snapshot, diff.Changelog, error) {
	if !store.reloading.SetToIf(false, true) {
		return nil, nil, ErrReloadInProgress
	}
	defer store.reloading.UnSet()
	return store.publish(g, places)
}

func (store *Store) publish(g *walkroute.Graph, places *walkroute.Places) (*Snapshot, diff.Changelog, error) {
	options := []func(*walkroute.Router){
		walkroute.WithHeuristicMode(store.cfg.HeuristicMode()),
		walkroute.WithExpansionLimit(store.cfg.MaxExpansions),
	}
	if store.cfg.CacheSize > 0 {
		options = append(options, walkroute.WithPathCache(newPathCache(store.cfg.CacheSize)))
	}
	router, err := walkroute.NewRouter(g, options...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't prepare router")
	}
	if _, consistErr := router.Consistency(); consistErr != nil {
		log.Warningf("server: %s; using %s heuristic", consistErr, router.ActiveHeuristic())
	}
	next := &Snapshot{
		Version:  store.version.Add(1),
		Graph:    g,
		Router:   router,
		Places:   places,
		Stats:    g.Stats(),
		LoadedAt: time.Now(),
	}

	previous := store.current.Swap(next)
	changelog := diff.Changelog{}
	if previous != nil {
		changelog, err = diff.Diff(previous.Stats, next.Stats)
		if err != nil {
			// Snapshot is already served, the change log is informational only
			log.Warningf("server: can't diff graph stats: %s", err)
		}
	}
	for _, change := range changelog {
		log.Infof("server: graph %s %v: %v -> %v", change.Type, change.Path, change.From, change.To)
	}
	log.Infof(
		"server: serving snapshot v%d: %d nodes, %d edges, %d components, %d places",
		next.Version, next.Stats.Nodes, next.Stats.Edges, next.Stats.Components, places.Len(),
	)
	return next, changelog, nil
}
