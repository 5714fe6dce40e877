package gshade

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/soypat/gshade/assemble"
	"github.com/soypat/gshade/lighting"
)

type CacheConfig struct {
	// Logger receives debug messages on assembly and cache hits. Nil uses [Logger].
	Logger *log.Logger
}

// Cache memoizes assembled programs. Assembly is deterministic so a description
// maps to the same program for the life of the cache. A Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	log      *log.Logger
	programs map[programKey]assemble.Program
	passes   map[lighting.DeferredConfig]assemble.Program
	hits     int
	misses   int
}

type programKey struct {
	effect   assemble.Effect
	pipeline assemble.Pipeline
	targets  string
	// allTargets is set for nil targets, which select every geometry pass target.
	allTargets bool
}

func NewCache(cfg CacheConfig) *Cache {
	return &Cache{
		log:      loggerOr(cfg.Logger),
		programs: make(map[programKey]assemble.Program),
		passes:   make(map[lighting.DeferredConfig]assemble.Program),
	}
}

func keyOf(d Description) programKey {
	targets := make([]byte, len(d.Targets))
	for i, t := range d.Targets {
		targets[i] = byte(t)
	}
	return programKey{
		effect:     d.Effect,
		pipeline:   d.Pipeline,
		targets:    string(targets),
		allTargets: d.Targets == nil,
	}
}

// Program returns the program of d, assembling it on first request.
// Failed assemblies are not cached.
func (c *Cache) Program(d Description) (assemble.Program, error) {
	key := keyOf(d)
	c.mu.Lock()
	defer c.mu.Unlock()
	if prog, ok := c.programs[key]; ok {
		c.hits++
		c.log.Debug("program cache hit", "model", d.Effect.ShadingModel, "pipeline", d.Pipeline)
		return prog, nil
	}
	prog, err := d.Build()
	if err != nil {
		return assemble.Program{}, err
	}
	c.misses++
	c.programs[key] = prog
	c.log.Debug("assembled program", "model", d.Effect.ShadingModel, "pipeline", d.Pipeline,
		"textures", d.Effect.Textures, "mesh", d.Effect.Mesh, "fragmentBytes", len(prog.Fragment))
	return prog, nil
}

// LightingPass returns the deferred lighting pass program of cfg.
func (c *Cache) LightingPass(cfg lighting.DeferredConfig) (assemble.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prog, ok := c.passes[cfg]; ok {
		c.hits++
		c.log.Debug("lighting pass cache hit", "light", cfg.LightType)
		return prog, nil
	}
	prog, err := assemble.DeferredLightingProgram(cfg)
	if err != nil {
		return assemble.Program{}, err
	}
	c.misses++
	c.passes[cfg] = prog
	c.log.Debug("assembled lighting pass", "light", cfg.LightType, "shadows", cfg.CastShadows, "cascades", cfg.NumberOfCascades)
	return prog, nil
}

// LightingPasses returns the lighting pass programs of d in the order of d.Passes.
func (c *Cache) LightingPasses(d Description) ([]assemble.Program, error) {
	progs := make([]assemble.Program, len(d.Passes))
	for i, cfg := range d.Passes {
		prog, err := c.LightingPass(cfg)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}
		progs[i] = prog
	}
	return progs, nil
}

// Stats returns the number of requests served from the cache and the number of assemblies.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.programs) + len(c.passes)
}

// Reset drops every cached program.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.programs)
	clear(c.passes)
	c.hits, c.misses = 0, 0
}
