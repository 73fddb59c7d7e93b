// Package renderer fans batches of independent rays out across a fixed
// pool of workers. Rays share no mutable state, so the batch is a plain
// parallel map: the BVH and its buffers are read-only during traversal
// and each ray is exclusively owned by the worker processing it.
package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/yt-project/meshray/pkg/core"
	"github.com/yt-project/meshray/pkg/geometry"
)

// Caster casts ray batches against a mesh BVH. Output values are always
// written at the same index as the input ray, so result ordering
// matches input ordering regardless of which worker processed which ray.
// A submitted batch always runs to completion; there is no cancellation
// at this layer.
type Caster struct {
	mesh       *geometry.MeshBVH
	numWorkers int
}

// NewCaster creates a caster with the given worker count; zero or
// negative selects one worker per CPU.
func NewCaster(mesh *geometry.MeshBVH, numWorkers int) *Caster {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Caster{mesh: mesh, numWorkers: numWorkers}
}

// NumWorkers returns the worker count the caster was configured with.
func (c *Caster) NumWorkers() int {
	return c.numWorkers
}

// Cast traces one ray per origin/direction pair and returns the sampled
// values, core.NoDataValue for rays that hit nothing.
func (c *Caster) Cast(origins, directions []core.Vec3) ([]float64, error) {
	if len(origins) != len(directions) {
		return nil, fmt.Errorf("ray batch mismatch: %d origins, %d directions", len(origins), len(directions))
	}
	return c.cast(len(origins), func(i int) core.Ray {
		return core.NewRay(origins[i], directions[i])
	}), nil
}

// CastShared traces one ray per origin, all sharing a single direction.
func (c *Caster) CastShared(origins []core.Vec3, direction core.Vec3) []float64 {
	return c.cast(len(origins), func(i int) core.Ray {
		return core.NewRay(origins[i], direction)
	})
}

// cast runs the batch: workers drain ray indices from a channel and run
// each traversal synchronously to completion. values[i] is written only
// by the worker that owns index i.
func (c *Caster) cast(n int, rayAt func(int) core.Ray) []float64 {
	values := make([]float64, n)

	indices := make(chan int, n)
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup
	for w := 0; w < c.numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				ray := rayAt(i)
				c.mesh.Cast(&ray)
				values[i] = ray.SampledValue
			}
		}()
	}
	wg.Wait()

	return values
}
