package guitex

import "fmt"

// poolCounters accumulates event counts over the life of a pool.
type poolCounters struct {
	creates        uint64
	patches        uint64
	frees          uint64
	droppedPatches uint64
}

// PoolStats is a snapshot of a TexturePool's contents and activity.
type PoolStats struct {
	// ManagedCount is the number of live managed textures.
	ManagedCount int

	// NativeCount is the number of registered native textures.
	NativeCount int

	// ManagedBytes is the GPU memory held by managed textures.
	ManagedBytes uint64

	// NextNativeID is the value the next registered native texture gets.
	NextNativeID uint64

	// Creates counts managed textures created, including replacements.
	Creates uint64

	// Patches counts partial updates applied.
	Patches uint64

	// Frees counts managed textures released by free instructions.
	Frees uint64

	// DroppedPatches counts partial updates ignored because their
	// texture did not exist.
	DroppedPatches uint64
}

// String returns a human-readable summary of the stats.
func (s PoolStats) String() string {
	return fmt.Sprintf("Pool[%d managed (%d KB), %d native, %d creates, %d patches, %d frees, %d dropped]",
		s.ManagedCount,
		s.ManagedBytes/1024,
		s.NativeCount,
		s.Creates,
		s.Patches,
		s.Frees,
		s.DroppedPatches)
}

// Stats returns current pool statistics.
func (p *TexturePool) Stats() PoolStats {
	var bytes uint64
	for _, t := range p.managed {
		bytes += t.sizeBytes()
	}
	return PoolStats{
		ManagedCount:   len(p.managed),
		NativeCount:    len(p.native),
		ManagedBytes:   bytes,
		NextNativeID:   p.nextNativeID,
		Creates:        p.counters.creates,
		Patches:        p.counters.patches,
		Frees:          p.counters.frees,
		DroppedPatches: p.counters.droppedPatches,
	}
}
