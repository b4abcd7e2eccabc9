package guitex

// ImageDelta is one texture instruction: either a whole new image or a
// patch of an existing one.
type ImageDelta struct {
	// Image is the new content. For a patch it covers only the patched
	// rectangle.
	Image ColorImage

	// Pos is the top-left corner of the patch inside the existing
	// texture, or nil when Image replaces the texture entirely.
	Pos *[2]int
}

// FullDelta returns a delta replacing the whole texture with img.
func FullDelta(img ColorImage) ImageDelta {
	return ImageDelta{Image: img}
}

// PartialDelta returns a delta patching img into an existing texture with
// its top-left corner at (x, y).
func PartialDelta(x, y int, img ColorImage) ImageDelta {
	return ImageDelta{Image: img, Pos: &[2]int{x, y}}
}

// IsWhole reports whether d replaces the entire texture.
func (d ImageDelta) IsWhole() bool { return d.Pos == nil }

// SetEntry pairs a texture id with the instruction to apply to it.
type SetEntry struct {
	ID    TextureID
	Delta ImageDelta
}

// TexturesDelta is the per-frame batch of texture instructions produced
// by the GUI framework.
type TexturesDelta struct {
	// Set holds textures to create or update, applied in order.
	Set []SetEntry

	// Free holds textures to release after Set has been applied.
	Free []TextureID
}

// IsEmpty reports whether d carries no instructions.
func (d *TexturesDelta) IsEmpty() bool {
	return len(d.Set) == 0 && len(d.Free) == 0
}

// Append merges newer into d, as if newer had been produced in a later
// frame. Applying the merged delta has the same effect as applying d and
// then newer.
//
// A texture freed by d and recreated by newer would otherwise be freed
// after its recreation, since frees run after all set entries. For such
// ids the free is dropped together with every instruction that would have
// targeted the old texture.
func (d *TexturesDelta) Append(newer TexturesDelta) {
	freed := make(map[TextureID]bool, len(d.Free))
	for _, id := range d.Free {
		freed[id] = true
	}

	// Ids freed by d and fully replaced by newer, and the index in
	// newer.Set of that first full replace.
	recreated := make(map[TextureID]int)
	for i, e := range newer.Set {
		if _, seen := recreated[e.ID]; !seen && freed[e.ID] && e.Delta.IsWhole() {
			recreated[e.ID] = i
		}
	}

	if len(recreated) > 0 {
		kept := d.Set[:0]
		for _, e := range d.Set {
			if _, ok := recreated[e.ID]; !ok {
				kept = append(kept, e)
			}
		}
		d.Set = kept

		keptFree := d.Free[:0]
		for _, id := range d.Free {
			if _, ok := recreated[id]; !ok {
				keptFree = append(keptFree, id)
			}
		}
		d.Free = keptFree
	}

	for i, e := range newer.Set {
		if freed[e.ID] {
			first, ok := recreated[e.ID]
			if !ok || i < first {
				// Targets a texture that no longer exists.
				continue
			}
		}
		d.Set = append(d.Set, e)
	}
	d.Free = append(d.Free, newer.Free...)
}

// Clear empties d, keeping its allocations.
func (d *TexturesDelta) Clear() {
	d.Set = d.Set[:0]
	d.Free = d.Free[:0]
}
