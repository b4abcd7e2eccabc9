package guitex_test

import (
	"errors"
	"math/bits"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/guitex"
	"github.com/gogpu/guitex/internal/fakegpu"
)

var red = guitex.RGBA(255, 0, 0, 255)

func newPool(t *testing.T, opts ...guitex.PoolOption) (*guitex.TexturePool, *fakegpu.Device) {
	t.Helper()
	dev := fakegpu.New()
	pool := guitex.NewTexturePool(dev, opts...)
	return pool, dev
}

func set(id guitex.TextureID, d guitex.ImageDelta) guitex.TexturesDelta {
	return guitex.TexturesDelta{Set: []guitex.SetEntry{{ID: id, Delta: d}}}
}

func mustUpdate(t *testing.T, pool *guitex.TexturePool, d guitex.TexturesDelta) {
	t.Helper()
	if err := pool.Update(d); err != nil {
		t.Fatalf("Update() = %v", err)
	}
}

// gpuTexture returns the device texture bound for id.
func gpuTexture(t *testing.T, pool *guitex.TexturePool, id guitex.TextureID) *fakegpu.Texture {
	t.Helper()
	v, ok := pool.ShaderView(id)
	if !ok {
		t.Fatalf("ShaderView(%v) not found", id)
	}
	return v.(*fakegpu.View).Texture()
}

func assertPixels(t *testing.T, got []guitex.Color32, want guitex.ColorImage) {
	t.Helper()
	if len(got) != len(want.Pixels) {
		t.Fatalf("got %d pixels, want %d", len(got), len(want.Pixels))
	}
	for i := range got {
		if got[i] != want.Pixels[i] {
			t.Errorf("pixel (%d,%d) = %v, want %v",
				i%want.Width(), i/want.Width(), got[i], want.Pixels[i])
		}
	}
}

func assertNoLeaks(t *testing.T, dev *fakegpu.Device) {
	t.Helper()
	if textures, views := dev.Live(); textures != 0 || views != 0 {
		t.Errorf("leaked %d textures and %d views", textures, views)
	}
}

func TestCreateManagedTexture(t *testing.T) {
	pool, _ := newPool(t)
	img := guitex.NewColorImage(3, 2, red)

	mustUpdate(t, pool, set(guitex.Managed(1), guitex.FullDelta(img)))

	tex := gpuTexture(t, pool, guitex.Managed(1))
	if tex.Width() != 3 || tex.Height() != 2 {
		t.Errorf("texture size = %dx%d, want 3x2", tex.Width(), tex.Height())
	}
	assertPixels(t, tex.Pixels(), img)
	if got := tex.Label(); got != "guitex_managed_1" {
		t.Errorf("Label() = %q, want guitex_managed_1", got)
	}
	if managed, native := pool.Len(); managed != 1 || native != 0 {
		t.Errorf("Len() = (%d, %d), want (1, 0)", managed, native)
	}

	// The pool owns a copy of the pixels.
	img.Pixels[0] = guitex.Black
	got, _ := pool.ManagedImage(guitex.Managed(1))
	if got.Pixels[0] != red {
		t.Error("pool retained the caller's pixel slice")
	}
}

func TestPartialUpdatePreservesUncoveredPixels(t *testing.T) {
	pool, dev := newPool(t)
	mustUpdate(t, pool, set(guitex.Managed(7), guitex.FullDelta(guitex.NewColorImage(4, 4, guitex.Black))))
	mustUpdate(t, pool, set(guitex.Managed(7),
		guitex.PartialDelta(1, 1, guitex.NewColorImage(2, 2, guitex.White))))

	want := guitex.NewColorImage(4, 4, guitex.Black)
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			want.Pixels[y*4+x] = guitex.White
		}
	}

	// The mapping starts poisoned, so any pixel not rewritten from the
	// shadow copy would show up here.
	assertPixels(t, gpuTexture(t, pool, guitex.Managed(7)).Pixels(), want)

	shadow, ok := pool.ManagedImage(guitex.Managed(7))
	if !ok {
		t.Fatal("ManagedImage() not found")
	}
	assertPixels(t, shadow.Pixels, want)

	if got := dev.Calls(fakegpu.OpMap); got != 1 {
		t.Errorf("MapDiscard calls = %d, want 1", got)
	}
	if got := dev.Calls(fakegpu.OpCreateTexture); got != 1 {
		t.Errorf("CreateTexture calls = %d, want 1", got)
	}
}

func TestSuccessivePartialUpdates(t *testing.T) {
	pool, _ := newPool(t)
	id := guitex.Managed(3)
	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(3, 1, guitex.Black))))

	patches := []struct {
		x   int
		col guitex.Color32
	}{
		{0, red},
		{2, guitex.White},
		{1, guitex.Gray(128)},
	}
	for _, p := range patches {
		mustUpdate(t, pool, set(id, guitex.PartialDelta(p.x, 0, guitex.NewColorImage(1, 1, p.col))))
	}

	want := guitex.ColorImage{Size: [2]int{3, 1}, Pixels: []guitex.Color32{red, guitex.Gray(128), guitex.White}}
	assertPixels(t, gpuTexture(t, pool, id).Pixels(), want)
}

func TestPatchCoveringWholeTexture(t *testing.T) {
	pool, dev := newPool(t)
	id := guitex.Managed(1)
	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(2, 2, guitex.Black))))
	mustUpdate(t, pool, set(id, guitex.PartialDelta(0, 0, guitex.NewColorImage(2, 2, red))))

	assertPixels(t, gpuTexture(t, pool, id).Pixels(), guitex.NewColorImage(2, 2, red))
	if got := dev.Calls(fakegpu.OpCreateTexture); got != 1 {
		t.Errorf("CreateTexture calls = %d, want 1", got)
	}
}

func TestFullReplaceCreatesNewTexture(t *testing.T) {
	pool, dev := newPool(t)
	id := guitex.Managed(5)

	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(2, 2, guitex.Black))))
	first := gpuTexture(t, pool, id)

	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(5, 3, red))))
	second := gpuTexture(t, pool, id)

	if first == second {
		t.Fatal("full replace reused the old texture")
	}
	if !first.Destroyed() {
		t.Error("old texture not destroyed after replace")
	}
	if second.Width() != 5 || second.Height() != 3 {
		t.Errorf("new size = %dx%d, want 5x3", second.Width(), second.Height())
	}
	if textures, views := dev.Live(); textures != 1 || views != 1 {
		t.Errorf("Live() = (%d, %d), want (1, 1)", textures, views)
	}
}

func TestSameFrameCreateThenPatch(t *testing.T) {
	pool, _ := newPool(t)
	id := guitex.Managed(2)
	mustUpdate(t, pool, guitex.TexturesDelta{Set: []guitex.SetEntry{
		{ID: id, Delta: guitex.FullDelta(guitex.NewColorImage(2, 1, guitex.Black))},
		{ID: id, Delta: guitex.PartialDelta(1, 0, guitex.NewColorImage(1, 1, guitex.White))},
	}})

	want := guitex.ColorImage{Size: [2]int{2, 1}, Pixels: []guitex.Color32{guitex.Black, guitex.White}}
	assertPixels(t, gpuTexture(t, pool, id).Pixels(), want)
}

func TestZeroAreaImageSkipped(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"empty", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, dev := newPool(t)
			mustUpdate(t, pool, set(guitex.Managed(1), guitex.FullDelta(guitex.NewColorImage(tt.w, tt.h, red))))

			if got := dev.Calls(fakegpu.OpCreateTexture); got != 0 {
				t.Errorf("CreateTexture calls = %d, want 0", got)
			}
			if _, ok := pool.ShaderView(guitex.Managed(1)); ok {
				t.Error("zero-area texture is visible")
			}
		})
	}
}

func TestZeroAreaImageKeepsExistingTexture(t *testing.T) {
	pool, _ := newPool(t)
	id := guitex.Managed(1)
	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(1, 1, red))))
	before := gpuTexture(t, pool, id)

	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.ColorImage{})))

	if gpuTexture(t, pool, id) != before {
		t.Error("zero-area replace changed the texture")
	}
}

func TestFreeManagedTexture(t *testing.T) {
	pool, dev := newPool(t)
	id := guitex.Managed(9)
	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(2, 2, red))))
	tex := gpuTexture(t, pool, id)

	mustUpdate(t, pool, guitex.TexturesDelta{Free: []guitex.TextureID{id}})

	if _, ok := pool.ShaderView(id); ok {
		t.Error("ShaderView() found a freed texture")
	}
	if _, ok := pool.ManagedImage(id); ok {
		t.Error("ManagedImage() found a freed texture")
	}
	if !tex.Destroyed() {
		t.Error("freed texture not destroyed")
	}
	assertNoLeaks(t, dev)

	// A later patch for the freed id is dropped, not an error.
	mustUpdate(t, pool, set(id, guitex.PartialDelta(0, 0, guitex.NewColorImage(1, 1, guitex.White))))
	if _, ok := pool.ShaderView(id); ok {
		t.Error("patch resurrected a freed texture")
	}
	if got := dev.Calls(fakegpu.OpMap); got != 0 {
		t.Errorf("MapDiscard calls = %d, want 0", got)
	}
	if got := pool.Stats().DroppedPatches; got != 1 {
		t.Errorf("DroppedPatches = %d, want 1", got)
	}
}

func TestFreeRunsAfterSet(t *testing.T) {
	pool, dev := newPool(t)
	id := guitex.Managed(4)
	d := set(id, guitex.FullDelta(guitex.NewColorImage(1, 1, red)))
	d.Free = []guitex.TextureID{id}

	mustUpdate(t, pool, d)

	if _, ok := pool.ShaderView(id); ok {
		t.Error("texture created and freed in one frame is still visible")
	}
	assertNoLeaks(t, dev)
}

func TestFreeUnknownAndUserIDsIgnored(t *testing.T) {
	pool, dev := newPool(t)
	native := dev.NewNativeTexture(1, 1, guitex.White)
	uid, err := pool.RegisterNativeTexture(native)
	if err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}

	mustUpdate(t, pool, guitex.TexturesDelta{Free: []guitex.TextureID{guitex.Managed(100), uid}})

	if _, ok := pool.ShaderView(uid); !ok {
		t.Error("free list removed a native texture")
	}
	if native.Destroyed() {
		t.Error("free list destroyed a native texture")
	}
}

func TestSetIgnoresUserIDs(t *testing.T) {
	pool, dev := newPool(t)
	mustUpdate(t, pool, set(guitex.User(0), guitex.FullDelta(guitex.NewColorImage(1, 1, red))))

	if got := dev.Calls(fakegpu.OpCreateTexture); got != 0 {
		t.Errorf("CreateTexture calls = %d, want 0", got)
	}
	if _, ok := pool.ShaderView(guitex.User(0)); ok {
		t.Error("delta created a texture under a User id")
	}
}

func TestPatchUnknownTextureDropped(t *testing.T) {
	pool, dev := newPool(t)
	mustUpdate(t, pool, set(guitex.Managed(42), guitex.PartialDelta(0, 0, guitex.NewColorImage(1, 1, red))))

	if got := dev.Calls(fakegpu.OpCreateTexture) + dev.Calls(fakegpu.OpMap); got != 0 {
		t.Errorf("device calls = %d, want 0", got)
	}
	if managed, _ := pool.Len(); managed != 0 {
		t.Errorf("managed textures = %d, want 0", managed)
	}
}

func TestPatchOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		w, h int
	}{
		{"right edge", 3, 0, 2, 1},
		{"bottom edge", 0, 3, 1, 2},
		{"negative x", -1, 0, 1, 1},
		{"negative y", 0, -1, 1, 1},
		{"origin past texture", 5, 5, 0, 0},
		{"larger than texture", 0, 0, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, dev := newPool(t)
			id := guitex.Managed(1)
			mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(4, 4, guitex.Black))))

			err := pool.Update(set(id, guitex.PartialDelta(tt.x, tt.y, guitex.NewColorImage(tt.w, tt.h, red))))
			if !errors.Is(err, guitex.ErrPatchOutOfBounds) {
				t.Fatalf("Update() = %v, want ErrPatchOutOfBounds", err)
			}
			if got := dev.Calls(fakegpu.OpMap); got != 0 {
				t.Errorf("MapDiscard calls = %d, want 0", got)
			}
			assertPixels(t, gpuTexture(t, pool, id).Pixels(), guitex.NewColorImage(4, 4, guitex.Black))
		})
	}
}

func TestZeroSizePatchIsNoop(t *testing.T) {
	pool, dev := newPool(t)
	id := guitex.Managed(1)
	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(2, 2, guitex.Black))))
	mustUpdate(t, pool, set(id, guitex.PartialDelta(2, 2, guitex.ColorImage{})))

	if got := dev.Calls(fakegpu.OpMap); got != 0 {
		t.Errorf("MapDiscard calls = %d, want 0", got)
	}
	if got := pool.Stats().Patches; got != 0 {
		t.Errorf("Patches = %d, want 0", got)
	}
}

func TestMalformedImageRejected(t *testing.T) {
	pool, dev := newPool(t)
	bad := guitex.ColorImage{Size: [2]int{2, 2}, Pixels: make([]guitex.Color32, 3)}

	err := pool.Update(set(guitex.Managed(1), guitex.FullDelta(bad)))
	if !errors.Is(err, guitex.ErrImageSizeMismatch) {
		t.Fatalf("Update() = %v, want ErrImageSizeMismatch", err)
	}
	if got := dev.Calls(fakegpu.OpCreateTexture); got != 0 {
		t.Errorf("CreateTexture calls = %d, want 0", got)
	}
}

func TestOverflowingImageSizeRejected(t *testing.T) {
	// side*side wraps to 0 as an int, matching an empty pixel slice.
	const side = 1 << (bits.UintSize / 2)
	huge := guitex.ColorImage{Size: [2]int{side, side}}
	pool, dev := newPool(t, guitex.WithLimits(gputypes.Limits{}))

	err := pool.Update(set(guitex.Managed(1), guitex.FullDelta(huge)))
	if !errors.Is(err, guitex.ErrImageSizeMismatch) {
		t.Fatalf("Update(full) = %v, want ErrImageSizeMismatch", err)
	}
	if _, ok := pool.ShaderView(guitex.Managed(1)); ok {
		t.Fatal("texture created from an overflowing size")
	}
	if got := dev.Calls(fakegpu.OpCreateTexture); got != 0 {
		t.Errorf("CreateTexture calls = %d, want 0", got)
	}

	mustUpdate(t, pool, set(guitex.Managed(1), guitex.FullDelta(guitex.NewColorImage(2, 2, guitex.Black))))
	err = pool.Update(set(guitex.Managed(1), guitex.PartialDelta(0, 0, huge)))
	if !errors.Is(err, guitex.ErrImageSizeMismatch) {
		t.Fatalf("Update(patch) = %v, want ErrImageSizeMismatch", err)
	}
	if got := dev.Calls(fakegpu.OpMap); got != 0 {
		t.Errorf("MapDiscard calls = %d, want 0", got)
	}
}

func TestTextureTooLarge(t *testing.T) {
	limits := gputypes.DefaultLimits()
	limits.MaxTextureDimension2D = 4
	pool, dev := newPool(t, guitex.WithLimits(limits))

	err := pool.Update(set(guitex.Managed(1), guitex.FullDelta(guitex.NewColorImage(5, 1, red))))
	if !errors.Is(err, guitex.ErrTextureTooLarge) {
		t.Fatalf("Update() = %v, want ErrTextureTooLarge", err)
	}
	if got := dev.Calls(fakegpu.OpCreateTexture); got != 0 {
		t.Errorf("CreateTexture calls = %d, want 0", got)
	}

	mustUpdate(t, pool, set(guitex.Managed(1), guitex.FullDelta(guitex.NewColorImage(4, 4, red))))
}

func TestDeviceErrorsPropagate(t *testing.T) {
	boom := errors.New("device lost")

	tests := []struct {
		name  string
		op    fakegpu.Op
		delta guitex.TexturesDelta
	}{
		{"create", fakegpu.OpCreateTexture, set(guitex.Managed(2), guitex.FullDelta(guitex.NewColorImage(1, 1, red)))},
		{"view", fakegpu.OpCreateView, set(guitex.Managed(2), guitex.FullDelta(guitex.NewColorImage(1, 1, red)))},
		{"map", fakegpu.OpMap, set(guitex.Managed(1), guitex.PartialDelta(0, 0, guitex.NewColorImage(1, 1, red)))},
		{"unmap", fakegpu.OpUnmap, set(guitex.Managed(1), guitex.PartialDelta(0, 0, guitex.NewColorImage(1, 1, red)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, dev := newPool(t)
			mustUpdate(t, pool, set(guitex.Managed(1), guitex.FullDelta(guitex.NewColorImage(2, 2, guitex.Black))))

			dev.FailNext(tt.op, boom)
			err := pool.Update(tt.delta)
			if !errors.Is(err, boom) {
				t.Fatalf("Update() = %v, want %v", err, boom)
			}
			if !strings.Contains(err.Error(), "guitex: update") {
				t.Errorf("error %q lacks context", err)
			}

			// Earlier state survives the failed batch.
			if _, ok := pool.ShaderView(guitex.Managed(1)); !ok {
				t.Error("existing texture lost after failed update")
			}
			if _, ok := pool.ShaderView(guitex.Managed(2)); ok {
				t.Error("failed create left a texture behind")
			}
			// A patch the device never received is not in the shadow.
			img, _ := pool.ManagedImage(guitex.Managed(1))
			assertPixels(t, img.Pixels, guitex.NewColorImage(2, 2, guitex.Black))
			if got := pool.Stats().Patches; got != 0 {
				t.Errorf("Patches = %d, want 0", got)
			}

			pool.Release()
			assertNoLeaks(t, dev)
		})
	}
}

func TestFailedReplaceKeepsOldTexture(t *testing.T) {
	pool, dev := newPool(t)
	id := guitex.Managed(1)
	mustUpdate(t, pool, set(id, guitex.FullDelta(guitex.NewColorImage(2, 2, guitex.Black))))
	old := gpuTexture(t, pool, id)

	dev.FailNext(fakegpu.OpCreateTexture, errors.New("out of memory"))
	if err := pool.Update(set(id, guitex.FullDelta(guitex.NewColorImage(3, 3, red)))); err == nil {
		t.Fatal("Update() = nil, want error")
	}

	if gpuTexture(t, pool, id) != old || old.Destroyed() {
		t.Error("failed replace disturbed the previous texture")
	}
}

func TestErrorAbortsRestOfBatch(t *testing.T) {
	pool, dev := newPool(t)
	d := guitex.TexturesDelta{
		Set: []guitex.SetEntry{
			{ID: guitex.Managed(1), Delta: guitex.FullDelta(guitex.NewColorImage(1, 1, red))},
			{ID: guitex.Managed(2), Delta: guitex.FullDelta(guitex.ColorImage{Size: [2]int{1, 1}})},
			{ID: guitex.Managed(3), Delta: guitex.FullDelta(guitex.NewColorImage(1, 1, red))},
		},
		Free: []guitex.TextureID{guitex.Managed(1)},
	}

	if err := pool.Update(d); !errors.Is(err, guitex.ErrImageSizeMismatch) {
		t.Fatalf("Update() = %v, want ErrImageSizeMismatch", err)
	}

	// Entries before the failure are kept, nothing after it runs.
	if _, ok := pool.ShaderView(guitex.Managed(1)); !ok {
		t.Error("entry before the failure was rolled back")
	}
	if _, ok := pool.ShaderView(guitex.Managed(3)); ok {
		t.Error("entry after the failure was applied")
	}
	if got := dev.Calls(fakegpu.OpCreateTexture); got != 1 {
		t.Errorf("CreateTexture calls = %d, want 1", got)
	}
}

func TestRegisterNativeTextureIDs(t *testing.T) {
	pool, dev := newPool(t)

	const n = 5
	var ids []guitex.TextureID
	for i := 0; i < n; i++ {
		id, err := pool.RegisterNativeTexture(dev.NewNativeTexture(1, 1, guitex.White))
		if err != nil {
			t.Fatalf("RegisterNativeTexture() = %v", err)
		}
		if !id.IsUser() || id.Value() != uint64(i) {
			t.Errorf("id %d = %v, want User(%d)", i, id, i)
		}
		ids = append(ids, id)
	}

	// Removing one id leaves the others where they were.
	if _, ok := pool.RemoveNativeTexture(ids[2]); !ok {
		t.Fatalf("RemoveNativeTexture(%v) not found", ids[2])
	}
	for i, id := range ids {
		_, ok := pool.ShaderView(guitex.User(uint64(i)))
		if ok != (id != ids[2]) {
			t.Errorf("ShaderView(%v) found = %v after removing %v", id, ok, ids[2])
		}
	}

	// Removed ids are never handed out again.
	for _, id := range ids {
		if id == ids[2] {
			continue
		}
		if _, ok := pool.RemoveNativeTexture(id); !ok {
			t.Fatalf("RemoveNativeTexture(%v) not found", id)
		}
	}
	id, err := pool.RegisterNativeTexture(dev.NewNativeTexture(1, 1, guitex.White))
	if err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}
	if id != guitex.User(n) {
		t.Errorf("id after removals = %v, want User(%d)", id, n)
	}
}

func TestRegisterNativeTextureErrors(t *testing.T) {
	pool, dev := newPool(t)

	if _, err := pool.RegisterNativeTexture(nil); !errors.Is(err, guitex.ErrNilTexture) {
		t.Errorf("RegisterNativeTexture(nil) = %v, want ErrNilTexture", err)
	}

	dev.FailNext(fakegpu.OpCreateView, errors.New("no view"))
	if _, err := pool.RegisterNativeTexture(dev.NewNativeTexture(1, 1, guitex.White)); err == nil {
		t.Error("RegisterNativeTexture() = nil, want view error")
	}

	// Failed registrations do not consume ids.
	id, err := pool.RegisterNativeTexture(dev.NewNativeTexture(1, 1, guitex.White))
	if err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}
	if id != guitex.User(0) {
		t.Errorf("id = %v, want User(0)", id)
	}
}

func TestRemoveNativeTextureReturnsSameTexture(t *testing.T) {
	pool, dev := newPool(t)
	native := dev.NewNativeTexture(8, 8, red)
	id, err := pool.RegisterNativeTexture(native)
	if err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}
	if gpuTexture(t, pool, id) != native {
		t.Error("view does not sample the registered texture")
	}

	got, ok := pool.RemoveNativeTexture(id)
	if !ok {
		t.Fatal("RemoveNativeTexture() not found")
	}
	if got != guitex.Texture(native) {
		t.Error("RemoveNativeTexture() returned a different texture")
	}
	if native.Destroyed() {
		t.Error("pool destroyed a native texture")
	}
	assertNoLeaks(t, dev)

	if _, ok := pool.RemoveNativeTexture(id); ok {
		t.Error("second RemoveNativeTexture() found the texture")
	}
	if _, ok := pool.ShaderView(id); ok {
		t.Error("ShaderView() found a removed texture")
	}

	// The caller owns it again.
	dev.DestroyNativeTexture(native)
}

func TestManagedIDOnNativeOperationsPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(pool *guitex.TexturePool, dev *fakegpu.Device)
	}{
		{"remove", func(pool *guitex.TexturePool, _ *fakegpu.Device) {
			pool.RemoveNativeTexture(guitex.Managed(0))
		}},
		{"replace", func(pool *guitex.TexturePool, dev *fakegpu.Device) {
			_, _ = pool.ReplaceNativeTexture(guitex.Managed(0), dev.NewNativeTexture(1, 1, red))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, dev := newPool(t)
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if msg, _ := r.(string); !strings.Contains(msg, "managed id") {
					t.Errorf("panic = %v, want managed id message", r)
				}
			}()
			tt.fn(pool, dev)
		})
	}
}

func TestReplaceNativeTexture(t *testing.T) {
	pool, dev := newPool(t)
	first := dev.NewNativeTexture(2, 2, red)
	second := dev.NewNativeTexture(4, 4, guitex.White)
	id, err := pool.RegisterNativeTexture(first)
	if err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}

	old, err := pool.ReplaceNativeTexture(id, second)
	if err != nil {
		t.Fatalf("ReplaceNativeTexture() = %v", err)
	}
	if old != guitex.Texture(first) {
		t.Error("ReplaceNativeTexture() did not return the previous texture")
	}
	if gpuTexture(t, pool, id) != second {
		t.Error("id does not sample the replacement")
	}
	if _, views := dev.Live(); views != 1 {
		t.Errorf("live views = %d, want 1", views)
	}

	if _, err := pool.ReplaceNativeTexture(guitex.User(99), first); !errors.Is(err, guitex.ErrUnknownTexture) {
		t.Errorf("ReplaceNativeTexture(unknown) = %v, want ErrUnknownTexture", err)
	}
	if _, err := pool.ReplaceNativeTexture(id, nil); !errors.Is(err, guitex.ErrNilTexture) {
		t.Errorf("ReplaceNativeTexture(nil) = %v, want ErrNilTexture", err)
	}
}

func TestShaderViewUnknown(t *testing.T) {
	pool, _ := newPool(t)
	for _, id := range []guitex.TextureID{guitex.Managed(0), guitex.User(0), guitex.Managed(1 << 40)} {
		if v, ok := pool.ShaderView(id); ok || v != nil {
			t.Errorf("ShaderView(%v) = (%v, %v), want (nil, false)", id, v, ok)
		}
	}
}

func TestIDSpacesAreDisjoint(t *testing.T) {
	pool, dev := newPool(t)
	mustUpdate(t, pool, set(guitex.Managed(0), guitex.FullDelta(guitex.NewColorImage(1, 1, red))))
	native := dev.NewNativeTexture(1, 1, guitex.White)
	uid, err := pool.RegisterNativeTexture(native)
	if err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}
	if uid.Value() != 0 {
		t.Fatalf("first native id value = %d, want 0", uid.Value())
	}

	if gpuTexture(t, pool, guitex.Managed(0)) == native {
		t.Error("Managed(0) resolves to the native texture")
	}
	if gpuTexture(t, pool, uid) != native {
		t.Error("User(0) does not resolve to the native texture")
	}
	if _, ok := pool.ManagedImage(uid); ok {
		t.Error("ManagedImage() returned content for a User id")
	}
}

func TestReleaseDestroysOnlyOwnedResources(t *testing.T) {
	pool, dev := newPool(t)
	for i := uint64(0); i < 3; i++ {
		mustUpdate(t, pool, set(guitex.Managed(i), guitex.FullDelta(guitex.NewColorImage(2, 2, red))))
	}
	native := dev.NewNativeTexture(1, 1, guitex.White)
	if _, err := pool.RegisterNativeTexture(native); err != nil {
		t.Fatalf("RegisterNativeTexture() = %v", err)
	}

	pool.Release()

	assertNoLeaks(t, dev)
	if native.Destroyed() {
		t.Error("Release() destroyed a native texture")
	}
	if managed, nat := pool.Len(); managed != 0 || nat != 0 {
		t.Errorf("Len() after Release = (%d, %d), want (0, 0)", managed, nat)
	}

	// Native ids keep counting.
	id, _ := pool.RegisterNativeTexture(native)
	if id != guitex.User(1) {
		t.Errorf("id after Release = %v, want User(1)", id)
	}
}

func TestWithLabel(t *testing.T) {
	pool, _ := newPool(t, guitex.WithLabel("editor"))
	mustUpdate(t, pool, set(guitex.Managed(12), guitex.FullDelta(guitex.NewColorImage(1, 1, red))))

	if got := gpuTexture(t, pool, guitex.Managed(12)).Label(); got != "editor_managed_12" {
		t.Errorf("Label() = %q, want editor_managed_12", got)
	}
}

func TestNewTexturePoolNilDevicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	guitex.NewTexturePool(nil)
}

func BenchmarkPartialUpdate(b *testing.B) {
	dev := fakegpu.New()
	pool := guitex.NewTexturePool(dev)
	id := guitex.Managed(0)
	if err := pool.Update(set(id, guitex.FullDelta(guitex.NewColorImage(512, 512, guitex.Black)))); err != nil {
		b.Fatal(err)
	}
	patch := set(id, guitex.PartialDelta(100, 100, guitex.NewColorImage(32, 32, guitex.White)))

	b.ReportAllocs()
	for b.Loop() {
		if err := pool.Update(patch); err != nil {
			b.Fatal(err)
		}
	}
}
