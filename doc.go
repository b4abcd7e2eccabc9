// Package guitex manages the GPU textures of an immediate-mode GUI.
//
// # Overview
//
// An immediate-mode GUI framework keeps its own logical texture space (font
// atlas, images, icons) and reports every frame which textures were
// created, patched or freed. guitex turns that stream of deltas into GPU
// textures and hands out the shader views the draw stage binds.
//
// Next to these managed textures, the host application can register
// native textures it created itself (video frames, 3D viewports) so the GUI
// can display them. The pool borrows native textures and never destroys
// them.
//
// # Quick Start
//
//	device, cleanup, err := wgpu.OpenSoftware() // github.com/gogpu/guitex/backend/wgpu
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
//	pool := guitex.NewTexturePool(device)
//	defer pool.Release()
//
//	// Once per frame, before drawing:
//	if err := pool.Update(delta); err != nil {
//	    return err
//	}
//
//	// Per draw primitive:
//	view, ok := pool.ShaderView(prim.TextureID)
//
// # Texture ids
//
// TextureID has two disjoint spaces. Managed ids are assigned by the GUI
// framework and reach the pool only through TexturesDelta. User ids are
// assigned by RegisterNativeTexture. Passing a Managed id to an operation
// on native textures is a programming error and panics.
//
// # Partial updates
//
// Devices map textures for writing with discard semantics: the previous
// content is lost. The pool keeps a CPU copy of every managed texture and
// rewrites it in full before overlaying each patch.
//
// # Concurrency
//
// A TexturePool is bound to the goroutine that owns the GPU device context
// and does no locking of its own.
package guitex
