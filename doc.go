// Package strata provides per-layer cameras for 2D scenes on [Ebitengine].
//
// A scene is split into named layers. Each [Layer] has one camera (center,
// zoom, rotation in degrees), a visibility flag, a time scale, and an ordered
// list of effects with named parameters. Game logic mutates layers every
// tick; every mutator pushes the change to the layer's [RenderBackend]
// synchronously, so the backend never lags behind the layer.
//
// # Quick start
//
//	project, err := strata.LoadProject("project.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, _ := project.Scene("level1")
//	scene, err := strata.NewScene(project.Game, data, strata.RendererFactory)
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(strata.Run(scene, strata.RunConfig{Title: "Level 1"}))
//
// # Coordinates
//
// [Layer.ConvertCoords] maps canvas pixels (for example the cursor) to layer
// world space: center on the viewport, divide by |zoom|, rotate by the camera
// rotation, add the camera center. [Layer.ConvertInverseCoords] is its exact
// inverse for any non-zero zoom. [Layer.ViewMatrix] is the same inverse as
// an affine matrix, which is what backends draw with.
//
// # Backends
//
// [Renderer] is the Ebitengine backend: it keeps an [ebiten.GeoM] in sync
// with the camera and runs the layer's effects as a filter chain. Tests and
// headless hosts can bind any type implementing [RenderBackend] through a
// [BackendFactory].
//
// # Effects
//
// An effect's Type picks a filter kind from the registry (blur, colormatrix,
// outline, pixeloutline, pixelinline, or anything added with
// [RegisterEffect] or [RegisterShaderEffect]). Parameters are pushed to the
// backend by name with [Layer.SetEffectParameter].
//
// strata is single-threaded: layers, scenes and renderers are meant to be
// used from the game loop only.
//
// [Ebitengine]: https://ebitengine.org
package strata
