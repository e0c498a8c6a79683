package strata

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the window size. Zero uses the scene game's
	// default size.
	Width, Height int
	// OnUpdate runs before the scene is updated each tick. A non-nil error
	// stops the game loop and is returned by Run.
	OnUpdate func() error
	// Watcher, when set, is polled every tick to hot-reload effect defaults.
	Watcher *Watcher
	// ClearColor fills the screen before the layers are drawn. The zero
	// value leaves the screen as Ebitengine cleared it.
	ClearColor Color
	// ShowFPS draws an FPS and TPS counter above every layer.
	ShowFPS bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
	fps   *fpsOverlay
	lastW int
	lastH int
}

// Run opens a window and runs the scene until the window closes or
// OnUpdate returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = int(scene.Game().DefaultWidth())
	}
	if cfg.Height <= 0 {
		cfg.Height = int(scene.Game().DefaultHeight())
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	g := &game{scene: scene, cfg: cfg}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	if g.cfg.Watcher != nil {
		g.scene.Poll(g.cfg.Watcher)
	}
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	g.scene.Update()
	if g.fps != nil {
		g.fps.update(g.scene.ElapsedTime() / 1000)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor.toRGBA())
	}
	g.scene.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.lastW || outsideHeight != g.lastH {
		g.lastW, g.lastH = outsideWidth, outsideHeight
		g.scene.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
