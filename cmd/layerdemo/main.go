// Command layerdemo composes a small launcher screen with the compositor
// and writes it as a PNG.
//
// Without -assets it uses built-in art. With -assets it loads desc.json from
// that directory; -watch then re-renders whenever the directory changes.
package main

import (
	"context"
	"flag"
	"image/color"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/assets"
)

const (
	layerBackground = iota
	layerChrome
	layerOverlay
	layerCount
)

func main() {
	var (
		dir     = flag.String("assets", "", "asset directory holding desc.json (built-in art if empty)")
		width   = flag.Int("width", 640, "canvas width")
		height  = flag.Int("height", 400, "canvas height")
		output  = flag.String("output", "layerdemo.png", "output file")
		hover   = flag.Bool("hover", true, "render the button in its hover state")
		dump    = flag.Bool("dump", false, "dump the asset catalog and render stats")
		watch   = flag.Bool("watch", false, "re-render when the asset directory changes")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	size := compositor.Sz(*width, *height)
	render := func(th *theme) {
		l, err := buildScene(th, size, *hover)
		if err != nil {
			log.Fatalf("Failed to build scene: %v", err)
		}
		if err := l.Canvas().SavePNG(*output); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		if *dump {
			spew.Fdump(os.Stdout, l.Stats())
		}
		log.Printf("Scene saved to %s (%v)\n", *output, size)
	}

	if *dir == "" {
		render(builtinTheme())
		return
	}

	store := assets.New(*dir, assets.WithRequirements(requirements))
	if err := store.Load(); err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}
	defer store.Close()

	th, err := themeFromStore(store)
	if err != nil {
		log.Fatalf("Failed to read theme: %v", err)
	}
	if *dump {
		if err := dumpCatalog(os.Stdout, store); err != nil {
			log.Fatalf("Failed to summarize assets: %v", err)
		}
	}
	render(th)

	if !*watch {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = store.Watch(ctx, func(err error) {
		if err != nil {
			log.Printf("Reload failed, keeping previous assets: %v", err)
			return
		}
		th, err := themeFromStore(store)
		if err != nil {
			log.Printf("Reloaded assets are incomplete: %v", err)
			return
		}
		render(th)
	})
	if err != nil {
		log.Fatalf("Failed to watch %s: %v", *dir, err)
	}
	log.Printf("Watching %s, interrupt to stop\n", *dir)
	<-ctx.Done()
}

// requirements are the names buildScene reads from an asset directory.
var requirements = assets.Requirements{
	Images:  []string{"TOOLBAR_BACKGROUND", "CARD_BACKGROUND", "BUTTON", "ICON"},
	Metrics: []string{"TOOLBAR_HEIGHT", "CARD_MARGIN"},
	Colors:  []string{"background"},
}

// theme is everything the scene is drawn from.
type theme struct {
	background    color.NRGBA
	toolbar       *compositor.Frame
	card          *compositor.Frame
	button        *compositor.MultiStateFrame
	icon          *compositor.Pixmap
	toolbarHeight int
	cardMargin    int
	interp        compositor.Interp
}

// dumpCatalog writes the loaded catalog to w.
func dumpCatalog(w io.Writer, s *assets.Store) error {
	sum, err := s.Summary()
	if err != nil {
		return err
	}
	spew.Fdump(w, sum)
	return nil
}

func themeFromStore(s *assets.Store) (*theme, error) {
	var (
		th  theme
		err error
	)
	if th.background, err = s.Color("background"); err != nil {
		return nil, err
	}
	if th.toolbar, err = s.Frame("TOOLBAR_BACKGROUND"); err != nil {
		return nil, err
	}
	if th.card, err = s.Frame("CARD_BACKGROUND"); err != nil {
		return nil, err
	}
	if th.button, err = s.MultiStateFrame("BUTTON"); err != nil {
		return nil, err
	}
	if th.icon, err = s.Image("ICON"); err != nil {
		return nil, err
	}
	h, err := s.Metric("TOOLBAR_HEIGHT")
	if err != nil {
		return nil, err
	}
	m, err := s.Metric("CARD_MARGIN")
	if err != nil {
		return nil, err
	}
	th.toolbarHeight, th.cardMargin = int(h), int(m)
	if th.interp, err = s.Interpolation(); err != nil {
		return nil, err
	}
	return &th, nil
}

// builtinTheme draws its own border art: a dark toolbar strip, a light card
// with a dark rim, and a three state button.
func builtinTheme() *theme {
	toolbar, err := compositor.NewFrame(bordered(8, 8, 2, rgb(70, 70, 90), rgb(40, 40, 52)), compositor.Uniform(2))
	if err != nil {
		panic(err)
	}
	card, err := compositor.NewFrame(bordered(12, 12, 3, rgb(30, 30, 30), rgb(225, 225, 235)), compositor.Uniform(3))
	if err != nil {
		panic(err)
	}

	strip := compositor.NewPixmap(12, 36)
	for i, fill := range []color.NRGBA{rgb(60, 110, 200), rgb(90, 150, 240), rgb(30, 70, 150)} {
		band := bordered(12, 12, 2, rgb(20, 30, 60), fill)
		band.DrawTo(strip, compositor.R(0, i*12, 12, 12), compositor.InterpNearest)
	}
	button, err := compositor.NewMultiStateFrame(strip, 3, compositor.Uniform(2), 0)
	if err != nil {
		panic(err)
	}

	icon := compositor.NewPixmap(16, 16)
	for y := range 16 {
		for x := range 16 {
			if (x-8)*(x-8)+(y-8)*(y-8) <= 36 {
				icon.SetPixel(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 220})
			}
		}
	}

	return &theme{
		background:    rgb(24, 26, 32),
		toolbar:       toolbar,
		card:          card,
		button:        button,
		icon:          icon,
		toolbarHeight: 24,
		cardMargin:    12,
		interp:        compositor.InterpBilinear,
	}
}

// buildScene lays out the launcher:
//
//	layer 0: background fill
//	layer 1: toolbar across the top, a row of three centered cards
//	layer 2: a button docked bottom-right with an icon on it
func buildScene(th *theme, size compositor.Size, hover bool) (*compositor.Layer, error) {
	l, err := compositor.NewLayer(size, layerCount,
		compositor.WithDefaultLayer(layerChrome),
		compositor.WithInterpolation(th.interp),
		compositor.WithParallelRebuild(layerCount),
		compositor.WithFocusPolicy(compositor.FocusTopMost))
	if err != nil {
		return nil, err
	}

	bg := compositor.NewPixmap(size.Width, size.Height)
	bg.Fill(th.background)
	if _, err := l.AddSurface(bg, compositor.Pt(0, 0), compositor.OnLayer(layerBackground)); err != nil {
		return nil, err
	}

	bar, err := th.toolbar.Render(compositor.Sz(size.Width, th.toolbarHeight))
	if err != nil {
		return nil, err
	}
	if _, err := l.AddSurface(bar, compositor.Pt(0, 0)); err != nil {
		return nil, err
	}

	cardSize := compositor.Sz(size.Width/4, size.Height/2)
	card, err := th.card.Render(cardSize)
	if err != nil {
		return nil, err
	}
	step := cardSize.Width + th.cardMargin
	for i := -1; i <= 1; i++ {
		if _, err := l.AddSurface(card, compositor.Pt(i*step, th.toolbarHeight/2),
			compositor.Anchored(compositor.CenterMiddle)); err != nil {
			return nil, err
		}
	}

	if err := th.button.Resize(compositor.Sz(48, 32)); err != nil {
		return nil, err
	}
	overlay := []compositor.MemberOption{compositor.OnLayer(layerOverlay), compositor.Anchored(compositor.BottomRight)}
	btn, err := l.AddSurface(th.button.Bitmap(), compositor.Pt(th.cardMargin, th.cardMargin), overlay...)
	if err != nil {
		return nil, err
	}
	btnRect, err := l.Rect(btn)
	if err != nil {
		return nil, err
	}
	iconAt := compositor.Pt(
		th.cardMargin+(btnRect.Width-th.icon.Width())/2,
		th.cardMargin+(btnRect.Height-th.icon.Height())/2)
	icon, err := l.AddSurface(th.icon, iconAt, overlay...)
	if err != nil {
		return nil, err
	}
	l.Refresh()

	if hover {
		// The pointer sits on the button: swap its state and let only the
		// overlay layer rebuild.
		center := btnRect.Position.Add(compositor.Pt(btnRect.Width/2, btnRect.Height/2))
		if h, ok := l.FocusElement(center); ok && (h == btn || h == icon) {
			if err := th.button.ChangeState(1); err != nil {
				return nil, err
			}
			if err := l.ChangeSurface(btn, th.button.Bitmap()); err != nil {
				return nil, err
			}
			l.Refresh()
		}
	}
	return l, nil
}

// bordered returns a w x h pixmap of fill with a rim of the given thickness.
func bordered(w, h, rim int, edge, fill color.NRGBA) *compositor.Pixmap {
	pm := compositor.NewPixmap(w, h)
	for y := range h {
		for x := range w {
			c := fill
			if x < rim || y < rim || x >= w-rim || y >= h-rim {
				c = edge
			}
			pm.SetPixel(x, y, c)
		}
	}
	return pm
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
