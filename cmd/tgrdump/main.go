// Command tgrdump inspects TGR sprite containers: it can print frame
// metadata, export a decoded frame to PNG, or open a live preview window
// that hot-reloads the player-color table when COLORS.INI changes.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tgrformat/tgrsprite/container"
	"github.com/tgrformat/tgrsprite/line"
	"github.com/tgrformat/tgrsprite/pixel"
	"github.com/tgrformat/tgrsprite/playercolor"
)

var (
	tgrPath      = flag.String("tgr", "", "Path to the .tgr sprite container to inspect.")
	colorsPath   = flag.String("colors", "", "Path to COLORS.INI (player-color table).")
	spriteConfig = flag.String("spriteconfig", "", "Path to sprite.ini; when set, dumpMetadata cross-checks its PaddingFrames against the container's own descriptors.")
	player       = flag.Int("player", 0, "Active player_id for player-color opcodes.")
	frameIdx     = flag.Int("frame", 0, "Frame index to export or preview.")
	outPath      = flag.String("out", "", "If set, export the chosen frame to this PNG path instead of dumping metadata.")
	scale        = flag.Int("scale", 4, "Upscale factor for PNG export.")
	watch        = flag.Bool("watch", false, "Open a live ebiten preview window, hot-reloading COLORS.INI on edit.")
)

func main() {
	flag.Parse()

	if *tgrPath == "" {
		log.Fatalf("-tgr is required")
	}

	c, err := container.Open(*tgrPath)
	if err != nil {
		log.Fatalf("Opening %q: %v", *tgrPath, err)
	}
	defer c.Close()

	pc, err := loadPlayerColors(*colorsPath)
	if err != nil {
		log.Fatalf("Loading player colors: %v", err)
	}

	var cfg container.SpriteConfig
	if *spriteConfig != "" {
		cfg, err = container.LoadSpriteConfig(*spriteConfig)
		if err != nil {
			log.Fatalf("Loading sprite config: %v", err)
		}
	}

	switch {
	case *watch:
		runPreview(c, pc)
	case *outPath != "":
		if err := exportPNG(c, pc, *frameIdx, *outPath, *scale); err != nil {
			log.Fatalf("Exporting frame %d: %v", *frameIdx, err)
		}
	default:
		dumpMetadata(c, cfg)
	}
}

// loadPlayerColors loads path's [PlayerColors] table, or returns an
// empty table when path is unset (no player-color opcodes expected).
func loadPlayerColors(path string) (playercolor.Table, error) {
	if path == "" {
		return playercolor.Table{}, nil
	}
	return playercolor.LoadINIFile(path)
}

// dumpMetadata prints the container's frame table and animations. When
// -spriteconfig is set, cfg.IsPaddingFrame is cross-checked against each
// descriptor's own IsPadding, flagging any frame where the sprite.ini the
// asset was authored against disagrees with what the container encodes.
func dumpMetadata(c *container.Container, cfg container.SpriteConfig) {
	checkConfig := *spriteConfig != ""

	fmt.Printf("bits_per_pixel: %d\n", c.BitsPerPixel())
	fmt.Printf("size: %dx%d\n", c.Width(), c.Height())
	fmt.Printf("frames: %d\n", len(c.Descriptors()))
	for i, d := range c.Descriptors() {
		mismatch := ""
		if checkConfig && cfg.IsPaddingFrame(i) != d.IsPadding() {
			mismatch = " (sprite.ini disagrees)"
		}
		if d.IsPadding() {
			fmt.Printf("  frame %d: padding%s\n", i, mismatch)
			continue
		}
		fmt.Printf("  frame %d: %dx%d at offset %d%s\n", i, d.Width(), d.Height(), d.Offset, mismatch)
	}
	for i, a := range c.Animations() {
		fmt.Printf("  animation %d: frames [%d, %d) at %d fps\n", i, a.StartFrame, int(a.StartFrame)+int(a.FrameCount), a.FrameRate)
	}
}

// decodeFrame decodes frame i of c into an RGBA image, using pc/playerID
// for any player-color opcodes it contains.
func decodeFrame(c *container.Container, i int, pc playercolor.Table, playerID uint8) (*image.RGBA, error) {
	descs := c.Descriptors()
	if i < 0 || i >= len(descs) {
		return nil, fmt.Errorf("tgrdump: frame index %d out of range [0, %d)", i, len(descs))
	}
	d := descs[i]
	if d.IsPadding() {
		return nil, fmt.Errorf("tgrdump: frame %d is a padding frame", i)
	}

	f, err := c.OpenFrame(i)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width(), d.Height()))
	for y := 0; y < len(f.Lines); y++ {
		r := f.LineReader(c.ReaderAt(), y)
		row, err := line.Decode(r, f.Line(y), c.BitsPerPixel(), c.Palette(), pc, playerID, i, y)
		if err != nil {
			return nil, fmt.Errorf("tgrdump: %w", err)
		}
		for x, p := range row {
			img.Set(x, y, toColor(p))
		}
	}
	return img, nil
}

func toColor(p pixel.Pixel) color.RGBA {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

func exportPNG(c *container.Container, pc playercolor.Table, i int, path string, factor int) error {
	img, err := decodeFrame(c, i, pc, uint8(*player))
	if err != nil {
		return err
	}

	if factor < 1 {
		factor = 1
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tgrdump: creating %q: %w", path, err)
	}
	defer out.Close()
	return png.Encode(out, dst)
}

// previewGame is an ebiten.Game that displays one decoded frame and
// reloads its player-color table when COLORS.INI changes, mirroring the
// teacher's console.Bus Layout/Draw/Update shape.
type previewGame struct {
	c        *container.Container
	frameIdx int
	playerID uint8

	mu  sync.Mutex
	pc  playercolor.Table
	img *ebiten.Image
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	d := g.c.Descriptors()[g.frameIdx]
	return d.Width(), d.Height()
}

func (g *previewGame) Update() error {
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	pc := g.pc
	g.mu.Unlock()

	rgba, err := decodeFrame(g.c, g.frameIdx, pc, g.playerID)
	if err != nil {
		log.Printf("tgrdump: redrawing frame %d: %v", g.frameIdx, err)
		return
	}
	if g.img == nil {
		g.img = ebiten.NewImageFromImage(rgba)
	} else {
		g.img.WritePixels(rgba.Pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *previewGame) setPlayerColors(pc playercolor.Table) {
	g.mu.Lock()
	g.pc = pc
	g.mu.Unlock()
}

func runPreview(c *container.Container, pc playercolor.Table) {
	g := &previewGame{c: c, frameIdx: *frameIdx, playerID: uint8(*player), pc: pc}

	if *colorsPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Fatalf("tgrdump: creating watcher: %v", err)
		}
		defer w.Close()

		if err := w.Add(*colorsPath); err != nil {
			log.Fatalf("tgrdump: watching %q: %v", *colorsPath, err)
		}

		go func() {
			for {
				select {
				case ev, ok := <-w.Events:
					if !ok {
						return
					}
					if !ev.Has(fsnotify.Write) {
						continue
					}
					reloaded, err := playercolor.LoadINIFile(*colorsPath)
					if err != nil {
						log.Printf("tgrdump: reloading %q: %v", *colorsPath, err)
						continue
					}
					g.setPlayerColors(reloaded)
				case err, ok := <-w.Errors:
					if !ok {
						return
					}
					log.Printf("tgrdump: watcher error: %v", err)
				}
			}
		}()
	}

	ebiten.SetWindowTitle("tgrdump")
	d := c.Descriptors()[*frameIdx]
	ebiten.SetWindowSize(d.Width()*2, d.Height()*2)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
