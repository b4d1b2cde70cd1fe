package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	// world units covered by one terminal cell
	cellWidth  = 8.0
	cellHeight = 16.0

	wallGroup = 1
	maxBodies = 200
)

var (
	wallStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bodyStyle    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	triggerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	contactStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	occupied     = tcell.NewRGBColor(24, 32, 48)
	crowded      = tcell.NewRGBColor(56, 40, 72)
)

type Demo struct {
	screen        tcell.Screen
	width, height int

	world    *feather2d.World
	snapshot feather2d.Snapshot
	rng      *rand.Rand

	showGrid bool
	paused   bool
	hits     int

	// Audio
	audioInit   bool
	hitThisTick bool
}

func NewDemo(config feather2d.Config) (*Demo, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	d := &Demo{
		screen:   screen,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		showGrid: true,
	}
	d.width, d.height = screen.Size()

	// The viewport follows the terminal, whatever the configuration says
	config.Viewport.Width = float64(d.width) * cellWidth
	config.Viewport.Height = float64(d.height) * cellHeight
	if d.world, err = feather2d.NewWorld(config); err != nil {
		screen.Fini()
		return nil, err
	}
	d.world.Events.Subscribe(feather2d.COLLISION_ENTER, func(feather2d.Event) {
		d.hits++
		d.hitThisTick = true
	})

	if err := d.buildWalls(); err != nil {
		screen.Fini()
		return nil, err
	}
	for i := 0; i < 8; i++ {
		d.dropBody()
	}

	// Audio is optional
	_ = d.initAudio()

	return d, nil
}

func (d *Demo) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		d.audioInit = true
	}
	return err
}

func (d *Demo) playHitSound() {
	if !d.audioInit {
		return
	}

	sampleRate := beep.SampleRate(44100)
	duration := sampleRate.N(30 * time.Millisecond)
	sine, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}

	speaker.Play(beep.Take(duration, sine))
}

// buildWalls closes the visible area with frozen bodies, one cell thick
func (d *Demo) buildWalls() error {
	w := float64(d.width) * cellWidth
	// keep the status line free
	h := float64(d.height-1) * cellHeight

	walls := []actor.BodyDef{
		{Position: mgl64.Vec2{w / 2, cellHeight / 2}, Width: w, Height: cellHeight},
		{Position: mgl64.Vec2{cellWidth / 2, h / 2}, Width: cellWidth, Height: h},
		{Position: mgl64.Vec2{w - cellWidth/2, h / 2}, Width: cellWidth, Height: h},
	}
	for _, def := range walls {
		def.Shape = actor.ShapeTypeRectangle
		def.Frozen = true
		def.StaticFriction = 0.6
		def.DynamicFriction = 0.4
		def.Group = wallGroup
		def.IgnoreGroups = []int{wallGroup}

		body, err := actor.NewBody(def)
		if err != nil {
			return err
		}
		d.world.AddBody(body)
	}

	return nil
}

// dropBody adds a random shape near the top of the screen
func (d *Demo) dropBody() {
	if d.world.BodyCount() >= maxBodies {
		return
	}

	w := float64(d.width) * cellWidth
	h := float64(d.height-1) * cellHeight
	def := actor.BodyDef{
		Position:        mgl64.Vec2{w*0.1 + d.rng.Float64()*w*0.8, h * (0.6 + d.rng.Float64()*0.3)},
		Rotation:        d.rng.Float64() * 2 * math.Pi,
		Density:         0.01,
		Restitution:     0.2 + d.rng.Float64()*0.5,
		StaticFriction:  0.5,
		DynamicFriction: 0.3,
		IsTrigger:       d.rng.Intn(10) == 0,
	}
	if d.rng.Intn(2) == 0 {
		def.Shape = actor.ShapeTypeRectangle
		def.Width = 3*cellWidth + d.rng.Float64()*4*cellWidth
		def.Height = 2*cellHeight + d.rng.Float64()*2*cellHeight
	} else {
		def.Shape = actor.ShapeTypePolygon
		def.Radius = 2*cellHeight + d.rng.Float64()*cellHeight
		def.Sides = 3 + d.rng.Intn(5)
	}

	body, err := actor.NewBody(def)
	if err != nil {
		return
	}
	body.AngularVelocity = d.rng.Float64()*4 - 2
	d.world.AddBody(body)
}

// removeOffscreen drops the bodies that fell out of the grid
func (d *Demo) removeOffscreen() {
	for _, h := range d.snapshot.Grid.OutOfBounds {
		body, ok := d.world.Body(h)
		if !ok || body.Frozen {
			continue
		}
		if body.Transform.Position.Y() < 0 {
			d.world.RemoveBody(h)
		}
	}
}

// toScreen maps a y-up world position to a terminal cell
func (d *Demo) toScreen(p mgl64.Vec2) (int, int) {
	x := int(math.Floor(p.X() / cellWidth))
	y := d.height - 2 - int(math.Floor(p.Y()/cellHeight))
	return x, y
}

func (d *Demo) setCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < d.width && y >= 0 && y < d.height-1 {
		d.screen.SetContent(x, y, r, nil, style)
	}
}

// drawSegment steps along a world-space edge one terminal cell at a time
func (d *Demo) drawSegment(a, b mgl64.Vec2, style tcell.Style) {
	x0, y0 := d.toScreen(a)
	x1, y1 := d.toScreen(b)
	steps := max(abs(x1-x0), abs(y1-y0), 1)

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := d.toScreen(a.Add(b.Sub(a).Mul(t)))
		d.setCell(x, y, '#', style)
	}
}

func (d *Demo) drawGrid() {
	grid := d.snapshot.Grid
	if grid.Columns == 0 || grid.Rows == 0 {
		return
	}

	for y := 0; y < d.height-1; y++ {
		for x := 0; x < d.width; x++ {
			world := mgl64.Vec2{(float64(x) + 0.5) * cellWidth, (float64(d.height-2-y) + 0.5) * cellHeight}
			cx := int(world.X() / grid.CellSize.X())
			cy := int(world.Y() / grid.CellSize.Y())
			if cx < 0 || cx >= grid.Columns || cy < 0 || cy >= grid.Rows {
				continue
			}

			switch n := len(grid.Cells[cy*grid.Columns+cx]); {
			case n > 2:
				d.setCell(x, y, ' ', tcell.StyleDefault.Background(crowded))
			case n > 0:
				d.setCell(x, y, ' ', tcell.StyleDefault.Background(occupied))
			}
		}
	}
}

func (d *Demo) draw() {
	d.screen.Clear()

	if d.showGrid {
		d.drawGrid()
	}

	// Draw bodies
	for _, h := range d.world.Bodies() {
		body, _ := d.world.Body(h)
		style := bodyStyle
		switch {
		case body.Frozen:
			style = wallStyle
		case body.IsTrigger:
			style = triggerStyle
		}

		vertices := body.WorldVertices()
		for i, v := range vertices {
			d.drawSegment(v, vertices[(i+1)%len(vertices)], style)
		}
	}

	// Draw contact points
	for _, m := range d.snapshot.Manifolds {
		for _, p := range m.Points {
			x, y := d.toScreen(p)
			d.setCell(x, y, '*', contactStyle)
		}
	}

	status := fmt.Sprintf(" bodies:%d pairs:%d contacts:%d hits:%d | space: drop  g: grid  p: pause  q: quit ",
		d.world.BodyCount(), len(d.snapshot.Pairs), len(d.snapshot.Manifolds), d.hits)
	for x := 0; x < d.width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		d.screen.SetContent(x, d.height-1, r, nil, statusStyle)
	}

	d.screen.Show()
}

func (d *Demo) handleResize() {
	newWidth, newHeight := d.screen.Size()
	if newWidth != d.width || newHeight != d.height {
		d.width = newWidth
		d.height = newHeight
		d.world.SetViewport(float64(d.width)*cellWidth, float64(d.height)*cellHeight)
	}
	d.screen.Sync()
}

func (d *Demo) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}

		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				d.dropBody()
			case 'g':
				d.showGrid = !d.showGrid
			case 'p':
				d.paused = !d.paused
			}
		}

	case *tcell.EventResize:
		d.handleResize()
	}

	return true
}

func (d *Demo) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- d.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !d.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if !d.paused {
				d.snapshot = d.world.Step(1.0 / 60.0)
				d.removeOffscreen()

				if d.hitThisTick {
					d.playHitSound()
					d.hitThisTick = false
				}
			}
			d.draw()
		}
	}
}

func (d *Demo) cleanup() {
	if d.audioInit {
		speaker.Close()
	}
	d.screen.Fini()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func main() {
	configPath := flag.String("config", "", "YAML world configuration")
	flag.Parse()

	config := feather2d.DefaultConfig()
	config.Gravity = [2]float64{0, -300}
	if *configPath != "" {
		var err error
		if config, err = feather2d.LoadConfigFile(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	demo, err := NewDemo(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer demo.cleanup()

	demo.run()
}
