package main

import (
	"flag"
	"log"
	"math"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const wallGroup = 1

// SetupScene creates a box closed by frozen walls, with a few shapes falling inside
func SetupScene(config feather2d.Config) (*feather2d.World, error) {
	world, err := feather2d.NewWorld(config)
	if err != nil {
		return nil, err
	}

	w, h := config.Viewport.Width, config.Viewport.Height
	walls := []actor.BodyDef{
		{Position: mgl64.Vec2{w / 2, 5}, Width: w, Height: 10},     // floor
		{Position: mgl64.Vec2{w / 2, h - 5}, Width: w, Height: 10}, // ceiling
		{Position: mgl64.Vec2{5, h / 2}, Width: 10, Height: h},     // left
		{Position: mgl64.Vec2{w - 5, h / 2}, Width: 10, Height: h}, // right
	}
	for _, def := range walls {
		def.Shape = actor.ShapeTypeRectangle
		def.Frozen = true
		def.StaticFriction = 0.6
		def.DynamicFriction = 0.4
		// walls overlap at the corners
		def.Group = wallGroup
		def.IgnoreGroups = []int{wallGroup}

		if err := addBody(world, def); err != nil {
			return nil, err
		}
	}

	for i := 0; i < 12; i++ {
		def := actor.BodyDef{
			Position:        mgl64.Vec2{80 + float64(i%6)*110, h/2 + float64(i/6)*80},
			Rotation:        float64(i) * math.Pi / 7,
			Density:         0.01,
			Restitution:     0.4,
			StaticFriction:  0.5,
			DynamicFriction: 0.3,
		}
		if i%2 == 0 {
			def.Shape = actor.ShapeTypeRectangle
			def.Width = 30 + float64(i)*2
			def.Height = 20
		} else {
			def.Shape = actor.ShapeTypePolygon
			def.Radius = 18
			def.Sides = 3 + i%5
		}

		if err := addBody(world, def); err != nil {
			return nil, err
		}
	}

	return world, nil
}

func addBody(world *feather2d.World, def actor.BodyDef) error {
	body, err := actor.NewBody(def)
	if err != nil {
		return err
	}
	world.AddBody(body)

	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML world configuration")
	steps := flag.Int("steps", 300, "number of steps to simulate")
	flag.Parse()

	config := feather2d.DefaultConfig()
	config.Gravity = [2]float64{0, -98.1}
	if *configPath != "" {
		var err error
		if config, err = feather2d.LoadConfigFile(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	world, err := SetupScene(config)
	if err != nil {
		log.Fatalf("scene: %v", err)
	}

	var entered, exited int
	world.Events.Subscribe(feather2d.COLLISION_ENTER, func(feather2d.Event) { entered++ })
	world.Events.Subscribe(feather2d.COLLISION_EXIT, func(feather2d.Event) { exited++ })

	log.Printf("simulating %d bodies, gravity %v", world.BodyCount(), world.Gravity)

	const dt float64 = 1.0 / 60.0
	for step := 0; step < *steps; step++ {
		snapshot := world.Step(dt)

		if step%30 != 0 {
			continue
		}

		var maxPenetration float64
		for _, m := range snapshot.Manifolds {
			maxPenetration = max(maxPenetration, m.Penetration)
		}
		log.Printf("step %4d: pairs=%d manifolds=%d out_of_bounds=%d max_penetration=%.4f enter=%d exit=%d",
			step, len(snapshot.Pairs), len(snapshot.Manifolds), len(snapshot.Grid.OutOfBounds),
			maxPenetration, entered, exited)
	}

	for _, h := range world.Bodies() {
		body, _ := world.Body(h)
		if body.Frozen {
			continue
		}
		log.Printf("%v: position %.2f velocity %.2f", h, body.Transform.Position, body.Velocity)
	}
}
