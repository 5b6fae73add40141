package main

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-swarm/config"
	"github.com/Carmen-Shannon/oxy-swarm/engine"
	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/game_object"
	"github.com/Carmen-Shannon/oxy-swarm/engine/scene"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
	"github.com/Carmen-Shannon/oxy-swarm/engine/swarm"
)

// agentCommand is a swarm membership change requested from an input goroutine.
type agentCommand int

const (
	addAgent agentCommand = iota
	removeAgent
)

// app wires one scene, sprite store, swarm and engine together independent of the output backend.
// Sprite handles are only touched on the tick goroutine: input goroutines queue agentCommands
// that the first tick callback drains.
type app struct {
	cfg    config.SwarmConfig
	engine engine.Engine
	scene  scene.Scene
	cam    camera.Camera
	store  sprite.Store
	swarm  swarm.Swarm

	handles  map[uint64]sprite.Handle
	commands chan agentCommand
}

// newCamera builds the scene camera from config. The controller starts on the swarm origin.
func newCamera(cfg config.SwarmConfig, aspect float32) camera.Camera {
	follow := cfg.Camera.Follow
	return camera.NewCamera(
		camera.WithHalfHeight(cfg.Camera.HalfHeight),
		camera.WithAspect(aspect),
		camera.WithController(camera.NewCameraController(
			camera.WithFollow(follow, cfg.Camera.FollowRate),
			camera.WithZoom(cfg.Camera.Zoom),
			camera.WithZoomLimits(0.05, 20),
			camera.WithZoomSpeed(0.1),
		)),
	)
}

// newApp builds the simulation around sink. Extra engine options (window, frame limit) come from the backend.
func newApp(cfg config.SwarmConfig, cam camera.Camera, sink sprite.MeshSink, engineOpts ...engine.EngineBuilderOption) (*app, error) {
	a := &app{
		cfg:      cfg,
		cam:      cam,
		handles:  make(map[uint64]sprite.Handle),
		commands: make(chan agentCommand, 64),
	}

	a.scene = scene.NewScene("swarm", scene.WithActive(true), scene.WithCamera(cam))

	store, err := sprite.NewStore(
		sprite.WithLabel("swarm_sprites"),
		sprite.WithGrowthIncrement(cfg.Store.GrowthIncrement),
		sprite.WithMaxCapacity(cfg.Store.MaxCapacity),
		sprite.WithTransformer(a.scene),
		sprite.WithSink(sink),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite store: %w", err)
	}
	a.store = store

	opts := append([]engine.EngineBuilderOption{
		engine.WithTickRate(float64(cfg.TickRate)),
		engine.WithProfiling(cfg.Profiling),
		engine.WithScene(0, a.scene),
	}, engineOpts...)
	if cfg.FrameLimit > 0 {
		opts = append(opts, engine.WithRenderFrameLimit(float64(cfg.FrameLimit)))
	}
	a.engine = engine.NewEngine(opts...)

	swarmOpts := []swarm.SwarmBuilderOption{
		swarm.WithInitialAgents(cfg.Swarm.InitialAgents),
		swarm.WithInitialRadius(cfg.Swarm.InitialRadius),
		swarm.WithSeparation(cfg.Swarm.Separation),
		swarm.WithScalarToCenter(cfg.Swarm.ScalarToCenter),
		swarm.WithAlignment(cfg.Swarm.Alignment),
		swarm.WithMaxSpeed(cfg.Swarm.MaxSpeed),
		swarm.WithSeed(cfg.Swarm.Seed),
		swarm.WithAgentHooks(a.attachSprite, a.detachSprite),
	}
	if cfg.Swarm.Workers > 0 {
		swarmOpts = append(swarmOpts, swarm.WithWorkers(cfg.Swarm.Workers))
	}
	a.swarm = swarm.NewSwarm(a.scene, swarmOpts...)

	a.engine.OnTick(func(float32) { a.drainCommands() })
	a.engine.OnTick(a.swarm.Update)
	a.engine.OnTick(func(float32) { a.followCentroid() })
	a.engine.OnFrameEnd(a.store.Flush)

	a.engine.Profiler().AddSource("sprites", func() string {
		st := a.store.Stats()
		return fmt.Sprintf("capacity %d active %d free %d growths %d uploads full/vertex/uv %d/%d/%d",
			st.Capacity, st.Active, st.Free, st.Growths, st.FullUploads, st.VertexUploads, st.UVUploads)
	})
	a.engine.Profiler().AddSource("swarm", func() string {
		c := a.swarm.Centroid()
		return fmt.Sprintf("agents %d handles %d centroid (%.1f, %.1f)", a.swarm.Count(), a.engine.HandleCount(), c[0], c[1])
	})

	a.store.Flush()

	return a, nil
}

// request queues a membership change without blocking the caller. A full queue drops the request.
func (a *app) request(cmd agentCommand) {
	select {
	case a.commands <- cmd:
	default:
		log.Printf("[Swarm] input queue full, dropping command %d", cmd)
	}
}

func (a *app) drainCommands() {
	for {
		select {
		case cmd := <-a.commands:
			switch cmd {
			case addAgent:
				a.swarm.AddAgent()
			case removeAgent:
				agents := a.swarm.Agents()
				if len(agents) > 0 {
					a.swarm.RemoveAgent(agents[len(agents)-1].ID())
				}
			}
		default:
			return
		}
	}
}

// attachSprite gives a new agent a sprite handle.
func (a *app) attachSprite(obj game_object.GameObject) {
	h := sprite.NewHandle(a.store, sprite.OwnerID(obj.ID()),
		sprite.WithSize(a.cfg.Sprite.Size),
		sprite.WithUV(a.cfg.Sprite.UVOrigin, a.cfg.Sprite.UVExtent),
		sprite.WithHostTransform(a.scene.SpriteQuad(a.cfg.Sprite.Size)),
	)
	if err := a.engine.AddHandle(h); err != nil {
		log.Printf("[Swarm] attach sprite for agent %d: %v", obj.ID(), err)
		return
	}
	a.handles[obj.ID()] = h
}

func (a *app) detachSprite(obj game_object.GameObject) {
	h, ok := a.handles[obj.ID()]
	if !ok {
		return
	}
	delete(a.handles, obj.ID())
	if err := a.engine.RemoveHandle(h); err != nil {
		log.Printf("[Swarm] detach sprite for agent %d: %v", obj.ID(), err)
	}
}

func (a *app) followCentroid() {
	ctrl := a.cam.Controller()
	if ctrl == nil || !ctrl.Following() {
		return
	}
	c := a.swarm.Centroid()
	ctrl.SetTarget(c[0], c[1], 0)
}

// togglePause flips the engine pause state. Safe from any goroutine.
func (a *app) togglePause() {
	paused := !a.engine.Paused()
	a.engine.SetPaused(paused)
	log.Printf("[Swarm] paused: %v", paused)
}

// zoom scales the view. Positive steps zoom in.
func (a *app) zoom(steps float32) {
	if ctrl := a.cam.Controller(); ctrl != nil {
		ctrl.Zoom(steps)
		a.cam.Update()
	}
}

// pan drags the view by a screen-space pixel delta and stops following the swarm.
func (a *app) pan(dx, dy float32, viewHeight int) {
	ctrl := a.cam.Controller()
	if ctrl == nil || viewHeight <= 0 {
		return
	}
	worldPerPixel := 2 * a.cam.HalfHeight() / ctrl.ZoomLevel() / float32(viewHeight)
	a.panBy(-dx*worldPerPixel, dy*worldPerPixel)
}

// panBy moves the view by a world-space delta and stops following the swarm.
func (a *app) panBy(dx, dy float32) {
	ctrl := a.cam.Controller()
	if ctrl == nil {
		return
	}
	ctrl.SetFollowing(false)
	ctrl.PanRight(dx)
	ctrl.PanUp(dy)
	a.cam.Update()
}

// follow re-enables centroid following after a pan.
func (a *app) follow() {
	if ctrl := a.cam.Controller(); ctrl != nil {
		ctrl.SetFollowing(true)
	}
}

// status is the one-line summary shown by the terminal backend and window title.
func (a *app) status() string {
	st := a.store.Stats()
	state := "running"
	if a.engine.Paused() {
		state = "paused"
	}
	return fmt.Sprintf(" %s | agents %d | sprites %d/%d | fps %.0f ", state, a.swarm.Count(), st.Active, st.Capacity, a.engine.Profiler().FPS())
}

// shutdown stops the swarm workers and releases every sprite.
func (a *app) shutdown() {
	a.swarm.Stop()
	for id, h := range a.handles {
		_ = a.engine.RemoveHandle(h)
		delete(a.handles, id)
	}
}
