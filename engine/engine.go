package engine

import (
	"fmt"
	"log"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-swarm/engine/profiler"
	"github.com/Carmen-Shannon/oxy-swarm/engine/scene"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
	"github.com/Carmen-Shannon/oxy-swarm/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	mu     *sync.Mutex
	tickMu *sync.Mutex // serializes Tick so one frame's passes never interleave with the next

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	paused  atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate    time.Duration
	tickCallbacks     []func(deltaTime float32)
	frameEndCallbacks []func()
	resizeCallbacks   []func(width, height int)
	renderCallback    func(deltaTime float32)

	scenes  map[int]scene.Scene
	handles []sprite.Handle

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the host scheduler. Each frame it runs, in order: the tick callbacks, camera
// updates of active scenes, OnTick of every active sprite handle, and the frame-end callbacks
// (where sprite stores flush). Rendering runs separately at its own rate.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Profiler returns the engine's profiler so components can register stat sources.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// OnTick registers a function called at the start of each tick, before any handle ticks.
	// Callbacks run in registration order.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	OnTick(callback func(deltaTime float32))

	// OnFrameEnd registers a function called once per tick after every handle has ticked.
	// Callbacks run in registration order.
	//
	// Parameters:
	//   - callback: function to call
	OnFrameEnd(callback func())

	// OnResize registers a function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving the new size in pixels
	OnResize(callback func(width, height int))

	// SetRenderCallback registers the function called each render frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Cameras of active scenes are stepped every tick in ascending key order.
	//
	// Parameters:
	//   - key: the z-index
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// AddHandle activates an uninitialized handle and schedules it for ticking.
	//
	// Parameters:
	//   - h: the sprite handle
	//
	// Returns:
	//   - error: the activation error, or sprite.ErrInvalidHandle for a released handle
	AddHandle(h sprite.Handle) error

	// RemoveHandle stops ticking a handle and deactivates it if active.
	//
	// Parameters:
	//   - h: the sprite handle
	//
	// Returns:
	//   - error: the deactivation error, if any
	RemoveHandle(h sprite.Handle) error

	// HandleCount returns the number of scheduled handles.
	HandleCount() int

	// SetPaused suspends or resumes ticking. Rendering continues while paused.
	//
	// Parameters:
	//   - paused: true to pause
	SetPaused(paused bool)

	// Paused reports whether ticking is suspended.
	Paused() bool

	// Tick runs one simulation frame synchronously on the calling goroutine.
	// Use it from hosts that own their own loop.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Tick(deltaTime float32)

	// Step runs Tick followed by the render callback and profiler.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Step(deltaTime float32)

	// Run starts the tick and render goroutines. With a window it runs the message loop on
	// the calling goroutine until the window closes; headless it blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done returns a channel closed when the engine quits.
	Done() <-chan struct{}
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickMu:          &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		wg:              sync.WaitGroup{},
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if height <= 0 {
				return
			}
			e.mu.Lock()
			scenes := e.sortedScenes()
			callbacks := slices.Clone(e.resizeCallbacks)
			e.mu.Unlock()
			for _, s := range scenes {
				if c := s.Camera(); c != nil {
					c.SetAspect(float32(width) / float32(height))
				}
			}
			for _, cb := range callbacks {
				cb(width, height)
			}
		})
		e.window.SetCloseCallback(e.signalQuit)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.Tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.render(dt)

			e.mu.Lock()
			limit := e.renderFrameLimit
			e.mu.Unlock()
			if limit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := limit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			} else if e.renderCallbackUnset() {
				// nothing to draw; avoid spinning a core
				time.Sleep(time.Millisecond)
			}
		}
	}
}

func (e *engine) Tick(deltaTime float32) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	if e.paused.Load() {
		return
	}

	e.mu.Lock()
	tickCallbacks := slices.Clone(e.tickCallbacks)
	frameEndCallbacks := slices.Clone(e.frameEndCallbacks)
	scenes := e.sortedScenes()
	handles := slices.Clone(e.handles)
	e.mu.Unlock()

	for _, cb := range tickCallbacks {
		cb(deltaTime)
	}

	for _, s := range scenes {
		if !s.Active() {
			continue
		}
		if c := s.Camera(); c != nil {
			if ctrl := c.Controller(); ctrl != nil {
				ctrl.Step(deltaTime)
			}
			c.Update()
		}
	}

	for _, h := range handles {
		if h.State() != sprite.HandleActive {
			continue
		}
		if err := h.OnTick(); err != nil {
			log.Printf("[Engine] tick sprite for owner %d: %v", h.Owner(), err)
		}
	}

	for _, cb := range frameEndCallbacks {
		cb()
	}
}

func (e *engine) Step(deltaTime float32) {
	e.Tick(deltaTime)
	e.render(deltaTime)
}

// render invokes the render callback and the profiler.
func (e *engine) render(deltaTime float32) {
	e.mu.Lock()
	cb := e.renderCallback
	e.mu.Unlock()

	if cb != nil {
		cb(deltaTime)
	}
	if e.profilingEnabled.Load() && e.profiler != nil {
		e.profiler.Tick()
	}
}

func (e *engine) renderCallbackUnset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderCallback == nil
}

func (e *engine) AddHandle(h sprite.Handle) error {
	switch h.State() {
	case sprite.HandleUninitialized:
		if err := h.OnActivate(); err != nil {
			return err
		}
	case sprite.HandleReleased:
		return fmt.Errorf("add handle for owner %d: %w", h.Owner(), sprite.ErrInvalidHandle)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.Contains(e.handles, h) {
		e.handles = append(e.handles, h)
	}
	return nil
}

func (e *engine) RemoveHandle(h sprite.Handle) error {
	e.mu.Lock()
	if i := slices.Index(e.handles, h); i >= 0 {
		e.handles = slices.Delete(e.handles, i, i+1)
	}
	e.mu.Unlock()

	if h.State() == sprite.HandleActive {
		return h.OnDeactivate()
	}
	return nil
}

func (e *engine) HandleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

func (e *engine) SetPaused(paused bool) {
	e.paused.Store(paused)
}

func (e *engine) Paused() bool {
	return e.paused.Load()
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
		return
	}
	e.mu.Lock()
	e.engineTickRate = newRate
	e.mu.Unlock()
}

func (e *engine) OnTick(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallbacks = append(e.tickCallbacks, callback)
}

func (e *engine) OnFrameEnd(callback func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameEndCallbacks = append(e.frameEndCallbacks, callback)
}

func (e *engine) OnResize(callback func(width, height int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeCallbacks = append(e.resizeCallbacks, callback)
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

// sortedScenes returns the registered scenes in ascending key order. Caller must hold e.mu.
func (e *engine) sortedScenes() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.scenes[k])
	}
	return out
}
