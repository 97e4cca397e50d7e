package audial

import (
	"math"
	"sync"
)

// Vec3 is a position in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Emitter places playing instances in the world. Attach instances with
// PlayCommand.WithEmitter; on every Update the engine rewrites their
// volume from the distance to the receiver and their panning from the
// direction.
type Emitter struct {
	mu        sync.Mutex
	pos       Vec3
	radius    float64 // 0 falls back to the engine default
	instances []*Instance
}

// SetPosition moves the emitter.
func (em *Emitter) SetPosition(pos Vec3) {
	em.mu.Lock()
	em.pos = pos
	em.mu.Unlock()
}

// Position returns the emitter's current position.
func (em *Emitter) Position() Vec3 {
	em.mu.Lock()
	defer em.mu.Unlock()
	return em.pos
}

// SetRadius overrides the engine-wide audibility radius for this emitter
// alone. Zero restores the engine default.
func (em *Emitter) SetRadius(radius float64) {
	em.mu.Lock()
	em.radius = radius
	em.mu.Unlock()
}

func (em *Emitter) attach(inst *Instance) {
	em.mu.Lock()
	em.instances = append(em.instances, inst)
	em.mu.Unlock()
}

// dropStopped forgets instances that have finished, so emitters do not
// accumulate dead handles over a long session.
func (em *Emitter) dropStopped() {
	em.mu.Lock()
	defer em.mu.Unlock()
	kept := em.instances[:0]
	for _, inst := range em.instances {
		if inst.State().Phase != Stopped {
			kept = append(kept, inst)
		}
	}
	for i := len(kept); i < len(em.instances); i++ {
		em.instances[i] = nil
	}
	em.instances = kept
}

// update pushes distance volume and direction panning to every attached
// instance. Volume falls off quadratically and reaches silence at the
// audibility radius; panning follows the cosine of the angle between the
// receiver's right-ear axis and the direction to the emitter.
func (em *Emitter) update(rpos, right Vec3, defaultRadius float64) {
	em.mu.Lock()
	pos := em.pos
	radius := em.radius
	insts := append([]*Instance(nil), em.instances...)
	em.mu.Unlock()

	if radius <= 0 {
		radius = defaultRadius
	}
	r := pos.Sub(rpos)
	dist := r.Len()
	vol := 1 - dist/radius
	if vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}
	vol *= vol
	pan := 0.5
	if dist > 0 && right.Len() > 0 {
		pan = (right.Dot(r)/(right.Len()*dist) + 1) / 2
	}
	for _, inst := range insts {
		_ = inst.SetVolume(vol, DefaultTween())
		_ = inst.SetPanning(pan, DefaultTween())
	}
}

// Receiver hears emitters. Only the first receiver added to an engine
// drives spatial playback; extra ones are ignored until it is removed.
type Receiver struct {
	mu    sync.Mutex
	pos   Vec3
	right Vec3
}

// SetPosition moves the receiver.
func (r *Receiver) SetPosition(pos Vec3) {
	r.mu.Lock()
	r.pos = pos
	r.mu.Unlock()
}

// Position returns the receiver's current position.
func (r *Receiver) Position() Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// SetOrientation sets the receiver's right-ear axis, which decides how
// emitters pan. It does not need to be normalized.
func (r *Receiver) SetOrientation(right Vec3) {
	r.mu.Lock()
	r.right = right
	r.mu.Unlock()
}

func (r *Receiver) placement() (pos, right Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, r.right
}

// AddEmitter registers a sound emitter at the given position.
func (e *Engine) AddEmitter(pos Vec3) *Emitter {
	em := &Emitter{pos: pos}
	e.mu.Lock()
	e.emitters = append(e.emitters, em)
	e.mu.Unlock()
	return em
}

// RemoveEmitter forgets the emitter. Instances attached to it keep
// whatever volume and panning the last Update gave them.
func (e *Engine) RemoveEmitter(em *Emitter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, other := range e.emitters {
		if other == em {
			e.emitters = append(e.emitters[:i], e.emitters[i+1:]...)
			return
		}
	}
}

// AddReceiver registers a listener at the given position with the right
// ear toward positive X.
func (e *Engine) AddReceiver(pos Vec3) *Receiver {
	r := &Receiver{pos: pos, right: Vec3{X: 1}}
	e.mu.Lock()
	e.receivers = append(e.receivers, r)
	e.mu.Unlock()
	return r
}

// RemoveReceiver forgets the receiver. If it was the active one, the
// next oldest receiver takes over.
func (e *Engine) RemoveReceiver(r *Receiver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, other := range e.receivers {
		if other == r {
			e.receivers = append(e.receivers[:i], e.receivers[i+1:]...)
			return
		}
	}
}

func (e *Engine) updateSpatial() {
	e.mu.RLock()
	var rec *Receiver
	if len(e.receivers) > 0 {
		rec = e.receivers[0]
	}
	emitters := make([]*Emitter, len(e.emitters))
	copy(emitters, e.emitters)
	radius := e.spatialRadius
	e.mu.RUnlock()

	if rec == nil {
		return
	}
	pos, right := rec.placement()
	for _, em := range emitters {
		em.update(pos, right, radius)
	}
}

func (e *Engine) cleanupEmitters() {
	e.mu.RLock()
	emitters := make([]*Emitter, len(e.emitters))
	copy(emitters, e.emitters)
	e.mu.RUnlock()

	for _, em := range emitters {
		em.dropStopped()
	}
}
