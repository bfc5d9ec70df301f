package entity

import (
	"math"
	"slices"
	"sort"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
)

// idSet keeps IDs in insertion order. IDs are allocated monotonically, so
// insertion order is also ascending ID order.
type idSet struct {
	ids   []ID
	index map[ID]struct{}
}

func newIDSet() idSet {
	return idSet{index: make(map[ID]struct{})}
}

func (s *idSet) add(id ID) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *idSet) remove(id ID) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	return true
}

func (s *idSet) has(id ID) bool {
	_, ok := s.index[id]
	return ok
}

const (
	wallTag  = "wall"
	wallCell = 32 // broadphase cell size in world pixels
)

// World is the arena that owns every entity of a session.
type World struct {
	nextID   ID
	entities map[ID]Entity
	player   ID

	walls   idSet
	mobs    idSet
	bullets idSet
	items   idSet
	effects idSet

	// wallSpace buckets obstacles into cells; query is a scratch object
	// moved around to look up walls near a rectangle.
	wallSpace *resolv.Space
	query     *resolv.Object

	bounds core.Rect
	cfg    config.Config
}

// NewWorld creates an empty world covering bounds.
func NewWorld(bounds core.Rect, cfg config.Config) *World {
	space := resolv.NewSpace(
		int(math.Ceil(max(bounds.Right(), 0)))+wallCell,
		int(math.Ceil(max(bounds.Bottom(), 0)))+wallCell,
		wallCell, wallCell,
	)
	query := resolv.NewObject(0, 0, 1, 1)
	space.Add(query)

	return &World{
		entities:  make(map[ID]Entity),
		walls:     newIDSet(),
		mobs:      newIDSet(),
		bullets:   newIDSet(),
		items:     newIDSet(),
		effects:   newIDSet(),
		wallSpace: space,
		query:     query,
		bounds:    bounds,
		cfg:       cfg,
	}
}

func (w *World) alloc() ID {
	w.nextID++
	return w.nextID
}

// Bounds returns the map rectangle.
func (w *World) Bounds() core.Rect { return w.bounds }

// Config returns the tuning the world was built with.
func (w *World) Config() config.Config { return w.cfg }

// SetPlayer creates the player, replacing any previous one.
func (w *World) SetPlayer(pos core.Vec2) *Player {
	if w.player != 0 {
		delete(w.entities, w.player)
	}
	p := newPlayer(w.alloc(), pos, w.cfg)
	w.entities[p.id] = p
	w.player = p.id
	return p
}

// AddMob spawns a mob chasing the current player with the given thrust.
func (w *World) AddMob(pos core.Vec2, accel float64) *Mob {
	m := newMob(w.alloc(), pos, w.player, accel, w.cfg.Mobs)
	w.entities[m.id] = m
	w.mobs.add(m.id)
	return m
}

// AddBullet spawns a bullet.
func (w *World) AddBullet(s BulletSpec) *Bullet {
	b := newBullet(w.alloc(), s)
	w.entities[b.id] = b
	w.bullets.add(b.id)
	return b
}

// AddObstacle adds a static wall.
func (w *World) AddObstacle(r core.Rect) *Obstacle {
	o := newObstacle(w.alloc(), r)
	o.shape = resolv.NewObject(r.X, r.Y, r.W, r.H, wallTag)
	o.shape.Data = o
	w.wallSpace.Add(o.shape)
	w.entities[o.id] = o
	w.walls.add(o.id)
	return o
}

// AddItem adds a pickup. weapon is only used for ItemWeapon.
func (w *World) AddItem(pos core.Vec2, t ItemType, weapon string) *Item {
	it := newItem(w.alloc(), pos, t, weapon, w.cfg.Items)
	w.entities[it.id] = it
	w.items.add(it.id)
	return it
}

// AddEffect adds a transient visual that disappears at session time expires.
func (w *World) AddEffect(sprite string, pos core.Vec2, size, rot, expires float64) *Effect {
	e := newEffect(w.alloc(), sprite, pos, size, rot, expires)
	w.entities[e.id] = e
	w.effects.add(e.id)
	return e
}

// Player returns the player, or nil before SetPlayer.
func (w *World) Player() *Player {
	if w.player == 0 {
		return nil
	}
	p, _ := w.entities[w.player].(*Player)
	return p
}

// Entity looks up any entity by handle.
func (w *World) Entity(id ID) (Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Contains reports whether id is still alive.
func (w *World) Contains(id ID) bool {
	_, ok := w.entities[id]
	return ok
}

// Remove deletes an entity from the arena and its set. It reports whether
// the entity was present, so repeated removals are harmless.
func (w *World) Remove(id ID) bool {
	e, ok := w.entities[id]
	if !ok {
		return false
	}
	delete(w.entities, id)
	switch e.Kind() {
	case KindPlayer:
		w.player = 0
	case KindMob:
		w.mobs.remove(id)
	case KindBullet:
		w.bullets.remove(id)
	case KindObstacle:
		w.walls.remove(id)
		w.wallSpace.Remove(e.(*Obstacle).shape)
	case KindItem:
		w.items.remove(id)
	case KindEffect:
		w.effects.remove(id)
	}
	return true
}

// HasItem reports whether id is a live item.
func (w *World) HasItem(id ID) bool { return w.items.has(id) }

// HasMob reports whether id is a live mob.
func (w *World) HasMob(id ID) bool { return w.mobs.has(id) }

// MobCount returns the number of live mobs.
func (w *World) MobCount() int { return len(w.mobs.ids) }

// Mobs returns live mobs in ID order.
func (w *World) Mobs() []*Mob { return collect[*Mob](w, w.mobs.ids) }

// Bullets returns live bullets in ID order.
func (w *World) Bullets() []*Bullet { return collect[*Bullet](w, w.bullets.ids) }

// Walls returns obstacles in ID order.
func (w *World) Walls() []*Obstacle { return collect[*Obstacle](w, w.walls.ids) }

// Items returns live items in ID order.
func (w *World) Items() []*Item { return collect[*Item](w, w.items.ids) }

// Effects returns live effects in ID order.
func (w *World) Effects() []*Effect { return collect[*Effect](w, w.effects.ids) }

func collect[T Entity](w *World, ids []ID) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities[id].(T); ok {
			out = append(out, e)
		}
	}
	return out
}

// WallsTouching returns the obstacles overlapping r in ID order. The wall
// space narrows the candidates to nearby cells; the overlap test itself is
// exact.
func (w *World) WallsTouching(r core.Rect) []*Obstacle {
	// Padded by a pixel so rectangles thinner than a pixel still map to a cell.
	w.query.X, w.query.Y = r.X-1, r.Y-1
	w.query.W, w.query.H = r.W+2, r.H+2
	w.query.Update()

	c := w.query.Check(0, 0, wallTag)
	if c == nil {
		return nil
	}
	var out []*Obstacle
	for _, obj := range c.Objects {
		o, ok := obj.Data.(*Obstacle)
		if ok && w.walls.has(o.id) && o.rect.Intersects(r) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// HitsWall reports whether r overlaps any obstacle.
func (w *World) HitsWall(r core.Rect) bool {
	return len(w.WallsTouching(r)) > 0
}

// Update advances every dynamic entity by dt: the player first, then mobs,
// bullets, items and effects, each in ID order. Expired bullets and effects
// are removed afterwards.
func (w *World) Update(env *Env, dt float64) {
	env.World = w
	if p := w.Player(); p != nil {
		p.Update(env, dt)
	}
	for _, m := range w.Mobs() {
		m.Update(env, dt)
	}
	for _, b := range w.Bullets() {
		b.Update(env, dt)
	}
	for _, it := range w.Items() {
		it.Update(env, dt)
	}
	for _, e := range w.Effects() {
		e.Update(env, dt)
	}
	w.Sweep()
}

// Sweep removes dead bullets and expired effects.
func (w *World) Sweep() {
	for _, b := range w.Bullets() {
		if b.Dead() {
			w.Remove(b.id)
		}
	}
	for _, e := range w.Effects() {
		if e.Dead() {
			w.Remove(e.id)
		}
	}
}

// Drawables returns every entity in draw order: by layer, then by ID.
func (w *World) Drawables() []Entity {
	out := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer() != out[j].Layer() {
			return out[i].Layer() < out[j].Layer()
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}
