package entity

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
)

// Obstacle is a static wall rectangle from the map.
type Obstacle struct {
	base
	rect  core.Rect
	shape *resolv.Object // entry in the world's wall space
}

func newObstacle(id ID, r core.Rect) *Obstacle {
	return &Obstacle{base: base{id: id, pos: r.Center()}, rect: r}
}

func (o *Obstacle) Kind() Kind { return KindObstacle }

// HitRect returns the wall rectangle.
func (o *Obstacle) HitRect() core.Rect { return o.rect }

// DrawRect returns the wall rectangle; walls are painted into the map.
func (o *Obstacle) DrawRect() core.Rect { return o.rect }

func (o *Obstacle) Layer() Layer { return LayerGround }

// Sprite is empty; walls are already part of the map image.
func (o *Obstacle) Sprite() Sprite { return Sprite{} }

// Update does nothing; obstacles never change.
func (o *Obstacle) Update(*Env, float64) {}

// ItemType distinguishes pickups.
type ItemType int

const (
	ItemHealth ItemType = iota
	ItemWeapon
)

// Item is a pickup. The bob animation only moves the sprite.
type Item struct {
	base
	itemType ItemType
	weapon   string
	size     float64

	bobRange float64
	bobSpeed float64
	step     float64 // tween progress in [0, 1]
	dir      float64
	offset   float64
}

func newItem(id ID, pos core.Vec2, t ItemType, weapon string, cfg config.ItemConfig) *Item {
	return &Item{
		base:     base{id: id, pos: pos},
		itemType: t,
		weapon:   weapon,
		size:     cfg.Size,
		bobRange: cfg.BobRange,
		bobSpeed: cfg.BobSpeed,
		dir:      1,
	}
}

func (i *Item) Kind() Kind { return KindItem }

// Type returns the pickup type.
func (i *Item) Type() ItemType { return i.itemType }

// Weapon returns the weapon granted by a weapon pickup.
func (i *Item) Weapon() string { return i.weapon }

// HitRect returns the pickup rectangle at the resting position.
func (i *Item) HitRect() core.Rect {
	return core.RectFromCenter(i.pos, i.size, i.size)
}

// DrawRect returns the sprite rectangle including the bob offset.
func (i *Item) DrawRect() core.Rect {
	return i.HitRect().Move(core.V(0, i.offset*i.dir))
}

func (i *Item) Layer() Layer { return LayerGround }

func (i *Item) Sprite() Sprite {
	if i.itemType == ItemWeapon {
		return Sprite{Name: i.weapon}
	}
	return Sprite{Name: SpriteHealth}
}

// Update advances the bob tween, reversing at each end.
func (i *Item) Update(_ *Env, dt float64) {
	if i.bobRange == 0 {
		return
	}
	i.offset = i.bobRange * (easeInOutSine(i.step) - 0.5)
	i.step += i.bobSpeed * dt * 2
	if i.step >= 1 {
		i.step = 0
		i.dir = -i.dir
	}
}

func easeInOutSine(t float64) float64 {
	return -0.5 * (math.Cos(math.Pi*t) - 1)
}

// Effect is a short-lived visual such as a muzzle flash.
type Effect struct {
	base
	sprite  string
	size    float64
	rot     float64
	expires float64
	dead    bool
}

func newEffect(id ID, sprite string, pos core.Vec2, size, rot, expires float64) *Effect {
	return &Effect{base: base{id: id, pos: pos}, sprite: sprite, size: size, rot: rot, expires: expires}
}

func (e *Effect) Kind() Kind { return KindEffect }

// Dead reports whether the effect has expired.
func (e *Effect) Dead() bool { return e.dead }

// DrawRect returns the sprite rectangle.
func (e *Effect) DrawRect() core.Rect {
	return core.RectFromCenter(e.pos, e.size, e.size)
}

func (e *Effect) Layer() Layer { return LayerEffect }

func (e *Effect) Sprite() Sprite {
	return Sprite{Name: e.sprite, Rotation: e.rot}
}

// Update expires the effect.
func (e *Effect) Update(env *Env, _ float64) {
	if env.Now >= e.expires {
		e.dead = true
	}
}
