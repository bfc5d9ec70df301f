// Package entity contains the simulation objects of a play session and the
// arena that owns them. Entities never hold pointers to each other; they refer
// to one another by ID and look the target up through the World.
package entity

import (
	"math/rand"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

// ID is a stable arena handle. Zero is never assigned.
type ID uint64

// Kind tags the concrete variant stored behind an ID.
type Kind int

const (
	KindPlayer Kind = iota
	KindMob
	KindBullet
	KindObstacle
	KindItem
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindMob:
		return "mob"
	case KindBullet:
		return "bullet"
	case KindObstacle:
		return "obstacle"
	case KindItem:
		return "item"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Layer orders drawing; lower layers are drawn first.
type Layer int

const (
	LayerGround    Layer = 1 // items, walls
	LayerCharacter Layer = 2 // player, mobs
	LayerBullet    Layer = 3
	LayerEffect    Layer = 4
)

// Sprite names a visual by its logical asset name. The renderer resolves it.
type Sprite struct {
	Name     string
	Rotation float64 // radians, see core.Heading
	Flash    bool    // draw with the damage tint
}

// Logical sprite names.
const (
	SpritePlayer      = "player"
	SpriteZombie      = "zombie"
	SpriteBullet      = "bullet"
	SpriteHealth      = "health"
	SpriteShotgun     = "shotgun"
	SpriteMuzzleFlash = "muzzle_flash"
	SpriteSplat       = "splat"
)

// Positioned has a world position (its center).
type Positioned interface {
	Position() core.Vec2
}

// Collidable has a hit rectangle, centered on its position and independent
// of its sprite bounds.
type Collidable interface {
	HitRect() core.Rect
}

// Updatable advances its own state by dt seconds.
type Updatable interface {
	Update(env *Env, dt float64)
}

// Drawable can be placed on screen.
type Drawable interface {
	DrawRect() core.Rect
	Layer() Layer
	Sprite() Sprite
}

// Entity is the common surface of everything stored in the World.
type Entity interface {
	ID() ID
	Kind() Kind
	Positioned
	Updatable
	Drawable
}

// Cues receives named sound cues. Implementations must not block.
type Cues interface {
	Play(cue string)
}

// Sound cue names.
const (
	CueLevelStart  = "level_start"
	CueHealthUp    = "health_up"
	CueGunPickup   = "gun_pickup"
	CuePlayerHit   = "player_hit"
	CueZombieMoan  = "zombie_moan"
	CueZombieHit   = "zombie_hit"
	CueZombieDeath = "zombie_death"
)

// ShotCue returns the cue played when weapon fires.
func ShotCue(weapon string) string {
	return weapon + "_shot"
}

// NopCues discards every cue.
type NopCues struct{}

// Play implements Cues.
func (NopCues) Play(string) {}

// Env is what entities may read or touch while updating.
type Env struct {
	World *World
	Input *core.InputState
	Rand  *rand.Rand
	Cues  Cues
	Now   float64 // session clock in seconds
}

// play emits a cue if a sink is attached.
func (e *Env) play(cue string) {
	if e.Cues != nil {
		e.Cues.Play(cue)
	}
}

// uniform returns a value in [lo, hi).
func (e *Env) uniform(lo, hi float64) float64 {
	return lo + e.Rand.Float64()*(hi-lo)
}

// base holds the fields every entity shares.
type base struct {
	id  ID
	pos core.Vec2
}

func (b *base) ID() ID { return b.id }

func (b *base) Position() core.Vec2 { return b.pos }

// SetPosition moves the entity without integrating velocity.
func (b *base) SetPosition(p core.Vec2) { b.pos = p }

// body is the shared integrator of the player and mobs.
type body struct {
	vel  core.Vec2
	move core.Vec2 // displacement computed this frame, applied by the resolver
	hitW float64
	hitH float64
}

// integrate applies friction and semi-implicit Euler, leaving the frame's
// displacement in move.
func (b *body) integrate(acc core.Vec2, friction, dt float64) {
	acc = acc.Add(b.vel.Scale(-friction))
	b.vel = b.vel.Add(acc.Scale(dt))
	b.move = b.vel.Scale(dt)
}

// Velocity returns the current velocity.
func (b *body) Velocity() core.Vec2 { return b.vel }

// SetVelocity overwrites the velocity.
func (b *body) SetVelocity(v core.Vec2) { b.vel = v }

// PendingMove returns the displacement the resolver still has to apply.
func (b *body) PendingMove() core.Vec2 { return b.move }

// ClearMove drops the pending displacement.
func (b *body) ClearMove() { b.move = core.Vec2{} }
