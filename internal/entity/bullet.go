package entity

import "github.com/vovakirdan/tui-zombies/internal/core"

// BulletSpec describes a bullet to spawn.
type BulletSpec struct {
	Pos      core.Vec2
	Vel      core.Vec2
	Weapon   string
	Damage   int
	Size     float64
	Spawned  float64
	Lifetime float64
}

// Bullet flies in a straight line until it expires or hits something.
type Bullet struct {
	base
	vel      core.Vec2
	weapon   string
	damage   int
	size     float64
	spawned  float64
	lifetime float64
	dead     bool
}

func newBullet(id ID, s BulletSpec) *Bullet {
	return &Bullet{
		base:     base{id: id, pos: s.Pos},
		vel:      s.Vel,
		weapon:   s.Weapon,
		damage:   s.Damage,
		size:     s.Size,
		spawned:  s.Spawned,
		lifetime: s.Lifetime,
	}
}

func (b *Bullet) Kind() Kind { return KindBullet }

// Velocity returns the bullet velocity.
func (b *Bullet) Velocity() core.Vec2 { return b.vel }

// Weapon returns the name of the weapon that fired it.
func (b *Bullet) Weapon() string { return b.weapon }

// DamageAmount returns the damage dealt on hit.
func (b *Bullet) DamageAmount() int { return b.damage }

// Spawned returns the session time the bullet was fired.
func (b *Bullet) Spawned() float64 { return b.spawned }

// Dead reports whether the bullet is due for removal.
func (b *Bullet) Dead() bool { return b.dead }

// Kill marks the bullet for removal.
func (b *Bullet) Kill() { b.dead = true }

// HitRect returns the collision rectangle.
func (b *Bullet) HitRect() core.Rect {
	return core.RectFromCenter(b.pos, b.size, b.size)
}

// DrawRect returns the sprite rectangle.
func (b *Bullet) DrawRect() core.Rect { return b.HitRect() }

func (b *Bullet) Layer() Layer { return LayerBullet }

func (b *Bullet) Sprite() Sprite {
	return Sprite{Name: SpriteBullet, Rotation: b.vel.Angle()}
}

// Update moves the bullet and kills it on expiry, leaving the map or
// touching a wall.
func (b *Bullet) Update(env *Env, dt float64) {
	if b.dead {
		return
	}
	b.pos = b.pos.Add(b.vel.Scale(dt))

	switch {
	case env.Now-b.spawned > b.lifetime:
		b.dead = true
	case !env.World.Bounds().Contains(b.pos):
		b.dead = true
	case env.World.HitsWall(b.HitRect()):
		b.dead = true
	}
}
