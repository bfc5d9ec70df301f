package entity

import (
	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
)

// Mob is a zombie that steers toward its target.
type Mob struct {
	base
	body

	rot       float64
	health    int
	maxHealth int
	accel     float64
	target    ID

	cfg config.MobConfig
}

func newMob(id ID, pos core.Vec2, target ID, accel float64, cfg config.MobConfig) *Mob {
	return &Mob{
		base:      base{id: id, pos: pos},
		body:      body{hitW: cfg.HitWidth, hitH: cfg.HitHeight},
		health:    cfg.Health,
		maxHealth: cfg.Health,
		accel:     accel,
		target:    target,
		cfg:       cfg,
	}
}

func (m *Mob) Kind() Kind { return KindMob }

// Rotation returns the facing angle in radians.
func (m *Mob) Rotation() float64 { return m.rot }

// SetRotation overwrites the facing angle.
func (m *Mob) SetRotation(rad float64) { m.rot = rad }

// Target returns the handle of the entity the mob chases.
func (m *Mob) Target() ID { return m.target }

// Health returns the current health; it may be negative after a volley.
func (m *Mob) Health() int { return m.health }

// HealthPct returns health as a fraction of the starting health.
func (m *Mob) HealthPct() float64 {
	if m.maxHealth <= 0 {
		return 0
	}
	return float64(m.health) / float64(m.maxHealth)
}

// Damage subtracts d. Mob health is not clamped so cumulative damage is
// observable; death is health <= 0.
func (m *Mob) Damage(d int) {
	m.health -= max(d, 0)
}

// Dead reports whether the mob has no health left.
func (m *Mob) Dead() bool { return m.health <= 0 }

// HitRect returns the collision rectangle centered on the position.
func (m *Mob) HitRect() core.Rect {
	return core.RectFromCenter(m.pos, m.hitW, m.hitH)
}

// DrawRect returns the sprite rectangle.
func (m *Mob) DrawRect() core.Rect {
	s := float64(m.cfg.SpriteSize)
	return core.RectFromCenter(m.pos, s, s)
}

func (m *Mob) Layer() Layer { return LayerCharacter }

func (m *Mob) Sprite() Sprite {
	return Sprite{Name: SpriteZombie, Rotation: m.rot}
}

// Update turns toward the target and thrusts along the new facing.
func (m *Mob) Update(env *Env, dt float64) {
	target, ok := env.World.Entity(m.target)
	if !ok {
		m.integrate(core.Vec2{}, m.cfg.Friction, dt)
		return
	}

	if env.Rand.Float64() < m.cfg.MoanChance*dt {
		env.play(CueZombieMoan)
	}

	to := target.Position().Sub(m.pos)
	if !to.IsZero() {
		m.rot = normalizeAngle(to.Angle())
	}
	m.integrate(to.Normalize().Scale(m.accel), m.cfg.Friction, dt)
}
