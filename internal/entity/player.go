package entity

import (
	"math"

	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
)

// PlayerState is the visual/health state of the player.
type PlayerState int

const (
	PlayerAlive PlayerState = iota
	PlayerHitFlash
	PlayerDead
)

func (s PlayerState) String() string {
	switch s {
	case PlayerAlive:
		return "alive"
	case PlayerHitFlash:
		return "hit"
	case PlayerDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Player is the single controllable character.
type Player struct {
	base
	body

	rot       float64
	health    int
	maxHealth int
	weapon    string

	lastShot float64 // session time of the last shot, -inf before the first
	hitUntil float64
	now      float64

	cfg     config.PlayerConfig
	weapons map[string]config.WeaponConfig
	flash   float64 // muzzle flash lifetime
}

func newPlayer(id ID, pos core.Vec2, cfg config.Config) *Player {
	return &Player{
		base:      base{id: id, pos: pos},
		body:      body{hitW: cfg.Player.HitWidth, hitH: cfg.Player.HitHeight},
		health:    cfg.Player.Health,
		maxHealth: cfg.Player.Health,
		weapon:    cfg.Player.StartWeapon,
		lastShot:  math.Inf(-1),
		cfg:       cfg.Player,
		weapons:   cfg.Weapons,
		flash:     cfg.Display.MuzzleFlash,
	}
}

func (p *Player) Kind() Kind { return KindPlayer }

// Rotation returns the facing angle in radians.
func (p *Player) Rotation() float64 { return p.rot }

// SetRotation overwrites the facing angle.
func (p *Player) SetRotation(rad float64) { p.rot = rad }

// Health returns the current health.
func (p *Player) Health() int { return p.health }

// MaxHealth returns the health cap.
func (p *Player) MaxHealth() int { return p.maxHealth }

// HealthPct returns health as a fraction of the cap.
func (p *Player) HealthPct() float64 {
	if p.maxHealth <= 0 {
		return 0
	}
	return float64(p.health) / float64(p.maxHealth)
}

// Weapon returns the active weapon name.
func (p *Player) Weapon() string { return p.weapon }

// SetWeapon switches the active weapon. Unknown weapons are ignored.
func (p *Player) SetWeapon(name string) bool {
	if _, ok := p.weapons[name]; !ok {
		return false
	}
	p.weapon = name
	return true
}

// Damage subtracts d (negative values count as zero) and clamps to [0, max].
func (p *Player) Damage(d int) {
	p.health = core.Clamp(p.health-max(d, 0), 0, p.maxHealth)
}

// AddHealth adds n and clamps to [0, max].
func (p *Player) AddHealth(n int) {
	p.health = core.Clamp(p.health+max(n, 0), 0, p.maxHealth)
}

// Hit starts the damage flash. It does not block movement.
func (p *Player) Hit() {
	p.hitUntil = p.now + p.cfg.HitFlash
}

// State derives the player state from health and the flash timer.
func (p *Player) State() PlayerState {
	switch {
	case p.health <= 0:
		return PlayerDead
	case p.now < p.hitUntil:
		return PlayerHitFlash
	default:
		return PlayerAlive
	}
}

// HitRect returns the collision rectangle centered on the position.
func (p *Player) HitRect() core.Rect {
	return core.RectFromCenter(p.pos, p.hitW, p.hitH)
}

// DrawRect returns the sprite rectangle.
func (p *Player) DrawRect() core.Rect {
	s := float64(p.cfg.SpriteSize)
	return core.RectFromCenter(p.pos, s, s)
}

func (p *Player) Layer() Layer { return LayerCharacter }

func (p *Player) Sprite() Sprite {
	return Sprite{Name: SpritePlayer, Rotation: p.rot, Flash: p.State() == PlayerHitFlash}
}

// Update reads held actions, turns, thrusts and fires.
func (p *Player) Update(env *Env, dt float64) {
	p.now = env.Now
	if p.State() == PlayerDead {
		p.ClearMove()
		return
	}

	in := env.Input
	if in == nil {
		in = &core.InputState{}
	}
	turn := 0.0
	if in.Held(core.ActionTurnLeft) {
		turn--
	}
	if in.Held(core.ActionTurnRight) {
		turn++
	}
	p.rot = normalizeAngle(p.rot + turn*p.cfg.RotationSpeed*math.Pi/180*dt)

	thrust := 0.0
	if in.Held(core.ActionForward) {
		thrust += p.cfg.Acceleration
	}
	if in.Held(core.ActionBackward) {
		thrust -= p.cfg.Acceleration * p.cfg.BackwardFactor
	}

	if in.Held(core.ActionFire) {
		p.fire(env)
	}

	p.integrate(core.V(thrust, 0).Rotate(p.rot), p.cfg.Friction, dt)
}

// CanFire reports whether the weapon cooldown has elapsed at time now.
func (p *Player) CanFire(now float64) bool {
	w, ok := p.weapons[p.weapon]
	if !ok {
		return false
	}
	return now-p.lastShot >= w.Rate
}

// fire spawns the weapon's pellets, applies recoil and the muzzle flash.
func (p *Player) fire(env *Env) {
	if !p.CanFire(env.Now) {
		return
	}
	w := p.weapons[p.weapon]
	p.lastShot = env.Now

	dir := core.Heading(p.rot)
	muzzle := p.pos.Add(p.cfg.BarrelOffset.Vec().Rotate(p.rot))

	for i := 0; i < w.BulletCount; i++ {
		spread := env.uniform(-w.Spread, w.Spread) * math.Pi / 180
		speed := w.BulletSpeed * env.uniform(0.9, 1.1)
		env.World.AddBullet(BulletSpec{
			Pos:      muzzle,
			Vel:      dir.Rotate(spread).Scale(speed),
			Weapon:   p.weapon,
			Damage:   w.Damage,
			Size:     w.BulletSize,
			Spawned:  env.Now,
			Lifetime: w.BulletLifetime,
		})
	}

	p.vel = dir.Scale(-w.Kickback)
	env.play(ShotCue(p.weapon))

	size := env.uniform(8, 12)
	env.World.AddEffect(SpriteMuzzleFlash, muzzle, size, p.rot, env.Now+p.flash)
}

// normalizeAngle wraps rad into [0, 2π).
func normalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}
