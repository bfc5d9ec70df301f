package game

import (
	"math"

	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/entity"
)

// Outcome is how a session ended, if it has.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "none"
	}
}

// Resolution is what one resolver pass changed.
type Resolution struct {
	Outcome Outcome
	Kills   []core.Vec2 // where mobs died this frame
	Pickups int
	Hits    int // mob contacts with the player
}

// mover is a dynamic entity whose displacement is applied by the resolver.
type mover interface {
	HitRect() core.Rect
	Position() core.Vec2
	SetPosition(core.Vec2)
	Velocity() core.Vec2
	SetVelocity(core.Vec2)
	PendingMove() core.Vec2
	ClearMove()
}

// Resolve runs the per-frame interaction pass in fixed order: wall sliding,
// item pickups, mob contact, bullet hits, then the win check. A loss returns
// immediately and skips everything after the mob contact step.
func Resolve(w *entity.World, env *entity.Env) Resolution {
	var res Resolution
	p := w.Player()

	if p != nil {
		slide(w, p)
	}
	for _, m := range w.Mobs() {
		slide(w, m)
	}

	if p != nil {
		res.Pickups = pickups(w, p, env)
		res.Hits = mobContact(w, p, env)
		if p.Health() <= 0 {
			res.Outcome = OutcomeLoss
			return res
		}
	}

	res.Kills = bulletHits(w, env)

	if w.MobCount() == 0 {
		res.Outcome = OutcomeWin
	}
	return res
}

// slide applies the pending move one axis at a time, stopping at walls so
// the entity slides along them instead of sticking.
func slide(w *entity.World, e mover) {
	move := e.PendingMove()
	e.ClearMove()
	slideBy(w, e, move)
}

// slideBy moves e by move. An entity that starts inside a wall is first
// pushed out along the shallowest axis. Then each axis is moved in turn
// and snapped to the near edge of any wall it runs into.
func slideBy(w *entity.World, e mover, move core.Vec2) {
	for _, wall := range w.WallsTouching(e.HitRect()) {
		unstick(e, wall.HitRect())
	}

	if move.X != 0 {
		e.SetPosition(e.Position().Add(core.V(move.X, 0)))
		for _, wall := range w.WallsTouching(e.HitRect()) {
			wr, hr := wall.HitRect(), e.HitRect()
			if !hr.Intersects(wr) {
				continue
			}
			pos := e.Position()
			if move.X > 0 {
				pos.X = wr.Left() - hr.W/2
			} else {
				pos.X = wr.Right() + hr.W/2
			}
			e.SetPosition(pos)
			e.SetVelocity(core.V(0, e.Velocity().Y))
		}
	}

	if move.Y != 0 {
		e.SetPosition(e.Position().Add(core.V(0, move.Y)))
		for _, wall := range w.WallsTouching(e.HitRect()) {
			wr, hr := wall.HitRect(), e.HitRect()
			if !hr.Intersects(wr) {
				continue
			}
			pos := e.Position()
			if move.Y > 0 {
				pos.Y = wr.Top() - hr.H/2
			} else {
				pos.Y = wr.Bottom() + hr.H/2
			}
			e.SetPosition(pos)
			e.SetVelocity(core.V(e.Velocity().X, 0))
		}
	}
}

// unstick pushes e out of wr by the smallest displacement along one axis
// and stops it on that axis.
func unstick(e mover, wr core.Rect) {
	hr := e.HitRect()
	if !hr.Intersects(wr) {
		return
	}
	d := penetration(hr, wr)
	e.SetPosition(e.Position().Add(d))
	v := e.Velocity()
	if d.X != 0 {
		v.X = 0
	} else {
		v.Y = 0
	}
	e.SetVelocity(v)
}

// penetration returns the shortest single-axis move that separates hr
// from wr.
func penetration(hr, wr core.Rect) core.Vec2 {
	dx := -(hr.Right() - wr.Left())
	if right := wr.Right() - hr.Left(); right < -dx {
		dx = right
	}
	dy := -(hr.Bottom() - wr.Top())
	if down := wr.Bottom() - hr.Top(); down < -dy {
		dy = down
	}
	if math.Abs(dx) <= math.Abs(dy) {
		return core.V(dx, 0)
	}
	return core.V(0, dy)
}

// pickups consumes touched items. Health packs are left alone while the
// player is at full health.
func pickups(w *entity.World, p *entity.Player, env *entity.Env) int {
	cfg := w.Config()
	n := 0
	for _, it := range w.Items() {
		if !w.HasItem(it.ID()) || !p.HitRect().Intersects(it.HitRect()) {
			continue
		}
		switch it.Type() {
		case entity.ItemHealth:
			if p.Health() >= p.MaxHealth() {
				continue
			}
			w.Remove(it.ID())
			p.AddHealth(cfg.Items.HealthPackAmount)
			play(env, entity.CueHealthUp)
		case entity.ItemWeapon:
			w.Remove(it.ID())
			p.SetWeapon(it.Weapon())
			play(env, entity.CueGunPickup)
		}
		n++
	}
	return n
}

// mobContact damages the player once per touching mob and stops each of
// those mobs. Only the first touching mob knocks the player back.
func mobContact(w *entity.World, p *entity.Player, env *entity.Env) int {
	cfg := w.Config().Mobs
	var first *entity.Mob
	hits := 0
	for _, m := range w.Mobs() {
		if !p.HitRect().Intersects(m.HitRect()) {
			continue
		}
		if env.Rand.Float64() < cfg.HitSoundChance {
			play(env, entity.CuePlayerHit)
		}
		p.Damage(cfg.Damage)
		m.SetVelocity(core.Vec2{})
		if first == nil {
			first = m
		}
		hits++
	}
	if first != nil {
		p.Hit()
		slideBy(w, p, core.Heading(first.Rotation()).Scale(cfg.Knockback))
	}
	return hits
}

// bulletHits applies every overlapping bullet to the first mob it touches,
// then removes the mobs whose accumulated damage killed them.
func bulletHits(w *entity.World, env *entity.Env) []core.Vec2 {
	bullets := w.Bullets()
	var deaths []core.Vec2

	for _, m := range w.Mobs() {
		hit := false
		for _, b := range bullets {
			if b.Dead() || !m.HitRect().Intersects(b.HitRect()) {
				continue
			}
			m.Damage(b.DamageAmount())
			b.Kill()
			w.Remove(b.ID())
			hit = true
		}
		if hit {
			m.SetVelocity(core.Vec2{})
			play(env, entity.CueZombieHit)
		}
	}

	for _, m := range w.Mobs() {
		if m.Dead() {
			deaths = append(deaths, m.Position())
			w.Remove(m.ID())
			play(env, entity.CueZombieDeath)
		}
	}
	return deaths
}

func play(env *entity.Env, cue string) {
	if env.Cues != nil {
		env.Cues.Play(cue)
	}
}
