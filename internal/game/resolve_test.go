package game

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/entity"
)

type cueLog []string

func (c *cueLog) Play(cue string) { *c = append(*c, cue) }

func (c cueLog) count(cue string) int {
	n := 0
	for _, s := range c {
		if s == cue {
			n++
		}
	}
	return n
}

func newTestWorld(cfg config.Config) (*entity.World, *entity.Env, *cueLog) {
	w := entity.NewWorld(core.NewRect(0, 0, 640, 480), cfg)
	cues := &cueLog{}
	env := &entity.Env{World: w, Rand: rand.New(rand.NewSource(1)), Cues: cues}
	return w, env, cues
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveMobContact(t *testing.T) {
	cfg := config.DefaultConfig()
	w, env, _ := newTestWorld(cfg)
	p := w.SetPlayer(core.V(100, 100))
	m := w.AddMob(core.V(100, 110), 500)
	m.SetRotation(3 * math.Pi / 2) // facing the player, up the screen
	m.SetVelocity(core.V(5, -40))

	res := Resolve(w, env)

	if res.Outcome != OutcomeNone {
		t.Fatalf("outcome = %v, want none", res.Outcome)
	}
	if got, want := p.Health(), 100-cfg.Mobs.Damage; got != want {
		t.Errorf("player health = %d, want %d", got, want)
	}
	if !m.Velocity().IsZero() {
		t.Errorf("mob velocity = %v, want zero", m.Velocity())
	}
	// Pushed along the mob's facing, away from the mob.
	pos := p.Position()
	if !near(pos.X, 100) || !near(pos.Y, 100-cfg.Mobs.Knockback) {
		t.Errorf("player position = %v, want (100, %v)", pos, 100-cfg.Mobs.Knockback)
	}
	if p.State() != entity.PlayerHitFlash {
		t.Errorf("player state = %v, want hit flash", p.State())
	}
	if res.Hits != 1 {
		t.Errorf("hits = %d, want 1", res.Hits)
	}
}

func TestResolveKnockbackUsesFirstMobOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	w, env, _ := newTestWorld(cfg)
	p := w.SetPlayer(core.V(100, 100))
	first := w.AddMob(core.V(95, 100), 500)
	first.SetRotation(0)
	second := w.AddMob(core.V(100, 95), 500)
	second.SetRotation(math.Pi / 2)

	res := Resolve(w, env)

	if got, want := p.Health(), 100-2*cfg.Mobs.Damage; got != want {
		t.Errorf("health = %d, want %d (one hit per mob)", got, want)
	}
	pos := p.Position()
	if !near(pos.X, 100+cfg.Mobs.Knockback) || !near(pos.Y, 100) {
		t.Errorf("position = %v, want knockback from the first mob only", pos)
	}
	if res.Hits != 2 {
		t.Errorf("hits = %d, want 2", res.Hits)
	}
}

func TestResolveCumulativeBulletDamage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mobs.Health = 30
	w, env, cues := newTestWorld(cfg)
	w.SetPlayer(core.V(500, 400))
	m := w.AddMob(core.V(100, 100), 500)
	for i := 0; i < 2; i++ {
		w.AddBullet(entity.BulletSpec{Pos: core.V(100, 100), Damage: 20, Size: 3, Lifetime: 1})
	}

	res := Resolve(w, env)

	if m.Health() != -10 {
		t.Errorf("mob health = %d, want -10", m.Health())
	}
	if w.HasMob(m.ID()) {
		t.Error("dead mob still in the mob set")
	}
	if n := len(w.Bullets()); n != 0 {
		t.Errorf("%d bullets left, want both consumed", n)
	}
	if len(res.Kills) != 1 || res.Kills[0] != core.V(100, 100) {
		t.Errorf("kills = %v, want one at (100,100)", res.Kills)
	}
	if res.Outcome != OutcomeWin {
		t.Errorf("outcome = %v, want win once the last mob dies", res.Outcome)
	}
	if cues.count(entity.CueZombieDeath) != 1 || cues.count(entity.CueZombieHit) != 1 {
		t.Errorf("cues = %v", *cues)
	}
}

func TestResolveBulletHitsOnlyOneMob(t *testing.T) {
	cfg := config.DefaultConfig()
	w, env, _ := newTestWorld(cfg)
	w.SetPlayer(core.V(500, 400))
	a := w.AddMob(core.V(100, 100), 500)
	b := w.AddMob(core.V(104, 100), 500)
	w.AddBullet(entity.BulletSpec{Pos: core.V(102, 100), Damage: 20, Size: 3, Lifetime: 1})

	Resolve(w, env)

	if a.Health() != cfg.Mobs.Health-20 {
		t.Errorf("first mob health = %d", a.Health())
	}
	if b.Health() != cfg.Mobs.Health {
		t.Errorf("second mob health = %d, bullet must be consumed once", b.Health())
	}
}

func TestResolveNoMobsIsWin(t *testing.T) {
	w, env, _ := newTestWorld(config.DefaultConfig())
	w.SetPlayer(core.V(100, 100))
	if res := Resolve(w, env); res.Outcome != OutcomeWin {
		t.Errorf("outcome = %v, want win", res.Outcome)
	}
}

func TestResolveLossStopsEarly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Player.Health = 10
	cfg.Mobs.Damage = 10
	w, env, _ := newTestWorld(cfg)
	p := w.SetPlayer(core.V(100, 100))
	w.AddMob(core.V(100, 105), 500)
	victim := w.AddMob(core.V(300, 300), 500)
	bullet := w.AddBullet(entity.BulletSpec{Pos: core.V(300, 300), Damage: 500, Size: 3, Lifetime: 1})

	res := Resolve(w, env)

	if res.Outcome != OutcomeLoss {
		t.Fatalf("outcome = %v, want loss", res.Outcome)
	}
	if p.Health() != 0 {
		t.Errorf("health = %d, want exactly 0", p.Health())
	}
	if p.State() != entity.PlayerDead {
		t.Errorf("state = %v, want dead", p.State())
	}
	if !w.HasMob(victim.ID()) || !w.Contains(bullet.ID()) {
		t.Error("bullet pass must not run after a loss")
	}
}

func TestResolveItemPickupDedup(t *testing.T) {
	cfg := config.DefaultConfig()
	w, env, cues := newTestWorld(cfg)
	p := w.SetPlayer(core.V(100, 100))
	p.Damage(50)
	pack := w.AddItem(core.V(102, 100), entity.ItemHealth, "")

	first := Resolve(w, env)
	second := Resolve(w, env)

	if first.Pickups != 1 || second.Pickups != 0 {
		t.Errorf("pickups = %d then %d, want 1 then 0", first.Pickups, second.Pickups)
	}
	if w.HasItem(pack.ID()) {
		t.Error("consumed item still in the item set")
	}
	if got, want := p.Health(), 50+cfg.Items.HealthPackAmount; got != want {
		t.Errorf("health = %d, want %d", got, want)
	}
	if cues.count(entity.CueHealthUp) != 1 {
		t.Errorf("health_up played %d times", cues.count(entity.CueHealthUp))
	}
}

func TestResolveHealthPackIgnoredAtFullHealth(t *testing.T) {
	w, env, _ := newTestWorld(config.DefaultConfig())
	p := w.SetPlayer(core.V(100, 100))
	pack := w.AddItem(core.V(100, 100), entity.ItemHealth, "")

	Resolve(w, env)

	if !w.HasItem(pack.ID()) {
		t.Error("health pack consumed at full health")
	}
	if p.Health() != p.MaxHealth() {
		t.Errorf("health = %d", p.Health())
	}
}

func TestResolveWeaponPickup(t *testing.T) {
	w, env, cues := newTestWorld(config.DefaultConfig())
	p := w.SetPlayer(core.V(100, 100))
	w.AddItem(core.V(100, 100), entity.ItemWeapon, config.WeaponShotgun)

	res := Resolve(w, env)

	if p.Weapon() != config.WeaponShotgun {
		t.Errorf("weapon = %q, want shotgun", p.Weapon())
	}
	if res.Pickups != 1 || len(w.Items()) != 0 {
		t.Error("weapon pickup not consumed")
	}
	if !slices.Contains(*cues, entity.CueGunPickup) {
		t.Errorf("cues = %v, want gun_pickup", *cues)
	}
}

func TestResolveWallSlide(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name    string
		start   core.Vec2
		vel     core.Vec2
		wantX   float64
		slidesY bool
	}{
		{"stops at wall", core.V(100, 100), core.V(600, 0), 114, false},
		{"slides along wall", core.V(100, 100), core.V(600, 300), 114, true},
		{"pushed out when already inside", core.V(118, 100), core.V(0, 0), 114, false},
		{"moving away is unaffected", core.V(100, 100), core.V(-600, 0), 100 - 22.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env, _ := newTestWorld(cfg)
			w.AddObstacle(core.NewRect(120, 80, 16, 40))
			p := w.SetPlayer(tt.start)
			p.SetVelocity(tt.vel)
			p.Update(env, 0.05)

			Resolve(w, env)

			pos := p.Position()
			if math.Abs(pos.X-tt.wantX) > 1e-6 {
				t.Errorf("x = %v, want %v", pos.X, tt.wantX)
			}
			if tt.slidesY && (pos.Y <= tt.start.Y || p.Velocity().Y == 0) {
				t.Errorf("expected to keep sliding along y, pos %v vel %v", pos, p.Velocity())
			}
			if p.HitRect().Intersects(core.NewRect(120, 80, 16, 40)) {
				t.Error("player still overlaps the wall")
			}
			if tt.wantX == 114 && p.Velocity().X != 0 {
				t.Errorf("x velocity = %v, want zeroed on contact", p.Velocity().X)
			}
		})
	}
}

func TestResolveMobsSlideToo(t *testing.T) {
	w, env, _ := newTestWorld(config.DefaultConfig())
	w.SetPlayer(core.V(300, 100))
	w.AddObstacle(core.NewRect(120, 80, 16, 40))
	m := w.AddMob(core.V(100, 100), 500)
	m.SetVelocity(core.V(600, 0))
	for i := 0; i < 10; i++ {
		w.Update(env, 0.05)
		Resolve(w, env)
		if m.HitRect().Intersects(core.NewRect(120, 80, 16, 40)) {
			t.Fatalf("frame %d: mob inside wall at %v", i, m.Position())
		}
	}
}

func TestResolveKnockbackIntoWideWall(t *testing.T) {
	cfg := config.DefaultConfig()
	w, env, _ := newTestWorld(cfg)
	wall := core.NewRect(0, 200, 600, 32)
	w.AddObstacle(wall)
	p := w.SetPlayer(core.V(300, 193))
	m := w.AddMob(core.V(300, 183), 500)
	m.SetRotation(math.Pi / 2) // facing down, toward the wall

	Resolve(w, env)

	if p.HitRect().Intersects(wall) {
		t.Fatalf("knockback left the player inside the wall: %v", p.HitRect())
	}
	pos := p.Position()
	if !near(pos.X, 300) || !near(pos.Y, wall.Top()-p.HitRect().H/2) {
		t.Errorf("position = %v, want stopped on the wall's top edge", pos)
	}

	// Walking along the wall afterwards keeps the player next to it.
	w.Remove(m.ID())
	p.SetVelocity(core.V(30, 0))
	p.Update(env, 0.05)
	Resolve(w, env)

	pos = p.Position()
	if pos.X < 300 || pos.X > 310 {
		t.Errorf("x = %v, want a small step right of 300", pos.X)
	}
	if p.HitRect().Intersects(wall) || !near(pos.Y, wall.Top()-p.HitRect().H/2) {
		t.Errorf("position = %v, want sliding along the wall top", pos)
	}
}

func TestResolveUnsticksAlongShallowAxis(t *testing.T) {
	tests := []struct {
		name  string
		start core.Vec2
		want  core.Vec2
	}{
		{"top edge", core.V(300, 198), core.V(300, 194)},
		{"bottom edge", core.V(300, 235), core.V(300, 238)},
		{"left end", core.V(3, 216), core.V(-6, 216)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env, _ := newTestWorld(config.DefaultConfig())
			wall := core.NewRect(0, 200, 600, 32)
			w.AddObstacle(wall)
			p := w.SetPlayer(tt.start)

			Resolve(w, env)

			pos := p.Position()
			if !near(pos.X, tt.want.X) || !near(pos.Y, tt.want.Y) {
				t.Errorf("position = %v, want %v", pos, tt.want)
			}
			if p.HitRect().Intersects(wall) {
				t.Error("player still overlaps the wall")
			}
		})
	}
}
