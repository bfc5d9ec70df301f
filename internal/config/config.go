// Package config provides YAML-based game configuration loading and
// difficulty presets for the shooter.
package config

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

// Weapon names known to the game. Map objects named after a weapon spawn a
// pickup for it.
const (
	WeaponPistol  = "pistol"
	WeaponShotgun = "shotgun"
)

// Config contains all tuning for a play session.
type Config struct {
	Player   PlayerConfig            `yaml:"player"`
	Mobs     MobConfig               `yaml:"mobs"`
	Weapons  map[string]WeaponConfig `yaml:"weapons"`
	Items    ItemConfig              `yaml:"items"`
	Lighting LightingConfig          `yaml:"lighting"`
	Display  DisplayConfig           `yaml:"display"`
	Audio    AudioConfig             `yaml:"audio"`
}

// PlayerConfig defines movement, health and geometry of the player.
type PlayerConfig struct {
	Health         int     `yaml:"health"`
	Acceleration   float64 `yaml:"acceleration"`    // px/s² while thrusting
	BackwardFactor float64 `yaml:"backward_factor"` // fraction of thrust when backing off
	Friction       float64 `yaml:"friction"`        // velocity damping per second
	RotationSpeed  float64 `yaml:"rotation_speed"`  // degrees per second
	HitWidth       float64 `yaml:"hit_width"`
	HitHeight      float64 `yaml:"hit_height"`
	SpriteSize     int     `yaml:"sprite_size"`
	HitFlash       float64 `yaml:"hit_flash"` // seconds of damage flash
	StartWeapon    string  `yaml:"start_weapon"`
	BarrelOffset   Offset  `yaml:"barrel_offset"`
}

// Offset is a 2D offset in the entity's local frame.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec converts the offset into a vector.
func (o Offset) Vec() core.Vec2 {
	return core.V(o.X, o.Y)
}

// MobConfig defines zombie behavior.
type MobConfig struct {
	Health         int       `yaml:"health"`
	Damage         int       `yaml:"damage"`
	Knockback      float64   `yaml:"knockback"`
	Accelerations  []float64 `yaml:"accelerations"` // one is picked per mob
	Friction       float64   `yaml:"friction"`
	HitWidth       float64   `yaml:"hit_width"`
	HitHeight      float64   `yaml:"hit_height"`
	SpriteSize     int       `yaml:"sprite_size"`
	MoanChance     float64   `yaml:"moan_chance"`      // probability per second
	HitSoundChance float64   `yaml:"hit_sound_chance"` // probability per contact
	SplatSize      int       `yaml:"splat_size"`
}

// WeaponConfig defines a weapon's ballistics.
type WeaponConfig struct {
	BulletSpeed    float64 `yaml:"bullet_speed"`
	BulletLifetime float64 `yaml:"bullet_lifetime"`
	Rate           float64 `yaml:"rate"` // cooldown between shots, seconds
	Kickback       float64 `yaml:"kickback"`
	Spread         float64 `yaml:"spread"` // degrees, symmetric
	Damage         int     `yaml:"damage"`
	BulletSize     float64 `yaml:"bullet_size"`
	BulletCount    int     `yaml:"bullet_count"`
}

// ItemConfig defines pickups.
type ItemConfig struct {
	HealthPackAmount int     `yaml:"health_pack_amount"`
	Size             float64 `yaml:"size"`
	BobRange         float64 `yaml:"bob_range"`
	BobSpeed         float64 `yaml:"bob_speed"` // cycles per second
}

// LightingConfig defines the night overlay.
type LightingConfig struct {
	Night       bool   `yaml:"night"`
	NightColor  string `yaml:"night_color"`
	LightRadius int    `yaml:"light_radius"` // world pixels
}

// NightRGBA returns the parsed night tint, falling back to a dark grey.
func (l LightingConfig) NightRGBA() color.RGBA {
	if c, ok := core.ParseHex(l.NightColor); ok {
		return c
	}
	return color.RGBA{20, 20, 20, 255}
}

// DisplayConfig defines frame pacing and scaling.
type DisplayConfig struct {
	PixelScale  int     `yaml:"pixel_scale"`
	FPS         int     `yaml:"fps"`
	MaxFrameDT  float64 `yaml:"max_frame_dt"`
	MuzzleFlash float64 `yaml:"muzzle_flash"`
}

// AudioConfig defines the sound output.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// Weapon returns the configuration for a weapon by name.
func (c Config) Weapon(name string) (WeaponConfig, bool) {
	w, ok := c.Weapons[name]
	return w, ok
}

// Validate checks the invariants the simulation relies on.
func (c Config) Validate() error {
	if c.Player.Health <= 0 {
		return fmt.Errorf("config: player.health must be positive, got %d", c.Player.Health)
	}
	if c.Player.HitWidth <= 0 || c.Player.HitHeight <= 0 {
		return fmt.Errorf("config: player hit rectangle must be positive")
	}
	if c.Mobs.Health <= 0 {
		return fmt.Errorf("config: mobs.health must be positive, got %d", c.Mobs.Health)
	}
	if c.Mobs.Damage < 0 {
		return fmt.Errorf("config: mobs.damage must not be negative, got %d", c.Mobs.Damage)
	}
	if len(c.Mobs.Accelerations) == 0 {
		return fmt.Errorf("config: mobs.accelerations must not be empty")
	}
	if _, ok := c.Weapons[c.Player.StartWeapon]; !ok {
		return fmt.Errorf("config: start weapon %q is not defined", c.Player.StartWeapon)
	}
	for name, w := range c.Weapons {
		if w.BulletCount <= 0 {
			return fmt.Errorf("config: weapon %q needs at least one bullet", name)
		}
		if w.Rate < 0 || w.BulletLifetime <= 0 {
			return fmt.Errorf("config: weapon %q has invalid timing", name)
		}
	}
	if c.Display.PixelScale <= 0 {
		return fmt.Errorf("config: display.pixel_scale must be positive")
	}
	if c.Display.FPS <= 0 || c.Display.MaxFrameDT <= 0 {
		return fmt.Errorf("config: display.fps and display.max_frame_dt must be positive")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty converts a CLI value into a preset.
// Unknown or empty values return "" which leaves the config untouched.
func ParseDifficulty(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Player.Health = cfg.Player.Health * 3 / 2
		cfg.Mobs.Damage = max(1, cfg.Mobs.Damage/2)
		cfg.Mobs.Health = cfg.Mobs.Health * 3 / 4
	case DifficultyHard:
		cfg.Player.Health = cfg.Player.Health * 3 / 4
		cfg.Mobs.Damage = cfg.Mobs.Damage * 3 / 2
		cfg.Mobs.Health = cfg.Mobs.Health * 5 / 4
		for i := range cfg.Mobs.Accelerations {
			cfg.Mobs.Accelerations[i] *= 1.2
		}
	}
}
