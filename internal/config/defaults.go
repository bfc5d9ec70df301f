package config

import (
	_ "embed"
)

//go:embed defaults/zombies.yaml
var defaultZombiesYAML []byte

// DefaultConfig returns the hard-coded configuration used when the embedded
// YAML cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Player: PlayerConfig{
			Health:         100,
			Acceleration:   900,
			BackwardFactor: 0.5,
			Friction:       5,
			RotationSpeed:  250,
			HitWidth:       12,
			HitHeight:      12,
			SpriteSize:     16,
			HitFlash:       0.25,
			StartWeapon:    WeaponPistol,
			BarrelOffset:   Offset{X: 10, Y: 3},
		},
		Mobs: MobConfig{
			Health:         100,
			Damage:         10,
			Knockback:      12,
			Accelerations:  []float64{550, 450, 350, 500},
			Friction:       5,
			HitWidth:       12,
			HitHeight:      12,
			SpriteSize:     16,
			MoanChance:     0.1,
			HitSoundChance: 0.7,
			SplatSize:      16,
		},
		Weapons: map[string]WeaponConfig{
			WeaponPistol: {
				BulletSpeed:    360,
				BulletLifetime: 1.0,
				Rate:           0.25,
				Kickback:       50,
				Spread:         5,
				Damage:         10,
				BulletSize:     3,
				BulletCount:    1,
			},
			WeaponShotgun: {
				BulletSpeed:    300,
				BulletLifetime: 0.5,
				Rate:           0.9,
				Kickback:       90,
				Spread:         20,
				Damage:         5,
				BulletSize:     2,
				BulletCount:    12,
			},
		},
		Items: ItemConfig{
			HealthPackAmount: 20,
			Size:             10,
			BobRange:         3,
			BobSpeed:         0.6,
		},
		Lighting: LightingConfig{
			Night:       true,
			NightColor:  "#141414",
			LightRadius: 96,
		},
		Display: DisplayConfig{
			PixelScale:  4,
			FPS:         60,
			MaxFrameDT:  0.1,
			MuzzleFlash: 0.05,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.3,
			SampleRate: 44100,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultZombiesYAML
}
