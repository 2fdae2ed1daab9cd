package game

import "github.com/Garsondee/Ember-Range/internal/vmath"

// Tuning collects every gameplay constant of the simulation. Units are world
// units and seconds.
type Tuning struct {
	// Player.
	PlayerMaxHealth int        // hearts at full health
	PlayerSpeed     float64    // base walk speed, units/s
	SpeedMultiplier float64    // applied on top of PlayerSpeed
	PlayerStart     vmath.Vec3 // feet position at scene start
	PlayerHitRadius float64    // enemy bullets closer than this hit the player
	ShootDelay      float64    // seconds between player shots

	// Projectiles.
	BulletSpeed         float64    // player bullets, units/s
	EnemyBulletSpeed    float64    // enemy bullets, units/s
	BulletRange         float64    // travel distance before a bullet expires
	PlayerMuzzleHeight  float64    // muzzle height above the player's feet
	MuzzleForward       float64    // muzzle distance ahead of the shooter
	EnemyMuzzleOffset   vmath.Vec3 // enemy muzzle offset before the forward push
	MuzzleFlashLifetime float64    // seconds a muzzle flash stays visible

	// Enemies.
	EnemyCount         int
	EnemyHealth        int
	EnemySpeed         float64    // units/s, also the separation push rate
	EnemyShootInterval float64    // seconds between enemy shots
	MinDistance        float64    // minimum spacing between enemies
	SpawnRadius        float64    // spawn ring radius around the origin
	GroundHeight       float64    // enemies are locked to this Y
	MaxSpawnAttempts   int        // candidate positions tried per spawn
	EnemyHalfExtents   vmath.Vec3 // enemy box collider

	// World.
	GroundCenter      vmath.Vec3
	GroundHalfExtents vmath.Vec3
}

// DefaultTuning returns the stock values.
func DefaultTuning() Tuning {
	return Tuning{
		PlayerMaxHealth: 5,
		PlayerSpeed:     5,
		SpeedMultiplier: 2,
		PlayerStart:     vmath.V3(0, 5, 0),
		PlayerHitRadius: 2,
		ShootDelay:      0.3,

		BulletSpeed:         20,
		EnemyBulletSpeed:    10,
		BulletRange:         200,
		PlayerMuzzleHeight:  1,
		MuzzleForward:       2,
		EnemyMuzzleOffset:   vmath.V3(0.26, 0, 0),
		MuzzleFlashLifetime: 0.3,

		EnemyCount:         5,
		EnemyHealth:        5,
		EnemySpeed:         0.5,
		EnemyShootInterval: 1,
		MinDistance:        0.3,
		SpawnRadius:        100,
		GroundHeight:       7,
		MaxSpawnAttempts:   64,
		EnemyHalfExtents:   vmath.V3(0.5, 1, 0.5),

		GroundCenter:      vmath.Zero,
		GroundHalfExtents: vmath.V3(250, 5, 250),
	}
}
