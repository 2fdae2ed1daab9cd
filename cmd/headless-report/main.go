package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Garsondee/Ember-Range/internal/game"
	"github.com/Garsondee/Ember-Range/internal/history"
	"github.com/Garsondee/Ember-Range/internal/logging"
	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

type runStats struct {
	runIndex int
	seed     int64
	summary  game.Summary

	firstShotTick      int
	firstEnemyShotTick int
	firstHitTick       int
	firstKillTick      int
	firstPlayerHitTick int
	outcomeTick        int

	bounces      int
	blocked      int
	expired      int
	enemiesTotal int
}

// coverLayout is the scene the ring-assault player fights from: a loose
// ring of crates with a brick wall to the south.
var coverLayout = []struct {
	kind scene.Kind
	pos  vmath.Vec3
}{
	{scene.KindBox, vmath.V3(6, 5.5, 6)},
	{scene.KindBox, vmath.V3(-6, 5.5, 6)},
	{scene.KindBox, vmath.V3(6, 5.5, -6)},
	{scene.KindBrick, vmath.V3(0, 5.5, -8)},
	{scene.KindBrick, vmath.V3(1, 5.5, -8)},
	{scene.KindSand, vmath.V3(-8, 5.5, 0)},
	{scene.KindFlame, vmath.V3(3, 5, 3)},
}

func main() {
	var runs int
	var ticks int
	var dt float64
	var seedBase int64
	var seedStep int64
	var scenario string
	var dbPath string
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless engagements")
	flag.IntVar(&ticks, "ticks", 60*180, "tick cap per run")
	flag.Float64Var(&dt, "dt", 1.0/60.0, "tick length in seconds")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "ring-assault", "scenario name")
	flag.StringVar(&dbPath, "db", "", "record every run into this history database")
	flag.StringVar(&logLevel, "log", "warn", "log level")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if dt <= 0 {
		fmt.Println("error: -dt must be > 0")
		return
	}
	if scenario != "ring-assault" {
		fmt.Printf("error: unsupported scenario %q (supported: ring-assault)\n", scenario)
		return
	}

	log := logging.New(logLevel, nil)

	var store *history.Store
	if dbPath != "" {
		var err error
		store, err = history.Open(dbPath, log.With().Str("component", "history").Logger())
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	fmt.Printf("=== Headless Engagement Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d dt=%.4f seed_base=%d seed_step=%d\n\n",
		scenario, runs, ticks, dt, seedBase, seedStep)

	ctx := context.Background()
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenarioRingAssault(i+1, seed, ticks, dt)
		if err != nil {
			fmt.Printf("--- Run %d (seed=%d) failed: %v ---\n\n", i+1, seed, err)
			continue
		}
		all = append(all, stats)
		printRun(stats)

		if store != nil {
			if _, err := store.Record(ctx, history.FromSummary("headless", stats.summary)); err != nil {
				log.Error().Err(err).Int("run", i+1).Msg("history write failed")
			}
		}
	}

	printAggregate(all)

	if store != nil {
		tot, err := store.Totals(ctx)
		if err != nil {
			log.Error().Err(err).Msg("history totals failed")
			return
		}
		fmt.Println("\n=== History ===")
		fmt.Printf("db=%s runs=%d victories=%d defeats=%d kills=%d shots=%d hits=%d\n",
			dbPath, tot.Runs, tot.Victories, tot.Defeats, tot.Kills, tot.ShotsFired, tot.ShotsHit)
	}
}

func runScenarioRingAssault(runIndex int, seed int64, ticks int, dt float64) (runStats, error) {
	opts := []game.SimOption{
		game.WithSeed(seed),
		game.WithDT(dt),
		game.WithSpawnWave(),
		game.WithScript(game.HuntScript),
	}
	for _, c := range coverLayout {
		opts = append(opts, game.WithPlacedObject(c.kind, c.pos))
	}
	ts := game.NewTestSim(opts...)
	if err := ts.StartErr(); err != nil {
		return runStats{}, err
	}
	ts.RunUntil(func(ts *game.TestSim) bool { return ts.Outcome().Terminal() }, ticks)

	log := ts.Log
	st := ts.Combat.Stats()
	outcomeTick := -1
	if ts.Outcome().Terminal() {
		outcomeTick = log.FirstTick("outcome", ts.Outcome().String())
	}
	return runStats{
		runIndex:           runIndex,
		seed:               seed,
		summary:            ts.Summary(),
		firstShotTick:      firstTick(log.FilterActor("P"), "fire", "shot", ""),
		firstEnemyShotTick: firstTick(log.Entries(), "fire", "shot", "E"),
		firstHitTick:       log.FirstTick("bullet", "hit_enemy"),
		firstKillTick:      log.FirstTick("enemy", "death"),
		firstPlayerHitTick: log.FirstTick("bullet", "hit_player"),
		outcomeTick:        outcomeTick,
		bounces:            st.Bounces,
		blocked:            st.EnemyBlocked,
		expired:            st.ExpiredByRange,
		enemiesTotal:       ts.Enemies.Spawned(),
	}, nil
}

// firstTick returns the first tick of category/key fired by an actor whose
// label starts with actorPrefix, or -1.
func firstTick(entries []game.SimLogEntry, category, key, actorPrefix string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if strings.HasPrefix(e.Actor, actorPrefix) {
			return e.Tick
		}
	}
	return -1
}

// classifyRun labels a run for the aggregate block. A run that hit the tick
// cap with the player standing and enemies left is a stalemate.
func classifyRun(rs runStats) (string, string) {
	s := rs.summary
	switch s.Outcome {
	case game.OutcomeVictory:
		if s.PlayerHealth == 0 {
			return "victory", "pyrrhic"
		}
		return "victory", fmt.Sprintf("hp_left=%d", s.PlayerHealth)
	case game.OutcomeDefeat:
		return "defeat", fmt.Sprintf("kills=%d/%d", s.Kills, rs.enemiesTotal)
	}
	if s.ShotsFired > 0 && s.ShotsHit == 0 {
		return "stalemate", "no_hits_landed"
	}
	return "stalemate", fmt.Sprintf("tick_cap kills=%d/%d", s.Kills, rs.enemiesTotal)
}

func accuracy(s game.Summary) float64 {
	if s.ShotsFired == 0 {
		return 0
	}
	return float64(s.ShotsHit) / float64(s.ShotsFired) * 100
}

func printRun(rs runStats) {
	s := rs.summary
	verdict, reason := classifyRun(rs)
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_shot=%d first_enemy_shot=%d first_hit=%d first_kill=%d first_player_hit=%d outcome=%d\n",
		rs.firstShotTick, rs.firstEnemyShotTick, rs.firstHitTick, rs.firstKillTick, rs.firstPlayerHitTick, rs.outcomeTick)
	fmt.Printf("player: shots=%d hits=%d accuracy=%.1f%% bounces=%d hp=%d\n",
		s.ShotsFired, s.ShotsHit, accuracy(s), rs.bounces, s.PlayerHealth)
	fmt.Printf("enemies: spawned=%d kills=%d alive=%d shots=%d hits=%d blocked=%d\n",
		rs.enemiesTotal, s.Kills, s.EnemiesAlive, s.EnemyShots, s.EnemyHits, rs.blocked)
	fmt.Printf("bullets_expired_by_range=%d ticks=%d clock=%.1fs\n", rs.expired, s.Ticks, s.Clock)
	fmt.Printf("verdict=%s reason=%s\n\n", verdict, reason)
}

func printAggregate(all []runStats) {
	totalShots := 0
	totalHits := 0
	totalKills := 0
	totalBounces := 0
	totalEnemyHits := 0
	verdicts := map[string]int{}

	killTicks := make([]int, 0, len(all))
	playerHitTicks := make([]int, 0, len(all))
	outcomeTicks := make([]int, 0, len(all))

	for _, rs := range all {
		s := rs.summary
		totalShots += s.ShotsFired
		totalHits += s.ShotsHit
		totalKills += s.Kills
		totalBounces += rs.bounces
		totalEnemyHits += s.EnemyHits
		v, _ := classifyRun(rs)
		verdicts[v]++
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstPlayerHitTick >= 0 {
			playerHitTicks = append(playerHitTicks, rs.firstPlayerHitTick)
		}
		if rs.outcomeTick >= 0 {
			outcomeTicks = append(outcomeTicks, rs.outcomeTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d victories=%d defeats=%d stalemates=%d\n",
		len(all), verdicts["victory"], verdicts["defeat"], verdicts["stalemate"])
	fmt.Printf("avg_per_run: shots=%.1f hits=%.1f kills=%.1f bounces=%.1f damage_taken=%.1f\n",
		avg(totalShots, len(all)), avg(totalHits, len(all)), avg(totalKills, len(all)),
		avg(totalBounces, len(all)), avg(totalEnemyHits, len(all)))
	if totalShots > 0 {
		fmt.Printf("overall_accuracy=%.1f%%\n", float64(totalHits)/float64(totalShots)*100)
	}
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_player_hit=%s outcome=%s\n",
		avgTickString(killTicks), avgTickString(playerHitTicks), avgTickString(outcomeTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
