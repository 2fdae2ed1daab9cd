package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// Report renders a plain-text snapshot of the engagement for pasting into
// bug reports.
func (s *Sim) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Ember Range report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d clock=%.2fs outcome=%s\n\n", s.Seed, s.Tick, s.Clock, s.outcome)

	p := s.Player
	fmt.Fprintf(&b, "== player ==\n")
	fmt.Fprintf(&b, "hp=%d/%d defeated=%v pos=(%.2f,%.2f,%.2f) yaw=%.1f\n\n",
		p.Health, p.MaxHealth, p.Defeated(), p.Position.X, p.Position.Y, p.Position.Z, p.Yaw)

	fmt.Fprintf(&b, "== enemies (alive=%d kills=%d spawned=%d) ==\n",
		s.Enemies.Count(), s.Enemies.Kills(), s.Enemies.Spawned())
	enemies := append([]*Enemy(nil), s.Enemies.Enemies()...)
	sort.Slice(enemies, func(i, j int) bool {
		return vmath.Dist(enemies[i].Position, p.Position) < vmath.Dist(enemies[j].Position, p.Position)
	})
	for _, e := range enemies {
		fmt.Fprintf(&b, "  %-4s hp=%d dist=%6.2f pos=(%.2f,%.2f) yaw=%.1f\n",
			e.Label, e.Health, vmath.Dist(e.Position, p.Position), e.Position.X, e.Position.Z, e.Yaw)
	}
	b.WriteByte('\n')

	st := s.Combat.Stats()
	fmt.Fprintf(&b, "== bullets ==\n")
	fmt.Fprintf(&b, "live: player=%d enemy=%d flashes=%d\n",
		len(s.Combat.PlayerBullets()), len(s.Combat.EnemyBullets()), len(s.Combat.ActiveFlashes()))
	fmt.Fprintf(&b, "player: fired=%d hit=%d bounces=%d\n", st.ShotsFired, st.ShotsHit, st.Bounces)
	fmt.Fprintf(&b, "enemy:  fired=%d hit=%d blocked=%d\n", st.EnemyShots, st.EnemyHits, st.EnemyBlocked)
	fmt.Fprintf(&b, "expired by range: %d\n", st.ExpiredByRange)
	if st.ShotsFired > 0 {
		fmt.Fprintf(&b, "accuracy: %.1f%%\n", 100*float64(st.ShotsHit)/float64(st.ShotsFired))
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "== scene ==\n")
	kinds := map[string]int{}
	particles := 0
	for _, o := range s.Scene.Objects() {
		kinds[string(o.Kind)]++
		if o.Emitter != nil {
			particles += o.Emitter.Len()
		}
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Fprintf(&b, "objects=%d particles=%d\n", s.Scene.Len(), particles)
	for _, k := range names {
		fmt.Fprintf(&b, "  %-8s %d\n", k, kinds[k])
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "== recent feed ==\n")
	for _, e := range s.Feed.Recent() {
		fmt.Fprintf(&b, "  %5d [%s] %s\n", e.Tick, e.Label, e.Message)
	}
	return b.String()
}
