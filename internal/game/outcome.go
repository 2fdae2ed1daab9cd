package game

type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// Terminal reports whether the engagement is over.
func (o Outcome) Terminal() bool { return o != OutcomeOngoing }

type OutcomeReason struct {
	Outcome      Outcome
	PlayerHealth int
	Kills        int
	Spawned      int
	Alive        int
	Description  string
}

// DetermineOutcome classifies the engagement. Defeat takes precedence; a
// victory needs at least one spawned enemy and none left alive.
func DetermineOutcome(p *Player, ec *EnemyController) OutcomeReason {
	r := OutcomeReason{
		Outcome:      OutcomeOngoing,
		PlayerHealth: p.Health,
		Kills:        ec.Kills(),
		Spawned:      ec.Spawned(),
		Alive:        ec.Count(),
		Description:  "engagement_in_progress",
	}
	switch {
	case p.Defeated():
		r.Outcome = OutcomeDefeat
		r.Description = "player_health_exhausted"
	case r.Spawned > 0 && r.Alive == 0:
		r.Outcome = OutcomeVictory
		if r.PlayerHealth == p.MaxHealth {
			r.Description = "flawless_all_enemies_down"
		} else {
			r.Description = "all_enemies_down"
		}
	}
	return r
}
