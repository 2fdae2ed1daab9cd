package game

import (
	"fmt"
	"strings"
	"testing"
)

func TestDetermineOutcome_NoSpawnsIsOngoing(t *testing.T) {
	ts := NewTestSim()
	r := DetermineOutcome(ts.Player, ts.Enemies)
	if r.Outcome != OutcomeOngoing {
		t.Fatalf("outcome = %s with nothing spawned, want ongoing", r.Outcome)
	}
}

func TestDetermineOutcome_DefeatBeatsVictory(t *testing.T) {
	ts := NewTestSim(WithTuningChange(func(tn *Tuning) { tn.EnemyHealth = 1 }), WithEnemyAt(20, 0))
	ts.Enemies.Damage(ts.Enemies.Enemies()[0], 1)
	ts.Enemies.Compact()
	ts.Player.ApplyDamage(5)

	r := DetermineOutcome(ts.Player, ts.Enemies)
	if r.Outcome != OutcomeDefeat {
		t.Fatalf("outcome = %s, want defeat", r.Outcome)
	}
}

func TestDetermineOutcome_VictoryDescription(t *testing.T) {
	cases := []struct {
		damage int
		want   string
	}{
		{0, "flawless_all_enemies_down"},
		{2, "all_enemies_down"},
	}
	for _, c := range cases {
		ts := NewTestSim(WithTuningChange(func(tn *Tuning) { tn.EnemyHealth = 1 }), WithEnemyAt(20, 0))
		ts.Player.ApplyDamage(c.damage)
		ts.Enemies.Damage(ts.Enemies.Enemies()[0], 1)
		ts.Enemies.Compact()

		r := DetermineOutcome(ts.Player, ts.Enemies)
		if r.Outcome != OutcomeVictory || r.Description != c.want {
			t.Errorf("damage %d: %s/%s, want victory/%s", c.damage, r.Outcome, r.Description, c.want)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{
		OutcomeOngoing: "ongoing",
		OutcomeVictory: "victory",
		OutcomeDefeat:  "defeat",
	} {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", o, o.String(), want)
		}
	}
}

func TestCombatFeed_KeepsNewestEntries(t *testing.T) {
	f := NewCombatFeed()
	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(i, "P", FeedInfo, fmt.Sprintf("line %d", i))
	}
	if f.Len() != feedMaxEntries {
		t.Fatalf("len = %d, want %d", f.Len(), feedMaxEntries)
	}
	recent := f.Recent()
	if recent[0].Tick != 5 || recent[len(recent)-1].Tick != feedMaxEntries+4 {
		t.Fatalf("window = [%d..%d], want [5..%d]", recent[0].Tick, recent[len(recent)-1].Tick, feedMaxEntries+4)
	}
}

func TestReport_MentionsEverySection(t *testing.T) {
	ts := NewTestSim(WithEnemyAt(40, 0), WithScript(HuntScript))
	ts.RunTicks(90)

	rep := ts.Report()
	for _, want := range []string{"player", "E0", "bullets", "ongoing"} {
		if !strings.Contains(rep, want) {
			t.Errorf("report missing %q:\n%s", want, rep)
		}
	}
}
