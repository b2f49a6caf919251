package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/rocket/internal/config"
	"github.com/Garsondee/rocket/internal/game"
	"github.com/Garsondee/rocket/internal/trace"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstKillTick  int
	firstDeathTick int

	shots      int
	spawns     int
	retries    int
	kills      int
	deaths     int
	finalScore uint32
	peakScore  uint32

	windowSummary *game.WindowReport
}

var pilots = map[string]game.Pilot{
	"chase": game.ChasePilot,
	"idle":  game.IdlePilot,
}

// defaultSeedBase keeps batch runs reproducible unless a seed is given.
const defaultSeedBase = 42

// bindBatch registers the shared flags with a fixed seed default. Batch runs
// are always seeded; 0 is an ordinary seed here.
func bindBatch(flags *flag.FlagSet, o *config.Options) {
	if o.Seed == 0 {
		o.Seed = defaultSeedBase
	}
	config.BindCore(flags, o)
	flags.Lookup("seed").Usage = "seed of the first run; later runs add -seed-step"
}

func main() {
	var runs int
	var ticks int
	var seedStep int64
	var pilotName string

	flags := flag.CommandLine
	flags.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flags.IntVar(&ticks, "ticks", 60*game.ReferenceUPS, "ticks per run")
	flags.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flags.StringVar(&pilotName, "pilot", "chase", "scripted pilot: "+pilotNames())
	opts, err := config.LoadWith(flags, os.Args[1:], bindBatch)
	if err != nil {
		log.Fatal(err)
	}
	seedBase := opts.Seed

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	pilot, ok := pilots[pilotName]
	if !ok {
		fmt.Printf("error: unsupported pilot %q (supported: %s)\n", pilotName, pilotNames())
		return
	}

	fmt.Printf("=== Headless Rocket Report ===\n")
	fmt.Printf("pilot=%s policy=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		pilotName, opts.Policy, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		var rec *trace.Recorder
		if i == 0 && opts.TracePath != "" {
			rec, err = trace.Create(opts.TracePath, trace.Header{
				Seed:   seed,
				Policy: opts.Policy.String(),
				Size:   game.Size{Width: game.DefaultWorldWidth, Height: game.DefaultWorldHeight},
				Every:  game.ReferenceUPS / 10,
			})
			if err != nil {
				log.Fatal(err)
			}
		}
		stats, err := runScenario(i+1, seed, ticks, opts.Policy, pilot, rec)
		if err != nil {
			log.Fatal(err)
		}
		all = append(all, stats)
		printRun(stats)
	}
	printAggregate(all)

	if opts.TracePath != "" {
		if err := printTrace(opts.TracePath); err != nil {
			log.Fatal(err)
		}
	}
}

func runScenario(runIndex int, seed int64, ticks int, policy game.ResetPolicy, pilot game.Pilot, rec *trace.Recorder) (runStats, error) {
	ts := game.NewTestSim(
		game.WithSimSeed(seed),
		game.WithSimPolicy(policy),
		game.WithPilot(pilot),
	)
	reporter := game.NewSimReporter(0)
	var peak uint32
	for i := 0; i < ticks; i++ {
		ts.Step()
		peak = max(peak, ts.World.Player.Score)
		if ts.World.Tick%game.ReferenceUPS == 0 {
			reporter.Collect(ts.World)
		}
		if rec != nil {
			if err := rec.Record(ts.World); err != nil {
				_ = rec.Close()
				return runStats{}, err
			}
		}
	}
	if rec != nil {
		if err := rec.Close(); err != nil {
			return runStats{}, err
		}
	}
	reporter.Collect(ts.World)

	entries := ts.SimLog.Entries()
	return runStats{
		runIndex:       runIndex,
		seed:           seed,
		ticks:          ticks,
		firstKillTick:  firstTick(entries, game.CatCombat, game.KeyEnemyKilled),
		firstDeathTick: firstTick(entries, game.CatCombat, game.KeyPlayerDeath),
		shots:          ts.SimLog.CountCategory(game.CatFire, game.KeyBulletFired),
		spawns:         ts.SimLog.CountCategory(game.CatSpawn, game.KeyEnemySpawn),
		retries:        ts.SimLog.CountCategory(game.CatSpawn, game.KeySpawnRetry),
		kills:          ts.World.Kills,
		deaths:         ts.World.Deaths,
		finalScore:     ts.World.Player.Score,
		peakScore:      peak,
		windowSummary:  reporter.WindowSummary(),
	}, nil
}

func firstTick(entries []game.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// accuracy is the share of shots that killed something.
func accuracy(rs runStats) float64 {
	if rs.shots == 0 {
		return 0
	}
	return float64(rs.kills) / float64(rs.shots)
}

// classifyRun labels how the pilot fared against the spawner.
func classifyRun(rs runStats) (string, string) {
	switch {
	case rs.kills == 0 && rs.deaths == 0:
		return "quiet", "no_contact"
	case rs.deaths > rs.kills:
		return "outmatched", fmt.Sprintf("deaths=%d>kills=%d", rs.deaths, rs.kills)
	case rs.kills >= 3*max(rs.deaths, 1):
		return "dominant", fmt.Sprintf("kills=%d>=3x_deaths=%d", rs.kills, rs.deaths)
	}
	return "even", fmt.Sprintf("kills=%d deaths=%d", rs.kills, rs.deaths)
}

func printRun(rs runStats) {
	label, reason := classifyRun(rs)
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_kill=%d first_death=%d\n", rs.firstKillTick, rs.firstDeathTick)
	fmt.Printf("event_totals: shots=%d spawns=%d spawn_retries=%d kills=%d deaths=%d\n",
		rs.shots, rs.spawns, rs.retries, rs.kills, rs.deaths)
	fmt.Printf("score: final=%d peak=%d accuracy=%.1f%%\n", rs.finalScore, rs.peakScore, accuracy(rs)*100)
	fmt.Printf("outcome: %s (%s)\n", label, reason)
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalShots := 0
	totalKills := 0
	totalDeaths := 0
	totalSpawns := 0
	totalRetries := 0
	killTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}
	var scores []int

	for _, rs := range all {
		totalShots += rs.shots
		totalKills += rs.kills
		totalDeaths += rs.deaths
		totalSpawns += rs.spawns
		totalRetries += rs.retries
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		label, _ := classifyRun(rs)
		outcomes[label]++
		scores = append(scores, int(rs.finalScore))
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: shots=%.1f spawns=%.1f spawn_retries=%.1f kills=%.1f deaths=%.1f\n",
		avg(totalShots, len(all)), avg(totalSpawns, len(all)), avg(totalRetries, len(all)),
		avg(totalKills, len(all)), avg(totalDeaths, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_death=%s\n",
		avgTickString(killTicks), avgTickString(deathTicks))
	fmt.Printf("final_score: median=%s\n", medianString(scores))
	fmt.Printf("outcomes: %s\n", joinCounts(outcomes))
}

func printTrace(path string) error {
	tr, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = tr.Close() }()
	sum, err := trace.Summarize(tr)
	if err != nil {
		return err
	}
	fmt.Println("\n=== Trace (run 1) ===")
	fmt.Printf("file=%s seed=%d policy=%s every=%d\n", path, tr.Header.Seed, tr.Header.Policy, tr.Header.Every)
	fmt.Printf("frames=%d ticks=%d..%d max_enemies=%d max_bullets=%d max_particles=%d final_score=%d\n",
		sum.Frames, sum.FirstTick, sum.LastTick, sum.MaxEnemies, sum.MaxBullets, sum.MaxParticles, sum.FinalScore)
	return nil
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

func medianString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return fmt.Sprintf("%d", sorted[mid])
	}
	return fmt.Sprintf("%.1f", float64(sorted[mid-1]+sorted[mid])/2)
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}

func pilotNames() string {
	names := make([]string, 0, len(pilots))
	for k := range pilots {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
