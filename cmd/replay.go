package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"memchat/internal/engine"
	"memchat/internal/fixtures"
	"memchat/internal/progress"
)

var replayCmd = &cobra.Command{
	Use:   "replay <glob>...",
	Short: "Replay conversation fixtures through the engine",
	Long: `Reads JSONL fixture files matching the given globs and replays each
fixture's user messages through a fresh session, printing per-session
statistics at the end. Useful for exercising clarification and
summarization behavior against recorded conversations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Bool("fail-fast", false, "stop at the first failed turn")
	rootCmd.AddCommand(replayCmd)
}

type replayStat struct {
	fixture        string
	sessionID      string
	turns          int
	failed         int
	tokens         int
	clarifications int
	summarizedTo   int
}

func runReplay(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()
	failFast, _ := cmd.Flags().GetBool("fail-fast")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var paths []string
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		fmt.Println("No fixture files matched.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Matched %d fixture file(s)\n", len(paths))
	}

	var fixes []fixtures.Fixture
	for _, path := range paths {
		loaded, err := fixtures.Load(path)
		if err != nil {
			return fmt.Errorf("loading fixtures from %s: %w", path, err)
		}
		fixes = append(fixes, loaded...)
	}
	if len(fixes) == 0 {
		fmt.Println("No fixtures found in the matched files.")
		return nil
	}

	eng, database, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	reporter := progress.NewReporter()
	reporter.Start(len(fixes))

	var stats []replayStat
	failedTurns := 0
	for i, fix := range fixes {
		reporter.Update(i+1, fix.Name)

		stat, err := replayFixture(ctx, eng, fix, failFast)
		stats = append(stats, stat)
		failedTurns += stat.failed
		if err != nil {
			reporter.Finish()
			return err
		}
	}
	reporter.Finish()

	printReplayStats(stats, time.Since(start))
	if failedTurns > 0 {
		return fmt.Errorf("%d turn(s) failed", failedTurns)
	}
	return nil
}

// replayFixture runs one fixture's user messages through a fresh session.
// With failFast a turn error aborts the whole replay; otherwise it is
// counted and the remaining turns still run.
func replayFixture(ctx context.Context, eng *engine.Engine, fix fixtures.Fixture, failFast bool) (replayStat, error) {
	stat := replayStat{fixture: fix.Name}

	sessionID := ""
	for _, msg := range fix.UserMessages() {
		stat.turns++
		result, err := eng.Run(ctx, sessionID, msg.Content)
		if err != nil {
			stat.failed++
			if failFast {
				return stat, fmt.Errorf("fixture %s turn %d: %w", fix.Name, stat.turns, err)
			}
			continue
		}
		sessionID = result.SessionID
		stat.sessionID = result.SessionID
		stat.tokens = result.State.CurrentTokenCount
		stat.clarifications = result.State.ClarificationCount
		stat.summarizedTo = result.State.Summary.MessageRangeSummarized.To
	}
	return stat, nil
}

func printReplayStats(stats []replayStat, elapsed time.Duration) {
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIXTURE\tSESSION\tTURNS\tFAILED\tTOKENS\tCLARIF\tSUMMARIZED")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			s.fixture, shortSessionID(s.sessionID), s.turns, s.failed,
			s.tokens, s.clarifications, s.summarizedTo)
	}
	w.Flush()
	fmt.Printf("\nReplayed %d fixture(s) in %s\n", len(stats), elapsed.Round(time.Millisecond))
}

func shortSessionID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
