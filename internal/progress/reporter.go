// Package progress reports replay progress on stderr, as a live bar on
// interactive terminals and as plain log lines everywhere else.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter receives progress updates during a fixture replay run.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter picks a reporter for the current environment: plain log lines
// under CI or when stderr is not a terminal, a progress bar otherwise.
func NewReporter() Reporter {
	if runningInCI() || !term.IsTerminal(int(os.Stderr.Fd())) {
		return &logReporter{}
	}
	return &barReporter{}
}

func runningInCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// barReporter renders a live progress bar.
type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("replaying"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(message)
	_ = r.bar.Set(current)
}

func (r *barReporter) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}

// logReporter prints one line per fixture, which keeps CI logs readable.
type logReporter struct {
	total int
}

func (r *logReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(os.Stderr, "replaying %d fixture(s)\n", total)
}

func (r *logReporter) Update(current int, message string) {
	fmt.Fprintf(os.Stderr, "  [%d/%d] %s\n", current, r.total, message)
}

func (r *logReporter) Finish() {
	fmt.Fprintln(os.Stderr, "replay finished")
}
