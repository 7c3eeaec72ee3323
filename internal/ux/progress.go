package ux

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/wavegate/internal/engine"
	"github.com/felixgeelhaar/wavegate/internal/planner"
)

// ProgressListener prints execution progress as waves run. The engine
// serializes listener callbacks, so no locking is needed here.
type ProgressListener struct {
	w      io.Writer
	styles Styles
}

// NewProgressListener writes styled progress lines to w.
func NewProgressListener(w io.Writer, styles Styles) *ProgressListener {
	return &ProgressListener{w: w, styles: styles}
}

func (p *ProgressListener) WaveStarted(wave planner.Wave) {
	header := fmt.Sprintf("Wave %d", wave.Index+1)
	fmt.Fprintf(p.w, "\n%s %s\n",
		p.styles.Header.Render(header),
		p.styles.Label.Render(fmt.Sprintf("(%d criteria, concurrency %d)", len(wave.Entries), wave.Concurrency)))
	for _, entry := range wave.Entries {
		if entry.Forced {
			fmt.Fprintf(p.w, "  %s %s\n", p.styles.Forced.Render("forced:"), entry.CriterionID)
		}
	}
}

func (p *ProgressListener) CriterionStarted(criterionID string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.styles.Label.Render("running"), criterionID)
}

func (p *ProgressListener) CriterionCompleted(outcome engine.Outcome) {
	badge := p.styles.StatusBadge(outcome.Success, outcome.Skipped)
	if outcome.Skipped {
		fmt.Fprintf(p.w, "  %s %s (dependency failed)\n", badge, outcome.CriterionID)
		return
	}
	fmt.Fprintf(p.w, "  %s %s (%dms, %d attempt(s))\n",
		badge, outcome.CriterionID, outcome.DurationMs, outcome.Attempts)
}

func (p *ProgressListener) WaveCompleted(wave planner.Wave, failed []string) {
	if len(failed) == 0 {
		fmt.Fprintf(p.w, "%s\n", p.styles.Success.Render(fmt.Sprintf("Wave %d complete", wave.Index+1)))
		return
	}
	fmt.Fprintf(p.w, "%s %v\n",
		p.styles.Failure.Render(fmt.Sprintf("Wave %d finished with failures:", wave.Index+1)), failed)
}

func (p *ProgressListener) Error(criterionID string, err error) {
	fmt.Fprintf(p.w, "  %s %s: %v\n", p.styles.Failure.Render("error"), criterionID, err)
}

var _ engine.Listener = (*ProgressListener)(nil)
