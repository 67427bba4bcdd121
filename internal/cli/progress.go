package cli

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/kbukum/localstt/workload"
)

// pullProgress renders image pull progress as a single byte bar summed
// over all layers. Only download progress counts; layers report their size
// once they start downloading, so the bar's maximum grows during the pull.
type pullProgress struct {
	out io.Writer

	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	layers map[string]workload.PullProgress
}

func newPullProgress(out io.Writer) *pullProgress {
	return &pullProgress{out: out, layers: make(map[string]workload.PullProgress)}
}

// Update is a workload.ProgressFunc.
func (p *pullProgress) Update(u workload.PullProgress) {
	if u.ID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	prev, seen := p.layers[u.ID]
	switch {
	case u.Status == "Downloading" && u.Total > 0:
		p.layers[u.ID] = u
	case seen && isLayerDone(u.Status):
		prev.Current = prev.Total
		p.layers[u.ID] = prev
	default:
		return
	}

	var current, total int64
	for _, l := range p.layers {
		current += l.Current
		total += l.Total
	}
	if total <= 0 {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetDescription("pulling inference image"),
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	p.bar.ChangeMax64(total)
	_ = p.bar.Set64(current)
}

// Finish clears the bar. Safe on a nil receiver and when no bar was drawn.
func (p *pullProgress) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func isLayerDone(status string) bool {
	switch status {
	case "Download complete", "Pull complete", "Already exists":
		return true
	}
	return false
}
