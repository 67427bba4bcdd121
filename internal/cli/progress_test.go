package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/workload"
)

func TestPullProgress_SumsLayers(t *testing.T) {
	var buf bytes.Buffer
	p := newPullProgress(&buf)

	p.Update(workload.PullProgress{Status: "Pulling from fedirz/faster-whisper-server"})
	assert.Nil(t, p.bar)

	p.Update(workload.PullProgress{ID: "a", Status: "Downloading", Current: 10, Total: 100})
	p.Update(workload.PullProgress{ID: "b", Status: "Downloading", Current: 50, Total: 300})
	require.NotNil(t, p.bar)
	assert.Equal(t, int64(400), p.bar.GetMax64())

	p.Update(workload.PullProgress{ID: "a", Status: "Pull complete"})
	assert.Equal(t, int64(100), p.layers["a"].Current)

	p.Update(workload.PullProgress{ID: "c", Status: "Already exists"})
	_, tracked := p.layers["c"]
	assert.False(t, tracked)

	p.Finish()
	assert.Nil(t, p.bar)
}

func TestPullProgress_NilFinish(t *testing.T) {
	var p *pullProgress
	assert.NotPanics(t, p.Finish)
}
