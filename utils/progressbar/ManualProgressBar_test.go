package progressbar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p, err := NewManualProgressBar(&out, 10, 4)
	require.NoError(t, err)

	start := p.startTime
	p.now = func() time.Time { return start.Add(90 * time.Second) }

	require.Equal(t, "|          | [0.00% | elapsed: 1m30s]", p.String())

	p.Increment()
	p.Increment()
	require.Equal(t, 0.5, p.Progress())
	require.Equal(t, "|█████     | [50.00% | elapsed: 1m30s]", p.String())

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	require.Equal(t, 1.0, p.Progress())

	require.NoError(t, p.Display())
	require.True(t, strings.HasPrefix(out.String(), "\n\033[1A\033[K|██████████|"))
}

func TestNewManualProgressBarErrors(t *testing.T) {
	_, err := NewManualProgressBar(&bytes.Buffer{}, 0, 4)
	require.Error(t, err)

	_, err = NewManualProgressBar(&bytes.Buffer{}, 10, 0)
	require.Error(t, err)
}
