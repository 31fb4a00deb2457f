package trackers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
)

var (
	_ tracker.Tracker = &Series{}
	_ tracker.Tracker = &Logger{}
	_ tracker.Tracker = &Plot{}
	_ tracker.Tracker = &Live{}
	_ tracker.Tracker = &Progress{}
)

var episodes = []tracker.Episode{
	{Index: 1, Score: 1, Record: 1, Steps: 30, Reward: 0, NewRecord: true},
	{Index: 2, Score: 0, Record: 1, Steps: 12, Reward: -10},
	{Index: 3, Score: 3, Record: 3, Steps: 80, Reward: 20, NewRecord: true},
}

func TestSeriesSaveLoad(t *testing.T) {
	dir := t.TempDir()
	scores := NewScores(filepath.Join(dir, "data", "scores.gob"))
	returns := NewReturn(filepath.Join(dir, "data", "return.gob"))
	lengths := NewEpisodeLength(filepath.Join(dir, "data", "length.gob"))
	all := tracker.Multi{scores, returns, lengths}

	for _, e := range episodes {
		require.NoError(t, all.Track(e))
	}
	require.NoError(t, all.Save())

	for filename, want := range map[string][]float64{
		"scores.gob": {1, 0, 3},
		"return.gob": {0, -10, 20},
		"length.gob": {30, 12, 80},
	} {
		data, err := tracker.LoadData(filepath.Join(dir, "data", filename))
		require.NoError(t, err)
		require.Equal(t, want, data, filename)
	}
	require.Equal(t, []float64{1, 0, 3}, scores.Values())
}

func TestLoggerLines(t *testing.T) {
	var out bytes.Buffer
	var events bytes.Buffer
	logger := NewLogger(&out, false,
		zerolog.New(&events).Level(zerolog.DebugLevel))

	for _, e := range episodes {
		require.NoError(t, logger.Track(e))
	}
	require.NoError(t, logger.Save())

	require.Equal(t, "Game 1 Score 1 Record 1\n"+
		"Game 2 Score 0 Record 1\n"+
		"Game 3 Score 3 Record 3\n", out.String())
	require.Equal(t, 3, strings.Count(events.String(), "episode finished"))
}

func TestLoggerHighlightsRecords(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out, true, zerolog.Nop())

	require.NoError(t, logger.Track(episodes[1]))
	require.Equal(t, "Game 2 Score 0 Record 1\n", out.String())

	out.Reset()
	require.NoError(t, logger.Track(episodes[2]))
	require.Contains(t, out.String(), "Game 3 Score 3 Record 3")
	require.Contains(t, out.String(), "\x1b[")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestLoggerWriteError(t *testing.T) {
	logger := NewLogger(failingWriter{}, false, zerolog.Nop())
	require.Error(t, logger.Track(episodes[0]))
}

func TestPlot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "plots", "scores.html")
	plot := NewPlot(filename, 2)

	require.NoError(t, plot.Track(episodes[0]))
	_, err := os.Stat(filename)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Rendered every second episode
	require.NoError(t, plot.Track(episodes[1]))
	_, err = os.Stat(filename)
	require.NoError(t, err)

	require.NoError(t, plot.Track(episodes[2]))
	require.InDeltaSlice(t, []float64{1, 0.5, 4.0 / 3}, plot.Means(), 1e-12)

	require.NoError(t, plot.Save())
	html, err := os.ReadFile(filename)
	require.NoError(t, err)
	require.Contains(t, string(html), "Mean Score")
}

func TestLive(t *testing.T) {
	var out bytes.Buffer
	live := NewLive(&out)

	for _, e := range episodes {
		require.NoError(t, live.Track(e))
	}
	require.NoError(t, live.Save())
	require.Contains(t, out.String(),
		"games: 3  score: 3  record: 3  mean: 1.33")
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p, err := NewProgress(&out, 2)
	require.NoError(t, err)

	require.NoError(t, p.Track(episodes[0]))
	require.Contains(t, out.String(), "50.00%")

	require.NoError(t, p.Track(episodes[1]))
	require.Contains(t, out.String(), "100.00%")
	require.NoError(t, p.Save())

	_, err = NewProgress(&out, 0)
	require.Error(t, err)
}
