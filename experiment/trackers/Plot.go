package trackers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
)

// Plot renders the score of each game and the running mean score as
// an HTML line chart. The chart is re-rendered every N episodes and
// when saved.
type Plot struct {
	filename string
	every    int

	scores []float64
	means  []float64
}

// NewPlot returns a new Plot which renders to filename every n
// episodes. If n <= 0, the chart is only rendered on Save.
func NewPlot(filename string, n int) *Plot {
	return &Plot{
		filename: filename,
		every:    n,
	}
}

// Track records the score of an episode and its running mean
func (p *Plot) Track(e tracker.Episode) error {
	p.scores = append(p.scores, float64(e.Score))
	p.means = append(p.means, stat.Mean(p.scores, nil))

	if p.every > 0 && len(p.scores)%p.every == 0 {
		if err := p.render(); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}

// Save renders the chart
func (p *Plot) Save() error {
	if err := p.render(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Means returns the running mean score after each episode
func (p *Plot) Means() []float64 {
	return p.means
}

func (p *Plot) render() error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "snakelearn",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Training...",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Number of Games"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
	)

	games := make([]string, len(p.scores))
	scores := make([]opts.LineData, len(p.scores))
	means := make([]opts.LineData, len(p.means))
	for i := range p.scores {
		games[i] = strconv.Itoa(i + 1)
		scores[i] = opts.LineData{Value: p.scores[i]}
		means[i] = opts.LineData{Value: p.means[i]}
	}

	line.SetXAxis(games).
		AddSeries("Score", scores).
		AddSeries("Mean Score", means)

	if err := os.MkdirAll(filepath.Dir(p.filename), 0o755); err != nil {
		return fmt.Errorf("render: could not create directory: %w", err)
	}
	f, err := os.Create(p.filename)
	if err != nil {
		return fmt.Errorf("render: could not create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("render: could not render chart: %w", err)
	}
	return nil
}
