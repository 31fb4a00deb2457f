package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/snakelearn/agent/qnet"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/experiment"
)

// Flags holds every setting of a run. A Flags can be loaded from a JSON
// file with --config, in which case only the command line flags that
// were explicitly set override the file.
type Flags struct {
	Seed     uint64
	Episodes int
	SavePath string
	ModelDir string
	LogLevel string
	Color    bool

	Experiment experiment.Config
	Model      ModelFlags
	Game       GameFlags

	Load            bool
	Plot            bool
	PlotEvery       int
	Live            bool
	Progress        bool
	CheckpointEvery int
	RenderDir       string
}

// ModelFlags describes the Q-network
type ModelFlags struct {
	Hidden       []int
	Activation   string
	LearningRate float64
}

// GameFlags describes the snake board
type GameFlags struct {
	Width      int
	Height     int
	BlockSize  int
	FrameLimit int
}

// DefaultFlags returns the default settings
func DefaultFlags() *Flags {
	return &Flags{
		Seed:       0,
		Episodes:   0,
		SavePath:   "results",
		ModelDir:   "model",
		LogLevel:   "info",
		Color:      true,
		Experiment: experiment.DefaultConfig(),
		Model: ModelFlags{
			Hidden:       []int{qnet.DefaultHidden},
			Activation:   "relu",
			LearningRate: qnet.DefaultLearningRate,
		},
		Game: GameFlags{
			Width:      snake.DefaultWidth,
			Height:     snake.DefaultHeight,
			BlockSize:  snake.DefaultBlockSize,
			FrameLimit: snake.DefaultFrameLimit,
		},
		PlotEvery: 10,
	}
}

// ModelPath returns the path of the model checkpoint
func (f *Flags) ModelPath() string {
	return filepath.Join(f.ModelDir, "model.gob")
}

// SnakeConfig returns the configuration of the snake board
func (f *Flags) SnakeConfig() snake.Config {
	return snake.Config{
		Width:      f.Game.Width,
		Height:     f.Game.Height,
		BlockSize:  f.Game.BlockSize,
		FrameLimit: f.Game.FrameLimit,
		Seed:       f.Seed + gameSeedOffset,
	}
}

// Record saves the settings as JSON in the save path
func (f *Flags) Record() error {
	if err := os.MkdirAll(f.SavePath, 0o755); err != nil {
		return fmt.Errorf("record: could not create save path: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("record: could not encode flags: %w", err)
	}

	path := filepath.Join(f.SavePath, "config.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("record: could not write config: %w", err)
	}
	return nil
}

// loadFlags reads Flags from a JSON file, starting from the defaults
func loadFlags(path string) (*Flags, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadFlags: could not read config: %w", err)
	}

	f := DefaultFlags()
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("loadFlags: could not decode config: %w", err)
	}
	return f, nil
}

var (
	flags      *Flags = DefaultFlags()
	configPath string

	seed     uint64
	episodes int
	savePath string
	modelDir string
	logLevel string
	color    bool

	maxMemory    int
	batchSize    int
	epsilonStart int
	epsilonRange int
	gamma        float64

	hidden       []int
	activation   string
	learningRate float64

	width      int
	height     int
	blockSize  int
	frameLimit int

	load            bool
	plot            bool
	plotEvery       int
	live            bool
	progress        bool
	checkpointEvery int
	renderDir       string
)

// AddFlags adds the flags shared by every command
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON file to load settings from")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Seed for all sources of randomness")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes, 0 runs until interrupted")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&modelDir, "model-dir", flags.ModelDir, "Directory of the model checkpoint")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", flags.LogLevel, "Log level")
	cmd.PersistentFlags().BoolVar(&color, "color", flags.Color, "Highlight record-breaking games")

	cmd.PersistentFlags().IntSliceVar(&hidden, "hidden", flags.Model.Hidden, "Hidden layer sizes")
	cmd.PersistentFlags().StringVar(&activation, "activation", flags.Model.Activation, "Hidden layer activation")

	cmd.PersistentFlags().IntVar(&width, "width", flags.Game.Width, "Board width in pixels")
	cmd.PersistentFlags().IntVar(&height, "height", flags.Game.Height, "Board height in pixels")
	cmd.PersistentFlags().IntVar(&blockSize, "block-size", flags.Game.BlockSize, "Block size in pixels")
	cmd.PersistentFlags().IntVar(&frameLimit, "frame-limit", flags.Game.FrameLimit, "Frames per snake segment before an episode is cut off")
}

// addTrainFlags adds the flags of the train command
func addTrainFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&maxMemory, "max-memory", flags.Experiment.MaxMemory, "Replay memory capacity")
	cmd.Flags().IntVar(&batchSize, "batch-size", flags.Experiment.BatchSize, "Replay batch size")
	cmd.Flags().IntVar(&epsilonStart, "epsilon-start", flags.Experiment.EpsilonStart, "Exploration after zero games")
	cmd.Flags().IntVar(&epsilonRange, "epsilon-range", flags.Experiment.EpsilonRange, "Exploration draw range")
	cmd.Flags().Float64Var(&gamma, "gamma", flags.Experiment.Gamma, "Discount factor")
	cmd.Flags().Float64Var(&learningRate, "lr", flags.Model.LearningRate, "Learning rate")

	cmd.Flags().BoolVar(&load, "load", flags.Load, "Continue from the saved model")
	cmd.Flags().BoolVar(&plot, "plot", flags.Plot, "Plot scores to an HTML chart")
	cmd.Flags().IntVar(&plotEvery, "plot-every", flags.PlotEvery, "Episodes between chart updates")
	cmd.Flags().BoolVar(&live, "live", flags.Live, "Show a live status line")
	cmd.Flags().BoolVar(&progress, "progress", flags.Progress, "Show a progress bar, requires --episodes")
	cmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", flags.CheckpointEvery, "Episodes between numbered model checkpoints, 0 disables")
}

// addPlayFlags adds the flags of the play command
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&renderDir, "render-dir", flags.RenderDir, "Directory to render a PNG per step to")
}

// UpdateFlags copies the parsed command line flags into the settings.
// If a config file was given, it is loaded first and only flags set on
// the command line override it.
func UpdateFlags(cmd *cobra.Command) error {
	if configPath != "" {
		loaded, err := loadFlags(configPath)
		if err != nil {
			return fmt.Errorf("updateFlags: %w", err)
		}
		flags = loaded
	}

	set := func(name string, apply func()) {
		if f := cmd.Flags().Lookup(name); f == nil {
			return
		}
		if configPath == "" || cmd.Flags().Changed(name) {
			apply()
		}
	}

	set("seed", func() { flags.Seed = seed })
	set("episodes", func() { flags.Episodes = episodes })
	set("save-path", func() { flags.SavePath = savePath })
	set("model-dir", func() { flags.ModelDir = modelDir })
	set("log-level", func() { flags.LogLevel = logLevel })
	set("color", func() { flags.Color = color })

	set("max-memory", func() { flags.Experiment.MaxMemory = maxMemory })
	set("batch-size", func() { flags.Experiment.BatchSize = batchSize })
	set("epsilon-start", func() { flags.Experiment.EpsilonStart = epsilonStart })
	set("epsilon-range", func() { flags.Experiment.EpsilonRange = epsilonRange })
	set("gamma", func() { flags.Experiment.Gamma = gamma })

	set("hidden", func() { flags.Model.Hidden = hidden })
	set("activation", func() { flags.Model.Activation = activation })
	set("lr", func() { flags.Model.LearningRate = learningRate })

	set("width", func() { flags.Game.Width = width })
	set("height", func() { flags.Game.Height = height })
	set("block-size", func() { flags.Game.BlockSize = blockSize })
	set("frame-limit", func() { flags.Game.FrameLimit = frameLimit })

	set("load", func() { flags.Load = load })
	set("plot", func() { flags.Plot = plot })
	set("plot-every", func() { flags.PlotEvery = plotEvery })
	set("live", func() { flags.Live = live })
	set("progress", func() { flags.Progress = progress })
	set("checkpoint-every", func() { flags.CheckpointEvery = checkpointEvery })
	set("render-dir", func() { flags.RenderDir = renderDir })

	return nil
}
