package config

import (
	"blockfall/tetris"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const appDir = "blockfall"

// Gravity curves selectable with game.gravity.
const (
	CurveClassic  = "classic"
	CurveMarathon = "marathon"
)

type BoardConfig struct {
	Width       int `mapstructure:"width"`
	VisibleRows int `mapstructure:"visible_rows"`
	HiddenRows  int `mapstructure:"hidden_rows"`
}

type GameConfig struct {
	Gravity       string        `mapstructure:"gravity"`
	MinGravity    time.Duration `mapstructure:"min_gravity"`
	LockDelay     time.Duration `mapstructure:"lock_delay"`
	MaxLockResets int           `mapstructure:"max_lock_resets"`
	StartLevel    int           `mapstructure:"start_level"`
	LinesPerLevel int           `mapstructure:"lines_per_level"`
	// Seed 0 picks a new seed for every game.
	Seed    int64 `mapstructure:"seed"`
	Cascade bool  `mapstructure:"cascade"`
}

type LeaderboardConfig struct {
	Address string        `mapstructure:"address"`
	Listen  string        `mapstructure:"listen"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config holds all runtime configuration.
// Values are populated from .tetris.toml, TETRIS_* env vars, and CLI flags.
type Config struct {
	Player      string            `mapstructure:"player"`
	NoGhost     bool              `mapstructure:"no_ghost"`
	Board       BoardConfig       `mapstructure:"board"`
	Game        GameConfig        `mapstructure:"game"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	ScoresPath  string            `mapstructure:"scores_path"`
	ReplayDir   string            `mapstructure:"replay_dir"`
	LogFile     string            `mapstructure:"log_file"`
	LogLevel    string            `mapstructure:"log_level"`
	Verbose     bool              `mapstructure:"verbose"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	d := tetris.DefaultConfig()
	v.SetDefault("player", "player")
	v.SetDefault("no_ghost", false)
	v.SetDefault("board.width", d.Width)
	v.SetDefault("board.visible_rows", d.VisibleRows)
	v.SetDefault("board.hidden_rows", d.HiddenRows)
	v.SetDefault("game.gravity", CurveClassic)
	v.SetDefault("game.min_gravity", d.MinGravity)
	v.SetDefault("game.lock_delay", d.LockDelay)
	v.SetDefault("game.max_lock_resets", d.MaxLockResets)
	v.SetDefault("game.start_level", d.StartLevel)
	v.SetDefault("game.lines_per_level", d.LinesPerLevel)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.cascade", true)
	v.SetDefault("leaderboard.address", "")
	v.SetDefault("leaderboard.listen", ":9000")
	v.SetDefault("leaderboard.timeout", 5*time.Second)
	v.SetDefault("scores_path", "")
	v.SetDefault("replay_dir", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
}

// Load reads configuration from the global viper, applying built-in defaults
// for any values not set by config file, environment, or flags.
func Load() (Config, error) { return LoadFrom(viper.GetViper()) }

func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Tetris returns the rules of a new game. A zero seed is replaced by one
// derived from now.
func (c Config) Tetris(now time.Time) (tetris.Config, error) {
	t := tetris.Config{
		Width:         c.Board.Width,
		VisibleRows:   c.Board.VisibleRows,
		HiddenRows:    c.Board.HiddenRows,
		MinGravity:    c.Game.MinGravity,
		LockDelay:     c.Game.LockDelay,
		MaxLockResets: c.Game.MaxLockResets,
		StartLevel:    c.Game.StartLevel,
		LinesPerLevel: c.Game.LinesPerLevel,
		Seed:          c.Game.Seed,
		Cascade:       c.Game.Cascade,
	}
	switch c.Game.Gravity {
	case CurveClassic, "":
		t.Gravity = tetris.ClassicGravity()
	case CurveMarathon:
		t.Gravity = tetris.MarathonGravity()
	default:
		return t, fmt.Errorf("config: unknown gravity curve %q", c.Game.Gravity)
	}
	if t.Seed == 0 {
		t.Seed = now.UnixNano()
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("config: %w", err)
	}
	return t, nil
}

// Level is the slog level of log_level, or debug when verbose.
func (c Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// ScoresFile is scores_path, or scores.db in the user config dir.
func (c Config) ScoresFile() (string, error) {
	if c.ScoresPath != "" {
		return c.ScoresPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate scores: %w", err)
	}
	return filepath.Join(dir, appDir, "scores.db"), nil
}

// Replays is replay_dir, or replays/ in the user config dir.
func (c Config) Replays() (string, error) {
	if c.ReplayDir != "" {
		return c.ReplayDir, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate replays: %w", err)
	}
	return filepath.Join(dir, appDir, "replays"), nil
}
