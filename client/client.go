package client

import (
	"blockfall/highscore"
	"blockfall/tetris"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eiannone/keyboard"
)

// ScoresShown is the number of entries on the scores screen.
const ScoresShown = 10

// ErrGameAborted is shown when a game stops without reaching game over.
var ErrGameAborted = errors.New("the game stopped unexpectedly")

type clientState int

const (
	lobby clientState = iota
	scores
	playing
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

type tetrisGame interface {
	Start() error
	GetUpdate() <-chan tetris.Snapshot
	GetResult() <-chan tetris.Result
	Action(tetris.Action)
	Stop()
	Recording() tetris.Recording
}

type renderer interface {
	game(*tetris.Snapshot)
	lobby([]string)
	scores([]highscore.Entry)
	reset()
}

type Client struct {
	newGame func(tetris.Config) tetrisGame
	render  renderer
	options *Options
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
	state   *state
	doneCh  chan struct{}

	game   tetrisGame
	paused atomic.Bool
}

type Options struct {
	NoGhost bool
	Name    string
	// Config is read every time a game starts from the lobby.
	Config func() (tetris.Config, error)
	// Scores feeds the scores screen.
	Scores func(ctx context.Context, n int) ([]highscore.Entry, error)
	// OnGameOver receives every finished game.
	OnGameOver func(tetris.Result, tetris.Recording)
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to load game config: %w", err)
	}
	r, err := newRender(l, o.NoGhost, o.Name, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		newGame: func(cfg tetris.Config) tetrisGame { return tetris.NewGame(cfg, l) },
		render:  r,
		options: o,
		logger:  l,
		kbCh:    kb,
		state:   &state{current: lobby},
		doneCh:  make(chan struct{}),
	}, nil
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.reset()
	c.render.game(nil)
	c.render.lobby(defaultLobby())
	var wg sync.WaitGroup
	wg.Add(1)
	go c.listenKB(&wg)
	wg.Wait()
}

// Close releases the keyboard.
func (c *Client) Close() error { return keyboard.Close() }

func (c *Client) listenKB(wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(c.doneCh)
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			if c.state.get() == playing {
				c.game.Stop()
			}
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.play()
			case 's':
				c.showScores()
			case 'q':
				return
			default:
				continue
			}
		case scores:
			if event.Rune == 'b' {
				c.state.set(lobby)
				c.render.game(nil)
				c.render.lobby(defaultLobby())
			}
		case playing:
			var a tetris.Action
			switch {
			case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
				a = tetris.SoftDrop
			case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
				a = tetris.MoveLeft
			case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
				a = tetris.MoveRight
			case event.Key == keyboard.KeyArrowUp || event.Rune == 'e':
				a = tetris.RotateCW
			case event.Rune == 'q':
				a = tetris.RotateCCW
			case event.Key == keyboard.KeySpace:
				a = tetris.HardDrop
			case event.Rune == 'p':
				a = tetris.Pause
				if c.paused.Load() {
					a = tetris.Resume
				}
			default:
				continue
			}
			c.game.Action(a)
		}
	}
}

func (c *Client) play() {
	cfg, err := c.options.Config()
	if err != nil {
		c.logger.Error("unable to load game config", slog.String("error", err.Error()))
		c.render.lobby(errorMessage(err))
		return
	}
	g := c.newGame(cfg)
	if err := g.Start(); err != nil {
		c.logger.Error("unable to start game", slog.String("error", err.Error()))
		c.render.lobby(errorMessage(err))
		return
	}
	c.game = g
	c.paused.Store(false)
	c.state.set(playing)
	c.render.reset()
	go c.listenTetris(g)
}

func (c *Client) listenTetris(g tetrisGame) {
	for {
		select {
		case u, ok := <-g.GetUpdate():
			if !ok {
				select {
				case <-c.doneCh:
				default:
					c.logger.Error("game aborted")
					c.state.set(lobby)
					c.render.lobby(errorMessage(ErrGameAborted))
				}
				return
			}
			c.paused.Store(u.Paused)
			c.render.game(&u)
			if !u.GameOver {
				continue
			}
			r := <-g.GetResult()
			if c.options.OnGameOver != nil {
				c.options.OnGameOver(r, g.Recording())
			}
			c.state.set(lobby)
			c.render.lobby(gameOver(r))
			return
		case <-c.doneCh:
			return
		}
	}
}

func (c *Client) showScores() {
	if c.options.Scores == nil {
		c.state.set(scores)
		c.render.scores(nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := c.options.Scores(ctx, ScoresShown)
	if err != nil {
		c.logger.Error("unable to load scores", slog.String("error", err.Error()))
		c.render.lobby(errorMessage(err))
		return
	}
	c.state.set(scores)
	c.render.scores(entries)
}
