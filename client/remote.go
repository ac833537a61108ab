package client

import (
	"blockfall/highscore"
	"blockfall/proto"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ErrNoLeaderboard is returned when no leaderboard address is configured.
var ErrNoLeaderboard = errors.New("no leaderboard configured")

// RemoteClient talks to a leaderboard server. The connection is created on
// first use.
type RemoteClient struct {
	Addr    string
	Timeout time.Duration
	Logger  *slog.Logger

	dialOpts []grpc.DialOption
	conn     *grpc.ClientConn
	lc       proto.LeaderboardClient
	mu       sync.Mutex
}

func NewRemoteClient(addr string, timeout time.Duration, l *slog.Logger, opts ...grpc.DialOption) *RemoteClient {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &RemoteClient{
		Addr:     addr,
		Timeout:  timeout,
		Logger:   l,
		dialOpts: append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...),
	}
}

func (r *RemoteClient) client() (proto.LeaderboardClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Addr == "" {
		return nil, ErrNoLeaderboard
	}
	if r.lc != nil {
		return r.lc, nil
	}
	conn, err := grpc.NewClient(r.Addr, r.dialOpts...)
	if err != nil {
		r.Logger.Error("unable to create gRPC client", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create leaderboard client: %w", err)
	}
	r.conn = conn
	r.lc = proto.NewLeaderboardClient(conn)
	return r.lc, nil
}

func (r *RemoteClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Submit sends e to the leaderboard and returns the ID it got.
func (r *RemoteClient) Submit(ctx context.Context, e highscore.Entry) (string, error) {
	lc, err := r.client()
	if err != nil {
		return "", err
	}
	in, err := proto.EntryToStruct(e)
	if err != nil {
		return "", err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	id, err := lc.Submit(ctx, in)
	if err != nil {
		return "", r.callError("Submit", err)
	}
	return id.GetValue(), nil
}

// Top returns the n best entries of the leaderboard.
func (r *RemoteClient) Top(ctx context.Context, n int) ([]highscore.Entry, error) {
	lc, err := r.client()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := lc.Top(ctx, wrapperspb.Int32(int32(n))) //nolint:gosec
	if err != nil {
		return nil, r.callError("Top", err)
	}
	return proto.ListToEntries(l)
}

func (r *RemoteClient) callError(method string, err error) error {
	st, ok := status.FromError(err)
	switch {
	case ok && st.Code() == codes.Canceled:
		r.Logger.Debug(method+" canceled", slog.String("msg", st.Message()))
	case ok && st.Code() == codes.DeadlineExceeded:
		r.Logger.Debug(method+" deadline exceeded", slog.String("msg", st.Message()))
	default:
		r.Logger.Error(method+" failed", slog.String("error", err.Error()))
	}
	return fmt.Errorf("leaderboard %s: %w", method, err)
}

func (r *RemoteClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn, r.lc = nil, nil
	return err
}
