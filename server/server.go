package server

import (
	"blockfall/highscore"
	"blockfall/proto"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// MaxTop caps the number of entries a single Top call returns.
const MaxTop = 100

type leaderboardServer struct {
	proto.UnimplementedLeaderboardServer
	store  highscore.Store
	logger *slog.Logger
}

func New(store highscore.Store, l *slog.Logger) proto.LeaderboardServer {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &leaderboardServer{store: store, logger: l}
}

func (s *leaderboardServer) Submit(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	e, err := proto.StructToEntry(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	// the server owns identity and time of every entry.
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	if err := s.store.Add(ctx, e); err != nil {
		if errors.Is(err, highscore.ErrInvalidEntry) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.Error("unable to store entry", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "unable to store entry")
	}
	s.logger.Info("score submitted",
		slog.String("id", e.ID),
		slog.String("name", e.Name),
		slog.Int("score", e.Score),
	)
	return wrapperspb.String(e.ID), nil
}

func (s *leaderboardServer) Top(ctx context.Context, in *wrapperspb.Int32Value) (*structpb.ListValue, error) {
	n := int(in.GetValue())
	if n <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "top needs a positive count, got %d", n)
	}
	entries, err := s.store.Top(ctx, min(n, MaxTop))
	if err != nil {
		s.logger.Error("unable to read entries", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "unable to read entries")
	}
	l, err := proto.EntriesToList(entries)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return l, nil
}

// Serve runs the leaderboard on lis until ctx is done, then stops gracefully.
func Serve(ctx context.Context, lis net.Listener, store highscore.Store, l *slog.Logger) error {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s := grpc.NewServer()
	proto.RegisterLeaderboardServer(s, New(store, l))

	doneCh := make(chan struct{})
	defer close(doneCh)
	go func() {
		select {
		case <-ctx.Done():
			l.Info("stopping leaderboard")
			s.GracefulStop()
		case <-doneCh:
		}
	}()

	l.Info("serving leaderboard", slog.String("addr", lis.Addr().String()))
	// stopping before Serve runs leaves ErrServerStopped, not a failure.
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}
