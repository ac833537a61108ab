package server

import (
	"blockfall/highscore"
	"blockfall/proto"
	"context"
	"log"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx, highscore.NewMemoryStore())
	defer closer()

	submitted := []highscore.Entry{
		{Name: "ana", Score: 400, Lines: 4, Seed: 1},
		{Name: "bob", Score: 1200, Lines: 12, Level: 1, Seed: -9},
		{Name: "cid", Score: 100, Lines: 2},
	}
	ids := map[string]bool{}
	for _, e := range submitted {
		in, err := proto.EntryToStruct(e)
		if err != nil {
			t.Fatal(err)
		}
		id, err := client.Submit(ctx, in)
		if err != nil {
			t.Fatalf("error calling Submit: %v", err)
		}
		if id.GetValue() == "" || ids[id.GetValue()] {
			t.Errorf("wanted a new id, got %q", id.GetValue())
		}
		ids[id.GetValue()] = true
	}

	list, err := client.Top(ctx, wrapperspb.Int32(2))
	if err != nil {
		t.Fatalf("error calling Top: %v", err)
	}
	top, err := proto.ListToEntries(list)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("wanted 2 entries, got %d", len(top))
	}
	if top[0].Name != "bob" || top[0].Seed != -9 || top[0].Level != 1 {
		t.Errorf("wanted bob first, got %+v", top[0])
	}
	if top[1].Name != "ana" {
		t.Errorf("wanted ana second, got %+v", top[1])
	}
	if !ids[top[0].ID] || top[0].CreatedAt.IsZero() {
		t.Errorf("wanted the server to assign id and time, got %+v", top[0])
	}
}

func TestLeaderboardErrors(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx, highscore.NewMemoryStore())
	defer closer()

	t.Run("entry without name", func(t *testing.T) {
		in, _ := proto.EntryToStruct(highscore.Entry{Score: 10})
		_, err := client.Submit(ctx, in)
		if got := status.Code(err); got != codes.InvalidArgument {
			t.Errorf("wanted %v, got %v", codes.InvalidArgument, got)
		}
	})

	t.Run("top without count", func(t *testing.T) {
		_, err := client.Top(ctx, wrapperspb.Int32(0))
		if got := status.Code(err); got != codes.InvalidArgument {
			t.Errorf("wanted %v, got %v", codes.InvalidArgument, got)
		}
	})
}

func TestServe(t *testing.T) {
	lis := bufconn.Listen(1024 * 1024)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Serve(ctx, lis, highscore.NewMemoryStore(), nil) }()
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("wanted a clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for the server to stop")
	}
}

func testServer(ctx context.Context, store highscore.Store) (proto.LeaderboardClient, func()) {
	buffer := 1024 * 1024
	lis := bufconn.Listen(buffer)

	s := grpc.NewServer()
	proto.RegisterLeaderboardServer(s, New(store, nil))
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Printf("unable to serve: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Printf("error connecting to server: %v", err)
	}

	closer := func() {
		if err := lis.Close(); err != nil {
			log.Printf("error closing listener: %v", err)
		}
		s.Stop()
	}

	return proto.NewLeaderboardClient(conn), closer
}
