package stream_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/borud/broker"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/lexer"
	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/parser"
	"github.com/perbu/scpl/pkg/stream"
)

func compilePredicate(t *testing.T, expr string, env operand.Env) ast.Node {
	t.Helper()
	tokens, err := lexer.Tokenise(expr)
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	atoms, _, err := parser.Parse(tokens, env)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(atoms) != 1 {
		t.Fatalf("want 1 atom, got %d", len(atoms))
	}
	return atoms[0]
}

func newTestBroker() *broker.Broker {
	return broker.New(broker.Config{
		DownStreamChanLen:  16,
		PublishChanLen:     16,
		SubscribeChanLen:   16,
		UnsubscribeChanLen: 16,
		DeliveryTimeout:    time.Second,
	})
}

func TestWatcherPublishesOnlyMatchingLines(t *testing.T) {
	b := newTestBroker()
	env := operand.Env{"n": operand.KindInteger}
	atom := compilePredicate(t, "n > 1", env)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	watcher := stream.New(b, atom, env, "/lines", "/matches", logger)
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	matches := make(chan stream.Match, 8)
	if err := stream.Subscribe(b, "/matches", logger, func(m stream.Match) { matches <- m }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	input := strings.NewReader("{\"n\": 5}\n{\"n\": 0}\n{\"n\": 2}\n")
	if err := stream.Pump(ctx, b, "/lines", input); err != nil {
		t.Fatalf("Pump: %v", err)
	}

	var got []stream.Match
	timeout := time.After(time.Second)
collect:
	for len(got) < 2 {
		select {
		case m := <-matches:
			got = append(got, m)
		case <-timeout:
			break collect
		}
	}

	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (lines 1 and 3, not line 2 where n=0)", len(got))
	}
	lines := map[int]bool{got[0].Line: true, got[1].Line: true}
	if !lines[1] || !lines[3] {
		t.Errorf("matched lines = %v, want {1, 3}", lines)
	}
}

func TestWatcherSkipsMalformedLine(t *testing.T) {
	b := newTestBroker()
	env := operand.Env{"n": operand.KindInteger}
	atom := compilePredicate(t, "n > 1", env)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	watcher := stream.New(b, atom, env, "/lines2", "/matches2", logger)
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	matches := make(chan stream.Match, 4)
	if err := stream.Subscribe(b, "/matches2", logger, func(m stream.Match) { matches <- m }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	input := strings.NewReader("not-json\n{\"n\": 3}\n")
	if err := stream.Pump(ctx, b, "/lines2", input); err != nil {
		t.Fatalf("Pump: %v", err)
	}

	select {
	case m := <-matches:
		if m.Line != 2 {
			t.Errorf("matched line = %d, want 2 (the malformed first line should be skipped silently)", m.Line)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a match for the well-formed second line")
	}
}

func TestPumpRespectsContextCancellation(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := strings.NewReader("{\"n\": 1}\n{\"n\": 2}\n")
	err := stream.Pump(ctx, b, "/lines3", input)
	if err == nil {
		t.Fatal("expected Pump to report context cancellation")
	}
}
