// Package stream pumps JSON-lines variable bags through a precompiled
// expression over a broker.Broker: raw lines are published on an input
// topic, a Watcher subscribes, evaluates each one, and republishes matches
// on an output topic — the same subscribe-then-republish wiring as the
// teacher's pkg/cache.Starter and pkg/vcl.Loader (both subscribe to
// "/process" and publish derived events back onto it).
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/borud/broker"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/varenv"
)

const publishTimeout = 1 * time.Second

// Line is published on the input topic for every line read from a source.
type Line struct {
	Number int
	Raw    json.RawMessage
}

// Match is published on the output topic for every Line whose evaluated
// expression yields Bool(true).
type Match struct {
	Line   int
	Vars   map[string]operand.Operand
	Result operand.Operand
}

// Watcher evaluates one precompiled atom against every Line it receives on
// an input topic, publishing a Match for each one that satisfies it.
type Watcher struct {
	broker   *broker.Broker
	atom     ast.Node
	env      operand.Env
	inTopic  string
	outTopic string
	logger   *slog.Logger
}

// New builds a Watcher bound to b: it subscribes to inTopic and publishes
// matches of atom (evaluated against vars decoded per env) to outTopic.
// Call Start before publishing any Line to inTopic.
func New(b *broker.Broker, atom ast.Node, env operand.Env, inTopic, outTopic string, logger *slog.Logger) *Watcher {
	return &Watcher{broker: b, atom: atom, env: env, inTopic: inTopic, outTopic: outTopic, logger: logger}
}

// Start subscribes the Watcher to its input topic and begins evaluating
// lines in a background goroutine, returning once the subscription is
// established.
func (w *Watcher) Start() error {
	sub, err := w.broker.Subscribe(w.inTopic)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", w.inTopic, err)
	}
	go func() {
		for msg := range sub.Messages() {
			line, ok := msg.Payload.(Line)
			if !ok {
				w.logger.Warn("unexpected payload on topic", "topic", w.inTopic)
				continue
			}
			w.evaluate(line)
		}
	}()
	return nil
}

func (w *Watcher) evaluate(line Line) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line.Raw, &raw); err != nil {
		w.logger.Warn("skipping malformed line", "line", line.Number, "error", err)
		return
	}
	vars, err := varenv.DecodeVars(raw, w.env)
	if err != nil {
		w.logger.Warn("skipping line with bad variable value", "line", line.Number, "error", err)
		return
	}

	result, err := w.atom.Eval(vars)
	if err != nil {
		w.logger.Warn("eval error", "line", line.Number, "error", err)
		return
	}
	matched, ok := result.(operand.Bool)
	if !ok || !bool(matched) {
		return
	}

	if err := w.broker.Publish(w.outTopic, Match{Line: line.Number, Vars: vars, Result: result}, publishTimeout); err != nil {
		w.logger.Warn("publish failed", "line", line.Number, "error", err)
	}
}

// Pump reads newline-delimited JSON objects from r until EOF, ctx
// cancellation, or a read error, publishing each as a Line on topic.
func Pump(ctx context.Context, b *broker.Broker, topic string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		raw := make(json.RawMessage, len(scanner.Bytes()))
		copy(raw, scanner.Bytes())
		if err := b.Publish(topic, Line{Number: lineNum, Raw: raw}, publishTimeout); err != nil {
			return fmt.Errorf("publishing line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

// Subscribe attaches a handler that runs for every Match published to
// topic, in its own goroutine, mirroring the teacher's Loader.Start.
func Subscribe(b *broker.Broker, topic string, logger *slog.Logger, handle func(Match)) error {
	sub, err := b.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	go func() {
		for msg := range sub.Messages() {
			m, ok := msg.Payload.(Match)
			if !ok {
				logger.Warn("unexpected payload on topic", "topic", topic)
				continue
			}
			handle(m)
		}
	}()
	return nil
}
