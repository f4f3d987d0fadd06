package bridge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// SubmissionFile is the script every participant must submit.
const SubmissionFile = "bridge_agent.js"

// RequiredBotFunctions are the entry points a submission must define.
var RequiredBotFunctions = []string{"getBid", "playCard"}

const botCallTimeout = 1 * time.Second

// ErrBotTimeout is reported when a bot call exceeds its time budget.
var ErrBotTimeout = errors.New("bot call timed out")

// CompileBot compiles participant script source into a reusable program.
// A compile failure here is a setup failure for the round.
func CompileBot(name, source string) (*goja.Program, error) {
	prog, err := goja.Compile(name, source, true)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return prog, nil
}

// Bot runs one participant's bridge agent on a sandboxed goja runtime.
// Runtimes are not goroutine safe, so every concurrent simulation builds
// its own bots from the shared compiled program.
type Bot struct {
	name        string
	vm          *goja.Runtime
	getBid      goja.Callable
	playCard    goja.Callable
	callTimeout time.Duration

	logs    []string
	maxLogs int
}

// NewBot instantiates a fresh runtime for one simulation, executes the
// compiled program, and resolves the required entry points.
func NewBot(name string, prog *goja.Program) (*Bot, error) {
	b := &Bot{
		name:        name,
		vm:          goja.New(),
		callTimeout: botCallTimeout,
		maxLogs:     100,
	}
	b.installGlobals()

	if err := b.runProgram(prog); err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}

	var err error
	if b.getBid, err = b.lookup("getBid"); err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	if b.playCard, err = b.lookup("playCard"); err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	return b, nil
}

// installGlobals wires console.log into the bot's log buffer and blanks
// out globals a submission has no business touching.
func (b *Bot) installGlobals() {
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		if len(b.logs) >= b.maxLogs {
			b.logs = b.logs[1:]
		}
		b.logs = append(b.logs, strings.Join(parts, " "))
		return goja.Undefined()
	}
	b.vm.Set("log", logFn)
	console := b.vm.NewObject()
	console.Set("log", b.vm.ToValue(logFn))
	b.vm.Set("console", console)

	b.vm.Set("require", goja.Undefined())
	b.vm.Set("fetch", goja.Undefined())
	b.vm.Set("XMLHttpRequest", goja.Undefined())
	b.vm.Set("eval", goja.Undefined())
	b.vm.Set("Function", goja.Undefined())
}

func (b *Bot) runProgram(prog *goja.Program) error {
	timer := time.AfterFunc(b.callTimeout, func() { b.vm.Interrupt(ErrBotTimeout) })
	defer timer.Stop()

	if _, err := b.vm.RunProgram(prog); err != nil {
		b.vm.ClearInterrupt()
		if isInterrupt(err) {
			return ErrBotTimeout
		}
		return fmt.Errorf("script error: %w", err)
	}
	return nil
}

func (b *Bot) lookup(name string) (goja.Callable, error) {
	v := b.vm.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("%s() is not defined", name)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	return fn, nil
}

// GetBid asks the bot for a bid given its view of the auction.
func (b *Bot) GetBid(state map[string]any) (string, error) {
	return b.callString(b.getBid, "getBid", state)
}

// PlayCard asks the bot for a card given its view of the trick.
func (b *Bot) PlayCard(state map[string]any) (string, error) {
	return b.callString(b.playCard, "playCard", state)
}

// Logs returns the bot's console output for this simulation.
func (b *Bot) Logs() []string {
	out := make([]string, len(b.logs))
	copy(out, b.logs)
	return out
}

func (b *Bot) callString(fn goja.Callable, name string, state map[string]any) (string, error) {
	timer := time.AfterFunc(b.callTimeout, func() { b.vm.Interrupt(ErrBotTimeout) })
	defer timer.Stop()

	v, err := fn(goja.Undefined(), b.vm.ToValue(state))
	if err != nil {
		b.vm.ClearInterrupt()
		if isInterrupt(err) {
			return "", fmt.Errorf("%s(): %w", name, ErrBotTimeout)
		}
		return "", fmt.Errorf("%s(): %w", name, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", fmt.Errorf("%s() returned no value", name)
	}
	return strings.TrimSpace(v.String()), nil
}

func isInterrupt(err error) bool {
	var interrupted *goja.InterruptedError
	return errors.As(err, &interrupted)
}
