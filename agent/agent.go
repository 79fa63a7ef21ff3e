package agent

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/rules"
	"github.com/nstehr/regressiongames/trace"
	"github.com/nstehr/regressiongames/world"
)

// Agent owns the decision-making for a single robot. The host calls Turn once
// per round; everything the robot remembers lives in its Memory.
type Agent struct {
	ctl      world.Controller
	policies *rules.Policies
	memory   rules.Memory
	rng      rules.Rand
	recorder trace.Recorder
	session  string
	log      *slog.Logger

	prev snapshot
}

type Option func(*Agent)

func WithRand(r rules.Rand) Option { return func(a *Agent) { a.rng = r } }

func WithRecorder(r trace.Recorder) Option { return func(a *Agent) { a.recorder = r } }

// WithSession tags logs and trace entries with the host connection id.
func WithSession(id string) Option { return func(a *Agent) { a.session = id } }

func New(ctl world.Controller, policies *rules.Policies, opts ...Option) *Agent {
	a := &Agent{
		ctl:      ctl,
		policies: policies,
		recorder: trace.Discard{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rules.NewRand(int64(ctl.ID()))
	}
	a.log = slog.With("robot", ctl.ID())
	if a.session != "" {
		a.log = a.log.With("session", a.session)
	}
	return a
}

func (a *Agent) Memory() *rules.Memory { return &a.memory }

// Turn runs one turn: discover home, run the role's policy, then yield. It
// never panics and always yields exactly once.
func (a *Agent) Turn() (res Result) {
	res.Turn = a.memory.NextTurn()

	defer a.ctl.Yield()
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
		if f, ok := a.ctl.(world.Failer); ok {
			if err := f.Err(); err != nil {
				res.Err = fmt.Errorf("host: %w", err)
			}
		}
		res.Outcome = classify(res.Err)
		a.finish(&res)
	}()

	res.Round = a.ctl.RoundNum()
	res.Role = RoleFor(a.ctl.Type())
	res.Err = a.decide(res.Role)
	return res
}

func (a *Agent) decide(role Role) error {
	env := rules.NewEnv(a.ctl, &a.memory, a.policies.Tuning, a.rng)

	if a.memory.Home == nil {
		if hq := rules.HeadquartersNearby(env); len(hq) > 0 {
			a.memory.RememberHome(hq[0])
		}
	}

	switch role {
	case RoleInert:
		return nil
	case RoleCoordinator:
		return a.policies.Coordinator.Evaluate(env)
	case RoleGatherer:
		return a.policies.Gatherer.Evaluate(env)
	case RoleAttacker:
		return a.policies.Attacker.Evaluate(env)
	default:
		return fmt.Errorf("no policy for role %v", role)
	}
}

// finish logs the outcome, detects events and writes the trace entry.
func (a *Agent) finish(res *Result) {
	switch res.Outcome {
	case OutcomeIllegalAction:
		a.log.Warn("illegal action", "role", res.Role, "turn", res.Turn, "error", res.Err)
	case OutcomeUnexpectedFailure:
		a.log.Error("turn failed", "role", res.Role, "turn", res.Turn, "error", res.Err)
	}

	cur, ok := a.observe(res.Role)
	if !ok {
		return
	}
	res.Events = detectEvents(res.Turn, a.prev, cur, a.policies.Tuning.StallLimit)
	a.prev = cur
	for _, e := range res.Events {
		a.log.Info("event", "kind", e.Kind, "turn", e.Turn, "detail", e.Detail)
	}

	entry := trace.Entry{
		Session:  a.session,
		Robot:    a.ctl.ID(),
		Team:     a.ctl.Team(),
		Type:     a.ctl.Type(),
		Round:    res.Round,
		Turn:     res.Turn,
		Role:     res.Role.String(),
		Outcome:  res.Outcome.String(),
		Location: cur.location,
		Carried:  cur.carried,
		Events:   eventKinds(res.Events),
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := a.recorder.Record(entry); err != nil {
		a.log.Warn("trace write failed", "error", err)
	}
}

// observe reads the post-turn state. A host that fails mid-read yields no
// snapshot rather than a second panic.
func (a *Agent) observe(role Role) (s snapshot, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			a.log.Error("observe failed", "panic", p)
			ok = false
		}
	}()
	if f, isFailer := a.ctl.(world.Failer); isFailer && f.Err() != nil {
		return snapshot{}, false
	}
	s = snapshot{
		homeKnown:      a.memory.Home != nil,
		location:       a.ctl.Location(),
		carried:        world.Inventory(a.ctl),
		held:           a.ctl.Anchor(),
		stall:          a.memory.StallCount,
		lastAnchorTurn: a.memory.LastAnchorBuildTurn,
	}
	if role == RoleGatherer {
		s.full = s.carried.IsFull()
	}
	if role == RoleCoordinator {
		s.anchorsStocked = a.ctl.NumAnchors(model.AnchorStandard)
	}
	return s, true
}
