// Package refresh coordinates fetch and render cycles for the dashboard.
package refresh

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/fetcher"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/metrics"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
)

const (
	defaultInterval  = 30 * time.Second
	triggerQueueSize = 16
	readyMaxFailures = 3
)

// State is the controller's position in the cycle.
type State string

const (
	StateIdle      State = "idle"
	StateFetching  State = "fetching"
	StateRendering State = "rendering"
)

// Reason names what started a cycle.
type Reason string

const (
	ReasonStartup  Reason = "startup"
	ReasonTimer    Reason = "timer"
	ReasonManual   Reason = "manual"
	ReasonControls Reason = "controls"
	ReasonFollows  Reason = "follows"
)

// MatchFetcher runs both fetches of a cycle against one params snapshot.
type MatchFetcher interface {
	FetchBoth(ctx context.Context, params matches.FilterParams) (upcoming, live fetcher.Result)
}

// FollowSource exposes the current follow set.
type FollowSource interface {
	Current() teams.IDSet
}

// Publisher accepts rendered views. It returns false for views it considers stale.
type Publisher interface {
	Publish(v render.View) bool
}

// Status describes the controller's recent health.
type Status struct {
	State               State     `json:"state"`
	Seq                 uint64    `json:"seq"`
	LastReason          Reason    `json:"lastReason,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	Pending             bool      `json:"pending"`
	Coalesced           int       `json:"coalesced"`
	StaleDiscarded      int       `json:"staleDiscarded"`
}

// IsReady reports whether a cycle has succeeded and the controller is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyMaxFailures
}

// Options configures a Controller.
type Options struct {
	Fetcher  MatchFetcher
	Follows  FollowSource
	Renderer *render.Renderer
	Board    Publisher
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	Interval time.Duration
	Controls render.Controls
}

type cycleResult struct {
	seq      uint64
	reason   Reason
	params   matches.FilterParams
	started  time.Time
	upcoming fetcher.Result
	live     fetcher.Result
}

// Controller runs at most one refresh cycle at a time. Triggers that arrive during a
// cycle collapse into a single follow-up cycle.
type Controller struct {
	fetcher  MatchFetcher
	follows  FollowSource
	renderer *render.Renderer
	board    Publisher
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	triggers chan Reason
	results  chan cycleResult

	ticker   *time.Ticker
	done     chan struct{}
	loopDone chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	// owned by the coordinator goroutine
	inFlight      bool
	pending       bool
	pendingReason Reason
	seq           uint64

	controlsMu sync.RWMutex
	controls   render.Controls

	statusMu sync.RWMutex
	status   Status
}

// New constructs a Controller with sane defaults.
func New(opts Options) *Controller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewRenderer(nil, "")
	}
	return &Controller{
		fetcher:  opts.Fetcher,
		follows:  opts.Follows,
		renderer: renderer,
		board:    opts.Board,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		interval: interval,
		now:      time.Now,
		triggers: make(chan Reason, triggerQueueSize),
		results:  make(chan cycleResult, 1),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		controls: normalizeControls(opts.Controls),
		status:   Status{State: StateIdle},
	}
}

// Start runs the startup cycle and then refreshes on the interval until ctx ends or Stop is called.
func (c *Controller) Start(ctx context.Context) {
	c.startMu.Lock()
	if c.started {
		c.startMu.Unlock()
		return
	}
	c.started = true
	c.startMu.Unlock()

	c.ticker = time.NewTicker(c.interval)

	go func() {
		defer close(c.loopDone)
		logging.Info(c.logger, "refresh controller started", logging.FieldDurationMS, c.interval.Milliseconds())
		c.request(ctx, ReasonStartup)

		for {
			select {
			case <-ctx.Done():
				c.stopTicker()
				logging.Info(c.logger, "refresh controller stopped")
				return
			case <-c.done:
				c.stopTicker()
				logging.Info(c.logger, "refresh controller stopped")
				return
			case <-c.ticker.C:
				c.request(ctx, ReasonTimer)
			case reason := <-c.triggers:
				c.request(ctx, reason)
			case res := <-c.results:
				c.finish(ctx, res)
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit or for ctx to end.
func (c *Controller) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.done)
	})

	c.startMu.Lock()
	started := c.started
	c.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-c.loopDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger requests a cycle. It never blocks; when the queue is full a cycle is already owed.
func (c *Controller) Trigger(reason Reason) {
	select {
	case c.triggers <- reason:
	default:
		logging.Debug(c.logger, "refresh trigger dropped, queue full", logging.FieldReason, string(reason))
	}
}

// SetControls replaces the dashboard controls and triggers a cycle.
func (c *Controller) SetControls(controls render.Controls) render.Controls {
	controls = normalizeControls(controls)
	c.controlsMu.Lock()
	c.controls = controls
	c.controlsMu.Unlock()
	c.Trigger(ReasonControls)
	return controls
}

// Controls returns the current dashboard controls.
func (c *Controller) Controls() render.Controls {
	c.controlsMu.RLock()
	defer c.controlsMu.RUnlock()
	return c.controls
}

// Status returns a snapshot of the controller's recent health.
func (c *Controller) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Params builds the FilterParams a cycle started now would use.
func (c *Controller) Params() matches.FilterParams {
	controls := c.Controls()
	followed := teams.NewIDSet()
	if c.follows != nil {
		followed = c.follows.Current()
	}
	return matches.FilterParams{
		Region:       controls.Region,
		Game:         controls.Game,
		Followed:     followed,
		OnlyFollowed: controls.OnlyFollowed,
	}
}

func (c *Controller) request(ctx context.Context, reason Reason) {
	if c.inFlight {
		if c.pending {
			c.metrics.RecordRefreshCoalesced()
			c.updateStatus(func(s *Status) { s.Coalesced++ })
			logging.Debug(c.logger, "refresh coalesced", logging.FieldReason, string(reason))
			return
		}
		c.pending = true
		c.pendingReason = reason
		c.updateStatus(func(s *Status) { s.Pending = true })
		return
	}
	c.startCycle(ctx, reason)
}

func (c *Controller) startCycle(ctx context.Context, reason Reason) {
	c.inFlight = true
	c.seq++
	seq := c.seq
	params := c.Params()
	started := c.now()

	c.updateStatus(func(s *Status) {
		s.State = StateFetching
		s.Seq = seq
		s.LastReason = reason
		s.LastAttempt = started
	})

	go func() {
		up, live := c.fetcher.FetchBoth(ctx, params)
		res := cycleResult{seq: seq, reason: reason, params: params, started: started, upcoming: up, live: live}
		select {
		case c.results <- res:
		case <-c.done:
		case <-ctx.Done():
		}
	}()
}

// finish joins a cycle. Results from any cycle but the latest started one are dropped.
func (c *Controller) finish(ctx context.Context, res cycleResult) {
	if res.seq != c.seq {
		c.discard(res.seq)
		return
	}
	c.inFlight = false
	duration := c.now().Sub(res.started)

	c.updateStatus(func(s *Status) { s.State = StateRendering })
	view := c.renderer.Build(res.seq, res.params, res.upcoming, res.live)
	if c.board != nil && !c.board.Publish(view) {
		c.discard(res.seq)
	}
	c.recordOutcome(res, duration)

	c.updateStatus(func(s *Status) {
		s.State = StateIdle
		s.Pending = false
	})

	if c.pending {
		c.pending = false
		c.startCycle(ctx, c.pendingReason)
	}
}

func (c *Controller) discard(seq uint64) {
	c.metrics.RecordStaleDiscard()
	c.updateStatus(func(s *Status) { s.StaleDiscarded++ })
	logging.Debug(c.logger, "stale refresh result discarded", logging.FieldSeq, seq)
}

// recordOutcome counts a cycle as failed only when neither list could be fetched.
func (c *Controller) recordOutcome(res cycleResult, duration time.Duration) {
	failed := res.upcoming.Err != nil && res.live.Err != nil
	c.metrics.RecordRefreshCycle(duration, failed)

	if failed {
		c.updateStatus(func(s *Status) {
			s.ConsecutiveFailures++
			s.LastError = res.upcoming.Err.Error()
		})
		logging.Error(c.logger, "refresh cycle failed", res.upcoming.Err,
			logging.FieldSeq, res.seq,
			logging.FieldReason, string(res.reason),
			logging.FieldDurationMS, duration.Milliseconds(),
		)
		return
	}

	c.updateStatus(func(s *Status) {
		s.ConsecutiveFailures = 0
		s.LastError = ""
		s.LastSuccess = res.started
	})
	logging.Info(c.logger, "refresh cycle rendered",
		logging.FieldSeq, res.seq,
		logging.FieldReason, string(res.reason),
		logging.FieldCount, len(res.upcoming.Matches)+len(res.live.Matches),
		logging.FieldDurationMS, duration.Milliseconds(),
	)
}

func (c *Controller) updateStatus(fn func(s *Status)) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	fn(&c.status)
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
}

func normalizeControls(controls render.Controls) render.Controls {
	controls.Region = strings.TrimSpace(controls.Region)
	controls.Game = strings.TrimSpace(controls.Game)
	return controls
}
