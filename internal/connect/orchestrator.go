package connect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/logging"
	"github.com/muurk/wifid/internal/netconfig"
	"github.com/muurk/wifid/internal/wifierr"
)

// State is the orchestrator's position in a connection sequence.
type State int

const (
	// StateIdle means no sequence has run yet.
	StateIdle State = iota
	// StateValidating means the parameters are being checked.
	StateValidating
	// StateAttempting means an association attempt is in flight.
	StateAttempting
	// StateRetrying means the last attempt failed and another will
	// start after the retry delay.
	StateRetrying
	// StateConnected is the terminal success state.
	StateConnected
	// StateFailed is the terminal failure state.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAttempting:
		return "attempting"
	case StateRetrying:
		return "retrying"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultRetryDelay is the pause between failed attempts.
const DefaultRetryDelay = 1 * time.Second

// Result is the outcome of one connection sequence. Err is nil exactly
// when State is StateConnected; otherwise Err carries a wifierr kind
// describing why the sequence stopped.
type Result struct {
	State    State
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Orchestrator drives a Connector through a bounded connection
// sequence: validate, apply host settings, then attempt association up
// to MaxRetries times inside an optional wall-clock budget. On success
// it bumps the credential store's recency for the SSID.
type Orchestrator struct {
	conn  Connector
	store *credstore.Store

	// RetryDelay is the pause between failed attempts. Zero means
	// DefaultRetryDelay.
	RetryDelay time.Duration

	// Budget bounds the whole sequence in wall-clock time. Zero means
	// unbounded; only the per-attempt timeout and retry count apply.
	Budget time.Duration

	mu    sync.Mutex
	state State

	now   func() time.Time
	sleep func(time.Duration)
}

// State reports the orchestrator's current position, safe to call from
// other goroutines (the management interface polls it).
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// NewOrchestrator creates an orchestrator over conn. The store may be
// nil for sequences that should not touch stored credentials.
func NewOrchestrator(conn Connector, store *credstore.Store) *Orchestrator {
	return &Orchestrator{
		conn:  conn,
		store: store,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Run executes one connection sequence for cfg. It never panics and
// never blocks past the budget plus one per-attempt timeout; the typed
// error in the Result tells the caller whether falling back to the
// setup portal makes sense.
func (o *Orchestrator) Run(ctx context.Context, cfg netconfig.NetworkConfig) Result {
	start := o.now()
	params := cfg.ConnectionParams()

	// Whole-config validation, including static addressing structure.
	// Nothing reaches the connector on failure.
	o.setState(StateValidating)
	if err := cfg.Validate(); err != nil {
		o.setState(StateFailed)
		return Result{State: StateFailed, Elapsed: o.now().Sub(start), Err: err}
	}

	if err := o.applyHostSettings(params); err != nil {
		o.setState(StateFailed)
		return Result{State: StateFailed, Elapsed: o.now().Sub(start), Err: err}
	}

	delay := o.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	maxAttempts := params.MaxRetries

	var lastErr error
	attempts := 0
	for attempts < maxAttempts {
		// Starting an attempt requires room in the budget for a full
		// per-attempt timeout; a sequence never begins an attempt it
		// could not see through.
		elapsed := o.now().Sub(start)
		if o.Budget > 0 && elapsed+params.PerAttemptTimeout > o.Budget {
			o.setState(StateFailed)
			logging.LogConnectionResult(params.SSID, attempts, lastErr)
			return Result{
				State:    StateFailed,
				Attempts: attempts,
				Elapsed:  elapsed,
				Err: wifierr.Newf(wifierr.KindTimeout,
					"connection budget of %v exhausted after %d attempt(s) to SSID: %s",
					o.Budget, attempts, params.SSID),
			}
		}

		attempts++
		o.setState(StateAttempting)
		logging.LogConnectionAttempt(params.SSID, attempts, maxAttempts)

		err := o.conn.Attempt(ctx, params.SSID, params.Password, params.PerAttemptTimeout)
		if err == nil {
			o.recordSuccess(params)
			o.setState(StateConnected)
			elapsed := o.now().Sub(start)
			logging.LogConnectionResult(params.SSID, attempts, nil)
			return Result{State: StateConnected, Attempts: attempts, Elapsed: elapsed}
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempts < maxAttempts {
			o.setState(StateRetrying)
			o.sleep(delay)
		}
	}

	o.setState(StateFailed)
	elapsed := o.now().Sub(start)
	logging.LogConnectionResult(params.SSID, attempts, lastErr)
	return Result{
		State:    StateFailed,
		Attempts: attempts,
		Elapsed:  elapsed,
		Err: wifierr.Wrap(wifierr.KindConnectFailed,
			fmt.Sprintf("failed to connect to SSID %s after %d attempts", params.SSID, attempts),
			lastErr),
	}
}

// applyHostSettings pushes identity and addressing to the connector.
// A hostname failure is logged and skipped; a static addressing failure
// stops the sequence because connecting with wrong addressing would
// strand the device on an unreachable address.
func (o *Orchestrator) applyHostSettings(p netconfig.ConnectionParams) error {
	if p.Hostname != "" {
		if err := o.conn.SetHostname(p.Hostname); err != nil {
			logging.Warn("Failed to set hostname, continuing without it",
				zap.String("hostname", p.Hostname),
				zap.Error(err))
		}
	}

	if p.UseStaticIP {
		if err := o.conn.SetStaticIP(p.StaticIP, p.Gateway, p.Subnet, p.DNS1, p.DNS2); err != nil {
			return wifierr.Wrap(wifierr.KindInvalidState,
				"failed to apply static addressing", err)
		}
	}
	return nil
}

// recordSuccess bumps the stored credential's recency, creating the
// entry on first success. Store failures never fail the sequence; the
// link is up either way.
func (o *Orchestrator) recordSuccess(p netconfig.ConnectionParams) {
	if o.store == nil {
		return
	}

	signal := o.conn.Signal()
	_, err := o.store.TouchSuccess(p.SSID, signal)
	if wifierr.IsNotFound(err) {
		cred := credstore.NewCredential(p.SSID, p.Password)
		cred.UseStatic = p.UseStaticIP
		cred.StaticIP = p.StaticIP
		cred.Gateway = p.Gateway
		cred.Subnet = p.Subnet
		cred.DNS1 = p.DNS1
		cred.DNS2 = p.DNS2
		if aerr := o.store.AddOrUpdate(cred); aerr != nil {
			logging.Warn("Failed to record new credential after successful connection",
				zap.String("ssid", p.SSID),
				zap.Error(aerr))
			return
		}
		_, err = o.store.TouchSuccess(p.SSID, signal)
	}
	if err != nil {
		logging.Warn("Failed to update credential after successful connection",
			zap.String("ssid", p.SSID),
			zap.Error(err))
	}
}
