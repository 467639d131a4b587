package pairing

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/atvremote/atvremote-go/pkg/atvlog"
	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/registry"
	"github.com/atvremote/atvremote-go/pkg/transport"
	"github.com/atvremote/atvremote-go/pkg/wire"
	"github.com/google/uuid"
)

const (
	connectTimeout = 10 * time.Second
	codeWaitTimeout = 5 * time.Minute
	postSuccessDelay = 2 * time.Second
)

const serviceName = "androidtvremote"

// Engine drives pairing attempts against televisions, using the shared
// client identity and TLS transport, and records successful outcomes in the
// paired-device registry.
type Engine struct {
	Identity *identity.Identity
	TLS      *tls.Config
	Registry registry.Store
	Logger   atvlog.Logger

	// Port is the pairing-channel TCP port; defaults to 6467. Overridable
	// for tests that run a mock television on an ephemeral port.
	Port int

	// dial is the connect function, overridable in tests; defaults to
	// transport.Dial.
	dial func(ctx context.Context, addr string, cfg *tls.Config) (*tls.Conn, error)
}

// NewEngine builds an Engine over id's TLS credentials.
func NewEngine(id *identity.Identity, reg registry.Store, logger atvlog.Logger) *Engine {
	if logger == nil {
		logger = atvlog.NoopLogger{}
	}
	return &Engine{
		Identity: id,
		TLS:      transport.NewTLSConfig(transport.Config{Certificate: id.TLSCertificate()}),
		Registry: reg,
		Logger:   logger,
		Port:     6467,
		dial:     transport.Dial,
	}
}

// Attempt is one in-flight pairing handshake, transient, owned by the
// engine for the duration of the attempt.
type Attempt struct {
	ID      string
	updates chan StateUpdate
	codeCh  chan string
	cancel  context.CancelFunc
}

// Observe returns a channel of state transitions for this attempt, closed
// once a terminal state (Succeeded or Failed) is reported.
func (a *Attempt) Observe() <-chan StateUpdate { return a.updates }

// SubmitCode provides the code the user read off the television screen.
// The attempt reads one code when it reaches StateWaitingForCode; a code
// submitted earlier is held until then. Only one code is held at a time: a
// call made while one is pending, or after the attempt has read its code,
// has no effect.
func (a *Attempt) SubmitCode(code string) {
	select {
	case a.codeCh <- code:
	default:
	}
}

// Cancel aborts the attempt, however far it has progressed.
func (a *Attempt) Cancel() { a.cancel() }

// Begin starts a pairing attempt against ip (on e.Port, 6467 by default) and returns
// immediately with a handle; the handshake itself runs on a background
// goroutine and reports its progress through Attempt.Observe.
func (e *Engine) Begin(ctx context.Context, ip string) *Attempt {
	attemptCtx, cancel := context.WithCancel(ctx)
	a := &Attempt{
		ID:      uuid.NewString(),
		updates: make(chan StateUpdate, 8),
		codeCh:  make(chan string, 1),
		cancel:  cancel,
	}
	go e.run(attemptCtx, a, ip)
	return a
}

func (e *Engine) run(ctx context.Context, a *Attempt, ip string) {
	defer close(a.updates)

	emit := func(s State, err error) { a.updates <- StateUpdate{State: s, Err: err} }
	emit(StateConnecting, nil)

	addr := fmt.Sprintf("%s:%d", ip, e.Port)
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	conn, err := e.dial(dialCtx, addr, e.TLS)
	cancel()
	if err != nil {
		emit(StateFailed, &ConnectFailedError{Cause: err})
		return
	}
	defer conn.Close()

	serverCert, err := transport.ServerLeaf(conn.ConnectionState())
	if err != nil {
		emit(StateFailed, &HandshakeFailedError{Cause: err})
		return
	}
	serverPub, ok := serverCert.PublicKey.(*rsa.PublicKey)
	if !ok {
		emit(StateFailed, &HandshakeFailedError{Cause: fmt.Errorf("pairing: server certificate is not RSA")})
		return
	}

	framer := transport.NewFramer(conn, e.Logger, a.ID, atvlog.LayerPairing)

	step := func(out wire.PairingMessage) (wire.PairingMessage, error) {
		if err := framer.WriteFrame(out.Encode()); err != nil {
			return wire.PairingMessage{}, err
		}
		body, err := framer.ReadFrame()
		if err != nil {
			return wire.PairingMessage{}, err
		}
		return wire.DecodePairingMessage(body)
	}

	// Step 1: PairingRequest
	req := wire.NewPairingMessage()
	req.Request = &wire.PairingRequest{ServiceName: serviceName, ClientName: deviceModelName()}
	resp, err := step(req)
	if err != nil {
		emit(StateFailed, &HandshakeFailedError{Cause: err})
		return
	}
	if resp.Status != wire.StatusOK {
		emit(StateFailed, &RejectedError{Status: resp.Status})
		return
	}

	// Step 2: PairingOption
	opt := wire.NewPairingMessage()
	opt.Option = &wire.PairingOption{Encoding: wire.DefaultEncoding(), PreferredRole: wire.RoleInput}
	resp, err = step(opt)
	if err != nil {
		emit(StateFailed, &HandshakeFailedError{Cause: err})
		return
	}
	if resp.Status != wire.StatusOK {
		emit(StateFailed, &RejectedError{Status: resp.Status})
		return
	}

	// Step 3: PairingConfiguration
	cfg := wire.NewPairingMessage()
	cfg.Configuration = &wire.PairingConfiguration{Encoding: wire.DefaultEncoding(), ClientRole: wire.RoleInput}
	resp, err = step(cfg)
	if err != nil {
		emit(StateFailed, &HandshakeFailedError{Cause: err})
		return
	}
	if resp.Status != wire.StatusOK {
		emit(StateFailed, &RejectedError{Status: resp.Status})
		return
	}

	// Step 4: wait for the human to read the code off the television.
	emit(StateWaitingForCode, nil)
	var code string
	select {
	case code = <-a.codeCh:
	case <-time.After(codeWaitTimeout):
		emit(StateFailed, ErrTimeout)
		return
	case <-ctx.Done():
		emit(StateFailed, ErrCancelled)
		return
	}

	emit(StateSubmittingCode, nil)
	secret, err := DeriveSecret(&e.Identity.PrivateKey.PublicKey, serverPub, code)
	if err != nil {
		emit(StateFailed, err)
		return
	}

	// Step 5: PairingSecret
	sec := wire.NewPairingMessage()
	sec.Secret = &wire.PairingSecret{Secret: secret}
	resp, err = step(sec)
	if err != nil {
		emit(StateFailed, &HandshakeFailedError{Cause: err})
		return
	}
	switch resp.Status {
	case wire.StatusOK:
		// fall through to success handling below
	case wire.StatusBadCode:
		emit(StateFailed, ErrBadCode)
		return
	default:
		emit(StateFailed, &RejectedError{Status: resp.Status})
		return
	}

	if err := e.Registry.Add(ip); err != nil {
		emit(StateFailed, fmt.Errorf("pairing: persist paired ip: %w", err))
		return
	}

	// Some televisions require this delay to finalise certificate pinning;
	// the next command-channel connection is rejected without it.
	select {
	case <-time.After(postSuccessDelay):
	case <-ctx.Done():
	}

	emit(StateSucceeded, nil)
}

// deviceModelName is the client_name advertised in PairingRequest.
func deviceModelName() string { return "atvremote-go" }
