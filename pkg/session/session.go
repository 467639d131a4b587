// Package session drives the persistent command-channel connection
// (tcp/6466) to one paired television: connect/reconnect with backoff, a
// background reader dispatching the television's unsolicited messages, and
// sending keys and text under a single output mutex.
package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/atvremote/atvremote-go/pkg/atvlog"
	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/registry"
	"github.com/atvremote/atvremote-go/pkg/transport"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

const commandConnectTimeout = 5 * time.Second
const reconnectSettleDelay = 500 * time.Millisecond

// Session owns the command-channel connection to a single television at a
// time. A caller managing several paired televisions holds one Session per
// ip.
type Session struct {
	Identity *identity.Identity
	TLS      *tls.Config
	Registry registry.Store
	Logger   atvlog.Logger

	// Port is the command-channel TCP port; defaults to 6466. Overridable
	// for tests that run a mock television on an ephemeral port.
	Port int

	// dial is the connect function, overridable in tests; defaults to
	// transport.Dial.
	dial func(ctx context.Context, addr string, cfg *tls.Config) (*tls.Conn, error)

	mu           sync.Mutex
	conn         *tls.Conn
	framer       *transport.Framer
	state        ConnState
	ip           string
	imeCounter   uint64
	fieldCounter uint64
	readerCancel context.CancelFunc
	readerDone   chan struct{}

	connBroadcast   *broadcaster[ConnectionUpdate]
	volumeBroadcast *broadcaster[VolumeState]
	powerBroadcast  *broadcaster[PowerState]
	appBroadcast    *broadcaster[AppState]
}

// NewSession builds a Session over id's TLS credentials, gated by reg.
func NewSession(id *identity.Identity, reg registry.Store, logger atvlog.Logger) *Session {
	if logger == nil {
		logger = atvlog.NoopLogger{}
	}
	return &Session{
		Identity:        id,
		TLS:             transport.NewTLSConfig(transport.Config{Certificate: id.TLSCertificate()}),
		Registry:        reg,
		Logger:          logger,
		Port:            6466,
		dial:            transport.Dial,
		state:           Disconnected,
		connBroadcast:   newBroadcaster[ConnectionUpdate](),
		volumeBroadcast: newBroadcaster[VolumeState](),
		powerBroadcast:  newBroadcaster[PowerState](),
		appBroadcast:    newBroadcaster[AppState](),
	}
}

// ObserveConnection streams connection-state transitions.
func (s *Session) ObserveConnection() (<-chan ConnectionUpdate, func()) {
	return s.connBroadcast.subscribe()
}

// ObserveVolume streams volume-state updates reported by the television.
func (s *Session) ObserveVolume() (<-chan VolumeState, func()) { return s.volumeBroadcast.subscribe() }

// ObservePower streams power-state updates reported by the television.
func (s *Session) ObservePower() (<-chan PowerState, func()) { return s.powerBroadcast.subscribe() }

// ObserveCurrentApp streams foreground-application changes.
func (s *Session) ObserveCurrentApp() (<-chan AppState, func()) { return s.appBroadcast.subscribe() }

// State reports the current connection state and, if connected, the ip.
func (s *Session) State() (ConnState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.ip
}

// Connect opens the command channel to ip, gated on ip already being in the
// paired-device registry. Retries up to three times with linear backoff
// (1s, 2s). A TLS rejection of this client's certificate removes ip from
// the registry and returns *CertificateRejectedError without retrying
// further.
func (s *Session) Connect(ctx context.Context, ip string) error {
	if !s.Registry.IsPaired(ip) {
		return fmt.Errorf("session: %s: %w", ip, ErrNotPaired)
	}

	s.mu.Lock()
	already := s.state == Connected && s.ip == ip
	other := s.state == Connected && s.ip != ip
	s.mu.Unlock()
	if already {
		return nil
	}
	if other {
		s.Disconnect()
	}

	s.setState(ip, Connecting, nil)

	addr := fmt.Sprintf("%s:%d", ip, s.Port)
	var lastErr error
	for attempt := 0; attempt < maxConnectAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(connectBackoff[attempt-1]):
			case <-ctx.Done():
				s.setState(ip, Error, ctx.Err())
				return ctx.Err()
			}
		}

		dialCtx, cancel := context.WithTimeout(ctx, commandConnectTimeout)
		conn, err := s.dial(dialCtx, addr, s.TLS)
		cancel()
		if err == nil {
			s.onConnected(ip, conn)
			return nil
		}

		lastErr = err
		if isCertificateRejected(err) {
			_ = s.Registry.Remove(ip)
			rejected := &CertificateRejectedError{IP: ip}
			s.setState(ip, Error, rejected)
			return rejected
		}
	}

	connErr := &ConnectFailedError{Cause: lastErr}
	s.setState(ip, Error, connErr)
	return connErr
}

func (s *Session) onConnected(ip string, conn *tls.Conn) {
	framer := transport.NewFramer(conn, s.Logger, ip, atvlog.LayerSession)
	readerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.conn = conn
	s.framer = framer
	s.ip = ip
	s.imeCounter = 0
	s.fieldCounter = 0
	s.readerCancel = cancel
	s.readerDone = done
	s.mu.Unlock()

	go s.readLoop(readerCtx, ip, framer, done)
	s.setState(ip, Connected, nil)
}

// Disconnect cancels the reader, closes the socket, and transitions to
// Disconnected. Safe to call when already disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	cancel := s.readerCancel
	conn := s.conn
	done := s.readerDone
	ip := s.ip
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}

	s.mu.Lock()
	s.conn = nil
	s.framer = nil
	s.readerCancel = nil
	s.readerDone = nil
	s.mu.Unlock()

	s.setState(ip, Disconnected, nil)
}

// Reconnect disconnects, waits 500ms, and connects again.
func (s *Session) Reconnect(ctx context.Context, ip string) error {
	s.Disconnect()
	select {
	case <-time.After(reconnectSettleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.Connect(ctx, ip)
}

// SendKey sends a short press+release of keycode, connecting first if
// needed.
func (s *Session) SendKey(ctx context.Context, ip string, keycode uint64) error {
	msg := wire.RemoteMessage{KeyInject: &wire.RemoteKeyInject{KeyCode: keycode, Direction: wire.DirectionShort}}
	return s.send(ctx, ip, msg)
}

// SendText sends text as one ime batch edit, using the ime/field counters
// most recently observed from the television.
func (s *Session) SendText(ctx context.Context, ip string, text string) error {
	if text == "" {
		return fmt.Errorf("session: empty text")
	}
	s.mu.Lock()
	imeCounter := s.imeCounter
	fieldCounter := s.fieldCounter
	s.mu.Unlock()

	pos := uint64(len(text) - 1)
	msg := wire.RemoteMessage{ImeBatchEdit: &wire.RemoteImeBatchEdit{
		ImeCounter:   imeCounter,
		FieldCounter: fieldCounter,
		EditInfo: &wire.EditInfo{
			Insert:          1,
			TextFieldStatus: wire.TextFieldStatus{Start: pos, End: pos, Value: text},
		},
	}}
	return s.send(ctx, ip, msg)
}

// send writes msg to ip's command channel, connecting first if not already
// connected, and retrying exactly once after a reconnect if the write fails.
func (s *Session) send(ctx context.Context, ip string, msg wire.RemoteMessage) error {
	if !s.Registry.IsPaired(ip) {
		return fmt.Errorf("session: %s: %w", ip, ErrNotPaired)
	}

	s.mu.Lock()
	connected := s.state == Connected && s.ip == ip
	framer := s.framer
	s.mu.Unlock()

	if !connected {
		if err := s.Connect(ctx, ip); err != nil {
			return err
		}
		s.mu.Lock()
		framer = s.framer
		s.mu.Unlock()
	}

	body := msg.Encode()
	if err := framer.WriteFrame(body); err != nil {
		if rerr := s.Reconnect(ctx, ip); rerr != nil {
			return &SendFailedError{Cause: err}
		}
		s.mu.Lock()
		framer = s.framer
		s.mu.Unlock()
		if err2 := framer.WriteFrame(body); err2 != nil {
			return &SendFailedError{Cause: err2}
		}
	}
	return nil
}

// readLoop consumes framed messages until cancelled or the connection
// fails. Malformed messages are logged and skipped, never fatal; an
// unexpected read error transitions to Error unless the loop was cancelled
// by Disconnect, in which case it exits cleanly.
func (s *Session) readLoop(ctx context.Context, ip string, framer *transport.Framer, done chan struct{}) {
	defer close(done)
	for {
		body, err := framer.ReadFrame()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.handleReadError(ip, err)
			return
		}

		field, err := wire.PeekEnvelopeField(body)
		if err != nil {
			s.Logger.Log(atvlog.Event{
				Timestamp: time.Now(),
				ConnID:    ip,
				Layer:     atvlog.LayerSession,
				Category:  atvlog.CategoryError,
				Error:     &atvlog.ErrorEvent{Message: fmt.Sprintf("malformed remote message: %v", err)},
			})
			continue
		}
		if !knownRemoteFields[field] {
			continue
		}

		msg, err := wire.DecodeRemoteMessage(body)
		if err != nil {
			s.Logger.Log(atvlog.Event{
				Timestamp: time.Now(),
				ConnID:    ip,
				Layer:     atvlog.LayerSession,
				Category:  atvlog.CategoryError,
				Error:     &atvlog.ErrorEvent{Message: fmt.Sprintf("malformed remote message: %v", err)},
			})
			continue
		}
		s.dispatch(ip, framer, msg)
	}
}

// knownRemoteFields lists the envelope fields dispatch actually handles, so
// readLoop can discard a frame carrying anything else before paying for a
// full decode.
var knownRemoteFields = map[wire.EnvelopeField]bool{
	wire.FieldRemoteConfigure:      true,
	wire.FieldRemoteSetActive:      true,
	wire.FieldRemotePingRequest:    true,
	wire.FieldRemoteImeKeyInject:   true,
	wire.FieldRemoteImeBatchEdit:   true,
	wire.FieldRemoteStart:          true,
	wire.FieldRemoteSetVolumeLevel: true,
}

func (s *Session) dispatch(ip string, framer *transport.Framer, msg wire.RemoteMessage) {
	switch {
	case msg.Configure != nil:
		reply := wire.RemoteMessage{Configure: configureReply()}
		_ = framer.WriteFrame(reply.Encode())
	case msg.SetActive != nil:
		reply := wire.RemoteMessage{SetActive: &wire.RemoteSetActive{Active: wire.ConfigureCode1}}
		_ = framer.WriteFrame(reply.Encode())
	case msg.PingRequest != nil:
		reply := wire.RemoteMessage{PingResponse: &wire.RemotePingResponse{Val1: msg.PingRequest.Val1}}
		_ = framer.WriteFrame(reply.Encode())
	case msg.ImeKeyInject != nil:
		s.appBroadcast.publish(AppState{PackageName: msg.ImeKeyInject.AppPackage})
	case msg.ImeBatchEdit != nil:
		s.mu.Lock()
		s.imeCounter = msg.ImeBatchEdit.ImeCounter
		s.fieldCounter = msg.ImeBatchEdit.FieldCounter
		s.mu.Unlock()
	case msg.Start != nil:
		s.powerBroadcast.publish(PowerState{On: msg.Start.Started})
	case msg.SetVolumeLevel != nil:
		s.volumeBroadcast.publish(VolumeState{
			Max:   msg.SetVolumeLevel.Max,
			Level: msg.SetVolumeLevel.Level,
			Muted: msg.SetVolumeLevel.Muted,
		})
	}
}

func configureReply() *wire.RemoteConfigure {
	reply := wire.ClientConfigureReply()
	return &reply
}

func (s *Session) handleReadError(ip string, err error) {
	if isCertificateRejected(err) {
		_ = s.Registry.Remove(ip)
		s.setState(ip, Error, &CertificateRejectedError{IP: ip})
		return
	}
	s.setState(ip, Error, &ConnectionLostError{Cause: err})
}

func (s *Session) setState(ip string, state ConnState, err error) {
	s.mu.Lock()
	s.state = state
	s.ip = ip
	s.mu.Unlock()
	s.connBroadcast.publish(ConnectionUpdate{IP: ip, State: state, Err: err})
}
