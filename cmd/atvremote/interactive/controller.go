// Package interactive provides the interactive command-line interface for
// atvremote: discovery, pairing, and command-channel control of Android TV
// Remote v2 televisions, driven from a readline prompt.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atvremote/atvremote-go/pkg/atvlog"
	"github.com/atvremote/atvremote-go/pkg/discovery"
	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/pairing"
	"github.com/atvremote/atvremote-go/pkg/registry"
	"github.com/atvremote/atvremote-go/pkg/session"
	"github.com/chzyer/readline"
)

// Controller handles interactive mode for atvremote.
type Controller struct {
	identity *identity.Identity
	engine   *pairing.Engine
	registry registry.Store
	browser  discovery.Browser
	logger   atvlog.Logger
	rl       *readline.Instance

	sessMu   sync.Mutex
	sessions map[string]*session.Session

	tvMu sync.Mutex
	tvs  []discovery.Television
}

// New creates an interactive controller handler, rl already constructed by
// the caller so console logging can be redirected through it before New is
// called.
func New(id *identity.Identity, engine *pairing.Engine, reg registry.Store, browser discovery.Browser, logger atvlog.Logger, rl *readline.Instance) *Controller {
	c := &Controller{
		identity: id,
		engine:   engine,
		registry: reg,
		browser:  browser,
		logger:   logger,
		rl:       rl,
		sessions: make(map[string]*session.Session),
	}
	go c.trackDiscoveries()
	return c
}

func (c *Controller) trackDiscoveries() {
	for list := range c.browser.Observe() {
		c.tvMu.Lock()
		c.tvs = list
		c.tvMu.Unlock()
	}
}

// Stdout is the writer every command prints through, so output never
// collides with the readline prompt's own redraw.
func (c *Controller) Stdout() io.Writer { return c.rl.Stdout() }

// Run starts the interactive command loop. Returns when the user quits, ctx
// is cancelled, or the input stream closes.
func (c *Controller) Run(ctx context.Context, cancel context.CancelFunc) {
	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
			continue
		} else if err == io.EOF {
			cancel()
			return
		} else if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()
		case "discover":
			c.cmdDiscover(ctx)
		case "list", "ls":
			c.cmdList()
		case "pair":
			c.cmdPair(ctx, args)
		case "unpair":
			c.cmdUnpair(args)
		case "connect":
			c.cmdConnect(ctx, args)
		case "disconnect":
			c.cmdDisconnect(args)
		case "key":
			c.cmdKey(ctx, args)
		case "text":
			c.cmdText(ctx, args)
		case "status":
			c.cmdStatus(args)
		case "identity":
			c.cmdIdentity()
		case "quit", "exit", "q":
			fmt.Fprintln(c.Stdout(), "Exiting...")
			c.shutdown()
			cancel()
			return
		default:
			fmt.Fprintf(c.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Controller) shutdown() {
	c.sessMu.Lock()
	sessions := make([]*session.Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.sessMu.Unlock()
	for _, s := range sessions {
		s.Disconnect()
	}
	c.browser.Stop()
}

func (c *Controller) printHelp() {
	fmt.Fprint(c.Stdout(), `
atvremote commands:
  discover                  - Browse mDNS for televisions (20s)
  list                      - List discovered and paired televisions
  pair <ip>                 - Pair with a television, prompting for its code
  unpair <ip>               - Remove a television from the paired set
  connect <ip>              - Open the command channel to a paired television
  disconnect <ip>           - Close the command channel
  key <ip> <code|name>      - Send a key press (numeric KeyEvent or a name like dpad_up)
  text <ip> <words...>      - Send text to a focused text field
  status <ip>               - Show connection and pairing status
  identity                  - Show this client's TLS identity
  quit                      - Exit
`)
}

// session returns the existing session for ip, or creates one.
func (c *Controller) session(ip string) *session.Session {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	if s, ok := c.sessions[ip]; ok {
		return s
	}
	s := session.NewSession(c.identity, c.registry, c.logger)
	s.TLS = c.engine.TLS
	c.sessions[ip] = s
	return s
}

func (c *Controller) cmdDiscover(ctx context.Context) {
	discoverCtx, cancel := context.WithTimeout(ctx, discovery.DefaultBrowseDuration+2*time.Second)
	defer cancel()

	if err := c.browser.Start(discoverCtx, false); err != nil {
		fmt.Fprintf(c.Stdout(), "discover: %v\n", err)
		return
	}
	fmt.Fprintf(c.Stdout(), "Browsing for %s...\n", discovery.DefaultBrowseDuration)

	select {
	case <-time.After(discovery.DefaultBrowseDuration + time.Second):
	case <-ctx.Done():
	}
	c.cmdList()
}

func (c *Controller) cmdList() {
	c.tvMu.Lock()
	tvs := append([]discovery.Television(nil), c.tvs...)
	c.tvMu.Unlock()

	if len(tvs) == 0 {
		fmt.Fprintln(c.Stdout(), "No televisions discovered yet; run 'discover' first.")
		return
	}
	for _, tv := range tvs {
		paired := "unpaired"
		if c.registry.IsPaired(tv.IP) {
			paired = "paired"
		}
		fmt.Fprintf(c.Stdout(), "  %-15s %-20s %s/%s  [%s]\n", tv.IP, tv.InstanceName, tv.Manufacturer, tv.ModelName, paired)
	}
}

func (c *Controller) cmdPair(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.Stdout(), "Usage: pair <ip>")
		return
	}
	ip := args[0]
	attempt := c.engine.Begin(ctx, ip)

	for update := range attempt.Observe() {
		switch update.State {
		case pairing.StateWaitingForCode:
			code, err := c.rl.Readline()
			if err != nil {
				attempt.Cancel()
				return
			}
			attempt.SubmitCode(strings.TrimSpace(code))
		case pairing.StateSucceeded:
			fmt.Fprintf(c.Stdout(), "Paired with %s\n", ip)
			if m, ok := c.browser.(*discovery.MDNSBrowser); ok {
				m.RefreshPairedFlags()
			}
		case pairing.StateFailed:
			fmt.Fprintf(c.Stdout(), "Pairing with %s failed: %v\n", ip, update.Err)
		default:
			fmt.Fprintf(c.Stdout(), "  %s\n", update.State)
		}
	}
}

func (c *Controller) cmdUnpair(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.Stdout(), "Usage: unpair <ip>")
		return
	}
	ip := args[0]
	c.sessMu.Lock()
	if s, ok := c.sessions[ip]; ok {
		s.Disconnect()
		delete(c.sessions, ip)
	}
	c.sessMu.Unlock()

	if err := c.registry.Remove(ip); err != nil {
		fmt.Fprintf(c.Stdout(), "unpair: %v\n", err)
		return
	}
	if m, ok := c.browser.(*discovery.MDNSBrowser); ok {
		m.RefreshPairedFlags()
	}
	fmt.Fprintf(c.Stdout(), "Unpaired %s\n", ip)
}

func (c *Controller) cmdConnect(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.Stdout(), "Usage: connect <ip>")
		return
	}
	ip := args[0]
	if err := c.session(ip).Connect(ctx, ip); err != nil {
		fmt.Fprintf(c.Stdout(), "connect: %v\n", err)
		return
	}
	fmt.Fprintf(c.Stdout(), "Connected to %s\n", ip)
}

func (c *Controller) cmdDisconnect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.Stdout(), "Usage: disconnect <ip>")
		return
	}
	c.session(args[0]).Disconnect()
	fmt.Fprintf(c.Stdout(), "Disconnected %s\n", args[0])
}

func (c *Controller) cmdKey(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.Stdout(), "Usage: key <ip> <code|name>")
		return
	}
	ip := args[0]
	code, err := resolveKeyCode(args[1])
	if err != nil {
		fmt.Fprintf(c.Stdout(), "key: %v\n", err)
		return
	}
	if err := c.session(ip).SendKey(ctx, ip, code); err != nil {
		fmt.Fprintf(c.Stdout(), "key: %v\n", err)
	}
}

func (c *Controller) cmdText(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.Stdout(), "Usage: text <ip> <words...>")
		return
	}
	ip := args[0]
	text := strings.Join(args[1:], " ")
	if err := c.session(ip).SendText(ctx, ip, text); err != nil {
		fmt.Fprintf(c.Stdout(), "text: %v\n", err)
	}
}

func (c *Controller) cmdStatus(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.Stdout(), "Usage: status <ip>")
		return
	}
	ip := args[0]
	fmt.Fprintf(c.Stdout(), "  paired:  %v\n", c.registry.IsPaired(ip))

	c.sessMu.Lock()
	s, ok := c.sessions[ip]
	c.sessMu.Unlock()
	if !ok {
		fmt.Fprintln(c.Stdout(), "  connection: Disconnected")
		return
	}
	state, _ := s.State()
	fmt.Fprintf(c.Stdout(), "  connection: %s\n", state)
}

func (c *Controller) cmdIdentity() {
	fmt.Fprintf(c.Stdout(), "  fingerprint: %s\n", c.identity.Fingerprint())
	fmt.Fprintf(c.Stdout(), "  subject:     %s\n", c.identity.Certificate.Subject)
	fmt.Fprintf(c.Stdout(), "  valid:       %s - %s\n", c.identity.Certificate.NotBefore, c.identity.Certificate.NotAfter)
}

// resolveKeyCode accepts either a bare numeric KeyEvent code or one of a
// handful of friendly names for the most common keys.
func resolveKeyCode(s string) (uint64, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	if code, ok := keyNames[strings.ToLower(s)]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unrecognized key %q", s)
}
