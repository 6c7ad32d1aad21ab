package toolsession

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// Session is the slice of an MCP client the tool-session client drives.
// *client.Client satisfies it.
type Session interface {
	Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Dialer launches or attaches to a tool server and returns an unhandshaken session.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

type DialerFunc func(ctx context.Context) (Session, error)

func (f DialerFunc) Dial(ctx context.Context) (Session, error) {
	return f(ctx)
}

// StdioDialer spawns the tool server as a subprocess speaking MCP over stdin/stdout.
type StdioDialer struct {
	Command string
	Args    []string
	Env     []string
}

func (d StdioDialer) Dial(ctx context.Context) (Session, error) {
	command := strings.TrimSpace(d.Command)
	if command == "" {
		return nil, errors.New("tool server command is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := client.NewStdioMCPClient(command, d.Env, d.Args...)
	if err != nil {
		return nil, fmt.Errorf("start tool server %s: %w", command, err)
	}

	sess := &stdioSession{Client: c}
	sess.push("tool server process", c.Close)

	if stdio, ok := c.GetTransport().(*transport.Stdio); ok && stdio.Stderr() != nil {
		sess.push("stderr forwarder", forwardStderr(stdio.Stderr(), command))
	}
	return sess, nil
}

type releaser struct {
	name string
	fn   func() error
}

// stdioSession owns a subprocess-backed client plus its helpers and releases
// them in reverse acquisition order.
type stdioSession struct {
	*client.Client
	releasers []releaser
}

func (s *stdioSession) push(name string, fn func() error) {
	s.releasers = append(s.releasers, releaser{name: name, fn: fn})
}

func (s *stdioSession) Close() error {
	var errs []error
	for i := len(s.releasers) - 1; i >= 0; i-- {
		r := s.releasers[i]
		if err := r.fn(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", r.name, err))
		}
	}
	s.releasers = nil
	return errors.Join(errs...)
}

// forwardStderr drains the subprocess stderr into the logger so the child never
// blocks on a full pipe. The returned func stops forwarding; the goroutine exits
// at EOF once the process is gone.
func forwardStderr(r io.Reader, command string) func() error {
	var stopped atomic.Bool
	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			if stopped.Load() {
				continue
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			log.Debug().Str("component", "toolserver").Str("command", command).Msg(line)
		}
	}()
	return func() error {
		stopped.Store(true)
		return nil
	}
}

// InProcessDialer attaches to an MCP server running in this process.
type InProcessDialer struct {
	Server *server.MCPServer
}

func (d InProcessDialer) Dial(ctx context.Context) (Session, error) {
	if d.Server == nil {
		return nil, errors.New("in-process tool server is required")
	}
	c, err := client.NewInProcessClient(d.Server)
	if err != nil {
		return nil, fmt.Errorf("create in-process client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("start in-process client: %w", err)
	}
	return c, nil
}
