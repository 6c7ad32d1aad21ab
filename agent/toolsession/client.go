package toolsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type ClientOption func(*Client)

func WithClientInfo(name, version string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.info.Name = name
		}
		if version != "" {
			c.info.Version = version
		}
	}
}

// Client owns one session to an external tool server.
//
// mu serializes Connect, Invoke and Disconnect, so at most one request is in
// flight on the shared transport. State is readable without taking mu.
// There is no per-call timeout: a hung tool server hangs the caller unless
// its context is cancelled.
type Client struct {
	dialer Dialer
	info   mcp.Implementation

	mu      sync.Mutex
	session Session
	state   atomic.Int32

	infoMu  sync.RWMutex
	tools   []string
	lastErr error
}

var _ contractx.ToolInvoker = (*Client)(nil)

func NewClient(dialer Dialer, opts ...ClientOption) *Client {
	c := &Client{
		dialer: dialer,
		info: mcp.Implementation{
			Name:    "restaurant-orchestrator",
			Version: "1.0.0",
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) IsConnected() bool {
	return c.State() == StateReady
}

// Tools returns the tool names listed during the last successful handshake.
func (c *Client) Tools() []string {
	c.infoMu.RLock()
	defer c.infoMu.RUnlock()
	return append([]string(nil), c.tools...)
}

// LastError returns the most recent connect or teardown failure, if any.
func (c *Client) LastError() error {
	c.infoMu.RLock()
	defer c.infoMu.RUnlock()
	return c.lastErr
}

// Connect dials and handshakes. It is a no-op when already Ready and fails
// closed: on any error everything acquired so far is released.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == StateReady {
		log.Debug().Str("component", "toolsession").Msg("tool session already connected")
		return nil
	}
	if c.dialer == nil {
		return fmt.Errorf("%w: dialer is required", contractx.ErrConnection)
	}

	c.setState(StateConnecting)
	sess, tools, err := c.handshake(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		c.setLastErr(err)
		log.Error().Err(err).Str("component", "toolsession").Msg("tool session connect failed")
		return fmt.Errorf("%w: %v", contractx.ErrConnection, err)
	}

	c.session = sess
	c.infoMu.Lock()
	c.tools = tools
	c.lastErr = nil
	c.infoMu.Unlock()
	c.setState(StateReady)

	log.Info().
		Str("component", "toolsession").
		Strs("tools", tools).
		Msg("tool session connected")
	return nil
}

func (c *Client) handshake(ctx context.Context) (Session, []string, error) {
	sess, err := c.dialer.Dial(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("dial tool server: %w", err)
	}
	if sess == nil {
		return nil, nil, errors.New("dial tool server: nil session")
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = c.info
	if _, err := sess.Initialize(ctx, initReq); err != nil {
		releaseSession(sess, "initialize failed")
		return nil, nil, fmt.Errorf("initialize: %w", err)
	}

	listed, err := sess.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		releaseSession(sess, "list tools failed")
		return nil, nil, fmt.Errorf("list tools: %w", err)
	}

	var tools []string
	if listed != nil {
		tools = make([]string, 0, len(listed.Tools))
		for _, t := range listed.Tools {
			tools = append(tools, t.Name)
		}
	}
	return sess, tools, nil
}

// Invoke sends one tools/call and waits for its single response.
//
// A transport error leaves the client Ready. If the call was aborted because
// ctx ended, the response may still arrive later on the shared stream, so the
// session is torn down instead.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != StateReady || c.session == nil {
		return contractx.ToolResult{Tool: tool, IsError: true}, fmt.Errorf("%w: tool=%s", contractx.ErrNotConnected, tool)
	}
	if args == nil {
		args = map[string]any{}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	log.Debug().
		Str("component", "toolsession").
		Str("tool", tool).
		Interface("args", args).
		Msg("calling tool")

	res, err := c.session.CallTool(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			c.teardownLocked("tool call cancelled")
		}
		return contractx.ToolResult{Tool: tool, IsError: true, Text: err.Error()},
			fmt.Errorf("%w: tool=%s: %v", contractx.ErrToolCall, tool, err)
	}

	out := toToolResult(tool, res)
	log.Debug().
		Str("component", "toolsession").
		Str("tool", tool).
		Bool("is_error", out.IsError).
		Msg("tool response received")
	return out, nil
}

// Disconnect releases the session. It never fails and is a no-op when
// already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked("disconnect requested")
}

func (c *Client) teardownLocked(reason string) {
	if c.session == nil && c.State() == StateDisconnected {
		log.Debug().Str("component", "toolsession").Msg("no active tool session to close")
		return
	}

	sess := c.session
	c.session = nil
	if sess != nil {
		if err := sess.Close(); err != nil {
			c.setLastErr(err)
			log.Warn().Err(err).Str("component", "toolsession").Str("reason", reason).Msg("tool session release incomplete")
		}
	}

	c.infoMu.Lock()
	c.tools = nil
	c.infoMu.Unlock()
	c.setState(StateDisconnected)
	log.Info().Str("component", "toolsession").Str("reason", reason).Msg("tool session disconnected")
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Client) setLastErr(err error) {
	c.infoMu.Lock()
	c.lastErr = err
	c.infoMu.Unlock()
}

func releaseSession(sess Session, reason string) {
	if err := sess.Close(); err != nil {
		log.Debug().Err(err).Str("component", "toolsession").Str("reason", reason).Msg("release partial session")
	}
}

// toToolResult takes the first content element's text as the canonical
// result and otherwise renders the whole response.
func toToolResult(tool string, res *mcp.CallToolResult) contractx.ToolResult {
	out := contractx.ToolResult{Tool: tool}
	if res == nil {
		out.IsError = true
		out.Text = "empty tool response"
		return out
	}
	out.IsError = res.IsError

	if len(res.Content) > 0 {
		switch content := res.Content[0].(type) {
		case mcp.TextContent:
			out.Text = content.Text
			return out
		case *mcp.TextContent:
			if content != nil {
				out.Text = content.Text
				return out
			}
		}
	}

	out.Value = res
	raw, err := json.Marshal(res)
	if err != nil {
		out.Text = fmt.Sprintf("%+v", *res)
		return out
	}
	out.Text = string(raw)
	return out
}
