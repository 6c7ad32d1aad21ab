package toolsession

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	initErr  error
	listErr  error
	closeErr error
	callFn   func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

	closed   atomic.Int32
	inFlight atomic.Int32
	overlap  atomic.Bool
	calls    atomic.Int32
}

func (f *fakeSession) Initialize(context.Context, mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &mcp.InitializeResult{}, nil
}

func (f *fakeSession) ListTools(context.Context, mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: []mcp.Tool{
		{Name: contractx.ToolLogPreparationStart},
		{Name: contractx.ToolGetQualityScore},
	}}, nil
}

func (f *fakeSession) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.inFlight.Add(-1)
	f.calls.Add(1)

	if f.callFn != nil {
		return f.callFn(ctx, req)
	}
	return mcp.NewToolResultText("ok:" + req.Params.Name), nil
}

func (f *fakeSession) Close() error {
	f.closed.Add(1)
	return f.closeErr
}

type countingDialer struct {
	mu      sync.Mutex
	dials   int
	err     error
	session func() *fakeSession
	last    *fakeSession
}

func (d *countingDialer) Dial(context.Context) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	s := &fakeSession{}
	if d.session != nil {
		s = d.session()
	}
	d.last = s
	return s, nil
}

func (d *countingDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func TestConnectIsIdempotent(t *testing.T) {
	t.Parallel()

	d := &countingDialer{}
	c := NewClient(d)

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Connect(context.Background()))

	assert.Equal(t, 1, d.count())
	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, []string{contractx.ToolLogPreparationStart, contractx.ToolGetQualityScore}, c.Tools())
}

func TestConnectFailureReleasesPartialSession(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{initErr: errors.New("bad handshake")}
	}}
	c := NewClient(d)

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, contractx.ErrConnection)
	assert.Equal(t, StateDisconnected, c.State())
	assert.False(t, c.IsConnected())
	assert.Error(t, c.LastError())
	assert.Equal(t, int32(1), d.last.closed.Load())
}

func TestConnectDialFailure(t *testing.T) {
	t.Parallel()

	c := NewClient(&countingDialer{err: errors.New("no such binary")})
	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, contractx.ErrConnection)
	assert.Equal(t, StateDisconnected, c.State())
}

func TestInvokeRequiresConnection(t *testing.T) {
	t.Parallel()

	c := NewClient(&countingDialer{})
	res, err := c.Invoke(context.Background(), contractx.ToolGetQualityScore, nil)
	assert.ErrorIs(t, err, contractx.ErrNotConnected)
	assert.True(t, res.IsError)
}

func TestInvokeReturnsFirstTextContent(t *testing.T) {
	t.Parallel()

	c := NewClient(&countingDialer{})
	require.NoError(t, c.Connect(context.Background()))

	res, err := c.Invoke(context.Background(), contractx.ToolLogPreparationStart, map[string]any{"item_name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok:"+contractx.ToolLogPreparationStart, res.Text)
	assert.False(t, res.IsError)
}

func TestInvokeRendersNonTextContent(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{callFn: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{
				mcp.ImageContent{Type: "image", Data: "aGk=", MIMEType: "image/png"},
			}}, nil
		}}
	}}
	c := NewClient(d)
	require.NoError(t, c.Connect(context.Background()))

	res, err := c.Invoke(context.Background(), "snapshot", nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Value)
	assert.Contains(t, res.Text, "image/png")
}

func TestInvokePropagatesToolError(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{callFn: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("item_name is required"), nil
		}}
	}}
	c := NewClient(d)
	require.NoError(t, c.Connect(context.Background()))

	res, err := c.Invoke(context.Background(), contractx.ToolLogPreparationStart, nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "item_name is required", res.Text)
	assert.True(t, c.IsConnected())
}

func TestInvokeTransportErrorKeepsSession(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{callFn: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, errors.New("broken pipe")
		}}
	}}
	c := NewClient(d)
	require.NoError(t, c.Connect(context.Background()))

	_, err := c.Invoke(context.Background(), contractx.ToolGetQualityScore, nil)
	assert.ErrorIs(t, err, contractx.ErrToolCall)
	assert.Equal(t, StateReady, c.State())
}

func TestInvokeCancelledTearsDown(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{callFn: func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
	}}
	c := NewClient(d)
	require.NoError(t, c.Connect(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Invoke(ctx, contractx.ToolGetQualityScore, nil)
	assert.ErrorIs(t, err, contractx.ErrToolCall)
	assert.Equal(t, StateDisconnected, c.State())
	assert.Equal(t, int32(1), d.last.closed.Load())
}

func TestConcurrentInvokesAreSerialized(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{callFn: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			time.Sleep(2 * time.Millisecond)
			return mcp.NewToolResultText(req.Params.Name), nil
		}}
	}}
	c := NewClient(d)
	require.NoError(t, c.Connect(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Invoke(context.Background(), contractx.ToolLogPreparationStart, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, d.last.overlap.Load(), "tool calls overlapped on the shared session")
	assert.Equal(t, int32(8), d.last.calls.Load())
}

func TestDisconnectIsNoOpWhenDisconnected(t *testing.T) {
	t.Parallel()

	d := &countingDialer{}
	c := NewClient(d)
	c.Disconnect()

	require.NoError(t, c.Connect(context.Background()))
	c.Disconnect()
	c.Disconnect()

	assert.Equal(t, StateDisconnected, c.State())
	assert.Equal(t, int32(1), d.last.closed.Load())
	assert.Empty(t, c.Tools())
}

func TestDisconnectSwallowsCloseError(t *testing.T) {
	t.Parallel()

	d := &countingDialer{session: func() *fakeSession {
		return &fakeSession{closeErr: errors.New("process already exited")}
	}}
	c := NewClient(d)
	require.NoError(t, c.Connect(context.Background()))

	c.Disconnect()
	assert.Equal(t, StateDisconnected, c.State())
	assert.EqualError(t, c.LastError(), "process already exited")

	require.NoError(t, c.Connect(context.Background()))
	assert.NoError(t, c.LastError())
	assert.Equal(t, 2, d.count())
}

func TestStdioSessionReleasesInReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	s := &stdioSession{}
	s.push("process", func() error {
		order = append(order, "process")
		return errors.New("exit status 1")
	})
	s.push("stderr", func() error {
		order = append(order, "stderr")
		return nil
	})

	err := s.Close()
	assert.ErrorContains(t, err, "release process")
	assert.Equal(t, []string{"stderr", "process"}, order)
	assert.NoError(t, s.Close())
}
