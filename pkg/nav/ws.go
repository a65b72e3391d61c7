package nav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fieldrover/waypointd/internal/httpc"
	"github.com/fieldrover/waypointd/internal/log"
)

// probeInterval is the retry cadence while waiting for the server to come up.
const probeInterval = time.Second

// WSClient implements Navigator over a WebSocket goal channel.
//
// Goals are sent as TypeGoal frames; the server streams TypeStatus frames
// back and the read loop routes terminal ones to the matching handle.
type WSClient struct {
	conn *websocket.Conn

	// writeMu serializes writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Outcome

	done chan struct{}
}

var _ Navigator = (*WSClient)(nil)

// Dial connects to the navigation server at the given base URL
// (e.g. "http://192.168.1.40:8500").
//
// It blocks until the server's status endpoint answers, mirroring the usual
// "wait for the action server before sending goals" startup contract, then
// opens the goal channel at /ws/goals.
func Dial(ctx context.Context, serverURL string) (*WSClient, error) {
	serverURL = strings.TrimRight(serverURL, "/")

	if err := waitForServer(ctx, serverURL); err != nil {
		return nil, err
	}

	wsURL := strings.Replace(serverURL, "http", "ws", 1) + "/ws/goals"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial goal channel %q: %w", wsURL, err)
	}

	c := &WSClient{
		conn:    conn,
		pending: make(map[string]chan Outcome),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// waitForServer polls the server status endpoint until it answers.
func waitForServer(ctx context.Context, serverURL string) error {
	log.Info("Connecting to navigation server...", "url", serverURL)
	for {
		resp, err := httpc.Get(serverURL + "/api/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				log.Info("Connected to navigation server.")
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrServerUnavailable, serverURL)
		case <-time.After(probeInterval):
		}
	}
}

// SendGoal dispatches a goal and returns a handle for awaiting its terminal
// state. An ID is assigned if the goal has none.
func (c *WSClient) SendGoal(ctx context.Context, goal Goal) (Handle, error) {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	msg, err := NewMessage(TypeGoal, goal)
	if err != nil {
		return nil, err
	}

	ch := make(chan Outcome, 1)
	c.mu.Lock()
	c.pending[goal.ID] = ch
	c.mu.Unlock()

	if err := c.write(msg); err != nil {
		c.mu.Lock()
		delete(c.pending, goal.ID)
		c.mu.Unlock()
		return nil, fmt.Errorf("send goal %s: %w", goal.ID, err)
	}

	return &wsHandle{client: c, goalID: goal.ID, outcome: ch}, nil
}

// CancelAll asks the server to abandon every active goal. Errors are logged,
// not returned: the caller does not wait on cancellation.
func (c *WSClient) CancelAll() {
	msg, err := NewMessage(TypeCancelAll, nil)
	if err != nil {
		return
	}
	if err := c.write(msg); err != nil {
		log.Error("cancel request failed", "error", err)
	}
}

// Close tears down the goal channel. In-flight Waits return
// ErrConnectionClosed.
func (c *WSClient) Close() error {
	return c.conn.Close()
}

func (c *WSClient) write(msg *Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop routes status frames to pending handles until the connection
// drops.
func (c *WSClient) readLoop() {
	defer close(c.done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Warn("goal channel closed", "error", err)
			return
		}

		msg, err := ParseMessage(data)
		if err != nil {
			log.Warn("malformed frame from navigation server", "error", err)
			continue
		}
		if msg.Type != TypeStatus {
			continue
		}

		var status StatusData
		if err := msg.ParseData(&status); err != nil {
			log.Warn("malformed status frame", "error", err)
			continue
		}
		if !status.State.Terminal() {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[status.GoalID]
		if ok {
			delete(c.pending, status.GoalID)
		}
		c.mu.Unlock()

		if ok {
			ch <- Outcome{GoalID: status.GoalID, State: status.State}
		}
	}
}

// wsHandle tracks one in-flight goal on a WSClient.
type wsHandle struct {
	client  *WSClient
	goalID  string
	outcome chan Outcome
}

func (h *wsHandle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case out := <-h.outcome:
		return out, nil
	case <-h.client.done:
		return Outcome{}, ErrConnectionClosed
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
