package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides the keepalive settings used by the chat socket
var DefaultTimeouts = TimeoutConfig{
	PongWait:   60 * time.Second,
	PingPeriod: 54 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks open chat sockets so they can be kept alive and closed on
// shutdown.
type Manager struct {
	connections sync.Map
	timeouts    TimeoutConfig
}

func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers conn and arms its read deadline. The deadline is
// pushed forward on every pong.
func (m *Manager) AddConnection(conn *websocket.Conn) {
	m.connections.Store(conn, struct{}{})

	m.ExtendReadDeadline(conn)
	conn.SetPongHandler(func(string) error {
		m.ExtendReadDeadline(conn)
		return nil
	})
}

// ExtendReadDeadline gives conn another PongWait before reads time out.
// Pongs are only seen while reading, so callers that block between reads
// must call this before reading again.
func (m *Manager) ExtendReadDeadline(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(m.timeouts.PongWait))
}

func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	m.connections.Delete(conn)
}

func (m *Manager) GetConnectionCount() int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

func (m *Manager) HasConnection(conn *websocket.Conn) bool {
	_, exists := m.connections.Load(conn)
	return exists
}

func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}

// Keepalive pings conn every PingPeriod until done is closed or a ping
// fails. writeMu must be the mutex guarding all writes to conn.
func (m *Manager) Keepalive(conn *websocket.Conn, writeMu *sync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(m.timeouts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(m.timeouts.WriteWait))
			writeMu.Unlock()
			if err != nil {
				log.Debug().Err(err).Msg("Ping failed, stopping keepalive")
				return
			}
		}
	}
}

// CloseAll sends a going-away close frame to every tracked connection.
func (m *Manager) CloseAll() {
	m.connections.Range(func(key, value interface{}) bool {
		conn := key.(*websocket.Conn)
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(m.timeouts.WriteWait))
		_ = conn.Close()
		m.connections.Delete(key)
		return true
	})
}
