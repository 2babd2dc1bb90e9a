// Package ws implements transport.Connection over a gorilla/websocket
// connection, carrying one FIX frame per WebSocket text message. It
// generalizes the teacher's cluster.Node.listenAndServeWS upgrade pattern
// to environments that cannot open a raw TCP FIX port (admin tooling,
// browser-based test harnesses).
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/quantrail/fixcore/transport"
)

// Connection wraps a *websocket.Conn as a transport.Connection.
type Connection struct {
	conn *websocket.Conn
}

// New wraps an already-established websocket connection.
func New(conn *websocket.Conn) *Connection {
	return &Connection{conn: conn}
}

// Upgrader mirrors the teacher's inline gorilla/websocket.Upgrader
// construction in cluster.Node.setupWSHandler.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Accept upgrades an HTTP request to a WebSocket and wraps it.
func Accept(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Dial connects to a ws:// or wss:// URL and wraps the resulting connection.
func Dial(url string) (*Connection, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

func (c *Connection) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, transport.ErrDisconnected
	}
	return data, nil
}

func (c *Connection) Write(frame []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

var _ transport.Connection = (*Connection)(nil)
