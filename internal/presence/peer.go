package presence

import "sync"

// JSONConn is the part of a websocket connection a Peer needs
type JSONConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type connPeer struct {
	id   string
	mu   sync.Mutex
	conn JSONConn
}

// NewPeer wraps conn so broadcasts from several goroutines never interleave writes
func NewPeer(id string, conn JSONConn) Peer {
	return &connPeer{id: id, conn: conn}
}

func (p *connPeer) ID() string {
	return p.id
}

func (p *connPeer) WriteJSON(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(v)
}

func (p *connPeer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.Close()
}
