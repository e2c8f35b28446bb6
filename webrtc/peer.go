package webrtc

import (
	"log"
	"sync"

	"github.com/pion/webrtc/v3"
)

// ICEConfig lists the STUN and TURN servers offered to peers.
type ICEConfig struct {
	STUNURLs       []string
	TURNURLs       []string
	TURNUsername   string
	TURNCredential string
}

// PeerConnection is the server side of one session's DataChannel.
type PeerConnection struct {
	PeerConnection *webrtc.PeerConnection
	DataChannel    *webrtc.DataChannel
	SessionID      string
}

type Manager struct {
	peers map[string]*PeerConnection
	mutex sync.RWMutex
	ice   ICEConfig
}

func NewManager(ice ICEConfig) *Manager {
	return &Manager{
		peers: make(map[string]*PeerConnection),
		ice:   ice,
	}
}

// CreatePeerConnection opens a peer for sessionID with a server-created
// "game" DataChannel. Frames arriving on it are handed to onMessage. Any
// previous peer for the session is closed first.
func (m *Manager) CreatePeerConnection(sessionID string, onMessage func([]byte)) (*PeerConnection, error) {
	m.RemovePeer(sessionID)

	peerConnection, err := webrtc.NewPeerConnection(m.configuration())
	if err != nil {
		return nil, err
	}

	peerConnection.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		log.Printf("ICE Connection State for %s: %s", sessionID, state.String())
		if state == webrtc.ICEConnectionStateFailed || state == webrtc.ICEConnectionStateClosed {
			m.removeIfCurrent(sessionID, peerConnection)
		}
	})

	dataChannel, err := peerConnection.CreateDataChannel("game", nil)
	if err != nil {
		peerConnection.Close()
		return nil, err
	}

	peer := &PeerConnection{
		PeerConnection: peerConnection,
		DataChannel:    dataChannel,
		SessionID:      sessionID,
	}

	dataChannel.OnOpen(func() {
		log.Printf("DataChannel opened for session %s", sessionID)
	})
	dataChannel.OnMessage(func(msg webrtc.DataChannelMessage) {
		if onMessage != nil {
			onMessage(msg.Data)
		}
	})
	dataChannel.OnClose(func() {
		log.Printf("DataChannel closed for session %s", sessionID)
		m.removeIfCurrent(sessionID, peerConnection)
	})
	dataChannel.OnError(func(err error) {
		log.Printf("DataChannel error for %s: %v", sessionID, err)
	})

	m.mutex.Lock()
	m.peers[sessionID] = peer
	m.mutex.Unlock()

	return peer, nil
}

func (m *Manager) GetPeer(sessionID string) (*PeerConnection, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	peer, exists := m.peers[sessionID]
	return peer, exists
}

func (m *Manager) RemovePeer(sessionID string) {
	m.mutex.Lock()
	peer, exists := m.peers[sessionID]
	delete(m.peers, sessionID)
	m.mutex.Unlock()

	if exists && peer.PeerConnection != nil {
		peer.PeerConnection.Close()
	}
}

func (m *Manager) removeIfCurrent(sessionID string, pc *webrtc.PeerConnection) {
	m.mutex.Lock()
	peer, exists := m.peers[sessionID]
	if exists && peer.PeerConnection == pc {
		delete(m.peers, sessionID)
	}
	m.mutex.Unlock()
}

// Send writes a frame to the session's DataChannel. It reports false when no
// open channel exists so the caller can fall back to another transport.
func (m *Manager) Send(sessionID string, frame []byte, binary bool) (bool, error) {
	peer, exists := m.GetPeer(sessionID)
	if !exists || peer.DataChannel == nil {
		return false, nil
	}
	if peer.DataChannel.ReadyState() != webrtc.DataChannelStateOpen {
		return false, nil
	}

	if binary {
		return true, peer.DataChannel.Send(frame)
	}
	return true, peer.DataChannel.SendText(string(frame))
}

// Len reports how many peers are registered.
func (m *Manager) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.peers)
}

func (m *Manager) configuration() webrtc.Configuration {
	var servers []webrtc.ICEServer
	if len(m.ice.STUNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: m.ice.STUNURLs})
	}
	if len(m.ice.TURNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{
			URLs:       m.ice.TURNURLs,
			Username:   m.ice.TURNUsername,
			Credential: m.ice.TURNCredential,
		})
	}
	return webrtc.Configuration{
		ICEServers:         servers,
		ICETransportPolicy: webrtc.ICETransportPolicyAll,
	}
}
