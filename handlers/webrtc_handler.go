package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pion/webrtc/v3"

	"snake-arena/auth"
	"snake-arena/game"
	webrtcManager "snake-arena/webrtc"
)

type WebRTCHandler struct {
	gameManager   *game.Manager
	webrtcManager *webrtcManager.Manager
}

func NewWebRTCHandler(gameManager *game.Manager, webrtcManager *webrtcManager.Manager) *WebRTCHandler {
	return &WebRTCHandler{
		gameManager:   gameManager,
		webrtcManager: webrtcManager,
	}
}

type offerRequest struct {
	Offer struct {
		Type string `json:"type"`
		SDP  string `json:"sdp"`
	} `json:"offer"`
}

type answerResponse struct {
	PlayerID string            `json:"player_id"`
	Answer   map[string]string `json:"answer"`
}

// HandleOffer binds a DataChannel to the caller's existing session. It runs
// behind auth.Middleware, which supplies the session id. Frames received on
// the channel are handled exactly like WebSocket frames.
func (h *WebRTCHandler) HandleOffer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	playerID := auth.PlayerIDFromRequest(r)
	if playerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	var req offerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Offer.SDP == "" {
		http.Error(w, "Offer SDP is required", http.StatusBadRequest)
		return
	}

	peer, err := h.webrtcManager.CreatePeerConnection(playerID, func(frame []byte) {
		h.gameManager.HandleFrame(playerID, frame)
	})
	if err != nil {
		http.Error(w, "Failed to create peer connection: "+err.Error(), http.StatusInternalServerError)
		return
	}

	answer, err := negotiate(peer.PeerConnection, req.Offer.SDP)
	if err != nil {
		log.Printf("WebRTC negotiation failed for %s: %v", playerID, err)
		h.webrtcManager.RemovePeer(playerID)
		http.Error(w, "Failed to negotiate peer connection", http.StatusInternalServerError)
		return
	}

	// the session may have gone while we negotiated
	if !h.gameManager.SessionActive(playerID) {
		h.webrtcManager.RemovePeer(playerID)
		http.Error(w, "Session closed", http.StatusGone)
		return
	}

	log.Printf("WebRTC peer bound to session %s", playerID)
	writeJSON(w, http.StatusOK, answerResponse{
		PlayerID: playerID,
		Answer: map[string]string{
			"type": answer.Type.String(),
			"sdp":  answer.SDP,
		},
	})
}

// negotiate answers the offer and waits for ICE gathering so the answer
// carries every candidate.
func negotiate(pc *webrtc.PeerConnection, sdp string) (*webrtc.SessionDescription, error) {
	offer := webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  sdp,
	}
	if err := pc.SetRemoteDescription(offer); err != nil {
		return nil, err
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		return nil, err
	}

	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		return nil, err
	}
	<-gatherComplete

	return pc.LocalDescription(), nil
}
