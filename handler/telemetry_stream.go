package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"wellbeing/model"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 50 * time.Second
	streamWriteWait  = 10 * time.Second
	streamMaxMessage = 4096
)

const (
	StreamTypeTelemetry = "TELEMETRY"
	StreamTypePing      = "PING"
	StreamTypePong      = "PONG"
	StreamTypeAck       = "ack"
)

// StreamMessage is one frame in either direction on the telemetry stream.
type StreamMessage struct {
	Type      string          `json:"type"`
	Status    string          `json:"status,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type TelemetryStreamHandler struct {
	telemetry *usecase.TelemetryService
	upgrader  websocket.Upgrader
}

func NewTelemetryStreamHandler(telemetry *usecase.TelemetryService, allowedOrigins []string) *TelemetryStreamHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &TelemetryStreamHandler{
		telemetry: telemetry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// Stream upgrades to a websocket and ingests one telemetry snapshot per
// TELEMETRY frame. Reads happen on the request goroutine; all writes go
// through a single writer goroutine.
func (h *TelemetryStreamHandler) Stream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	utils.ActiveMonitors.Inc()
	defer utils.ActiveMonitors.Dec()

	send := make(chan StreamMessage, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, send)
	}()

	h.readPump(c, conn, userID, send, done)
	close(send)
	<-done
}

// readPump stops when the connection fails or the writer has gone away.
func (h *TelemetryStreamHandler) readPump(c *gin.Context, conn *websocket.Conn, userID string, send chan<- StreamMessage, writerDone <-chan struct{}) {
	defer conn.Close()

	reply := func(msg StreamMessage) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	conn.SetReadLimit(streamMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("telemetry stream error for %s: %v", userID, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))

		out := StreamMessage{Type: StreamTypeAck, Status: "error", Timestamp: time.Now().Unix()}
		switch msg.Type {
		case StreamTypePing:
			out.Type, out.Status = StreamTypePong, ""
		case StreamTypeTelemetry:
			out.Status = h.ingest(c, userID, msg.Payload)
		}
		if !reply(out) {
			return
		}
	}
}

func (h *TelemetryStreamHandler) ingest(c *gin.Context, userID string, raw json.RawMessage) string {
	var payload model.TelemetryPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Blinks < 0 || payload.Keys < 0 || payload.Mouse < 0 {
		utils.TrackTelemetry("websocket", "invalid")
		return "error"
	}
	if err := h.telemetry.Ingest(c.Request.Context(), userID, payload); err != nil {
		utils.TrackTelemetry("websocket", "error")
		return "error"
	}
	utils.TrackTelemetry("websocket", "success")
	return "success"
}

func writePump(conn *websocket.Conn, send <-chan StreamMessage) {
	ticker := time.NewTicker(streamPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
