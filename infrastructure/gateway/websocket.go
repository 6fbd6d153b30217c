package gateway

import (
	pb "chat-channels/api/chatv1"
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/session"
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// ClientFrame is what a websocket client sends: a message for the channel
// it is connected to.
type ClientFrame struct {
	Content string `json:"content"`
}

// ServerFrame carries either a watch event or the error of a send.
type ServerFrame struct {
	Event *pb.WatchEvent `json:"event,omitempty"`
	Error string         `json:"error,omitempty"`
}

func (g *Gateway) serveChannel(w http.ResponseWriter, r *http.Request) {
	userID, err := g.authenticate(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	channel, err := g.chatService.GetChannel(r.Context(), userID, chat.ChannelID(mux.Vars(r)["channel_id"]))
	if err != nil {
		if goerrors.Is(err, errors.ErrChannelNotFound) {
			http.Error(w, "Channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Channel unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("Websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	sess := g.chatService.OpenSession(userID)
	defer sess.Close()
	handle, err := sess.Select(ctx, channel)
	if err != nil {
		g.writeFrame(conn, ServerFrame{Error: err.Error()})
		return
	}

	frames := make(chan ServerFrame, 16)
	go g.readPump(ctx, cancel, conn, sess, frames)
	g.writePump(ctx, conn, channel, handle, frames)
}

// readPump turns client frames into sends. It cancels ctx when the client
// goes away.
func (g *Gateway) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *session.Session, frames chan<- ServerFrame) {
	defer cancel()
	conn.SetReadLimit(g.config.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(g.config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.config.PongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("Websocket closed unexpectedly", "user_id", sess.UserID(), "error", err)
			}
			return
		}
		var frame ClientFrame
		if err = json.Unmarshal(data, &frame); err != nil {
			g.log.Debug("Malformed client frame", "user_id", sess.UserID(), "error", err)
			err = fmt.Errorf("malformed frame: %w", err)
		} else {
			err = sess.Send(ctx, frame.Content)
		}
		if err == nil {
			continue
		}
		select {
		case frames <- ServerFrame{Error: err.Error()}:
		case <-ctx.Done():
			return
		}
	}
}

// writePump is the only writer of conn.
func (g *Gateway) writePump(ctx context.Context, conn *websocket.Conn, channel chat.Channel, handle *session.Handle, frames <-chan ServerFrame) {
	pingPeriod := g.config.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	history := handle.Messages()
	sent := lo.SliceToMap(history, func(m chat.EnrichedMessage) (chat.MessageID, struct{}) {
		return m.ID, struct{}{}
	})
	if !g.writeFrame(conn, ServerFrame{Event: pb.HistoryEvent(channel, history)}) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(g.config.WriteWait))
			return
		case m, ok := <-handle.Updates():
			if !ok {
				if err := handle.Err(); err != nil {
					g.writeFrame(conn, ServerFrame{Error: err.Error()})
				}
				return
			}
			if _, dup := sent[m.ID]; dup {
				continue
			}
			if !g.writeFrame(conn, ServerFrame{Event: pb.MessageEvent(m)}) {
				return
			}
		case frame := <-frames:
			if !g.writeFrame(conn, frame) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(g.config.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) writeFrame(conn *websocket.Conn, frame ServerFrame) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(g.config.WriteWait))
	if err := conn.WriteJSON(frame); err != nil {
		g.log.Debug("Websocket write failed", "error", err)
		return false
	}
	return true
}
