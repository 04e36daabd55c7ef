package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/logging"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// KindSnapshot is the first message of every stream: the current outcome.
const KindSnapshot events.Kind = "snapshot"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// StreamBattle upgrades to a websocket and forwards the battle's events.
// The stream closes after the battle ends or when the client goes away.
func (h *Handler) StreamBattle(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	b, err := h.svc.GetBattle(battleID)
	if err != nil {
		writeError(c, err)
		return
	}

	var (
		ch     <-chan events.Event
		cancel = func() {}
	)
	if h.hub != nil && !b.IsFinished() {
		ch, cancel = h.hub.Subscribe(battleID)
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldBattleID: battleID})
		return
	}
	defer conn.Close()

	snapshot := events.Event{Kind: KindSnapshot, BattleID: battleID, At: time.Now().UTC(), Data: b.OutcomeV1()}
	if err := writeEvent(conn, snapshot); err != nil || ch == nil {
		closeStream(conn)
		return
	}

	// Reader: handles pongs and notices the client leaving.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case e, open := <-ch:
			if !open {
				return
			}
			if err := writeEvent(conn, e); err != nil {
				return
			}
			if e.Kind == events.KindBattleEnded {
				closeStream(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, e events.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func closeStream(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle ended")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
