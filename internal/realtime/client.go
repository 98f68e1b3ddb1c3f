package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/slidepulse/backend/internal/models"
	"github.com/slidepulse/backend/internal/quizlive"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// ResolveIdentity validates a bearer credential and resolves it to a durable
// identity. An error refuses the connection; there are no retries.
type ResolveIdentity func(token string) (quizlive.Identity, error)

// Client represents a single WebSocket connection. The identity is resolved
// at handshake time and immutable afterwards; the rooms set is touched only
// by the read loop, so per-connection events stay FIFO without locking.
type Client struct {
	ID       string
	Identity quizlive.Identity

	hub         *Hub
	coordinator *quizlive.Coordinator
	conn        *websocket.Conn
	send        chan WSMessage
	rooms       map[uuid.UUID]struct{}
	logger      *zap.Logger
	ctx         context.Context
}

// ServeWs is the connection gatekeeper: it resolves the bearer credential
// from the handshake query, refuses the connection on failure, attaches the
// identity to the session, and runs the client loops.
func ServeWs(hub *Hub, logger *zap.Logger, resolve ResolveIdentity, coordinator *quizlive.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		identity, err := resolve(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:          uuid.New().String(),
			Identity:    identity,
			hub:         hub,
			coordinator: coordinator,
			conn:        conn,
			send:        make(chan WSMessage, 256),
			rooms:       make(map[uuid.UUID]struct{}),
			logger:      logger,
			ctx:         c.Request.Context(),
		}

		// Joining at handshake is a convenience; join_room works the same.
		if pidStr := c.Query("presentation_id"); pidStr != "" {
			if pid, err := uuid.Parse(pidStr); err == nil {
				client.joinRoom(pid)
			}
		}

		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		// Disconnect implicitly removes the connection from every room it
		// joined; it never touches quiz progress or answers.
		for pid := range c.rooms {
			c.hub.Unregister(c, pid)
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		c.handle(msg)
	}
}

// handle dispatches one inbound message. Events are processed in the order
// received on this connection; failures are unicast error replies and never
// tear the connection down.
func (c *Client) handle(msg WSMessage) {
	switch msg.Event {
	case EventJoinRoom:
		payload, err := decodePayload[JoinRoomPayload](msg.Data)
		if err != nil || payload.PresentationID == uuid.Nil {
			c.replyError(msg.Event, "invalid join_room payload")
			return
		}
		c.joinRoom(payload.PresentationID)

	case EventLeaveRoom:
		payload, err := decodePayload[LeaveRoomPayload](msg.Data)
		if err != nil || payload.PresentationID == uuid.Nil {
			c.replyError(msg.Event, "invalid leave_room payload")
			return
		}
		if _, ok := c.rooms[payload.PresentationID]; ok {
			delete(c.rooms, payload.PresentationID)
			c.hub.Unregister(c, payload.PresentationID)
		}

	case EventStartQuiz:
		payload, err := decodePayload[StartQuizPayload](msg.Data)
		if err != nil {
			c.replyError(msg.Event, "invalid start_quiz payload")
			return
		}
		if !c.requirePresenter(msg.Event) {
			return
		}
		if _, err := c.coordinator.StartQuiz(c.ctx, payload.QuizID, payload.PresentationID, payload.StartOrder); err != nil {
			c.replyError(msg.Event, err.Error())
		}

	case EventAdvanceQuestion:
		payload, err := decodePayload[AdvanceQuestionPayload](msg.Data)
		if err != nil {
			c.replyError(msg.Event, "invalid advance_question payload")
			return
		}
		if !c.requirePresenter(msg.Event) {
			return
		}
		if _, err := c.coordinator.AdvanceQuestion(c.ctx, payload.QuizID, payload.PresentationID, payload.TargetOrder); err != nil {
			c.replyError(msg.Event, err.Error())
		}

	case EventEndQuiz:
		payload, err := decodePayload[EndQuizPayload](msg.Data)
		if err != nil {
			c.replyError(msg.Event, "invalid end_quiz payload")
			return
		}
		if !c.requirePresenter(msg.Event) {
			return
		}
		if err := c.coordinator.EndQuiz(c.ctx, payload.QuizID, payload.PresentationID); err != nil {
			c.replyError(msg.Event, err.Error())
		}

	case EventQueryState, EventResyncState:
		payload, err := decodePayload[QueryStatePayload](msg.Data)
		if err != nil {
			c.replyError(msg.Event, "invalid state query payload")
			return
		}
		state, ok := c.coordinator.QueryState(payload.QuizID)
		reply := QuizStatePayload{QuizID: payload.QuizID, HasState: ok}
		if ok {
			reply.QuestionIndex = state.QuestionIndex
		}
		c.reply(EventQuizState, reply)

	case EventSubmitAnswer:
		payload, err := decodePayload[SubmitAnswerPayload](msg.Data)
		if err != nil {
			c.replyError(msg.Event, "invalid submit_answer payload")
			return
		}
		// The ack is delivered as soon as the answer is durable, before the
		// stats broadcast reaches the room.
		_, _, err = c.coordinator.SubmitAnswer(c.ctx, c.Identity, quizlive.SubmitAnswerInput{
			QuizID:         payload.QuizID,
			QuestionID:     payload.QuestionID,
			PresentationID: payload.PresentationID,
			Option:         payload.Option,
		}, func(answer *models.Answer) {
			c.reply(EventAnswerAck, AnswerAckPayload{
				QuestionID: answer.QuestionID,
				Option:     answer.Option,
				IsCorrect:  answer.IsCorrect,
			})
		})
		if err != nil {
			c.replyError(msg.Event, err.Error())
		}

	default:
		c.replyError(msg.Event, "unknown event")
	}
}

func (c *Client) joinRoom(presentationID uuid.UUID) {
	c.rooms[presentationID] = struct{}{}
	c.hub.Register(c, presentationID)
	c.reply(EventRoomJoined, RoomJoinedPayload{
		PresentationID: presentationID,
		RoomSize:       c.hub.RoomSize(presentationID),
	})
}

// requirePresenter gates quiz progression to speaker/organizer roles.
func (c *Client) requirePresenter(event string) bool {
	if models.Role(c.Identity.Role).CanPresent() {
		return true
	}
	c.replyError(event, "insufficient permissions")
	return false
}

func (c *Client) reply(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case c.send <- WSMessage{Event: event, Data: data}:
	default:
	}
}

func (c *Client) replyError(event, message string) {
	c.reply(EventError, ErrorPayload{Event: event, Message: message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
