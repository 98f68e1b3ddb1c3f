package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slidepulse/backend/internal/auth"
	"github.com/slidepulse/backend/internal/models"
	"github.com/slidepulse/backend/internal/quizlive"
)

// stubStore serves one active quiz for gatekeeper and dispatch tests.
type stubStore struct {
	quiz    *models.Quiz
	answers map[uuid.UUID]models.Answer // userID keyed, single-question quiz
}

func (s *stubStore) GetQuiz(context.Context, uuid.UUID) (*models.Quiz, error) {
	return s.quiz, nil
}

func (s *stubStore) UpsertAnswer(_ context.Context, questionID, userID uuid.UUID, option string, isCorrect bool) (*models.Answer, error) {
	a := models.Answer{QuestionID: questionID, UserID: userID, Option: option, IsCorrect: isCorrect, AnsweredAt: time.Now()}
	s.answers[userID] = a
	return &a, nil
}

func (s *stubStore) QuizAnswers(context.Context, uuid.UUID) ([]models.Answer, error) {
	var out []models.Answer
	for _, a := range s.answers {
		out = append(out, a)
	}
	return out, nil
}

func newWSTestServer(t *testing.T) (*httptest.Server, *auth.JWTService, *models.Quiz) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	quiz := &models.Quiz{
		ID:               uuid.New(),
		PresentationID:   uuid.New(),
		Title:            "Warmup",
		Status:           models.QuizActive,
		TimeLimitSeconds: 20,
	}
	quiz.Questions = []models.Question{{
		ID:            uuid.New(),
		QuizID:        quiz.ID,
		Order:         0,
		Prompt:        "first?",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: "A",
	}}

	jwtService := auth.NewJWTService("test-secret", 1)
	hub := NewHub(zap.NewNop(), nil, nil)
	store := &stubStore{quiz: quiz, answers: make(map[uuid.UUID]models.Answer)}
	coordinator := quizlive.NewCoordinator(store, quizlive.NewProgressTracker(), hub, zap.NewNop())

	resolve := func(token string) (quizlive.Identity, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return quizlive.Identity{}, err
		}
		return quizlive.Identity{UserID: claims.UserID, Role: claims.Role, DisplayName: claims.DisplayName}, nil
	}

	router := gin.New()
	router.GET("/ws", ServeWs(hub, zap.NewNop(), resolve, coordinator))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, jwtService, quiz
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
}

func readEvent(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestGatekeeperRefusesMissingOrInvalidToken(t *testing.T) {
	srv, _, _ := newWSTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "token=not-a-jwt"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGatekeeperAcceptsValidTokenAndJoinsRoom(t *testing.T) {
	srv, jwtService, quiz := newWSTestServer(t)

	token, err := jwtService.Generate(uuid.New(), "a@example.com", "audience", "Alice")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(
		wsURL(srv, "token="+token+"&presentation_id="+quiz.PresentationID.String()), nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readEvent(t, conn)
	require.Equal(t, EventRoomJoined, msg.Event)
	var joined RoomJoinedPayload
	require.NoError(t, json.Unmarshal(msg.Data, &joined))
	assert.Equal(t, quiz.PresentationID, joined.PresentationID)
	assert.Equal(t, 1, joined.RoomSize)
}

func TestSubmitAnswerOverSocket(t *testing.T) {
	srv, jwtService, quiz := newWSTestServer(t)

	token, err := jwtService.Generate(uuid.New(), "a@example.com", "audience", "Alice")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(
		wsURL(srv, "token="+token+"&presentation_id="+quiz.PresentationID.String()), nil)
	require.NoError(t, err)
	defer conn.Close()
	readEvent(t, conn) // room_joined

	payload, _ := json.Marshal(SubmitAnswerPayload{
		QuizID:         quiz.ID,
		QuestionID:     quiz.Questions[0].ID,
		PresentationID: quiz.PresentationID,
		Option:         "A",
	})
	require.NoError(t, conn.WriteJSON(WSMessage{Event: EventSubmitAnswer, Data: payload}))

	// The unicast ack arrives first, then the room stats broadcast.
	msg := readEvent(t, conn)
	require.Equal(t, EventAnswerAck, msg.Event)
	var ack AnswerAckPayload
	require.NoError(t, json.Unmarshal(msg.Data, &ack))
	assert.Equal(t, quiz.Questions[0].ID, ack.QuestionID)
	assert.True(t, ack.IsCorrect)

	msg = readEvent(t, conn)
	require.Equal(t, quizlive.EventStatsUpdated, msg.Event)
	var stats quizlive.QuizStats
	require.NoError(t, json.Unmarshal(msg.Data, &stats))
	assert.Equal(t, 1, stats.TotalAnswers)
	assert.Equal(t, 1, stats.TotalParticipants)
}

func TestAudienceCannotDriveProgression(t *testing.T) {
	srv, jwtService, quiz := newWSTestServer(t)

	token, err := jwtService.Generate(uuid.New(), "a@example.com", "audience", "Alice")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(
		wsURL(srv, "token="+token+"&presentation_id="+quiz.PresentationID.String()), nil)
	require.NoError(t, err)
	defer conn.Close()
	readEvent(t, conn) // room_joined

	payload, _ := json.Marshal(StartQuizPayload{QuizID: quiz.ID, PresentationID: quiz.PresentationID})
	require.NoError(t, conn.WriteJSON(WSMessage{Event: EventStartQuiz, Data: payload}))

	msg := readEvent(t, conn)
	require.Equal(t, EventError, msg.Event)
	var errPayload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Data, &errPayload))
	assert.Equal(t, EventStartQuiz, errPayload.Event)
}

func TestSpeakerProgressionReachesAudience(t *testing.T) {
	srv, jwtService, quiz := newWSTestServer(t)

	speakerToken, err := jwtService.Generate(uuid.New(), "s@example.com", "speaker", "Sam")
	require.NoError(t, err)
	audienceToken, err := jwtService.Generate(uuid.New(), "a@example.com", "audience", "Alice")
	require.NoError(t, err)

	speaker, _, err := websocket.DefaultDialer.Dial(
		wsURL(srv, "token="+speakerToken+"&presentation_id="+quiz.PresentationID.String()), nil)
	require.NoError(t, err)
	defer speaker.Close()
	listener, _, err := websocket.DefaultDialer.Dial(
		wsURL(srv, "token="+audienceToken+"&presentation_id="+quiz.PresentationID.String()), nil)
	require.NoError(t, err)
	defer listener.Close()
	readEvent(t, speaker)
	readEvent(t, listener)

	payload, _ := json.Marshal(StartQuizPayload{QuizID: quiz.ID, PresentationID: quiz.PresentationID, StartOrder: 0})
	require.NoError(t, speaker.WriteJSON(WSMessage{Event: EventStartQuiz, Data: payload}))

	msg := readEvent(t, listener)
	require.Equal(t, quizlive.EventQuizStarted, msg.Event)
	var started quizlive.QuizStartedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &started))
	assert.Equal(t, quiz.ID, started.Quiz.ID)
	assert.Equal(t, 0, started.QuestionIndex)
	// Correct answers never leave the server.
	assert.NotContains(t, string(msg.Data), "correct_answer")

	// A late joiner resyncs to the live pointer.
	statePayload, _ := json.Marshal(QueryStatePayload{QuizID: quiz.ID})
	require.NoError(t, listener.WriteJSON(WSMessage{Event: EventResyncState, Data: statePayload}))
	msg = readEvent(t, listener)
	require.Equal(t, EventQuizState, msg.Event)
	var state QuizStatePayload
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.True(t, state.HasState)
	assert.Equal(t, 0, state.QuestionIndex)
}
