package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Inbound events form a closed set; every event carries a typed payload and
// the dispatch switch in client.go handles each variant explicitly. Adding
// an event means adding a payload struct and a case, checked at compile
// time.
const (
	EventJoinRoom        = "join_room"
	EventLeaveRoom       = "leave_room"
	EventStartQuiz       = "start_quiz"
	EventAdvanceQuestion = "advance_question"
	EventEndQuiz         = "end_quiz"
	EventQueryState      = "query_state"
	EventResyncState     = "resync_state"
	EventSubmitAnswer    = "submit_answer"
)

// Unicast reply events.
const (
	EventRoomJoined = "room_joined"
	EventAnswerAck  = "answer_ack"
	EventQuizState  = "quiz_state"
	EventError      = "error"
)

// WSMessage is the WebSocket message envelope, both directions.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRoomPayload is the data for join_room.
type JoinRoomPayload struct {
	PresentationID uuid.UUID `json:"presentation_id"`
}

// LeaveRoomPayload is the data for leave_room.
type LeaveRoomPayload struct {
	PresentationID uuid.UUID `json:"presentation_id"`
}

// StartQuizPayload is the data for start_quiz (speaker side).
type StartQuizPayload struct {
	QuizID         uuid.UUID `json:"quiz_id"`
	PresentationID uuid.UUID `json:"presentation_id"`
	StartOrder     int       `json:"start_order"`
}

// AdvanceQuestionPayload is the data for advance_question (speaker side).
type AdvanceQuestionPayload struct {
	QuizID         uuid.UUID `json:"quiz_id"`
	PresentationID uuid.UUID `json:"presentation_id"`
	TargetOrder    int       `json:"target_order"`
}

// EndQuizPayload is the data for end_quiz (speaker side).
type EndQuizPayload struct {
	QuizID         uuid.UUID `json:"quiz_id"`
	PresentationID uuid.UUID `json:"presentation_id"`
}

// QueryStatePayload is the data for query_state and resync_state.
type QueryStatePayload struct {
	QuizID uuid.UUID `json:"quiz_id"`
}

// SubmitAnswerPayload is the data for submit_answer. An empty option means
// the client timed out; the submission is still recorded.
type SubmitAnswerPayload struct {
	QuizID         uuid.UUID `json:"quiz_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	PresentationID uuid.UUID `json:"presentation_id"`
	Option         string    `json:"option"`
}

// RoomJoinedPayload acknowledges a membership change to the caller.
type RoomJoinedPayload struct {
	PresentationID uuid.UUID `json:"presentation_id"`
	RoomSize       int       `json:"room_size"`
}

// AnswerAckPayload acknowledges a recorded answer to the submitter only.
type AnswerAckPayload struct {
	QuestionID uuid.UUID `json:"question_id"`
	Option     string    `json:"option"`
	IsCorrect  bool      `json:"is_correct"`
}

// QuizStatePayload replies to query_state/resync_state. HasState is false
// when no pointer exists (never started, ended, or lost to a restart).
type QuizStatePayload struct {
	QuizID        uuid.UUID `json:"quiz_id"`
	HasState      bool      `json:"has_state"`
	QuestionIndex int       `json:"question_index,omitempty"`
}

// ErrorPayload is the unicast failure reply. Rejected operations are never
// silently dropped and never broadcast.
type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

// decodePayload unmarshals a typed event payload.
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	err := json.Unmarshal(raw, &payload)
	return payload, err
}
