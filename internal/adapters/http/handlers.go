package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/ports/input"
)

// decode reads a JSON body and validates it. It writes the 400 itself and
// reports false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeStatus(w, r, http.StatusBadRequest, "bad_request")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeValidation(w, r, err)
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStatus(w, r, http.StatusBadRequest, "bad_request")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !s.decode(w, r, &req) {
		return
	}
	in := input.NewEvent{
		OrganizerID:     userID(r.Context()),
		Title:           req.Title,
		MaxParticipants: req.MaxParticipants,
		MinParticipants: req.MinParticipants,
		ChannelID:       req.ChannelID,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		in.EndTime = *req.EndTime
	}
	event, err := s.svc.Events.CreateEvent(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	event, err := s.svc.Events.GetEvent(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := &domain.CompletionOptions{
		Archive:        req.Archive,
		Notify:         req.Notify,
		ResultsVisible: req.ResultsVisible,
	}
	result, err := s.svc.Lifecycle.RequestTransition(r.Context(), id, domain.EventStatus(req.To), domain.OrganizerActor(userID(r.Context())), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransitionResponse(result))
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	n, err := s.svc.Lifecycle.ReconcileSideEffects(r.Context(), id, domain.OrganizerActor(userID(r.Context())))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	view := input.LeaderboardView(r.URL.Query().Get("view"))
	board, err := s.svc.Leaderboard.GetLeaderboard(r.Context(), id, userID(r.Context()), view)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardResponse(board))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	participant, err := s.svc.Participants.Register(r.Context(), input.Registration{
		EventID:     id,
		UserID:      userID(r.Context()),
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Role:        domain.Role(req.Role),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipantResponse(participant))
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	participant, err := s.svc.Participants.CheckIn(r.Context(), id, userID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(participant))
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req resultRequest
	if !s.decode(w, r, &req) {
		return
	}
	participant, err := s.svc.Participants.RecordResult(r.Context(), id, userID(r.Context()), req.Score, req.Placement)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(participant))
}

func (s *Server) handleOverrideStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !s.decode(w, r, &req) {
		return
	}
	participant, err := s.svc.Participants.OverrideStatus(r.Context(), id, userID(r.Context()), domain.ParticipantStatus(req.Status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(participant))
}

// handleRunScheduler runs one sweep. Per-event failures are reported in the
// summary with a 200; the caller decides whether to alert on Success=false.
func (s *Server) handleRunScheduler(w http.ResponseWriter, r *http.Request) {
	summary := s.svc.Scheduler.RunScheduledTransitions(r.Context())
	writeJSON(w, http.StatusOK, summary)
}
