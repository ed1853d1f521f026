package rooms

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/json"
	"github.com/fuseroom/fuseroom/internal/infrastructure/validate"
	"github.com/fuseroom/fuseroom/internal/infrastructure/ws"
	"github.com/fuseroom/fuseroom/internal/presentation/utils"
	"github.com/fuseroom/fuseroom/internal/service"
)

type Handler struct {
	roomService      *service.RoomService
	admissionService *service.AdmissionService
	audits           domain.RoomAuditRepository
	participants     domain.ParticipantRepository
	roomManager      *ws.RoomManager
	core             *ws.Core
}

func NewHandler(
	roomService *service.RoomService,
	admissionService *service.AdmissionService,
	audits domain.RoomAuditRepository,
	participants domain.ParticipantRepository,
	core *ws.Core,
) *Handler {
	return &Handler{
		roomService:      roomService,
		admissionService: admissionService,
		audits:           audits,
		participants:     participants,
		roomManager:      core.RoomManager(),
		core:             core,
	}
}

// validateCode rejects obviously malformed codes before a store round trip.
var validateCode = validate.Field("code",
	validate.Required(),
	validate.Length(domain.CodeLength),
	validate.Alphanumeric(),
)

func toRoomResponse(room *domain.Room) roomResponse {
	return roomResponse{
		ID:               room.ID,
		Code:             room.Code,
		Name:             room.Name,
		MaxParticipants:  room.MaxParticipants,
		InitialDuration:  room.InitialDuration,
		ExpiresAt:        room.ExpiresAt,
		RemainingSeconds: int64(room.Remaining(time.Now()).Seconds()),
		Status:           string(room.Status),
		CreatedAt:        room.CreatedAt,
	}
}

func toParticipantResponse(p *domain.Participant) participantResponse {
	return participantResponse{
		ID:         p.ID,
		RoomID:     p.RoomID,
		AvatarName: p.AvatarName,
		JoinedAt:   p.JoinedAt,
	}
}

// CreateRoomHandler godoc
// @Summary      Create a new room
// @Description  Creates a time-boxed room with a unique share code
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body createRoomRequest true "Room parameters"
// @Success      201 {object} roomResponse "Room created"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /rooms [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	room, err := h.roomService.Create(r.Context(), req.Name, req.MaxParticipants, req.InitialDuration, 0)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, service.ErrCodeExhausted):
			json.WriteValidationError(w, err)
		default:
			log.Printf("Failed to create room: %v", err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusCreated, toRoomResponse(room))
}

// GetRoomHandler godoc
// @Summary      Get room by id
// @Description  Returns room state in any status, including the countdown value
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	room, err := h.roomService.GetByID(r.Context(), roomID)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// GetRoomByCodeHandler godoc
// @Summary      Resolve an active room by code
// @Description  Case-insensitive lookup; codes of expired or deleted rooms do not resolve
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} roomResponse
// @Failure      404 {object} map[string]interface{} "No active room with this code"
// @Router       /rooms/code/{code} [get]
func (h *Handler) GetRoomByCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeCode(chi.URLParam(r, "code"))
	if err := validateCode(code); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	room, err := h.roomService.GetByCode(r.Context(), code)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// ExpireRoomHandler godoc
// @Summary      Expire a room
// @Description  Flips an active room to expired; a no-op on already terminal rooms
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Success      204 "Room expired"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/expire [post]
func (h *Handler) ExpireRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	if err := h.roomService.Expire(r.Context(), roomID); err != nil {
		writeRoomError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteRoomHandler godoc
// @Summary      Delete a room
// @Description  Soft-deletes the room; history stays queryable by id
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Success      204 "Room deleted"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId} [delete]
func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	if err := h.roomService.Delete(r.Context(), roomID); err != nil {
		writeRoomError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// JoinRoomHandler godoc
// @Summary      Join a room
// @Description  Admits an anonymous participant with a generated avatar identity and sets the session marker cookie
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      201 {object} participantResponse "Admitted"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Failure      409 {object} map[string]interface{} "Room is full"
// @Failure      410 {object} map[string]interface{} "Room is not active"
// @Router       /rooms/{roomId}/join [post]
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	participant, err := h.admissionService.Join(r.Context(), roomID)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	utils.SetParticipantCookie(w, roomID, participant.ID)

	json.Write(w, http.StatusCreated, toParticipantResponse(participant))
}

// ListParticipantsHandler godoc
// @Summary      List room participants
// @Description  Non-banned participants in join order
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} rosterResponse
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/participants [get]
func (h *Handler) ListParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	roster, err := h.admissionService.Roster(r.Context(), roomID)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	resp := rosterResponse{Participants: make([]participantResponse, 0, len(roster))}
	for i := range roster {
		resp.Participants = append(resp.Participants, toParticipantResponse(&roster[i]))
	}

	json.Write(w, http.StatusOK, resp)
}

// BanParticipantHandler godoc
// @Summary      Ban a participant
// @Description  Bans by id; the participant keeps their message history but can no longer send or hold a seat
// @Tags         rooms
// @Param        participantId path string true "Participant ID"
// @Success      204 "Participant banned"
// @Failure      404 {object} map[string]interface{} "Participant not found"
// @Router       /participants/{participantId}/ban [post]
func (h *Handler) BanParticipantHandler(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")
	if participantID == "" {
		json.WriteValidationError(w, errors.New("participant ID is missing"))
		return
	}

	if err := h.admissionService.Ban(r.Context(), participantID); err != nil {
		writeRoomError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubscribeHandler godoc
// @Summary      Subscribe to a room's realtime feed
// @Description  Upgrades to WebSocket, replays recent history and streams room events
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Param        participantId query string false "Participant ID; falls back to the session cookie"
// @Success      101 {object} map[string]interface{} "Switching Protocols"
// @Failure      400 {object} map[string]interface{} "Missing parameters"
// @Router       /rooms/{roomId}/subscribe [get]
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	participantID := r.URL.Query().Get("participantId")
	if participantID == "" {
		participantID = utils.GetParticipantID(r, roomID)
	}
	if participantID == "" {
		json.WriteValidationError(w, errors.New("participant identity is required"))
		return
	}

	conn, err := h.roomManager.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for room %s: %v", roomID, err)
		return
	}

	participant, err := h.participants.GetByID(r.Context(), participantID)
	if err != nil || participant.RoomID != roomID {
		_ = conn.WriteJSON(ws.NewJoinFailed(roomID, "Unknown participant"))
		_ = conn.Close()
		return
	}
	if participant.IsBanned {
		_ = conn.WriteJSON(ws.NewJoinFailed(roomID, "Participant is banned"))
		_ = conn.Close()
		return
	}

	room, err := h.roomService.GetByID(r.Context(), roomID)
	if err != nil || !room.IsActive() {
		_ = conn.WriteJSON(ws.NewJoinFailed(roomID, "Room is not active"))
		_ = conn.Close()
		return
	}

	client := ws.NewClient(conn, participant.ID, roomID, participant.AvatarName)
	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)

	log.Printf("Participant %s connected to room %s", participant.ID, roomID)
}

// GetRoomAuditHandler godoc
// @Summary      Room lifecycle audit trail
// @Description  Most recent lifecycle events for the room, newest first
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {array} auditEntryResponse
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/audit [get]
func (h *Handler) GetRoomAuditHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	if _, err := h.roomService.GetByID(r.Context(), roomID); err != nil {
		writeRoomError(w, err)
		return
	}

	entries, err := h.audits.GetByRoomID(r.Context(), roomID, 50)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, auditEntryResponse{
			ID:        e.ID,
			RoomID:    e.RoomID,
			EventType: string(e.EventType),
			Details:   e.Details,
			Timestamp: e.Timestamp,
		})
	}

	json.Write(w, http.StatusOK, resp)
}
