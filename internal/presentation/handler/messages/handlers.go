package messages

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/json"
	"github.com/fuseroom/fuseroom/internal/presentation/apierror"
	"github.com/fuseroom/fuseroom/internal/presentation/utils"
	"github.com/fuseroom/fuseroom/internal/service"
)

type Handler struct {
	messageService *service.MessageService
}

func NewHandler(messageService *service.MessageService) *Handler {
	return &Handler{
		messageService: messageService,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	resp := messageResponse{
		ID:            m.ID,
		RoomID:        m.RoomID,
		ParticipantID: m.ParticipantID,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
	if m.Participant != nil {
		resp.AvatarName = m.Participant.AvatarName
	}
	return resp
}

// SendMessageHandler godoc
// @Summary      Send a message
// @Description  Persists the message and fans it out to subscribers; the response carries the id subscribers will see
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body sendMessageRequest true "Message"
// @Success      201 {object} messageResponse "Message stored"
// @Failure      400 {object} map[string]interface{} "Empty or oversized content"
// @Failure      403 {object} map[string]interface{} "Sender is banned"
// @Failure      404 {object} map[string]interface{} "Room or participant not found"
// @Failure      410 {object} map[string]interface{} "Room is not active"
// @Router       /rooms/{roomId}/messages [post]
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req sendMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	participantID := req.ParticipantID
	fromCookie := false
	if participantID == "" {
		participantID = utils.GetParticipantID(r, roomID)
		fromCookie = participantID != ""
	}
	if participantID == "" {
		json.WriteValidationError(w, errors.New("participant identity is required"))
		return
	}

	message, err := h.messageService.Send(r.Context(), roomID, participantID, req.Content)
	if err != nil {
		if fromCookie && errors.Is(err, domain.ErrParticipantNotFound) {
			// The session marker points at a participant that no longer exists.
			utils.ClearParticipantCookie(w, roomID)
		}
		apierror.Write(w, err)
		return
	}

	json.Write(w, http.StatusCreated, toMessageResponse(message))
}

// ListMessagesHandler godoc
// @Summary      List room messages
// @Description  Returns history in ascending creation order; messages from banned participants stay visible
// @Tags         messages
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        limit query int false "Maximum number of messages"
// @Success      200 {object} listMessagesResponse
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/messages [get]
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			json.WriteValidationError(w, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	history, err := h.messageService.List(r.Context(), roomID, limit)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	resp := listMessagesResponse{Messages: make([]messageResponse, 0, len(history))}
	for i := range history {
		resp.Messages = append(resp.Messages, toMessageResponse(&history[i]))
	}

	json.Write(w, http.StatusOK, resp)
}
