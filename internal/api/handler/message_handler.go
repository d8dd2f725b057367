package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chainlance/marketplace-api/internal/api/metrics"
	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

type createMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Content        string `json:"content"         validate:"required,max=4096"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageHandler handles chat message persistence and history reads. Realtime
// fan-out happens inside the service after the durable write.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Create handles POST /messages.
//
// @Summary      Send a message to a conversation
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMessageRequest  true  "Message"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Create(c echo.Context) error {
	var req createMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wallet, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	msg, err := h.service.Append(c.Request().Context(), ports.AppendMessageInput{
		ConversationID: req.ConversationID,
		Sender:         wallet,
		Content:        req.Content,
	})
	if err != nil {
		return err
	}

	metrics.MessagesStoredTotal.Inc()
	return c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// List handles GET /messages/:conversation_id — paginated history, oldest
// first. Live deltas arrive over the websocket; this is the pull channel.
//
// @Summary      List conversation history
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        conversation_id  path      string  true   "Conversation id"
// @Param        page             query     int     false  "Page (1-based)"
// @Param        limit            query     int     false  "Page size"
// @Success      200              {array}   messageResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /messages/{conversation_id} [get]
func (h *MessageHandler) List(c echo.Context) error {
	wallet, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	msgs, err := h.service.List(c.Request().Context(), ports.ListMessagesInput{
		ConversationID: c.Param("conversation_id"),
		Requester:      wallet,
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return err
	}

	out := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageResponse(m)
	}
	return c.JSON(http.StatusOK, out)
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         m.Sender,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}
