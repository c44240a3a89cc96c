package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sahara/internal/domain"
	"sahara/internal/service"
)

// ChatHandler handles the conversational assistant endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles POST /api/v1/ai/chat
// @Summary Chat with the health assistant
// @Description Send a message with optional history; the primary AI provider answers, the fallback takes over on failure
// @Tags ai
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message, language and history"
// @Success 200 {object} Response{data=ChatResponse} "Assistant reply"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /ai/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required; history roles must be user or assistant")
		return
	}

	history := make([]domain.ConversationTurn, 0, len(req.ConversationHistory))
	for _, t := range req.ConversationHistory {
		history = append(history, domain.ConversationTurn{Role: t.Role, Text: t.Content})
	}
	medical := true
	if req.MedicalMode != nil {
		medical = *req.MedicalMode
	}

	result, err := h.chatService.Chat(c.Request.Context(), &service.ChatInput{
		Message:     req.Message,
		Language:    req.Language,
		History:     history,
		Context:     req.Context,
		MedicalMode: medical,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ChatResponse{
		Response:     result.Response.Text,
		Language:     result.Response.Language,
		ModelUsed:    result.Response.Model,
		ProviderUsed: result.Response.ProviderUsed,
		Suggestions:  result.Suggestions,
	})
}

// Translate handles POST /api/v1/ai/translate
// @Summary Translate text
// @Description Translate between English and Bangla
// @Tags ai
// @Accept json
// @Produce json
// @Param request body TranslateRequest true "Text and languages"
// @Success 200 {object} Response{data=service.TranslateResult} "Translation"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /ai/translate [post]
func (h *ChatHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required; languages must be en or bn")
		return
	}

	result, err := h.chatService.Translate(c.Request.Context(), &service.TranslateInput{
		Text:   req.Text,
		Source: req.SourceLanguage,
		Target: req.TargetLanguage,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ExplainTerm handles POST /api/v1/ai/explain-term
// @Summary Explain a medical term
// @Tags ai
// @Accept json
// @Produce json
// @Param request body ExplainTermRequest true "Term and language"
// @Success 200 {object} Response{data=service.ExplainTermResult} "Explanation"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 503 {object} ErrorResponseBody "All AI providers unavailable"
// @Router /ai/explain-term [post]
func (h *ChatHandler) ExplainTerm(c *gin.Context) {
	var req ExplainTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "term is required")
		return
	}

	result, err := h.chatService.ExplainTerm(c.Request.Context(), &service.ExplainTermInput{
		Term:     req.Term,
		Language: req.Language,
		Detailed: req.Detailed,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ConversationStarters handles GET /api/v1/ai/conversation-starters
// @Summary List conversation starters
// @Tags ai
// @Produce json
// @Param language query string false "Language (en, bn)" default(en)
// @Success 200 {object} Response{data=ConversationStartersResponse} "Starters"
// @Router /ai/conversation-starters [get]
func (h *ChatHandler) ConversationStarters(c *gin.Context) {
	lang := domain.LanguageEnglish
	if domain.Language(c.Query("language")) == domain.LanguageBangla {
		lang = domain.LanguageBangla
	}
	RespondOK(c, ConversationStartersResponse{
		Language: lang,
		Starters: h.chatService.ConversationStarters(string(lang)),
	})
}
