package resthandler

import (
	"encoding/json"
	"net/http"

	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/domain"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/usecase"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/golangid/gqlsubscription/wrapper"
	"github.com/labstack/echo"
)

// RestHandler handler
type RestHandler struct {
	uc        usecase.InboxUsecase
	validator interfaces.Validator
}

// NewRestHandler create new rest handler
func NewRestHandler(uc usecase.InboxUsecase, validator interfaces.Validator) *RestHandler {
	return &RestHandler{
		uc:        uc,
		validator: validator,
	}
}

// Mount handler with root group
func (h *RestHandler) Mount(root *echo.Group) {
	inbox := root.Group("/inbox")
	inbox.POST("/messages", h.sendMessage)
}

func (h *RestHandler) sendMessage(c echo.Context) error {
	trace, ctx := tracer.StartTraceWithContext(c.Request().Context(), "InboxDeliveryREST:SendMessage")
	defer trace.Finish()

	var message domain.Message
	if err := json.NewDecoder(c.Request().Body).Decode(&message); err != nil {
		return wrapper.NewHTTPResponse(http.StatusBadRequest, "Failed parse request body", err).JSON(c.Response())
	}
	if err := h.validator.ValidateStruct(&message); err != nil {
		return wrapper.NewHTTPResponse(http.StatusBadRequest, "Failed validate message", err).JSON(c.Response())
	}

	if err := h.uc.SendMessage(ctx, &message); err != nil {
		trace.SetError(err)
		return wrapper.NewHTTPErrorResponse(err).JSON(c.Response())
	}
	return wrapper.NewHTTPResponse(http.StatusAccepted, "Message sent", message).JSON(c.Response())
}
