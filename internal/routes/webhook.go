package routes

import (
	"bytes"
	"encoding/xml"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/baintwallet/baintwallet/internal/sms"
)

// RegisterWebhookRoutes wires the SMS provider webhook. The provider posts
// form-encoded From/Body fields and expects a TwiML document back.
func RegisterWebhookRoutes(app *fiber.App, handler *sms.Handler, rateLimiter fiber.Handler, logger *slog.Logger) {
	app.Post("/sms/webhook", rateLimiter, func(c *fiber.Ctx) error {
		from := c.FormValue("From")
		body := c.FormValue("Body")
		if from == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing From field")
		}

		logger.Info("sms received", "from", from)

		reply := handler.Handle(c.UserContext(), from, body)

		c.Set(fiber.HeaderContentType, "text/xml")
		return c.SendString(twiml(reply))
	})
}

// twiml renders a single-message TwiML response with the reply text escaped.
func twiml(message string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(message))
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<Response>\n  <Message>" + escaped.String() + "</Message>\n</Response>"
}
