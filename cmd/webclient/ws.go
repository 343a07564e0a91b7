package main

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/studyhub/webclient/internal/wshandler"
)

func getWsHandler(app *App) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		name := uuid.NewString()

		h := wshandler.NewHandler(app.logger, name, ws)

		app.logger.Info("ws listener connected")
		app.changes.AddCallback(name, h.SendMessage)
		h.Listen()
		app.logger.Info("ws listener disconnected")
		app.changes.RemoveCallback(name)
	})
}
