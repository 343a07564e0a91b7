package main

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studyhub/webclient/pkg/log"
	"github.com/studyhub/webclient/pkg/model"
	"github.com/studyhub/webclient/pkg/request"
	"github.com/studyhub/webclient/pkg/schedule"
)

//go:embed templates
var templates embed.FS

type HttpServer struct {
	app *App
	f   *fiber.App
}

func NewHttp(app *App) *HttpServer {
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.Delims("[[", "]]")

	f := fiber.New(fiber.Config{DisableStartupMessage: true, Views: engine})

	f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "webclient", DoMetrics: true, LogErrorsOnly: true}))

	f.Get("/", getIndexHandler(app))
	f.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	f.Get("/ws", getWsHandler(app))

	api := f.Group("/api")

	api.Get("/group/:id/sessions", getGroupSessionsHandler(app))
	api.Post("/group/:id/sessions", getSessionCreateHandler(app))
	api.Put("/session/:id", getSessionUpdateHandler(app))
	api.Delete("/session/:id", getSessionDeleteHandler(app))

	api.Get("/session/:id/invitations", getSessionInvitationsHandler(app))
	api.Get("/session/:id/participants", getParticipantsHandler(app))
	api.Get("/session/:id/participants/count", getParticipantCountHandler(app))
	api.Get("/session/:id/is-participant", getIsParticipantHandler(app))
	api.Post("/participation/status", getParticipationStatusHandler(app))

	api.Get("/invitations/pending", getPendingHandler(app))
	api.Get("/invitations/declined", getDeclinedHandler(app))
	api.Get("/group/:id/invitations/pending", getGroupPendingHandler(app))
	api.Post("/invitation/:id/accept", getInvitationActionHandler(app, app.remote.AcceptInvitation))
	api.Post("/invitation/:id/decline", getInvitationActionHandler(app, app.remote.DeclineInvitation))
	api.Post("/invitation/:id/rejoin", getInvitationActionHandler(app, app.remote.RejoinInvitation))

	api.Get("/drafts", getDraftsHandler(app))
	api.Post("/drafts", getDraftSaveHandler(app))
	api.Get("/drafts/:id", getDraftHandler(app))
	api.Delete("/drafts/:id", getDraftDeleteHandler(app))
	api.Post("/drafts/:id/submit", getDraftSubmitHandler(app))

	return &HttpServer{app: app, f: f}
}

func (h *HttpServer) Serve(addr string) error {
	return h.f.Listen(addr)
}

// sendErr maps local validation failures to 422 and remote failures to
// their backend status, message passed through verbatim.
func sendErr(ctx *fiber.Ctx, err error) error {
	var ve *schedule.ValidationError

	if errors.As(err, &ve) {
		return ctx.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"rule": ve.Rule, "message": ve.Message})
	}

	var re *request.RemoteError

	if errors.As(err, &re) {
		return ctx.Status(re.Status).JSON(fiber.Map{"message": re.Message})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}

type draftForm struct {
	GroupID        uint   `json:"groupId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	StartLocal     string `json:"startLocal"`
	EndLocal       string `json:"endLocal"`
	DurationDays   *int   `json:"durationDays"`
	MeetingLink    string `json:"meetingLink"`
	InvitedUserIDs []uint `json:"invitedUserIds"`
}

func (f *draftForm) draft(creatorID uint) *schedule.Draft {
	return &schedule.Draft{
		Title:        f.Title,
		Description:  f.Description,
		StartLocal:   f.StartLocal,
		EndLocal:     f.EndLocal,
		DurationDays: f.DurationDays,
		MeetingLink:  f.MeetingLink,
		CreatorID:    creatorID,
		InviteeIDs:   f.InvitedUserIDs,
	}
}

func getIndexHandler(app *App) fiber.Handler {
	data := fiber.Map{
		"user_id":   app.userID,
		"user_name": app.userName,
		"version":   getVersion(),
	}

	return func(ctx *fiber.Ctx) error {
		return ctx.Render("templates/index", data)
	}
}

func getGroupSessionsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		groupID, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		page, err := app.remote.ListGroupSessions(ctx.UserContext(), uint(groupID),
			ctx.QueryInt("page", 0), ctx.QueryInt("size", 20), app.userID)

		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(page)
	}
}

func getSessionCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		groupID, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		form := new(draftForm)

		if err := ctx.BodyParser(form); err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		sub, err := schedule.Validate(form.draft(app.userID), time.Now())
		if err != nil {
			return sendErr(ctx, err)
		}

		var s *model.Session

		if len(sub.InvitedUserIDs) > 0 {
			s, err = app.remote.CreateSessionWithInvitations(ctx.UserContext(), app.userID,
				sub.InvitePayload(uint(groupID)))
		} else {
			s, err = app.remote.CreateSession(ctx.UserContext(), uint(groupID), app.userID, sub.Payload())
		}

		if err != nil {
			return sendErr(ctx, err)
		}

		app.notifySession(s)

		return ctx.Status(fiber.StatusCreated).JSON(s)
	}
}

func getSessionUpdateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		form := new(draftForm)

		if err := ctx.BodyParser(form); err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		sub, err := schedule.Validate(form.draft(app.userID), time.Now())
		if err != nil {
			return sendErr(ctx, err)
		}

		s, err := app.remote.UpdateSession(ctx.UserContext(), uint(id), sub.Payload())
		if err != nil {
			return sendErr(ctx, err)
		}

		app.notifySession(s)

		return ctx.JSON(s)
	}
}

func getSessionDeleteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		if err := app.remote.DeleteSession(ctx.UserContext(), uint(id), app.userID); err != nil {
			return sendErr(ctx, err)
		}

		app.notifySessionRemoved(uint(id))

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func getSessionInvitationsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		invs, err := app.remote.SessionInvitations(ctx.UserContext(), uint(id))
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(invs)
	}
}

func getParticipantsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		res, err := app.remote.Participants(ctx.UserContext(), uint(id))
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(res)
	}
}

func getParticipantCountHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		n, err := app.remote.ParticipantCount(ctx.UserContext(), uint(id))
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(fiber.Map{"count": n})
	}
}

func getIsParticipantHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		ok, err := app.remote.IsParticipant(ctx.UserContext(), uint(id), app.userID)
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(fiber.Map{"isParticipant": ok})
	}
}

func getParticipationStatusHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var body struct {
			SessionIDs []uint `json:"sessionIds"`
		}

		if err := ctx.BodyParser(&body); err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		res, err := app.remote.ParticipationStatus(ctx.UserContext(), app.userID, body.SessionIDs)
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(res)
	}
}

type invitationAction func(ctx context.Context, invitationID, userID uint) (*model.Invitation, error)

func getInvitationActionHandler(app *App, action invitationAction) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		inv, err := action(ctx.UserContext(), uint(id), app.userID)
		if err != nil {
			return sendErr(ctx, err)
		}

		app.notifyInvitation(inv)

		return ctx.JSON(inv)
	}
}

func getPendingHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		invs, err := app.remote.PendingInvitations(ctx.UserContext(), app.userID)
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(invs)
	}
}

func getDeclinedHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		invs, err := app.remote.DeclinedInvitations(ctx.UserContext(), app.userID)
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(invs)
	}
}

func getGroupPendingHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		groupID, err := ctx.ParamsInt("id")
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		invs, err := app.remote.GroupPendingInvitations(ctx.UserContext(), uint(groupID), app.userID)
		if err != nil {
			return sendErr(ctx, err)
		}

		return ctx.JSON(invs)
	}
}
