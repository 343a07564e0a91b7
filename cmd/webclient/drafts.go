package main

import (
	"time"

	"github.com/gofiber/fiber/v2"

	im "github.com/studyhub/webclient/internal/model"
	"github.com/studyhub/webclient/pkg/model"
	"github.com/studyhub/webclient/pkg/schedule"
)

func getDraftsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.drafts.ForCreator(app.userID))
	}
}

func getDraftHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		d := app.drafts.Get(ctx.Params("id"))

		if d == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(d)
	}
}

func getDraftSaveHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		form := new(draftForm)

		if err := ctx.BodyParser(form); err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		d := &im.SessionDraft{
			ID:          ctx.Query("id"),
			GroupID:     form.GroupID,
			CreatorID:   app.userID,
			Title:       form.Title,
			Description: form.Description,
			StartLocal:  form.StartLocal,
			EndLocal:    form.EndLocal,
			MeetingLink: form.MeetingLink,
		}

		if form.DurationDays != nil {
			d.DurationDays = *form.DurationDays
		}

		d.SetInviteeIDs(form.InvitedUserIDs)

		if err := app.drafts.Save(d); err != nil {
			return sendErr(ctx, err)
		}

		return ctx.Status(fiber.StatusCreated).JSON(d)
	}
}

func getDraftDeleteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := app.drafts.Delete(ctx.Params("id")); err != nil {
			return sendErr(ctx, err)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

// getDraftSubmitHandler turns a stored draft into a real session. The draft
// is validated the same way as a direct create and removed on success.
func getDraftSubmitHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		d := app.drafts.Get(ctx.Params("id"))

		if d == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		var days *int

		if d.DurationDays > 0 {
			days = &d.DurationDays
		}

		sub, err := schedule.Validate(&schedule.Draft{
			Title:        d.Title,
			Description:  d.Description,
			StartLocal:   d.StartLocal,
			EndLocal:     d.EndLocal,
			DurationDays: days,
			MeetingLink:  d.MeetingLink,
			CreatorID:    d.CreatorID,
			InviteeIDs:   d.InviteeIDs(),
		}, time.Now())

		if err != nil {
			return sendErr(ctx, err)
		}

		var s *model.Session

		if len(sub.InvitedUserIDs) > 0 {
			s, err = app.remote.CreateSessionWithInvitations(ctx.UserContext(), app.userID,
				sub.InvitePayload(d.GroupID))
		} else {
			s, err = app.remote.CreateSession(ctx.UserContext(), d.GroupID, app.userID, sub.Payload())
		}

		if err != nil {
			return sendErr(ctx, err)
		}

		if err := app.drafts.Delete(d.ID); err != nil {
			app.logger.Warn("draft cleanup failed", "error", err)
		}

		app.notifySession(s)

		return ctx.Status(fiber.StatusCreated).JSON(s)
	}
}
