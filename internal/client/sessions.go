package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/studyhub/webclient/pkg/model"
	"github.com/studyhub/webclient/pkg/timeslot"
)

// localizeStart fills in the wall-clock echo when the backend answered
// with the instant only. An already-present startTimeLocal is trusted
// as-is, it must never be converted a second time.
func localizeStart(s *model.Session) *model.Session {
	if s == nil || s.StartTimeLocal != "" || s.StartTime == "" {
		return s
	}

	if local, err := timeslot.ParseServerDateTime(s.StartTime); err == nil {
		s.StartTimeLocal = local
	}

	return s
}

// CreateSession persists a pre-validated session draft. The gateway
// trusts callers to have run the schedule validator.
func (r *RemoteAPI) CreateSession(ctx context.Context, groupID, creatorID uint, p *model.SessionPayload) (*model.Session, error) {
	res := new(model.Session)

	err := r.request(fmt.Sprintf("/sessions/group/%d/creator/%d", groupID, creatorID), creatorID).
		Post().
		JSON(p).
		GetJSON(ctx, res)

	if err != nil {
		return nil, err
	}

	return localizeStart(res), nil
}

// CreateSessionWithInvitations creates a session and its initial
// invitation batch in one atomic backend call.
func (r *RemoteAPI) CreateSessionWithInvitations(ctx context.Context, creatorID uint, p *model.SessionWithInvitationsPayload) (*model.Session, error) {
	res := new(model.Session)

	err := r.request("/sessions/invitations/create", creatorID).
		Post().
		Args(map[string]string{"createdById": strconv.FormatUint(uint64(creatorID), 10)}).
		JSON(p).
		GetJSON(ctx, res)

	if err != nil {
		return nil, err
	}

	return localizeStart(res), nil
}

func (r *RemoteAPI) UpdateSession(ctx context.Context, id uint, p *model.SessionPayload) (*model.Session, error) {
	res := new(model.Session)

	err := r.request(fmt.Sprintf("/sessions/%d", id), 0).
		Put().
		JSON(p).
		GetJSON(ctx, res)

	if err != nil {
		return nil, err
	}

	return localizeStart(res), nil
}

// DeleteSession removes a session. A not-found answer surfaces as an
// error, callers that want idempotency check request.IsNotFound.
func (r *RemoteAPI) DeleteSession(ctx context.Context, id, actingUserID uint) error {
	path := fmt.Sprintf("/sessions/%d", id)

	if actingUserID != 0 {
		path = fmt.Sprintf("/sessions/%d/user/%d", id, actingUserID)
	}

	b, err := r.request(path, actingUserID).Delete().Do(ctx)

	if err != nil {
		return err
	}

	if b != nil {
		b.Close()
	}

	return nil
}

func (r *RemoteAPI) ListGroupSessions(ctx context.Context, groupID uint, page, size int, viewerID uint) (*model.Page[model.Session], error) {
	args := map[string]string{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(size),
	}

	if viewerID != 0 {
		args["userId"] = strconv.FormatUint(uint64(viewerID), 10)
	}

	res := new(model.Page[model.Session])

	err := r.request(fmt.Sprintf("/sessions/group/%d", groupID), viewerID).
		Args(args).
		GetJSON(ctx, res)

	if err != nil {
		return nil, err
	}

	for i := range res.Content {
		localizeStart(&res.Content[i])
	}

	return res, nil
}
