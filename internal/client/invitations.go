package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/studyhub/webclient/pkg/model"
	"github.com/studyhub/webclient/pkg/util"
)

// ErrNoUser guards transitions issued without an acting user.
var ErrNoUser = errors.New("user id required")

// InviteBatch creates one pending invitation per unique user id. The
// creator's own id is dropped, duplicates collapse. An empty set after
// normalization makes no call at all.
func (r *RemoteAPI) InviteBatch(ctx context.Context, sessionID, creatorID uint, userIDs []uint) ([]*model.Invitation, error) {
	set := util.NewSet(userIDs...)
	set.Remove(creatorID)
	set.Remove(0)

	ids := set.List()
	if len(ids) == 0 {
		return nil, nil
	}

	slices.Sort(ids)

	res := make([]*model.Invitation, 0)

	err := r.request(fmt.Sprintf("/sessions/invitations/session/%d/invite", sessionID), creatorID).
		Post().
		Args(map[string]string{"createdById": strconv.FormatUint(uint64(creatorID), 10)}).
		JSON(map[string]any{"userIds": ids}).
		GetJSON(ctx, &res)

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (r *RemoteAPI) AcceptInvitation(ctx context.Context, invitationID, userID uint) (*model.Invitation, error) {
	return r.transition(ctx, invitationID, userID, "accept")
}

func (r *RemoteAPI) DeclineInvitation(ctx context.Context, invitationID, userID uint) (*model.Invitation, error) {
	return r.transition(ctx, invitationID, userID, "decline")
}

// RejoinInvitation re-enters the flow after a decline. The resulting
// status is the server's decision, callers read it from the returned
// record and never assume a fixed target state.
func (r *RemoteAPI) RejoinInvitation(ctx context.Context, invitationID, userID uint) (*model.Invitation, error) {
	return r.transition(ctx, invitationID, userID, "rejoin")
}

func (r *RemoteAPI) transition(ctx context.Context, invitationID, userID uint, action string) (*model.Invitation, error) {
	if userID == 0 {
		return nil, ErrNoUser
	}

	res := new(model.Invitation)

	err := r.request(fmt.Sprintf("/sessions/invitations/%d/%s", invitationID, action), userID).
		Post().
		Args(map[string]string{"userId": strconv.FormatUint(uint64(userID), 10)}).
		GetJSON(ctx, res)

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (r *RemoteAPI) PendingInvitations(ctx context.Context, userID uint) ([]*model.Invitation, error) {
	return r.invitationList(ctx, fmt.Sprintf("/sessions/invitations/user/%d/pending", userID), userID)
}

func (r *RemoteAPI) DeclinedInvitations(ctx context.Context, userID uint) ([]*model.Invitation, error) {
	return r.invitationList(ctx, fmt.Sprintf("/sessions/invitations/user/%d/declined", userID), userID)
}

func (r *RemoteAPI) GroupPendingInvitations(ctx context.Context, groupID, userID uint) ([]*model.Invitation, error) {
	return r.invitationList(ctx,
		fmt.Sprintf("/sessions/invitations/groups/%d/user/%d/pending", groupID, userID), userID)
}

func (r *RemoteAPI) SessionInvitations(ctx context.Context, sessionID uint) ([]*model.Invitation, error) {
	return r.invitationList(ctx, fmt.Sprintf("/sessions/invitations/session/%d", sessionID), 0)
}

func (r *RemoteAPI) invitationList(ctx context.Context, path string, userID uint) ([]*model.Invitation, error) {
	res := make([]*model.Invitation, 0)

	if err := r.request(path, userID).GetJSON(ctx, &res); err != nil {
		return nil, err
	}

	return res, nil
}

func (r *RemoteAPI) Participants(ctx context.Context, sessionID uint) ([]*model.Participant, error) {
	res := make([]*model.Participant, 0)

	err := r.request(fmt.Sprintf("/sessions/participants/%d", sessionID), 0).GetJSON(ctx, &res)

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (r *RemoteAPI) ParticipantCount(ctx context.Context, sessionID uint) (int, error) {
	var n int

	err := r.request(fmt.Sprintf("/sessions/participants/%d/count", sessionID), 0).GetJSON(ctx, &n)

	return n, err
}

func (r *RemoteAPI) IsParticipant(ctx context.Context, sessionID, userID uint) (bool, error) {
	var ok bool

	err := r.request(fmt.Sprintf("/sessions/participants/%d/user/%d/is-participant", sessionID, userID), userID).
		GetJSON(ctx, &ok)

	return ok, err
}

// ParticipationStatus answers membership for a whole set of sessions in
// one round trip, one boolean per requested id.
func (r *RemoteAPI) ParticipationStatus(ctx context.Context, userID uint, sessionIDs []uint) (map[uint]bool, error) {
	ids := util.NewSet(sessionIDs...).List()
	slices.Sort(ids)

	res := make(map[uint]bool)

	err := r.request(fmt.Sprintf("/sessions/participants/user/%d/status", userID), userID).
		Post().
		JSON(map[string]any{"sessionIds": ids}).
		GetJSON(ctx, &res)

	if err != nil {
		return nil, err
	}

	return res, nil
}
