package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/webclient/pkg/model"
	"github.com/studyhub/webclient/pkg/request"
)

func TestInviteBatch(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions/invitations/session/100/invite", r.URL.Path)
		assert.Equal(t, "9", r.URL.Query().Get("createdById"))

		var body struct {
			UserIDs []uint `json:"userIds"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []uint{5, 7}, body.UserIDs)

		res := make([]*model.Invitation, 0, len(body.UserIDs))
		for i, id := range body.UserIDs {
			res = append(res, &model.Invitation{
				ID: uint(i + 1), SessionID: 100, UserID: id,
				Status: model.StatusPending, InvitedAt: time.Now(),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}))

	// duplicates collapse, the creator's own id is dropped
	invs, err := api.InviteBatch(context.Background(), 100, 9, []uint{5, 5, 7, 9})

	require.NoError(t, err)
	require.Len(t, invs, 2)

	for _, inv := range invs {
		assert.True(t, inv.IsPending())
	}
}

func TestInviteBatchNothingToSend(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	invs, err := api.InviteBatch(context.Background(), 100, 9, []uint{9, 9})

	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestTransitionNoUser(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := api.AcceptInvitation(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = api.DeclineInvitation(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = api.RejoinInvitation(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestAcceptForbidden(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "not your invitation"}`))
	}))

	_, err := api.AcceptInvitation(context.Background(), 1, 3)

	require.Error(t, err)
	assert.True(t, request.IsForbidden(err))

	var re *request.RemoteError

	require.ErrorAs(t, err, &re)
	assert.Equal(t, "not your invitation", re.Message)
}

// fakeInvitations is a minimal stateful backend for the invitation
// state machine.
type fakeInvitations struct {
	invs map[uint]*model.Invitation
}

func (f *fakeInvitations) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sessions/invitations/{id}/decline", func(w http.ResponseWriter, r *http.Request) {
		f.respond(t, w, r, model.StatusDeclined)
	})
	mux.HandleFunc("POST /sessions/invitations/{id}/rejoin", func(w http.ResponseWriter, r *http.Request) {
		// server decides the post-rejoin state
		f.respond(t, w, r, model.StatusPending)
	})
	mux.HandleFunc("POST /sessions/invitations/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
		f.respond(t, w, r, model.StatusAccepted)
	})

	return mux
}

func (f *fakeInvitations) respond(t *testing.T, w http.ResponseWriter, r *http.Request, status model.InvitationStatus) {
	t.Helper()

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	require.NoError(t, err)

	inv, ok := f.invs[uint(id)]
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	now := time.Now()
	inv.Status = status
	inv.RespondedAt = &now

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(inv)
}

func TestDeclineThenRejoin(t *testing.T) {
	fake := &fakeInvitations{invs: map[uint]*model.Invitation{
		7: {ID: 7, SessionID: 100, UserID: 3, Status: model.StatusPending, InvitedAt: time.Now()},
	}}

	api, _ := newTestAPI(t, fake.handler(t))

	inv, err := api.DeclineInvitation(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, inv.IsDeclined())
	assert.NotNil(t, inv.RespondedAt)

	inv, err = api.RejoinInvitation(context.Background(), 7, 3)
	require.NoError(t, err)

	// post-rejoin state is the server's call, only non-declined is
	// guaranteed here
	assert.NotEqual(t, model.StatusDeclined, inv.Status)
}

func TestPendingDeclinedLists(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/sessions/invitations/user/3/pending":
			_, _ = w.Write([]byte(`[{"id":1,"sessionId":100,"userId":3,"status":"PENDING"}]`))
		case "/sessions/invitations/user/3/declined":
			_, _ = w.Write([]byte(`[]`))
		case "/sessions/invitations/groups/42/user/3/pending":
			_, _ = w.Write([]byte(`[{"id":2,"sessionId":101,"userId":3,"status":"PENDING"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	pending, err := api.PendingInvitations(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].IsPending())

	declined, err := api.DeclinedInvitations(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, declined)

	group, err := api.GroupPendingInvitations(context.Background(), 42, 3)
	require.NoError(t, err)
	require.Len(t, group, 1)
	assert.EqualValues(t, 101, group[0].SessionID)
}

func TestParticipants(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/sessions/participants/100":
			_, _ = w.Write([]byte(`[{"userId":3,"name":"alice"},{"userId":4,"name":"bob"}]`))
		case "/sessions/participants/100/count":
			_, _ = w.Write([]byte(`2`))
		case "/sessions/participants/100/user/3/is-participant":
			_, _ = w.Write([]byte(`true`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	roster, err := api.Participants(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	n, err := api.ParticipantCount(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := api.IsParticipant(context.Background(), 100, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParticipationStatus(t *testing.T) {
	api, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions/participants/user/3/status", r.URL.Path)

		var body struct {
			SessionIDs []uint `json:"sessionIds"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []uint{1, 2, 3}, body.SessionIDs)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"1":true,"2":false,"3":true}`))
	}))

	res, err := api.ParticipationStatus(context.Background(), 3, []uint{1, 2, 3, 2})

	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{1: true, 2: false, 3: true}, res)
}

func TestCreateWithInvitationsEndToEnd(t *testing.T) {
	store := struct {
		session *model.Session
		invs    []*model.Invitation
	}{}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /sessions/invitations/create", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "9", r.URL.Query().Get("createdById"))

		var p model.SessionWithInvitationsPayload

		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "Week 5 Review", p.Title)
		assert.Equal(t, "2024-11-07", p.Date)
		assert.Equal(t, "14:00", p.StartTime)
		assert.Equal(t, "15:30", p.EndTime)
		assert.Equal(t, 1, p.DurationDays)

		store.session = &model.Session{
			ID: 100, GroupID: p.GroupID, CreatedByID: 9,
			Title: p.Title, DurationDays: p.DurationDays,
		}

		for i, id := range p.InvitedUserIDs {
			store.invs = append(store.invs, &model.Invitation{
				ID: uint(i + 1), SessionID: 100, UserID: id,
				Status: model.StatusPending, InvitedAt: time.Now(),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.session)
	})

	mux.HandleFunc("GET /sessions/invitations/session/100", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.invs)
	})

	api, _ := newTestAPI(t, mux)

	s, err := api.CreateSessionWithInvitations(context.Background(), 9, &model.SessionWithInvitationsPayload{
		GroupID:        42,
		Title:          "Week 5 Review",
		Date:           "2024-11-07",
		StartTime:      "14:00",
		EndTime:        "15:30",
		DurationDays:   1,
		InvitedUserIDs: []uint{3, 4},
	})

	require.NoError(t, err)
	require.NotNil(t, s)
	assert.EqualValues(t, 100, s.ID)

	invs, err := api.SessionInvitations(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, invs, 2)

	for _, inv := range invs {
		assert.True(t, inv.IsPending())
	}
}
