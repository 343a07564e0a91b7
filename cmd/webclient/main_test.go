package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyhub/webclient/internal/client"
	"github.com/studyhub/webclient/internal/drafts"
)

type noTokens struct{}

func (noTokens) Start() error        { return nil }
func (noTokens) Stop()               {}
func (noTokens) Token(uint) string   { return "test-token" }
func (noTokens) DefaultUserID() uint { return 9 }

func newTestApp(t *testing.T, backend http.Handler) *App {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	dm := drafts.New(db)
	require.NoError(t, dm.Migrate())

	remote := client.NewRemoteAPI(srv.URL, noTokens{})

	return NewApp(9, "tester", 0, remote, noTokens{}, dm)
}

func TestCreateSessionRejectedLocally(t *testing.T) {
	var called bool

	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	srv := NewHttp(app)

	req := httptest.NewRequest(http.MethodPost, "/api/group/5/sessions",
		bytes.NewReader([]byte(`{"title":"Algebra","startLocal":"2020-01-01T10:00"}`)))
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.f.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "lead_time", body["rule"])
	assert.False(t, called, "backend must not be called on validation failure")
}

func TestDraftRoundTrip(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no remote calls expected", http.StatusBadGateway)
	}))

	srv := NewHttp(app)

	req := httptest.NewRequest(http.MethodPost, "/api/drafts",
		bytes.NewReader([]byte(`{"groupId":5,"title":"Geometry","startLocal":"2030-01-01T10:00","invitedUserIds":[3,4]}`)))
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.f.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var saved map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&saved))

	id, _ := saved["ID"].(string)
	require.NotEmpty(t, id)

	res, err = srv.f.Test(httptest.NewRequest(http.MethodGet, "/api/drafts/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = srv.f.Test(httptest.NewRequest(http.MethodDelete, "/api/drafts/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, err = srv.f.Test(httptest.NewRequest(http.MethodGet, "/api/drafts/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
