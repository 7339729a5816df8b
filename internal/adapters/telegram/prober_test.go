package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

func newTestProber(t *testing.T) (*Prober, *[]string) {
	t.Helper()
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/bot" + testToken + "/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Digest","username":"digest_bot"}}`))
		case "/bot" + testToken + "/getUpdates":
			_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":5,"message":{"message_id":7,"date":1700000000,"chat":{"id":100,"type":"private"},"from":{"id":1,"is_bot":false,"first_name":"A"},"text":"hi"}}]}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return NewProber(ProberConfig{Host: srv.URL + "/", Token: testToken}), &calls
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.telegram.org/bot"+testToken, ProberConfig{Token: testToken}.BaseURL())
	assert.Equal(t, "http://local/bot"+testToken, ProberConfig{Host: "http://local/", Token: testToken}.BaseURL())
}

func TestGetMeAndUpdates(t *testing.T) {
	p, calls := newTestProber(t)

	me, err := p.GetMe(context.Background())
	require.NoError(t, err)
	require.True(t, me.API.Ok)
	bot, err := me.Bot()
	require.NoError(t, err)
	assert.Equal(t, int64(42), bot.ID)
	assert.Equal(t, "digest_bot", bot.UserName)

	upd, err := p.GetUpdates(context.Background())
	require.NoError(t, err)
	updates, err := upd.Updates()
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, 5, updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "hi", updates[0].Message.Text)

	assert.Equal(t, []string{
		"GET /bot" + testToken + "/getMe",
		"GET /bot" + testToken + "/getUpdates",
	}, *calls)
}

func TestGetMeNotOK(t *testing.T) {
	p, _ := newTestProber(t)
	p.cfg.Token = "wrong"

	resp, err := p.GetMe(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.API.Ok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", resp.API.Description)
}
