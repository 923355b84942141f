package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/gateway/handler/rpc"
	"ideaforge/internal/gateway/repository/idea"
	"ideaforge/internal/gateway/service/generation"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, 200)
	resp := env.get(t, env.srv.URL+"/healthz")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerate_Success(t *testing.T) {
	env := newTestEnv(t, 200)
	env.fake.Respond("mindMap", mindMapResponse("a", "b", "c", "d"))

	resp := env.post(t, env.srv.URL+"/api/generate", `{"prompt":"city parks","method":"mindMapping","language":"en"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out generation.Response
	decodeBody(t, resp, &out)
	require.Len(t, out.Ideas, 3)
	assert.Equal(t, "a", out.Ideas[0].Title)
	assert.Equal(t, 10, out.Ideas[0].Score)
	assert.Equal(t, 180, out.Balance.Remaining)
}

func TestGenerate_ErrorStatuses(t *testing.T) {
	env := newTestEnv(t, 60)

	cases := []struct {
		name string
		body string
		want int
		code string
	}{
		{"unknown method", `{"prompt":"p","method":"lateral"}`, http.StatusBadRequest, "invalid_argument"},
		{"empty prompt", `{"prompt":"  ","method":"disney"}`, http.StatusBadRequest, "invalid_argument"},
		{"bad json", `{`, http.StatusBadRequest, "invalid_argument"},
		{"too expensive", `{"prompt":"p","method":"sixHats"}`, http.StatusTooManyRequests, "insufficient_credits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.post(t, env.srv.URL+"/api/generate", tc.body)
			assert.Equal(t, tc.want, resp.StatusCode)
			var body map[string]string
			decodeBody(t, resp, &body)
			assert.Equal(t, tc.code, body["code"])
		})
	}
	assert.Empty(t, env.fake.Calls())
}

func TestGenerate_PipelineFailureIs502(t *testing.T) {
	env := newTestEnv(t, 200)
	env.fake.Respond("mindMap", `{"reasoning":"r","ideas":[{"title":"x","score":42}]}`)

	resp := env.post(t, env.srv.URL+"/api/generate", `{"prompt":"p","method":"mindMapping"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "generation_failed", body["code"])
	assert.NotContains(t, body["error"], "42")
}

func TestMethodsAndMe(t *testing.T) {
	env := newTestEnv(t, 200)

	resp := env.get(t, env.srv.URL+"/api/methods")
	var methods struct {
		Methods []generation.MethodInfo `json:"methods"`
	}
	decodeBody(t, resp, &methods)
	assert.Len(t, methods.Methods, 5)

	resp = env.get(t, env.srv.URL+"/api/user/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me meBody
	decodeBody(t, resp, &me)
	assert.True(t, strings.HasPrefix(me.User.ID, "guest:"), me.User.ID)
	assert.Equal(t, 200, me.Credits.Remaining)
}

func TestIdeas_CRUD(t *testing.T) {
	env := newTestEnv(t, 200)
	base := env.srv.URL + "/api/ideas"

	resp := env.post(t, base, `{"method":"disney","title":"Night market","description":"d","score":8,"note_b":"Feasibility: 7"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct{ Idea idea.Idea }
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.Idea.ID)
	require.NotNil(t, created.Idea.NoteB)

	resp = env.post(t, base, `{"method":"lateral","title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.get(t, base)
	var list struct{ Ideas []idea.Idea }
	decodeBody(t, resp, &list)
	require.Len(t, list.Ideas, 1)
	assert.Equal(t, "Night market", list.Ideas[0].Title)

	resp = env.get(t, base+"/"+created.Idea.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, base+"/"+created.Idea.ID, nil)
	require.NoError(t, err)
	resp, err = env.client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.get(t, base+"/"+created.Idea.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

type meBody struct {
	User    struct{ ID string } `json:"user"`
	Credits struct{ Remaining int }
}

func TestGuests_HaveSeparateCreditsAndIdeas(t *testing.T) {
	env := newTestEnv(t, 200)
	env.fake.Respond("mindMap", mindMapResponse("a"))
	other := &testEnv{fake: env.fake, srv: env.srv, client: newGuestClient(t)}

	resp := env.post(t, env.srv.URL+"/api/generate", `{"prompt":"p","method":"mindMapping"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = env.post(t, env.srv.URL+"/api/ideas", `{"method":"mindMapping","title":"Mine","score":7}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var mine, theirs meBody
	decodeBody(t, env.get(t, env.srv.URL+"/api/user/me"), &mine)
	decodeBody(t, other.get(t, env.srv.URL+"/api/user/me"), &theirs)
	assert.NotEqual(t, mine.User.ID, theirs.User.ID)
	assert.Equal(t, 180, mine.Credits.Remaining)
	assert.Equal(t, 200, theirs.Credits.Remaining)

	var list struct{ Ideas []idea.Idea }
	decodeBody(t, other.get(t, env.srv.URL+"/api/ideas"), &list)
	assert.Empty(t, list.Ideas)
	decodeBody(t, env.get(t, env.srv.URL+"/api/ideas"), &list)
	assert.Len(t, list.Ideas, 1)
}

type streamEvent struct {
	Type    string               `json:"type"`
	Step    string               `json:"step"`
	Status  string               `json:"status"`
	Items   int                  `json:"items"`
	Result  *generation.Response `json:"result"`
	Code    string               `json:"code"`
	Message string               `json:"message"`
}

func dialStream(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/generate/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readUntilClose(t *testing.T, conn *websocket.Conn) []streamEvent {
	t.Helper()
	var events []streamEvent
	for {
		var ev streamEvent
		if err := conn.ReadJSON(&ev); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected read error: %v", err)
			return events
		}
		events = append(events, ev)
	}
}

func TestGenerateStream_StepsThenResult(t *testing.T) {
	env := newTestEnv(t, 200)
	env.fake.Respond("mindMap", mindMapResponse("a", "b"))
	conn := dialStream(t, env)

	require.NoError(t, conn.WriteJSON(map[string]string{"prompt": "p", "method": "mindMapping"}))
	events := readUntilClose(t, conn)

	require.Len(t, events, 3)
	assert.Equal(t, streamEvent{Type: "step", Step: "mindMap", Status: "started"}, events[0])
	assert.Equal(t, "finished", events[1].Status)
	assert.Equal(t, 2, events[1].Items)
	assert.Equal(t, "result", events[2].Type)
	require.NotNil(t, events[2].Result)
	assert.Len(t, events[2].Result.Ideas, 2)
}

func TestGenerateStream_ErrorEvent(t *testing.T) {
	env := newTestEnv(t, 200)
	conn := dialStream(t, env)

	require.NoError(t, conn.WriteJSON(map[string]string{"prompt": "p", "method": "lateral"}))
	events := readUntilClose(t, conn)

	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0].Type)
	assert.Equal(t, "invalid_argument", events[0].Code)
}

func TestRPC_GenerateAndListMethods(t *testing.T) {
	env := newTestEnv(t, 200)
	env.fake.Respond("mindMap", mindMapResponse("a"))
	client := rpc.NewIdeaServiceClient(env.client, env.srv.URL)
	ctx := context.Background()

	res, err := client.Generate(ctx, connect.NewRequest(&rpc.GenerateRequest{Prompt: "p", Method: "mindMapping", Language: "ru"}))
	require.NoError(t, err)
	require.Len(t, res.Msg.Ideas, 1)
	assert.Equal(t, "ru", res.Msg.Language)

	_, err = client.Generate(ctx, connect.NewRequest(&rpc.GenerateRequest{Prompt: "p", Method: "nope"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	methods, err := client.ListMethods(ctx, connect.NewRequest(&rpc.ListMethodsRequest{}))
	require.NoError(t, err)
	assert.Len(t, methods.Msg.Methods, 5)
}
