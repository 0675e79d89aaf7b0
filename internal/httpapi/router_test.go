package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"aichat/internal/ai"
	"aichat/internal/auth"
	"aichat/internal/chat"
	"aichat/internal/clock"
	"aichat/internal/config"
	"aichat/internal/countries"
	"aichat/internal/httpapi/handlers"
	"aichat/internal/kv"
	"aichat/internal/theme"
)

type env struct {
	router *gin.Engine
	chat   *chat.Store
	auth   *auth.Store
	clk    *clock.Fake
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	mem := kv.NewMemory()
	cfg := config.Load()

	authStore := auth.NewStore(context.Background(), mem, log)
	chatStore := chat.NewStore(context.Background(), mem, clk, log)
	themeStore := theme.NewStore(context.Background(), mem, log, nil)

	otp := auth.NewOTPClient(clk, log, "")
	flow := auth.NewFlow(authStore, otp, otp)
	provider := ai.NewCannedProvider(clk, time.Second, 2*time.Second)
	exchange := chat.NewExchange(chatStore, provider, chat.LogNotifier{Log: log}, clk, log)
	history := chat.SeedSource{Now: clk.Now}

	h := handlers.NewHandler(cfg, authStore, flow, chatStore, exchange, history,
		countries.NewClient("http://127.0.0.1:0", log), themeStore, clk, log)
	return &env{router: NewRouter(h), chat: chatStore, auth: authStore, clk: clk}
}

func (e *env) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doPumped serves a request that blocks on a mocked delay, advancing the
// fake clock until the handler returns.
func (e *env) doPumped(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- e.do(t, method, path, body) }()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case w := <-done:
			return w
		case <-deadline:
			t.Fatalf("request %s %s did not finish", method, path)
			return nil
		default:
			e.clk.Advance(time.Second)
			time.Sleep(time.Millisecond)
		}
	}
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRoomLifecycle(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/rooms", `{"name":"General"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create room: %d %s", w.Code, w.Body.String())
	}
	data := envelope(t, w)["data"].(map[string]any)
	roomID := data["id"].(string)
	if roomID == "" {
		t.Fatalf("room id missing")
	}

	w = e.do(t, http.MethodPost, "/rooms", `{"name":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name should 400, got %d", w.Code)
	}

	// first visit seeds a short history
	w = e.do(t, http.MethodGet, "/rooms/"+roomID+"/messages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list messages: %d", w.Code)
	}
	msgs := envelope(t, w)["data"].(map[string]any)["messages"].([]any)
	if len(msgs) != 10 {
		t.Fatalf("expected 10 seeded messages, got %d", len(msgs))
	}

	w = e.do(t, http.MethodDelete, "/rooms/"+roomID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete room: %d", w.Code)
	}
	// idempotent delete
	if w := e.do(t, http.MethodDelete, "/rooms/"+roomID, ""); w.Code != http.StatusOK {
		t.Fatalf("repeat delete should succeed, got %d", w.Code)
	}
	// navigating into the deleted room is a 404
	if w := e.do(t, http.MethodGet, "/rooms/"+roomID+"/messages", ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted room should 404, got %d", w.Code)
	}
}

func TestRoomSearch(t *testing.T) {
	e := newEnv(t)
	e.chat.AddRoom(chat.Room{ID: "a", Name: "General"})
	e.chat.AddRoom(chat.Room{ID: "b", Name: "Family"})

	w := e.do(t, http.MethodGet, "/rooms?q=gen", "")
	rooms := envelope(t, w)["data"].(map[string]any)["rooms"].([]any)
	if len(rooms) != 1 {
		t.Fatalf("expected 1 matching room, got %d", len(rooms))
	}
	if e.chat.SearchQuery() != "gen" {
		t.Fatalf("search query should land in the store")
	}
}

func TestSendMessageIsOptimistic(t *testing.T) {
	e := newEnv(t)
	e.chat.AddRoom(chat.Room{ID: "room", Name: "General"})

	w := e.do(t, http.MethodPost, "/rooms/room/messages", `{"content":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("send: %d %s", w.Code, w.Body.String())
	}
	data := envelope(t, w)["data"].(map[string]any)
	if data["typing"] != true {
		t.Fatalf("typing flag should be up right after the send")
	}
	if got := len(e.chat.MessagesFor("room")); got != 1 {
		t.Fatalf("user message must be committed before the reply, got %d", got)
	}

	// empty send is rejected at the boundary
	w = e.do(t, http.MethodPost, "/rooms/room/messages", `{"content":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty send should 400, got %d", w.Code)
	}

	// resolve the pending reply so the test leaves nothing in flight
	for i := 0; i < 100 && e.chat.Typing(); i++ {
		e.clk.Advance(time.Second)
		time.Sleep(time.Millisecond)
	}
	if e.chat.Typing() {
		t.Fatalf("typing never dropped")
	}
	if got := len(e.chat.MessagesFor("room")); got != 2 {
		t.Fatalf("expected user + ai message, got %d", got)
	}
}

func TestPaginationEndpoint(t *testing.T) {
	e := newEnv(t)
	e.chat.AddRoom(chat.Room{ID: "room", Name: "General"})

	w := e.do(t, http.MethodPost, "/rooms/room/messages/older", `{"scroll_offset":10}`)
	data := envelope(t, w)["data"].(map[string]any)
	if data["loaded"] != true {
		t.Fatalf("first signal should load: %v", data)
	}
	if got := len(e.chat.MessagesFor("room")); got != chat.DefaultBatchSize {
		t.Fatalf("expected one batch, got %d messages", got)
	}

	// second signal during cooldown is ignored
	w = e.do(t, http.MethodPost, "/rooms/room/messages/older", `{"scroll_offset":10}`)
	data = envelope(t, w)["data"].(map[string]any)
	if data["loaded"] != false {
		t.Fatalf("signal during cooldown should not load")
	}

	// far from the top: no load either
	e.clk.Advance(chat.DefaultFetchCooldown)
	w = e.do(t, http.MethodPost, "/rooms/room/messages/older", `{"scroll_offset":500}`)
	data = envelope(t, w)["data"].(map[string]any)
	if data["loaded"] != false {
		t.Fatalf("offset past the threshold should not load")
	}
}

func TestAuthEndpoints(t *testing.T) {
	e := newEnv(t)

	if w := e.do(t, http.MethodGet, "/auth/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("me without a user should 401, got %d", w.Code)
	}

	w := e.doPumped(t, http.MethodPost, "/auth/otp", `{"phone_number":"5551234567","country_code":"+1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("send otp: %d %s", w.Code, w.Body.String())
	}
	if !e.auth.OTPSent() {
		t.Fatalf("otpSent should be true after dispatch")
	}

	w = e.doPumped(t, http.MethodPost, "/auth/verify", `{"code":"000000"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong code should 400, got %d", w.Code)
	}
	if e.auth.User() != nil {
		t.Fatalf("wrong code must not install a user")
	}

	w = e.doPumped(t, http.MethodPost, "/auth/verify", `{"code":"123456"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	if u := e.auth.User(); u == nil || !u.Authenticated {
		t.Fatalf("verification should install the user: %+v", u)
	}

	if w := e.do(t, http.MethodGet, "/auth/me", ""); w.Code != http.StatusOK {
		t.Fatalf("me after login: %d", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/auth/logout", ""); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if e.auth.User() != nil {
		t.Fatalf("logout must clear the user")
	}
}

func TestThemeEndpoints(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/theme", "")
	if envelope(t, w)["data"].(map[string]any)["dark_mode"] != false {
		t.Fatalf("default theme should be light")
	}
	w = e.do(t, http.MethodPost, "/theme/toggle", "")
	if envelope(t, w)["data"].(map[string]any)["dark_mode"] != true {
		t.Fatalf("toggle should flip to dark")
	}
}
