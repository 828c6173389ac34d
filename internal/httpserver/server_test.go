package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/wordle-shqip/internal/alphabet"
	"github.com/robalobadob/wordle-shqip/internal/config"
	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/stats"
	"github.com/robalobadob/wordle-shqip/internal/store"
	"github.com/robalobadob/wordle-shqip/internal/words"
)

// Daily word for 2025-01-01 over this pool is SHTET (hash 274162049 % 5).
const testDictionary = `[{"term":"DRITË"},{"term":"ZEMËR"},{"term":"LIBËR"},{"term":"DIELL"},{"term":"SHTET"}]`

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		CookieName:    "wordle_player",
		PlayerSecret:  "test-secret",
		ClientOrigin:  "http://localhost:5173",
		DailyLocation: time.UTC,
	}
	dict := words.New(func(context.Context) ([]byte, error) { return []byte(testDictionary), nil })
	<-dict.EnsureLoaded()
	s := New(cfg, store.NewMemoryStore(), dict)
	s.now = func() time.Time { return testNow }
	return s
}

// client carries one player's cookie across requests.
type client struct {
	t      *testing.T
	s      *Server
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.s.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "wordle_player" {
			c.cookie = ck
		}
	}
	return rec
}

func keys(word string) map[string][]string {
	return map[string][]string{"keys": append(alphabet.Split(word), alphabet.KeyEnter)}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func TestRootAndHealth(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}

	rec := c.do(http.MethodGet, "/", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	h := decode[map[string]any](t, c.do(http.MethodGet, "/health", nil))
	if h["dictionary"] != "ok" || h["terms"] != float64(5) {
		t.Errorf("health = %v", h)
	}

	rec = c.do(http.MethodGet, "/nope", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCORSPreflight(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}
	rec := c.do(http.MethodOptions, "/daily", nil)
	expectStatus(t, rec, http.StatusNoContent)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestPlayerCookie(t *testing.T) {
	s := newTestServer(t)
	c := &client{t: t, s: s}

	c.do(http.MethodGet, "/stats", nil)
	if c.cookie == nil || !c.cookie.HttpOnly {
		t.Fatalf("no HttpOnly player cookie: %+v", c.cookie)
	}
	first := c.cookie.Value
	if id, _ := s.parsePlayerToken(first); id == "" {
		t.Fatal("issued token does not verify")
	}

	rec := c.do(http.MethodGet, "/stats", nil)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("valid cookie was replaced")
	}

	forged := &client{t: t, s: s, cookie: &http.Cookie{Name: "wordle_player", Value: first + "x"}}
	forged.do(http.MethodGet, "/stats", nil)
	if forged.cookie.Value == first+"x" {
		t.Error("forged cookie was accepted")
	}
}

func TestDaily_WinFlow(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}

	res := decode[dailyRes](t, c.do(http.MethodGet, "/daily", nil))
	if res.Date != "2025-01-01" || !res.Today || res.GameStatus != game.StatusPlaying {
		t.Fatalf("GET /daily = %+v", res)
	}
	if res.Target != "" || res.Completion != nil {
		t.Errorf("fresh daily leaks target or completion: %+v", res)
	}

	rec := c.do(http.MethodPost, "/daily/keys", keys("DRITË"))
	expectStatus(t, rec, http.StatusOK)
	res = decode[dailyRes](t, rec)
	if res.Reveal == nil || res.Reveal.Row != 0 || res.CurrentRow != 1 {
		t.Fatalf("after first guess = %+v", res)
	}
	if res.Target != "" {
		t.Error("target exposed while playing")
	}

	res = decode[dailyRes](t, c.do(http.MethodPost, "/daily/keys", keys("SHTET")))
	if res.GameStatus != game.StatusWon || res.Target != "SHTET" {
		t.Fatalf("after winning guess = %+v", res)
	}
	if res.Completion == nil || res.Completion.Attempts != 2 || res.Completion.Failed {
		t.Errorf("completion = %+v", res.Completion)
	}
	if !strings.Contains(res.Message, "Urime") {
		t.Errorf("message = %q", res.Message)
	}

	share := decode[shareRes](t, c.do(http.MethodGet, "/daily/share", nil))
	want := "Wordle Shqip 2025-01-01\n2/6\n\n⬛⬛⬛🟨⬛\n🟩🟩🟩🟩🟩\n\n#WordleShqip"
	if share.Text != want {
		t.Errorf("share =\n%s\nwant\n%s", share.Text, want)
	}

	st := decode[stats.Statistics](t, c.do(http.MethodGet, "/stats", nil))
	if st.GamesPlayed != 1 || st.GamesWon != 1 || st.GuessDistribution[2] != 1 {
		t.Errorf("stats = %+v", st)
	}

	rec = c.do(http.MethodDelete, "/stats", nil)
	expectStatus(t, rec, http.StatusOK)
	if st := decode[stats.Statistics](t, rec); st.GamesPlayed != 0 {
		t.Errorf("stats after reset = %+v", st)
	}
}

func TestDaily_Dates(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}

	expectStatus(t, c.do(http.MethodGet, "/daily?date=2025-01-02", nil), http.StatusBadRequest)
	expectStatus(t, c.do(http.MethodGet, "/daily?date=yesterday", nil), http.StatusBadRequest)

	res := decode[dailyRes](t, c.do(http.MethodGet, "/daily?date=2024-12-31", nil))
	if res.Date != "2024-12-31" || res.Today {
		t.Errorf("past daily = %+v", res)
	}
}

func TestDaily_ResetKeepsCompletion(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}
	c.do(http.MethodPost, "/daily/keys", keys("SHTET"))

	res := decode[dailyRes](t, c.do(http.MethodPost, "/daily/reset", nil))
	if res.GameStatus != game.StatusPlaying || len(res.Guesses) != 0 {
		t.Errorf("after reset = %+v", res)
	}
	if res.Completion == nil {
		t.Error("reset dropped the completion marker")
	}
}

func TestDaily_NewDayClearsCachedProgress(t *testing.T) {
	s := newTestServer(t)
	c := &client{t: t, s: s}

	res := decode[dailyRes](t, c.do(http.MethodPost, "/daily/keys", map[string][]string{"keys": {"D", "R"}}))
	if res.CurrentCol != 2 {
		t.Fatalf("after typing = col %d", res.CurrentCol)
	}

	s.now = func() time.Time { return testNow.Add(24 * time.Hour) }
	res = decode[dailyRes](t, c.do(http.MethodGet, "/daily?date=2025-01-01", nil))
	if res.CurrentCol != 0 || res.Board[0][0] != "" {
		t.Errorf("yesterday's progress survived the new day: col %d row0 %v", res.CurrentCol, res.Board[0])
	}
	if res.Today {
		t.Error("2025-01-01 reported as today")
	}
}

func TestDaily_PastDateMessages(t *testing.T) {
	s := newTestServer(t)
	s.now = func() time.Time { return testNow.Add(24 * time.Hour) }
	c := &client{t: t, s: s}

	res := decode[dailyRes](t, c.do(http.MethodPost, "/daily/keys?date=2025-01-01", keys("SHTET")))
	if res.GameStatus != game.StatusWon {
		t.Fatalf("past daily = %+v", res)
	}
	if strings.Contains(res.Message, "sotme") || !strings.Contains(res.Message, "2025-01-01") {
		t.Errorf("past daily message = %q", res.Message)
	}
}

func TestPlayerCookie_Refresh(t *testing.T) {
	s := newTestServer(t)
	c := &client{t: t, s: s}
	c.do(http.MethodGet, "/stats", nil)
	first := c.cookie.Value
	id, _ := s.parsePlayerToken(first)

	s.now = func() time.Time { return testNow.Add(30 * 24 * time.Hour) }
	if rec := c.do(http.MethodGet, "/stats", nil); len(rec.Result().Cookies()) != 0 {
		t.Error("young token was re-issued")
	}

	s.now = func() time.Time { return testNow.Add(120 * 24 * time.Hour) }
	c.do(http.MethodGet, "/stats", nil)
	if c.cookie.Value == first {
		t.Fatal("aging token was not re-issued")
	}
	again, exp := s.parsePlayerToken(c.cookie.Value)
	if again != id {
		t.Errorf("re-issued token has id %q, want %q", again, id)
	}
	if !exp.After(testNow.Add(playerTTL)) {
		t.Errorf("re-issued token expires %v", exp)
	}
}

func TestKeys_RejectedGuess(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}

	rec := c.do(http.MethodPost, "/game/keys", keys("QQQQQ"))
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	rej := decode[rejection](t, rec)
	if rej.Error != "not_in_word_list" || rej.Message == "" {
		t.Errorf("rejection = %+v", rej)
	}
	if rej.Game.CurrentRow != 0 || rej.Game.CurrentCol != 5 {
		t.Errorf("game after rejection = row %d col %d", rej.Game.CurrentRow, rej.Game.CurrentCol)
	}

	rec = c.do(http.MethodPost, "/game/keys", map[string]any{"keys": []string{"BACKSPACE", "BACKSPACE", "W", "W", "ENTER"}})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if rej := decode[rejection](t, rec); rej.Error != "invalid_shape" {
		t.Errorf("rejection = %+v", rej)
	}

	expectStatus(t, c.do(http.MethodPost, "/game/keys", map[string]any{}), http.StatusBadRequest)
}

func TestFreePlay(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}

	rec := c.do(http.MethodPost, "/game/new", nil)
	expectStatus(t, rec, http.StatusCreated)
	v := decode[gameView](t, rec)
	if v.GameStatus != game.StatusPlaying || v.Target != "" {
		t.Fatalf("new game = %+v", v)
	}

	v = decode[gameView](t, c.do(http.MethodPost, "/game/keys", map[string]string{"key": "d"}))
	if v.Board[0][0] != "D" || v.CurrentCol != 1 {
		t.Errorf("after one key = %+v", v)
	}
	v = decode[gameView](t, c.do(http.MethodGet, "/game", nil))
	if v.CurrentCol != 1 {
		t.Errorf("GET /game lost progress: %+v", v)
	}

	other := &client{t: t, s: c.s}
	if v := decode[gameView](t, other.do(http.MethodGet, "/game", nil)); v.CurrentCol != 0 {
		t.Errorf("second player sees first player's game: %+v", v)
	}
}

func TestFriends(t *testing.T) {
	s := newTestServer(t)
	creator := &client{t: t, s: s}

	rec := creator.do(http.MethodPost, "/friends", createChallengeReq{Word: "diell", CreatorName: " Ëndrit "})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[challengeRes](t, rec)
	if created.ID == "" || created.Path != "/friends/"+created.ID || created.CreatorName != "Ëndrit" {
		t.Fatalf("created = %+v", created)
	}

	guesser := &client{t: t, s: s}
	res := decode[friendsRes](t, guesser.do(http.MethodGet, created.Path, nil))
	if res.Challenge.CreatorName != "Ëndrit" || res.Target != "" {
		t.Fatalf("GET challenge = %+v", res)
	}

	res = decode[friendsRes](t, guesser.do(http.MethodPost, created.Path+"/keys", keys("DIELL")))
	if res.GameStatus != game.StatusWon || res.Target != "DIELL" || !strings.Contains(res.Message, "Ëndrit") {
		t.Errorf("after win = %+v", res)
	}

	res = decode[friendsRes](t, guesser.do(http.MethodPost, created.Path+"/reset", nil))
	if res.GameStatus != game.StatusPlaying || len(res.Guesses) != 0 {
		t.Errorf("after reset = %+v", res)
	}

	expectStatus(t, guesser.do(http.MethodGet, "/friends/not-a-token", nil), http.StatusNotFound)

	bad := creator.do(http.MethodPost, "/friends", createChallengeReq{Word: "ab", CreatorName: "Ana"})
	expectStatus(t, bad, http.StatusUnprocessableEntity)
	bad = creator.do(http.MethodPost, "/friends", createChallengeReq{Word: "DRITË", CreatorName: " "})
	expectStatus(t, bad, http.StatusUnprocessableEntity)
}

func TestKeyboard(t *testing.T) {
	c := &client{t: t, s: newTestServer(t)}

	kb := decode[keyboardRes](t, c.do(http.MethodGet, "/keyboard", nil))
	if len(kb.Rows) != 3 || len(kb.Alphabet) != 36 {
		t.Fatalf("keyboard = %d rows, %d letters", len(kb.Rows), len(kb.Alphabet))
	}

	c.do(http.MethodPost, "/daily/keys", keys("DRITË"))
	kb = decode[keyboardRes](t, c.do(http.MethodGet, "/keyboard?mode=daily", nil))
	states := map[string]game.LetterState{}
	for _, row := range kb.Rows {
		for _, k := range row {
			states[k.Key] = k.State
		}
	}
	// DRITË against SHTET: T is present but misplaced.
	if states["T"] != game.Partial || states["D"] != game.Incorrect || states["S"] != game.Unused {
		t.Errorf("daily hints = T:%v D:%v S:%v", states["T"], states["D"], states["S"])
	}

	expectStatus(t, c.do(http.MethodGet, "/keyboard?mode=chess", nil), http.StatusBadRequest)
}

func TestPlayerLocks(t *testing.T) {
	p := newPlayerLocks()
	unlock := p.lock("a")
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.lock("a")()
	}()
	select {
	case <-done:
		t.Fatal("second lock acquired while held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-done
	if len(p.locks) != 0 {
		t.Errorf("locks not released: %d", len(p.locks))
	}
}
