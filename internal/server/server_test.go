package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
	"github.com/xtding233/booster-sim/internal/pricing"
	"github.com/xtding233/booster-sim/internal/session"
)

func testStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	var cards []gacha.Card
	add := func(prefix, rarity string, n int) {
		for i := 0; i < n; i++ {
			cards = append(cards, gacha.Card{
				Series: "alpha",
				Number: fmt.Sprintf("%s-%03d", prefix, i),
				Rarity: rarity,
				Price:  "10 円",
			})
		}
	}
	add("SRS", "SR★", 2)
	add("SR", "SR", 6)
	add("RS", "R★", 3)
	add("R", "R", 12)
	add("C", "C", 40)
	s := catalog.NewMemoryStore()
	require.NoError(t, s.Upsert(context.Background(), cards))
	return s
}

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	store := testStore(t)
	var seed atomic.Uint64
	res := game.Static{
		Rules:    gacha.DefaultRules(),
		Currency: "円",
		Shop:     pricing.NewShop("円", 300, 4000, 16, 0),
	}
	sessions := session.NewManager(store, res, session.WithRNG(func() gacha.RandomSource {
		return gacha.NewSeededRNG(seed.Add(1))
	}))
	return NewRouter(Options{Store: store, Sessions: sessions, RateLimit: rateLimit})
}

type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == cookieName {
			c.cookie = ck
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type packsBody struct {
	Success  bool             `json:"success"`
	Packs    []gacha.Pack     `json:"packs"`
	Progress session.Progress `json:"progress"`
}

type progressBody struct {
	Success  bool             `json:"success"`
	Progress session.Progress `json:"progress"`
}

func TestHealth(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}
	w := c.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAnonymousIDCookie(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}
	c.do(http.MethodGet, "/health")
	require.NotNil(t, c.cookie)
	assert.Equal(t, 30*24*60*60, c.cookie.MaxAge)
	assert.True(t, c.cookie.HttpOnly)
	first := c.cookie.Value

	w := c.do(http.MethodGet, "/health")
	assert.Empty(t, w.Result().Cookies(), "valid cookie is kept")
	assert.Equal(t, first, c.cookie.Value)

	c.cookie = &http.Cookie{Name: cookieName, Value: "not-a-uuid"}
	c.do(http.MethodGet, "/health")
	assert.NotEqual(t, "not-a-uuid", c.cookie.Value)
}

func TestListSeriesAndCards(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}

	w := c.do(http.MethodGet, "/series")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Series []string `json:"series"`
	}](t, w)
	assert.Equal(t, []string{"alpha"}, body.Series)

	w = c.do(http.MethodGet, "/series/alpha/cards")
	require.Equal(t, http.StatusOK, w.Code)
	cards := decode[struct {
		Cards []gacha.Card `json:"cards"`
	}](t, w)
	assert.Len(t, cards.Cards, 63)

	w = c.do(http.MethodGet, "/series/missing/cards")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"no cards found"}`, w.Body.String())
}

func TestOpenPacks(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}

	w := c.do(http.MethodPost, "/series/alpha/packs")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[packsBody](t, w)
	assert.True(t, body.Success)
	require.Len(t, body.Packs, 1)
	assert.Len(t, body.Packs[0].Cards, 8)
	assert.Equal(t, 1, body.Progress.PackIndex)
	assert.Equal(t, "alpha", body.Progress.Series)
	assert.Equal(t, "80 円", body.Progress.TotalText)

	w = c.do(http.MethodPost, "/series/alpha/packs?count=3")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[packsBody](t, w)
	require.Len(t, body.Packs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{body.Packs[0].Index, body.Packs[1].Index, body.Packs[2].Index})
	assert.Equal(t, 4, body.Progress.PacksOpened)
	assert.Equal(t, 1200, body.Progress.Spent.Total)
}

func TestOpenPacksRejectsBadCount(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}
	for _, q := range []string{"0", "17", "abc", "-1"} {
		w := c.do(http.MethodPost, "/series/alpha/packs?count="+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, "count=%s", q)
	}
}

func TestOpenBoxAndRollover(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}

	w := c.do(http.MethodPost, "/series/alpha/box")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[packsBody](t, w)
	require.Len(t, body.Packs, 16)
	assert.Equal(t, 16, body.Progress.PackIndex)
	assert.Equal(t, 1, body.Progress.BoxNumber)
	assert.Equal(t, 4000, body.Progress.Spent.Total, "a sealed box is cheaper than sixteen singles")

	sr := 0
	for _, p := range body.Packs {
		if gacha.Classify(p.Foil().Rarity, "★").IsSR() {
			sr++
		}
	}
	assert.GreaterOrEqual(t, sr, 4)

	w = c.do(http.MethodPost, "/series/alpha/box")
	body = decode[packsBody](t, w)
	require.Len(t, body.Packs, 16)
	assert.Equal(t, 2, body.Packs[0].Box)
	assert.Equal(t, 2, body.Progress.BoxNumber)
}

func TestProgressAndReset(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}
	c.do(http.MethodPost, "/series/alpha/packs?count=5")

	w := c.do(http.MethodGet, "/series/alpha/progress")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[progressBody](t, w).Progress.PacksOpened)

	w = c.do(http.MethodDelete, "/series/alpha/session")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reset":true`)

	w = c.do(http.MethodGet, "/series/alpha/progress")
	p := decode[progressBody](t, w).Progress
	assert.Equal(t, 0, p.PacksOpened)
	assert.Equal(t, 1, p.BoxesOpened)
}

func TestSessionsFollowTheCookie(t *testing.T) {
	h := newTestRouter(t, 0)
	a := &client{t: t, h: h}
	b := &client{t: t, h: h}

	a.do(http.MethodPost, "/series/alpha/packs?count=2")
	w := b.do(http.MethodGet, "/series/alpha/progress")
	assert.Equal(t, 0, decode[progressBody](t, w).Progress.PacksOpened)
}

func TestDrawErrors(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 0)}

	w := c.do(http.MethodPost, "/series/missing/packs")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no cards found")

	w = c.do(http.MethodPost, "/series/default/packs")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	c := &client{t: t, h: newTestRouter(t, 2)}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health").Code)

	w := c.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
