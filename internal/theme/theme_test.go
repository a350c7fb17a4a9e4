package theme

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"pgregory.net/rapid"
)

func TestDefaultWhenNothingPersisted(t *testing.T) {
	c := New(&MemoryStore{}, Default)
	if c.Mode() != Light {
		t.Errorf("Mode() = %q, want light", c.Mode())
	}
}

func TestInvalidPersistedValueFallsBack(t *testing.T) {
	store := &MemoryStore{}
	store.Save("purple")
	if got := New(store, Default).Mode(); got != Light {
		t.Errorf("Mode() = %q, want light", got)
	}
	if got := New(store, "sepia").Mode(); got != Light {
		t.Errorf("Mode() with invalid fallback = %q, want light", got)
	}
}

func TestReadsPersistedValue(t *testing.T) {
	store := &MemoryStore{}
	store.Save("dark")
	if got := New(store, Light).Mode(); got != Dark {
		t.Errorf("Mode() = %q, want dark", got)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	store := &MemoryStore{}
	store.Save("dark")
	c := New(store, Light)

	if m, err := c.Toggle(); err != nil || m != Light {
		t.Fatalf("Toggle = %q, %v", m, err)
	}
	if v, _ := store.Load(); v != "light" {
		t.Errorf("persisted = %q after first toggle", v)
	}
	c.Toggle()
	if v, _ := store.Load(); v != "dark" {
		t.Errorf("persisted = %q, want original dark", v)
	}
}

func TestSubscribe(t *testing.T) {
	c := New(&MemoryStore{}, Light)
	var seen []Mode
	unsub := c.Subscribe(func(m Mode) { seen = append(seen, m) })
	c.Toggle()
	unsub()
	c.Toggle()
	if len(seen) != 1 || seen[0] != Dark {
		t.Errorf("seen = %v, want [dark]", seen)
	}
}

func TestToggleInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := &MemoryStore{}
		if rapid.Bool().Draw(t, "persisted") {
			store.Save(rapid.SampledFrom([]string{"light", "dark", "bogus"}).Draw(t, "value"))
		}
		c := New(store, Default)
		start := c.Mode()
		n := rapid.IntRange(0, 10).Draw(t, "pairs")
		for i := 0; i < 2*n; i++ {
			c.Toggle()
		}
		if c.Mode() != start {
			t.Fatalf("after %d toggles mode = %q, want %q", 2*n, c.Mode(), start)
		}
	})
}

func TestCookieStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: Key, Value: "dark"})

	store := NewCookieStore(c)
	if v, ok := store.Load(); !ok || v != "dark" {
		t.Fatalf("Load = %q, %v", v, ok)
	}
	ctx := New(store, Light)
	ctx.Toggle()

	set := w.Header().Get("Set-Cookie")
	if !strings.Contains(set, "theme=light") {
		t.Errorf("Set-Cookie = %q, want theme=light", set)
	}
}
