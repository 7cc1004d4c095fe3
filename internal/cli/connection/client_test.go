package connection

import (
	"context"
	"testing"
	"time"

	"github.com/strandkv/strand/internal/resp"
	"github.com/strandkv/strand/internal/server"
	"github.com/strandkv/strand/internal/store"
)

func startServer(t *testing.T) string {
	t.Helper()

	st := store.New()
	srv := server.New(&server.Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}, st)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = st.Close()
	})
	return srv.Addr().String()
}

func TestClient_Do(t *testing.T) {
	addr := startServer(t)

	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	got, err := c.Do("PING")
	if err != nil {
		t.Fatalf("Do(PING) error = %v", err)
	}
	if !got.Equal(resp.SimpleString("PONG")) {
		t.Errorf("PING reply = %v, want +PONG", got)
	}

	if _, err := c.Do("SET", "k", "v"); err != nil {
		t.Fatalf("Do(SET) error = %v", err)
	}
	got, err = c.Do("GET", "k")
	if err != nil {
		t.Fatalf("Do(GET) error = %v", err)
	}
	if !got.Equal(resp.BulkStringText("v")) {
		t.Errorf("GET reply = %v, want \"v\"", got)
	}
}

func TestClient_DoEmpty(t *testing.T) {
	addr := startServer(t)

	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if _, err := c.Do(); err == nil {
		t.Error("Do() with no args should error")
	}
}

func TestClient_DoWait(t *testing.T) {
	addr := startServer(t)

	c, err := Dial(addr, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	// The blocking timeout exceeds the client timeout; DoWait's headroom
	// keeps the connection deadline ahead of the server-side wait.
	start := time.Now()
	got, err := c.DoWait(2*time.Second, "BLPOP", "q", "1.5")
	if err != nil {
		t.Fatalf("DoWait() error = %v", err)
	}
	if !got.Equal(resp.NullBulkString()) {
		t.Errorf("BLPOP reply = %v, want null", got)
	}
	if elapsed := time.Since(start); elapsed < 1400*time.Millisecond {
		t.Errorf("BLPOP returned after %v, want >= 1.5s", elapsed)
	}
}

func TestDial_Refused(t *testing.T) {
	if _, err := Dial("127.0.0.1:1", WithTimeout(time.Second)); err == nil {
		t.Error("Dial() to closed port should error")
	}
}
