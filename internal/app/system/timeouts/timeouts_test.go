package timeouts

import (
	"context"
	"testing"
	"time"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer Reset()

	Configure(Config{Write: 3 * time.Second})
	if Write() != 3*time.Second {
		t.Errorf("Write: got %v, want 3s", Write())
	}
	if Read() != DefaultRead {
		t.Errorf("Read: got %v, want default %v", Read(), DefaultRead)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	defer Reset()

	t.Setenv("LESSONHUB_TIMEOUT_PING", "750ms")
	t.Setenv("LESSONHUB_TIMEOUT_READ", "not-a-duration")
	t.Setenv("LESSONHUB_TIMEOUT_WRITE", "-1s")
	t.Setenv("LESSONHUB_TIMEOUT_REORDER", "1m")

	if n := ConfigureFromEnv(); n != 2 {
		t.Errorf("applied: got %d, want 2", n)
	}
	got := Current()
	want := Config{Ping: 750 * time.Millisecond, Read: DefaultRead, Write: DefaultWrite, Reorder: time.Minute}
	if got != want {
		t.Errorf("Current: got %+v, want %+v", got, want)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, nil, "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("Err: got %v, want DeadlineExceeded", ctx.Err())
	}
}
