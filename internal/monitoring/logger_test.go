package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var got string
	SetLogger(func(format string, v ...any) { got = format })
	Logf("hello %d", 1)
	if got != "hello %d" {
		t.Errorf("custom logger not invoked, got %q", got)
	}

	SetLogger(nil)
	got = ""
	Logf("should be dropped")
	if got != "" {
		t.Error("nil logger should install a no-op")
	}
}

func TestMute(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	called := false
	SetLogger(func(format string, v ...any) { called = true })
	restore := Mute()
	Logf("dropped")
	if called {
		t.Error("muted logger should not emit")
	}
	restore()
	Logf("emitted")
	if !called {
		t.Error("restore should bring back the previous logger")
	}
}
