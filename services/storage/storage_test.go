package storage

import (
	"strings"
	"testing"
)

func TestObjectName(t *testing.T) {
	name := objectName("/events/", "Yoga.JPG")
	if !strings.HasPrefix(name, "events/") || !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected object name %q", name)
	}
	if other := objectName("events", "Yoga.JPG"); other == name {
		t.Fatal("object names must be unique")
	}
	if name := objectName("", "plain"); strings.Contains(name, "/") {
		t.Fatalf("no folder expected, got %q", name)
	}
}

func TestDownloadURL(t *testing.T) {
	got := downloadURL("demo.appspot.com", "events/a b.png", "tok")
	want := "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/events%2Fa%20b.png?alt=media&token=tok"
	if got != want {
		t.Fatalf("downloadURL = %q, want %q", got, want)
	}
}

func TestPathExt(t *testing.T) {
	if got := pathExt("abc.png"); got != ".png" {
		t.Fatalf("pathExt = %q", got)
	}
	if got := pathExt("abc"); got != "" {
		t.Fatalf("pathExt = %q", got)
	}
}
