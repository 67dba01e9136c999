package normalize

import "testing"

func TestEmail(t *testing.T) {
	in := "  John.DOE@Example.COM  "
	want := "john.doe@example.com"
	if got := Email(in); got != want {
		t.Fatalf("Email(%q) = %q, want %q", in, got, want)
	}
}

func TestOptionalText(t *testing.T) {
	blank := "   "
	if OptionalText(&blank) != nil {
		t.Fatal("expected blank to map to nil")
	}
	city := " Makati "
	if got := OptionalText(&city); got == nil || *got != "Makati" {
		t.Fatalf("unexpected %v", got)
	}
	if OptionalText(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
}
