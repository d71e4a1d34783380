package twilio

import (
	"io"
	"log"
	"testing"
)

func TestNormalizeWhatsAppAddress(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                    "",
		"   ":                 "",
		"+15551234567":        "whatsapp:+15551234567",
		"15551234567":         "whatsapp:+15551234567",
		" whatsapp:+1555000 ": "whatsapp:+1555000",
	}

	for input, want := range cases {
		if got := normalizeWhatsAppAddress(input); got != want {
			t.Fatalf("normalizeWhatsAppAddress(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSendWhatsAppMessageValidatesNumbers(t *testing.T) {
	t.Parallel()

	logger := log.New(io.Discard, "", 0)

	if err := New("sid", "token", "", logger).SendWhatsAppMessage("+1555", "hi"); err == nil {
		t.Fatalf("expected error for missing sender")
	}
	if err := New("sid", "token", "+1444", logger).SendWhatsAppMessage("  ", "hi"); err == nil {
		t.Fatalf("expected error for missing recipient")
	}
	if err := (&Client{}).SendWhatsAppMessage("+1555", "hi"); err == nil {
		t.Fatalf("expected error for uninitialised client")
	}
}
