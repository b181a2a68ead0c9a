package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewMessage_WithAttachment(t *testing.T) {
	m := NewMessage("bot@careforme.com", "admin@careforme.com", "Weekly report", "<p>hi</p>", Attachment{
		Filename:    "doctors_report.csv",
		ContentType: "text/csv",
		Data:        []byte("Name,Specialty"),
	})

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Subject: Weekly report",
		"To: admin@careforme.com",
		`filename="doctors_report.csv"`,
		"Content-Type: text/csv",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected message to contain %q", want)
		}
	}
}

func TestNewMessage_NoAttachments(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewMessage("a@b.c", "d@e.f", "s", "<p>b</p>").WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "filename=") {
		t.Error("unexpected attachment")
	}
}
