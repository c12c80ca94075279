package notify

import (
	"context"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	config := &Config{
		Host: "smtp.example.com",
		From: "sync@example.com",
		To:   []string{"ops@example.com"},
	}
	if err := config.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	config.To = nil
	err := config.Validate()
	vErr, ok := err.(*ValidationError)
	if !ok || vErr.Field != "to" {
		t.Errorf("error = %v, want recipient validation failure", err)
	}
}

func TestNewEmail_DefaultsPort(t *testing.T) {
	e, err := NewEmail(&Config{
		Host: "smtp.example.com",
		From: "sync@example.com",
		To:   []string{"ops@example.com"},
	})
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	if e.config.Port != 465 {
		t.Errorf("port = %d, want 465", e.config.Port)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage(
		"sync@example.com",
		[]string{"ops@example.com", "oncall@example.com"},
		"Worker Update Error",
		"G3ABC123 failed",
	))

	for _, want := range []string{
		"From: sync@example.com\r\n",
		"To: ops@example.com, oncall@example.com\r\n",
		"Subject: Worker Update Error\r\n",
		"\r\n\r\nG3ABC123 failed\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	if err := (Log{}).Notify(context.Background(), "subject", "body"); err != nil {
		t.Errorf("Notify: %v", err)
	}
}
