package logger

import "testing"

func TestSanitizeKVs_RedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"access_token", "abc",
		"quiz_id", 42,
	})
	if out[1] != "[REDACTED]" {
		t.Fatalf("expected password redacted, got %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("expected token redacted, got %v", out[3])
	}
	if out[5] != 42 {
		t.Fatalf("expected quiz_id untouched, got %v", out[5])
	}
}

func TestSanitizeKVs_RedactsJWTShapedValues(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.signature"
	out := sanitizeKVs([]interface{}{"note", jwt})
	if out[1] != "[REDACTED]" {
		t.Fatalf("expected JWT-shaped value redacted, got %v", out[1])
	}
}

func TestSanitizeKVs_HandlesOddLengthInput(t *testing.T) {
	out := sanitizeKVs([]interface{}{"dangling"})
	if len(out) != 1 || out[0] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestNew_SupportsBothModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", mode, err)
		}
		if log.SugaredLogger == nil {
			t.Fatalf("New(%q) returned nil sugared logger", mode)
		}
	}
}
