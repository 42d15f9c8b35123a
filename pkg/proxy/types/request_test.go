package types

import (
	"errors"
	"testing"
)

func TestDecodeChatRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
		wantText  string
		wantIsStr bool
	}{
		{name: "valid", body: `{"message":"Bonjour"}`, wantText: "Bonjour", wantIsStr: true},
		{name: "empty message allowed", body: `{"message":""}`, wantIsStr: true},
		{name: "extra fields allowed", body: `{"message":"hi","history":[{"role":"user"}]}`, wantText: "hi", wantIsStr: true},
		{name: "numeric message accepted", body: `{"message":42}`},
		{name: "object message accepted", body: `{"message":{"text":"hi"}}`},
		{name: "missing message", body: `{"text":"hi"}`, wantErr: true, wantField: "message"},
		{name: "null message", body: `{"message":null}`, wantErr: true, wantField: "message"},
		{name: "array body", body: `["hi"]`, wantErr: true, wantField: "body"},
		{name: "malformed", body: `{"message":`, wantErr: true, wantField: "body"},
		{name: "empty", body: ``, wantErr: true, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeChatRequest([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeChatRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if len(req.Message) == 0 {
					t.Error("Message is empty, want raw value")
				}
				text, ok := req.Text()
				if ok != tt.wantIsStr {
					t.Errorf("Text() ok = %v, want %v", ok, tt.wantIsStr)
				}
				if text != tt.wantText {
					t.Errorf("Text() = %q, want %q", text, tt.wantText)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}
