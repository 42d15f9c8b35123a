package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"estatechat/chatrelay/pkg/proxy/types"
	"estatechat/chatrelay/pkg/upstream"
)

func decodeError(t *testing.T, body []byte) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("body %q is not an error response: %v", body, err)
	}
	return resp
}

func TestMapResult_UpstreamResponse(t *testing.T) {
	fr := MessagesFor("fr")

	tests := []struct {
		name        string
		status      int
		body        string
		wantOutcome Outcome
		wantRaw     string // exact body when relayed verbatim
		wantAI      string
		wantError   string
	}{
		{
			name:        "2xx json relayed verbatim",
			status:      http.StatusOK,
			body:        `{"aiMessage":"Salut!", "properties":[{"id":1}],"smartTags":[]}`,
			wantOutcome: OutcomeRelayed,
			wantRaw:     `{"aiMessage":"Salut!", "properties":[{"id":1}],"smartTags":[]}`,
		},
		{
			name:        "201 json relayed with status",
			status:      http.StatusCreated,
			body:        `{"aiMessage":"ok"}`,
			wantOutcome: OutcomeRelayed,
			wantRaw:     `{"aiMessage":"ok"}`,
		},
		{
			name:        "2xx malformed body",
			status:      http.StatusOK,
			body:        `<html>oops</html>`,
			wantOutcome: OutcomeUpstreamMalformed,
			wantAI:      "Error from backend: 200",
			wantError:   `"<html>oops</html>"`,
		},
		{
			name:        "2xx empty body",
			status:      http.StatusOK,
			body:        ``,
			wantOutcome: OutcomeUpstreamMalformed,
			wantAI:      "Error from backend: 200",
			wantError:   `""`,
		},
		{
			name:        "5xx json stringified",
			status:      http.StatusInternalServerError,
			body:        "{\n  \"detail\": \"boom\"\n}",
			wantOutcome: OutcomeUpstreamError,
			wantAI:      "Error from backend: 500",
			wantError:   `{"detail":"boom"}`,
		},
		{
			name:        "4xx plain text",
			status:      http.StatusNotFound,
			body:        `Not Found`,
			wantOutcome: OutcomeUpstreamError,
			wantAI:      "Error from backend: 404",
			wantError:   `"Not Found"`,
		},
		{
			name:        "422 validation detail",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","message"],"msg":"field required"}]}`,
			wantOutcome: OutcomeUpstreamError,
			wantAI:      "Error from backend: 422",
			wantError:   `{"detail":[{"loc":["body","message"],"msg":"field required"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := MapResult(upstream.Result{
				Kind:       upstream.KindUpstreamResponse,
				StatusCode: tt.status,
				Body:       []byte(tt.body),
			}, fr)

			if reply.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", reply.StatusCode, tt.status)
			}
			if reply.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", reply.Outcome, tt.wantOutcome)
			}

			if tt.wantOutcome == OutcomeRelayed {
				if string(reply.Body) != tt.wantRaw {
					t.Errorf("Body = %q, want %q", reply.Body, tt.wantRaw)
				}
				return
			}

			resp := decodeError(t, reply.Body)
			if resp.AIMessage != tt.wantAI {
				t.Errorf("aiMessage = %q, want %q", resp.AIMessage, tt.wantAI)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestMapResult_OpaqueFieldsSurvive(t *testing.T) {
	body := `{"aiMessage":"Voici 2 biens","properties":[{"id":7,"price":250000,"tags":["jardin"]},{"id":9}],"smartTags":[{"label":"Lyon","weight":0.8}]}`

	reply := MapResult(upstream.Result{
		Kind:       upstream.KindUpstreamResponse,
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	}, MessagesFor("fr"))

	var resp types.ChatResponse
	if err := json.Unmarshal(reply.Body, &resp); err != nil {
		t.Fatalf("body is not a chat response: %v", err)
	}
	if resp.AIMessage != "Voici 2 biens" {
		t.Errorf("aiMessage = %q, want %q", resp.AIMessage, "Voici 2 biens")
	}
	if got, want := string(resp.Properties), `[{"id":7,"price":250000,"tags":["jardin"]},{"id":9}]`; got != want {
		t.Errorf("properties = %s, want %s", got, want)
	}
	if got, want := string(resp.SmartTags), `[{"label":"Lyon","weight":0.8}]`; got != want {
		t.Errorf("smartTags = %s, want %s", got, want)
	}
	if resp.Error != "" {
		t.Errorf("error = %q, want empty", resp.Error)
	}
}

func TestMapResult_NoResponse(t *testing.T) {
	for _, locale := range []string{"fr", "en"} {
		t.Run(locale, func(t *testing.T) {
			msgs := MessagesFor(locale)
			reply := MapResult(upstream.Result{
				Kind: upstream.KindNoResponse,
				Err:  &upstream.NoResponseError{URL: "http://backend/api/chat", Cause: errors.New("connection refused")},
			}, msgs)

			if reply.StatusCode != http.StatusGatewayTimeout {
				t.Errorf("StatusCode = %d, want 504", reply.StatusCode)
			}
			resp := decodeError(t, reply.Body)
			if resp.AIMessage != msgs.Get(MsgGatewayTimeout) {
				t.Errorf("aiMessage = %q, want timeout text", resp.AIMessage)
			}
			if resp.Error != "Gateway timeout" {
				t.Errorf("error = %q, want Gateway timeout", resp.Error)
			}
		})
	}
}

func TestMapResult_SendError(t *testing.T) {
	fr := MessagesFor("fr")
	sendErr := &upstream.SendError{Op: "build request", URL: "ftp://x/api/chat", Cause: errors.New(`unsupported protocol scheme "ftp"`)}

	reply := MapResult(upstream.Result{Kind: upstream.KindSendError, Err: sendErr}, fr)

	if reply.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", reply.StatusCode)
	}
	if reply.Outcome != OutcomeSendError {
		t.Errorf("Outcome = %q, want %q", reply.Outcome, OutcomeSendError)
	}
	resp := decodeError(t, reply.Body)
	if resp.AIMessage != "Erreur lors de la configuration de la requête proxy." {
		t.Errorf("aiMessage = %q", resp.AIMessage)
	}
	if resp.Error != sendErr.Error() {
		t.Errorf("error = %q, want %q", resp.Error, sendErr.Error())
	}
}

func TestMapResult_UnknownKind(t *testing.T) {
	reply := MapResult(upstream.Result{}, MessagesFor("en"))
	if reply.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", reply.StatusCode)
	}
	if reply.Outcome != OutcomeInternalError {
		t.Errorf("Outcome = %q, want %q", reply.Outcome, OutcomeInternalError)
	}
}

func TestLocalReplies(t *testing.T) {
	fr := MessagesFor("fr")

	tests := []struct {
		name       string
		reply      Reply
		wantStatus int
		wantError  string
	}{
		{name: "not configured", reply: NotConfiguredReply(fr), wantStatus: http.StatusServiceUnavailable, wantError: "Proxy configuration error"},
		{name: "rate limited", reply: RateLimitedReply(fr), wantStatus: http.StatusTooManyRequests, wantError: "Rate limit exceeded"},
		{name: "not found", reply: NotFoundReply(fr), wantStatus: http.StatusNotFound, wantError: "Not found"},
		{name: "method not allowed", reply: MethodNotAllowedReply(fr), wantStatus: http.StatusMethodNotAllowed, wantError: "Method not allowed"},
		{name: "internal", reply: HandleError(errors.New("boom"), fr), wantStatus: http.StatusInternalServerError, wantError: "Internal server error"},
		{name: "too large", reply: HandleError(NewBodyTooLargeError(10), fr), wantStatus: http.StatusRequestEntityTooLarge, wantError: "Request body too large (limit 10 bytes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.reply.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", tt.reply.StatusCode, tt.wantStatus)
			}
			resp := decodeError(t, tt.reply.Body)
			if resp.AIMessage == "" {
				t.Error("aiMessage is empty")
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	if _, err := NewMessages("de"); err == nil {
		t.Error("NewMessages(de) error = nil, want unsupported locale")
	}
	if got := MessagesFor("de").Locale(); got != DefaultLocale {
		t.Errorf("MessagesFor(de).Locale() = %q, want %q", got, DefaultLocale)
	}

	fr := MessagesFor("fr")
	if got := fr.Get(MsgGatewayTimeout); got != "Le backend n'a pas répondu dans le délai imparti." {
		t.Errorf("fr timeout = %q", got)
	}

	// Every locale must define every key.
	for locale, texts := range catalogs {
		for key := MsgGatewayTimeout; key <= MsgMethodNotAllowed; key++ {
			if texts[key] == "" {
				t.Errorf("locale %q is missing message %d", locale, key)
			}
		}
	}
}
