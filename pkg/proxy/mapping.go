package proxy

import (
	"bytes"
	"encoding/json"
	"net/http"

	"estatechat/chatrelay/pkg/proxy/types"
	"estatechat/chatrelay/pkg/upstream"
)

// Outcome labels how a chat request ended. Values are used in logs and as
// metric labels.
type Outcome string

// Outcomes.
const (
	OutcomeRelayed           Outcome = "relayed"
	OutcomeUpstreamError     Outcome = "upstream_error"
	OutcomeUpstreamMalformed Outcome = "upstream_malformed"
	OutcomeNoResponse        Outcome = "no_response"
	OutcomeSendError         Outcome = "send_error"
	OutcomeNotConfigured     Outcome = "not_configured"
	OutcomeInvalidRequest    Outcome = "invalid_request"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeInternalError     Outcome = "internal_error"
	OutcomeNotFound          Outcome = "not_found"
)

// Reply is a fully decided client response: a status and a JSON body.
type Reply struct {
	StatusCode int
	Body       []byte
	Outcome    Outcome
}

// MapResult decides the client response for a forwarded request. It is the
// only place where upstream outcomes are translated, and it handles every
// Kind.
func MapResult(result upstream.Result, msgs *Messages) Reply {
	switch result.Kind {
	case upstream.KindUpstreamResponse:
		return mapUpstreamResponse(result)

	case upstream.KindNoResponse:
		return errorReply(http.StatusGatewayTimeout, OutcomeNoResponse,
			msgs.Get(MsgGatewayTimeout), ErrTextGatewayTimeout)

	case upstream.KindSendError:
		errText := ErrTextInternal
		if result.Err != nil {
			errText = result.Err.Error()
		}
		return errorReply(http.StatusInternalServerError, OutcomeSendError,
			msgs.Get(MsgSetupError), errText)

	default:
		return errorReply(http.StatusInternalServerError, OutcomeInternalError,
			msgs.Get(MsgInternalError), ErrTextInternal)
	}
}

func mapUpstreamResponse(result upstream.Result) Reply {
	status := result.StatusCode

	if result.Success() {
		if json.Valid(result.Body) {
			return Reply{StatusCode: status, Body: result.Body, Outcome: OutcomeRelayed}
		}
		return Reply{
			StatusCode: status,
			Outcome:    OutcomeUpstreamMalformed,
			Body:       mustMarshal(types.NewErrorResponse(BackendError(status), stringifyBody(result.Body))),
		}
	}

	return Reply{
		StatusCode: status,
		Outcome:    OutcomeUpstreamError,
		Body:       mustMarshal(types.NewErrorResponse(BackendError(status), stringifyBody(result.Body))),
	}
}

// stringifyBody renders an upstream body as JSON text: compact JSON when the
// body is JSON, otherwise the body as a quoted JSON string.
func stringifyBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.String()
	}
	return string(mustMarshal(string(body)))
}

// mustMarshal encodes v without HTML escaping. ErrorResponse always encodes.
func mustMarshal(v interface{}) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic("proxy: cannot encode response: " + err.Error())
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}
