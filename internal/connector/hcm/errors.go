package hcm

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/hcmsync/hcm-sync/internal/connector/http"
)

// =============================================================================
// ERROR BODY DECODING
// The platform uses two error body shapes: 403/404 carry an applicationCode,
// everything else a confirmMessage with nested process messages.
// =============================================================================

type applicationCodeBody struct {
	Response struct {
		ApplicationCode struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"applicationCode"`
		ResourceURI struct {
			Href string `json:"href"`
		} `json:"resourceUri"`
	} `json:"response"`
}

type confirmMessageBody struct {
	ConfirmMessage struct {
		ResourceMessages []struct {
			ProcessMessages []struct {
				UserMessage struct {
					MessageTxt string `json:"messageTxt"`
				} `json:"userMessage"`
			} `json:"processMessages"`
		} `json:"resourceMessages"`
	} `json:"confirmMessage"`
}

// decodeError shapes HCM error bodies into APIErrors.
func decodeError(statusCode int, body []byte) *http.APIError {
	switch statusCode {
	case nethttp.StatusForbidden, nethttp.StatusNotFound:
		var parsed applicationCodeBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Response.ApplicationCode.Code != "" {
			msg := parsed.Response.ApplicationCode.Message
			if href := parsed.Response.ResourceURI.Href; href != "" {
				msg = fmt.Sprintf("%s (%s)", msg, href)
			}
			return &http.APIError{
				StatusCode: statusCode,
				Code:       parsed.Response.ApplicationCode.Code,
				Message:    msg,
				Body:       string(body),
			}
		}
	default:
		var parsed confirmMessageBody
		if err := json.Unmarshal(body, &parsed); err == nil {
			var msgs []string
			for _, rm := range parsed.ConfirmMessage.ResourceMessages {
				for _, pm := range rm.ProcessMessages {
					if txt := pm.UserMessage.MessageTxt; txt != "" {
						msgs = append(msgs, txt)
					}
				}
			}
			if len(msgs) > 0 {
				return &http.APIError{
					StatusCode: statusCode,
					Message:    strings.Join(msgs, "; "),
					Body:       string(body),
				}
			}
		}
	}
	return nil
}
