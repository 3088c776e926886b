package backend

import "encoding/json"

// messageFrom extracts the human readable message from an error body. Django
// REST framework answers with "detail", the Node backends with "message".
func messageFrom(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	switch {
	case payload.Message != "":
		return payload.Message
	case payload.Detail != "":
		return payload.Detail
	default:
		return payload.Error
	}
}
