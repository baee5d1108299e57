package subscription

import (
	"strings"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
)

// ParseJSONRequest decode protocol message from http request body, only application/json content type is managed
func ParseJSONRequest(contentType string, body []byte) (Message, error) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType != candihelper.HeaderMIMEApplicationJSON {
		return nil, candishared.NewInvalidMessageError(`Only "%s" content-type is managed by parser but got %q.`,
			candihelper.HeaderMIMEApplicationJSON, contentType)
	}
	return ParseMessage(body)
}
