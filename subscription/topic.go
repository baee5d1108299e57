package subscription

import (
	"net/url"
	"strings"

	"github.com/golangid/gqlsubscription/candishared"
)

const (
	placeholderID         = "{id}"
	placeholderChannel    = "{channel}"
	placeholderSchemaName = "{schemaName}"
)

// TopicBuilder build subscriber topic from a single url pattern
type TopicBuilder struct {
	pattern string
}

// NewTopicBuilder validate pattern once, pattern must be a valid absolute url containing {id}
func NewTopicBuilder(pattern string) (*TopicBuilder, error) {
	if !strings.Contains(pattern, placeholderID) {
		return nil, candishared.NewConfigurationError(
			`Topic url pattern should be a valid url and should contain the "{id}" replacement string but got %q.`, pattern)
	}

	// placeholders are not valid host characters, check the url shape with sample values
	sample := strings.NewReplacer(
		placeholderID, "id",
		placeholderChannel, "channel",
		placeholderSchemaName, "schema",
	).Replace(pattern)
	u, err := url.Parse(sample)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, candishared.NewConfigurationError(
			`Topic url pattern should be a valid url and should contain the "{id}" replacement string but got %q.`, pattern)
	}

	return &TopicBuilder{pattern: pattern}, nil
}

// Pattern get configured pattern
func (t *TopicBuilder) Pattern() string {
	return t.pattern
}

// Build substitute all placeholders
func (t *TopicBuilder) Build(id, channel, schemaName string) string {
	return strings.NewReplacer(
		placeholderID, id,
		placeholderChannel, channel,
		placeholderSchemaName, schemaName,
	).Replace(t.pattern)
}

// BuildHubURL append topic query to public hub url
func BuildHubURL(publicHubURL, topic string) *string {
	if publicHubURL == "" {
		return nil
	}

	separator := "?"
	if u, err := url.Parse(publicHubURL); err == nil && u.RawQuery != "" {
		separator = "&"
	}
	hubURL := publicHubURL + separator + "topic=" + url.QueryEscape(topic)
	return &hubURL
}
