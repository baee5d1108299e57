package subscription

import (
	"testing"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopicBuilder(t *testing.T) {
	for _, pattern := range []string{
		"https://graphql.org/subscriptions/{id}",
		"https://{schemaName}.example.com/{channel}/{id}.json",
		"https://x.test/subs/{id}?channel={channel}",
	} {
		_, err := NewTopicBuilder(pattern)
		assert.NoError(t, err, pattern)
	}

	for _, pattern := range []string{
		"https://graphql.org/subscriptions/",
		"/subscriptions/{id}",
		"not an url {id}",
		"",
	} {
		_, err := NewTopicBuilder(pattern)
		assert.Equal(t, candishared.CodeConfiguration, candishared.GetErrorCode(err), pattern)
	}
}

func TestTopicBuilder_Build(t *testing.T) {
	builder, err := NewTopicBuilder("https://{schemaName}.example.com/{channel}/{id}.json")
	require.NoError(t, err)

	topic := builder.Build("X", "ch", "sch")
	assert.Equal(t, "https://sch.example.com/ch/X.json", topic)
	assert.Equal(t, topic, builder.Build("X", "ch", "sch"))

	builder, err = NewTopicBuilder("https://x.test/{schemaName}/{id}")
	require.NoError(t, err)
	assert.Equal(t, "https://x.test//X", builder.Build("X", "ch", ""))
}

func TestBuildHubURL(t *testing.T) {
	topic := "https://graphql.org/subscriptions/myID"

	assert.Nil(t, BuildHubURL("", topic))

	hubURL := BuildHubURL("https://hub.example.com/.well-known/mercure", topic)
	require.NotNil(t, hubURL)
	assert.Equal(t, "https://hub.example.com/.well-known/mercure?topic=https%3A%2F%2Fgraphql.org%2Fsubscriptions%2FmyID", *hubURL)

	hubURL = BuildHubURL("https://hub.example.com/hub?jwt=abc", topic)
	require.NotNil(t, hubURL)
	assert.Equal(t, "https://hub.example.com/hub?jwt=abc&topic=https%3A%2F%2Fgraphql.org%2Fsubscriptions%2FmyID", *hubURL)
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		assert.Len(t, id, IDLength)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}
