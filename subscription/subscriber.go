package subscription

// Subscriber one registered subscription, immutable after creation
type Subscriber struct {
	ID             string                 `json:"id" msgpack:"id"`
	SubscriptionID *string                `json:"subscriptionId,omitempty" msgpack:"subscriptionId"`
	Topic          string                 `json:"topic" msgpack:"topic"`
	Query          string                 `json:"query" msgpack:"query"`
	Channel        string                 `json:"channel" msgpack:"channel"`
	Variables      map[string]interface{} `json:"variables,omitempty" msgpack:"variables"`
	OperationName  string                 `json:"operationName,omitempty" msgpack:"operationName"`
	SchemaName     string                 `json:"schemaName,omitempty" msgpack:"schemaName"`
	Extras         map[string]interface{} `json:"extras,omitempty" msgpack:"extras"`
}

// Validate check record is complete enough to be delivered
func (s *Subscriber) Validate() bool {
	return s != nil && s.ID != "" && s.Channel != "" && s.Topic != "" && s.Query != ""
}
