package subscription

type (
	option struct {
		bus          Bus
		publicHubURL string
		generateID   IDGenerator
	}

	// OptionFunc type
	OptionFunc func(*option)
)

func getDefaultOption() option {
	return option{
		generateID: GenerateID,
	}
}

// SetBus option func, notification is dispatched to message bus instead of local spool
func SetBus(bus Bus) OptionFunc {
	return func(o *option) {
		o.bus = bus
	}
}

// SetPublicHubURL option func, public hub url returned to client on registration
func SetPublicHubURL(url string) OptionFunc {
	return func(o *option) {
		o.publicHubURL = url
	}
}

// SetIDGenerator option func
func SetIDGenerator(generator IDGenerator) OptionFunc {
	return func(o *option) {
		if generator != nil {
			o.generateID = generator
		}
	}
}
