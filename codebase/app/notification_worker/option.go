package notificationworker

import "time"

type (
	option struct {
		maxGoroutines int
		retryInterval time.Duration
	}

	// OptionFunc type
	OptionFunc func(*option)
)

func getDefaultOption() option {
	return option{
		maxGoroutines: 10,
		retryInterval: 5 * time.Second,
	}
}

// SetMaxGoroutines option func, maximum change event handled concurrently
func SetMaxGoroutines(maxGoroutines int) OptionFunc {
	return func(o *option) {
		if maxGoroutines > 0 {
			o.maxGoroutines = maxGoroutines
		}
	}
}

// SetRetryInterval option func, wait before reconnecting consumer after error
func SetRetryInterval(interval time.Duration) OptionFunc {
	return func(o *option) {
		o.retryInterval = interval
	}
}
