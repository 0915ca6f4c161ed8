package ingester

import "time"

const (
	writeRetries    = 3
	writeRetryDelay = 500 * time.Millisecond
)
