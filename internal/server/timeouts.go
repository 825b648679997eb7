package server

import "time"

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// Team search and follow resolution call the backend inside the handler, so writes
	// get the backend timeout plus headroom. WebSocket pumps set their own deadlines.
	writeTimeout = 20 * time.Second
	idleTimeout  = 90 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
