package httpserver

import "time"

// ShutdownTimeout bounds how long app serve waits for in-flight requests to
// drain after SIGINT/SIGTERM before the server is torn down.
var ShutdownTimeout = 10 * time.Second
