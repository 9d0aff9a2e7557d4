package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// evaluateTimeout bounds one POST /evaluate, including a lazy model load.
// Zero means no additional timeout beyond server/connection timeouts.
var evaluateTimeout time.Duration

// SetEvaluateTimeout sets the evaluate timeout (0 disables).
func SetEvaluateTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	evaluateTimeout = d
}

// corsOrigins enables CORS for the listed origins when non-empty.
var corsOrigins []string

// SetCORSOrigins configures allowed CORS origins. Must be called before NewMux.
func SetCORSOrigins(origins []string) {
	corsOrigins = append([]string(nil), origins...)
}
