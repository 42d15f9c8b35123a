// Chatrelay is the HTTP relay between the estate chat web client and the
// chat backend.
//
// It accepts chat messages from browsers, forwards them unmodified to the
// configured backend and maps every outcome to a uniform JSON reply:
//   - Backend answers are passed through with their status code
//   - Unreachable or slow backends yield a 504 with a friendly message
//   - A missing backend URL yields a 503 without any outbound call
//
// Usage:
//
//	# Start the relay, reading TARGET_BACKEND_URL and PORT from the environment
//	chatrelay serve
//
//	# Start with a configuration file
//	chatrelay serve --config /etc/chatrelay/config.yaml
//
//	# Check the backend once and exit non-zero when it is unhealthy
//	chatrelay probe
//
//	# Show version information
//	chatrelay version
package main

func main() {
	Execute()
}
