package response

import "net/http"

// default user-facing messages per status
var statusMessages = map[int]string{
	http.StatusBadRequest:            "Bad request",
	http.StatusNotFound:              "Not found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   "Internal server error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timed out",
}

func MessageFor(status int) string {
	if m, ok := statusMessages[status]; ok {
		return m
	}
	return http.StatusText(status)
}
