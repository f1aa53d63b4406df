package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ExtractPage reads the 1-based page query parameter. Missing or invalid values give 1.
func ExtractPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// FormInt reads an integer form value, returning fallback when absent or invalid.
func FormInt(r *http.Request, key string, fallback int) int {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// FormFloat reads a float form value, returning fallback when absent or invalid.
func FormFloat(r *http.Request, key string, fallback float64) float64 {
	v := strings.TrimSpace(strings.ReplaceAll(r.FormValue(key), ",", "."))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// ClientIP returns the caller address, preferring the first X-Forwarded-For hop.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SafeNext keeps only same-site relative paths for post-login redirects.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
