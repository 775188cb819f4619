package instance

import (
	"os"

	"github.com/llanero/admin-backend/pkg/env"
)

// GetID names the running replica for log correlation.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return env.Get("INSTANCE_ID", host)
	}
	return env.Get("INSTANCE_ID", "local")
}
