package instance

import "os"

// GetID returns the till identifier for this process or a default value.
func GetID() string {
	if id := os.Getenv("TILLPOS_TILL_ID"); id != "" {
		return id
	}
	return "till-0"
}
