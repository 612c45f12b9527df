package controllers

import (
	"net/http"

	"github.com/rb-dev78/tillpos/api/responses"
	"github.com/rb-dev78/tillpos/pkg/config"
)

// HealthLive reports process liveness; there are no backing dependencies to
// probe in a single-process register.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := ""
		if cfg != nil {
			env = cfg.App.Env
		}
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    env,
		})
	}
}
