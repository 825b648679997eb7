package backend

import "time"

const (
	sourceName = "backend"

	defaultBaseURL      = "http://localhost:8080"
	defaultUpcomingPath = "/api/upcoming"
	defaultLivePath     = "/api/live"
	teamSearchPath      = "/api/teams/search"
	teamsPath           = "/api/teams"
	defaultHTTPTimeout  = 10 * time.Second
	maxErrorBody        = 512
)
