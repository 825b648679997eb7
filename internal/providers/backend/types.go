package backend

// matchResponse is a union of the two match shapes the backend serves:
// the flat teamA/teamB schema of /api/upcoming and /api/live, and the
// opponents[] schema of /api/upcoming-matches.
type matchResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	TournamentName string `json:"tournamentName"`
	Status         string `json:"status"`
	Game           string `json:"game"`
	Region         string `json:"region"`

	TeamA *sideResponse `json:"teamA"`
	TeamB *sideResponse `json:"teamB"`

	StartsAt    string `json:"startsAt"`
	BeginAt     string `json:"begin_at"`
	ScheduledAt string `json:"scheduled_at"`

	Opponents  []opponentEntry `json:"opponents"`
	Tournament *namedResponse  `json:"tournament"`
	League     *namedResponse  `json:"league"`
	Videogame  *videogame      `json:"videogame"`
}

type sideResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Acronym  string `json:"acronym"`
	ImageURL string `json:"image_url"`
	Location string `json:"location"`
}

type opponentEntry struct {
	Opponent *sideResponse `json:"opponent"`
}

type namedResponse struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

type videogame struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}
