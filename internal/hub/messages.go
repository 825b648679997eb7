package hub

const (
	TypeView         = "view"
	TypeSearchResult = "search_result"
	TypeFollows      = "follows"
	TypeStatus       = "status"
	TypeError        = "error"

	TypeSearch   = "search"
	TypeRefresh  = "refresh"
	TypeFollow   = "follow"
	TypeUnfollow = "unfollow"
)

// Envelope is every message the hub sends.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound is every message the hub accepts.
type Inbound struct {
	Type  string `json:"type"`
	Game  string `json:"game,omitempty"`
	Query string `json:"q,omitempty"`
	ID    any    `json:"id,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}
