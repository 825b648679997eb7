package teams

import "strconv"

// ID identifies a team upstream. Only positive values are valid.
type ID int64

// Valid reports whether the id can refer to a real team.
func (id ID) Valid() bool {
	return id > 0
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Team is the normalized team shape returned by directory search.
type Team struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Acronym  string `json:"acronym,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Location string `json:"location,omitempty"`
}

// Label renders "Name (ACR)", or just the name when no acronym is known.
func (t Team) Label() string {
	name := t.Name
	if name == "" {
		name = t.ID.String()
	}
	if t.Acronym == "" {
		return name
	}
	return name + " (" + t.Acronym + ")"
}
