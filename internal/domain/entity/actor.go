package entity

// Actor is whoever triggered an operation: a Discord member or a dashboard user
type Actor struct {
	ID    string
	Name  string
	Roles []string
}

// HasRole reports whether the actor carries the role
func (a Actor) HasRole(roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range a.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// Mention renders the actor for log embeds
func (a Actor) Mention() string {
	if a.ID == "" {
		return a.Name
	}
	return "<@" + a.ID + ">"
}

// DisplayName is the actor name used in the log file
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return "system"
}

// SystemActor is used for operations without a human trigger
var SystemActor = Actor{Name: "system"}
