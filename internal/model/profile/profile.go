package profile

// Profile describes an agent exposed by the backend: who it is, which record
// collection its tools manage and the rules it follows.
type Profile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Collection   string   `json:"collection"`
	Instructions string   `json:"-"`
	Rules        []string `json:"-"`
	OpeningLine  string   `json:"openingLine,omitempty"`
}

const (
	TalkManagerID    = "talk-manager"
	MonsterCreatorID = "monster-creator"
)

// Seed provides the built-in agent profiles.
func Seed() []Profile {
	return []Profile{
		{
			ID:           TalkManagerID,
			Name:         "Conference Assistant",
			Description:  "Manages talk proposals for a developer conference.",
			Collection:   "talks",
			Instructions: "You are a helpful assistant that can help with talk proposals for a developer conference. You can use the tools provided to you to help with the user's request.",
			OpeningLine:  "Hi! I can submit, list and delete talk proposals for the conference.",
		},
		{
			ID:           MonsterCreatorID,
			Name:         "Monster Creator",
			Description:  "Manages D&D 5e monsters as Fantasy Statblocks (Basic 5e Layout).",
			Collection:   "monsters",
			Instructions: "You are a helpful assistant that manages D&D 5e monsters in a bestiary rendered with the Javalent Fantasy Statblocks Basic 5e Layout.",
			Rules: []string{
				"Gather enough details (name, type, CR, size, abilities, actions, flavor) before writing a monster; use sensible defaults when needed and \"\" for fields you don't know.",
				"Tags for CR, size, type and subtype are generated automatically.",
				"Confirm the monster id (e.g. from list_monsters) before deleting.",
				"If needed ask for details in chat, then use the appropriate tool.",
			},
			OpeningLine: "Describe a creature and I'll add it to the bestiary.",
		},
	}
}
