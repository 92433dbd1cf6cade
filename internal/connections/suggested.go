// Package connections produces the suggested-connections rail shown next
// to the community feed. Suggestions are ephemeral: they are computed per
// request and never persisted.
package connections

// Suggestion is one suggested member to connect with.
type Suggestion struct {
	ID                string   `json:"id"`
	FullName          string   `json:"full_name"`
	AvatarURL         *string  `json:"avatar_url"`
	Goals             []string `json:"goals"`
	MutualConnections int      `json:"mutual_connections"`
}

func ptr(s string) *string { return &s }

var curated = []Suggestion{
	{
		ID:                "1",
		FullName:          "Ankit kumar",
		AvatarURL:         ptr("https://randomuser.me/api/portraits/men/32.jpg"),
		Goals:             []string{"Weight Loss", "Cardio"},
		MutualConnections: 3,
	},
	{
		ID:                "2",
		FullName:          "Harkirat Singh",
		AvatarURL:         ptr("https://randomuser.me/api/portraits/women/44.jpg"),
		Goals:             []string{"Strength Training", "Nutrition"},
		MutualConnections: 1,
	},
	{
		ID:                "3",
		FullName:          "Manu paaji",
		AvatarURL:         ptr("https://randomuser.me/api/portraits/men/67.jpg"),
		Goals:             []string{"Marathon Training", "Flexibility"},
		MutualConnections: 0,
	},
}

// Suggested returns the suggestion list for a member. The excluded id is
// never suggested to itself. Mutual-connection counts are always >= 0.
func Suggested(excludeID string) []Suggestion {
	out := make([]Suggestion, 0, len(curated))
	for _, s := range curated {
		if s.ID == excludeID {
			continue
		}
		out = append(out, s)
	}
	return out
}
