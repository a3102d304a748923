package performance

// Pillar is one of the five fixed display categories a goal is grouped under.
type Pillar struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var Pillars = []Pillar{
	{ID: 1, Name: "Strategic Excellence", Icon: "target", Color: "#3B82F6", Description: "Drive strategic initiatives and long-term vision"},
	{ID: 2, Name: "Operational Performance", Icon: "settings", Color: "#10B981", Description: "Optimize processes and operational efficiency"},
	{ID: 3, Name: "People Development", Icon: "users", Color: "#8B5CF6", Description: "Foster growth and develop team capabilities"},
	{ID: 4, Name: "Innovation & Growth", Icon: "lightbulb", Color: "#F59E0B", Description: "Drive innovation and explore new opportunities"},
	{ID: 5, Name: "Customer Success", Icon: "heart", Color: "#EC4899", Description: "Deliver exceptional customer experiences"},
}

// PillarForIndex returns the pillar for a KRA at the given position.
// Negative positions are treated as zero.
func PillarForIndex(index int) Pillar {
	if index < 0 {
		index = 0
	}
	return Pillars[index%len(Pillars)]
}

func PillarByID(id int) (Pillar, bool) {
	for _, pillar := range Pillars {
		if pillar.ID == id {
			return pillar, true
		}
	}
	return Pillar{}, false
}
