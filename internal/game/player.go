package game

// Player is one connected participant. The ID is the connection id and stays
// stable for the lifetime of the connection.
type Player struct {
	ID     string `json:"id" msgpack:"id"`
	X      int    `json:"x" msgpack:"x"`
	Y      int    `json:"y" msgpack:"y"`
	Score  int    `json:"score" msgpack:"score"`
	Width  int    `json:"width" msgpack:"width"`
	Height int    `json:"height" msgpack:"height"`
}

// Roster maps connection id to Player.
type Roster map[string]Player

// IDs returns the roster keys in no particular order.
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	return ids
}
