package game

// Registry tracks one Player per active connection. It is not synchronized;
// World owns a Registry and guards it with its own mutex.
type Registry struct {
	players map[string]*Player
	gen     *Generator
}

// NewRegistry returns an empty Registry that places new players using gen.
func NewRegistry(gen *Generator) *Registry {
	return &Registry{
		players: make(map[string]*Player),
		gen:     gen,
	}
}

// Register creates a Player for id at a random position with zero score.
// If id is already registered the existing Player is returned unchanged.
func (r *Registry) Register(id string) Player {
	if p, ok := r.players[id]; ok {
		return *p
	}
	x, y := r.gen.SpawnPoint(PlayerSize, PlayerSize)
	p := &Player{
		ID:     id,
		X:      x,
		Y:      y,
		Width:  PlayerSize,
		Height: PlayerSize,
	}
	r.players[id] = p
	return *p
}

// Unregister removes the Player for id and reports whether one was present.
func (r *Registry) Unregister(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	return true
}

// Get returns a copy of the Player registered under id.
func (r *Registry) Get(id string) (Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// All returns a copy of the full roster.
func (r *Registry) All() Roster {
	out := make(Roster, len(r.players))
	for id, p := range r.players {
		out[id] = *p
	}
	return out
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	return len(r.players)
}

// Move overwrites the position of the Player registered under id. Positions
// are taken as reported; there is no bounds or speed check.
func (r *Registry) Move(id string, x, y int) bool {
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.X, p.Y = x, y
	return true
}

// AddScore credits value to the Player registered under id.
func (r *Registry) AddScore(id string, value int) (Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}
	p.Score += value
	return *p, true
}
