package profile

// Level is a rung of the points ladder.
type Level struct {
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

// Ladder is ordered by MinPoints ascending. The first rung is the default level.
var Ladder = []Level{
	{Name: "Iniciante", MinPoints: 0},
	{Name: "Intermediário", MinPoints: 200},
	{Name: "Avançado", MinPoints: 500},
}

// LevelFor returns the highest rung reached with points.
func LevelFor(points int) Level {
	current := Ladder[0]
	for _, l := range Ladder {
		if points >= l.MinPoints {
			current = l
		}
	}
	return current
}

// Progress describes how far a profile is from its next level.
type Progress struct {
	Level     Level  `json:"level"`
	Next      *Level `json:"next,omitempty"`
	Remaining int    `json:"remaining"`
	// Percent is 100 on the top rung.
	Percent float64 `json:"percent"`
}

func ProgressFor(points int) Progress {
	current := LevelFor(points)
	p := Progress{Level: current, Percent: 100}
	for i, l := range Ladder {
		if l.Name != current.Name || i+1 == len(Ladder) {
			continue
		}
		next := Ladder[i+1]
		p.Next = &next
		p.Remaining = next.MinPoints - points
		span := float64(next.MinPoints - current.MinPoints)
		p.Percent = float64(points-current.MinPoints) / span * 100
	}
	return p
}
