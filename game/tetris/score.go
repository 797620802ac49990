package tetris

const (
	// MaxLines caps the cleared lines counter.
	MaxLines = 9999

	// MaxPoints caps the score.
	MaxPoints = 99999999

	// MaxLevel is the highest reachable level.
	MaxLevel = 9

	// InitialFallDelay is the number of ticks between automatic descents
	// at level 0.
	InitialFallDelay = 90

	// DropFallDelay replaces the fall delay while the drop key is held.
	DropFallDelay = 0

	// fallDelayStep is subtracted from the fall delay on every level-up.
	fallDelayStep = 10

	// linesPerLevel is the number of cleared lines needed per level.
	linesPerLevel = 10
)

// lineBonus maps the number of rows cleared at once to the points awarded
// before the level multiplier.
var lineBonus = [MaxClearRows + 1]uint32{0, 40, 100, 300, 1200}

// Score tracks the player's progress.
type Score struct {
	Lines     uint32
	Points    uint32
	Level     uint32
	FallDelay uint32
}

// NewScore returns the score at the start of a game played from
// startLevel. Levels above MaxLevel are clamped.
func NewScore(startLevel uint32) Score {
	level := min(startLevel, MaxLevel)
	return Score{
		Level:     level,
		FallDelay: InitialFallDelay - level*fallDelayStep,
	}
}

// Award accounts for rows cleared at once and reports whether the level
// went up. At most one level is gained per call.
func (s *Score) Award(rows int) bool {
	if rows <= 0 {
		return false
	}
	rows = min(rows, MaxClearRows)

	s.Lines = min(s.Lines+uint32(rows), MaxLines)
	s.Points = min(s.Points+lineBonus[rows]*(s.Level+1), MaxPoints)

	if s.Level != MaxLevel && s.Lines >= s.Level*linesPerLevel+linesPerLevel {
		s.Level++
		s.FallDelay -= fallDelayStep
		return true
	}
	return false
}
