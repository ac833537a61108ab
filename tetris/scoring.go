package tetris

import (
	"math"
	"time"
)

// lineScores is the base score of clearing n lines at once. Anything past four
// lines, which only a cascade can produce, scores as four.
var lineScores = [...]int{0, 40, 100, 300, 1000}

// Policy turns cleared lines into score, level and gravity speed.
type Policy struct {
	StartLevel    int
	LinesPerLevel int
	Gravity       []time.Duration
	MinGravity    time.Duration
}

// OnClear returns the score of clearing lines rows at once on level.
// http://tetris.wikia.com/wiki/Scoring
func (p Policy) OnClear(lines, level int) int {
	if lines <= 0 {
		return 0
	}
	base := lineScores[min(lines, len(lineScores)-1)]
	return base * (level + 1)
}

// OnLinesAccumulated returns the level reached after clearing total lines.
func (p Policy) OnLinesAccumulated(total int) int {
	return max(p.StartLevel, total/p.LinesPerLevel)
}

// GravityIntervalFor returns the time between two gravity steps on level.
// Levels past the end of the table use its last entry and nothing is ever
// faster than MinGravity.
func (p Policy) GravityIntervalFor(level int) time.Duration {
	if len(p.Gravity) == 0 {
		return p.MinGravity
	}
	i := min(max(level, 0), len(p.Gravity)-1)
	return max(p.Gravity[i], p.MinGravity)
}

func frames(n int) time.Duration { return time.Duration(n) * time.Second / 60 }

// ClassicGravity is the NES speed curve, counted in frames at 60fps.
// https://gaming.stackexchange.com/questions/13057/tetris-difficulty
func ClassicGravity() []time.Duration {
	table := make([]time.Duration, 0, 30)
	for level := range 30 {
		var f int
		switch {
		case level < 9:
			f = 48 - level*5
		case level == 9:
			f = 6
		case level < 19:
			f = 4
		case level < 29:
			f = 2
		default:
			f = 1
		}
		table = append(table, frames(f))
	}
	return table
}

// MarathonGravity is the guideline speed curve for levels 0 to 19.
// Based on https://tetris.wiki/Marathon
//
// Time = (0.8-(Level*0.007))^Level
func MarathonGravity() []time.Duration {
	table := make([]time.Duration, 0, 20)
	for level := range 20 {
		seconds := math.Pow(0.8-float64(level)*0.007, float64(level))
		table = append(table, time.Duration(seconds*float64(time.Second)))
	}
	return table
}
