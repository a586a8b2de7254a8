package scripting

import "github.com/shopspring/decimal"

// Statistics tracks session-level results across every game a script plays.
type Statistics struct {
	Games        int `json:"games"`
	Rounds       int `json:"rounds"`
	Correct      int `json:"correct"`
	Incorrect    int `json:"incorrect"`
	PerfectGames int `json:"perfectGames"`

	CorrectStreak   int `json:"correctStreak"`
	IncorrectStreak int `json:"incorrectStreak"`
	// Positive = correct streak, negative = incorrect streak.
	CurrentStreak int `json:"currentStreak"`
	HighestStreak int `json:"highestStreak"`
	LowestStreak  int `json:"lowestStreak"`

	BestScore int `json:"bestScore"`
	LastScore int `json:"lastScore"`
}

// NewStatistics creates empty statistics.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Reset clears all stats.
func (s *Statistics) Reset() {
	*s = Statistics{}
}

// RecordRound updates counters and streaks for one played round.
func (s *Statistics) RecordRound(correct bool) {
	s.Rounds++

	if correct {
		s.Correct++
		s.CorrectStreak++
		s.IncorrectStreak = 0
		s.CurrentStreak = s.CorrectStreak
	} else {
		s.Incorrect++
		s.IncorrectStreak++
		s.CorrectStreak = 0
		s.CurrentStreak = -s.IncorrectStreak
	}

	if s.CurrentStreak > s.HighestStreak {
		s.HighestStreak = s.CurrentStreak
	}
	if s.CurrentStreak < s.LowestStreak {
		s.LowestStreak = s.CurrentStreak
	}
}

// RecordGame records a finished game's final score.
func (s *Statistics) RecordGame(score, totalRounds int) {
	s.Games++
	s.LastScore = score
	if score > s.BestScore {
		s.BestScore = score
	}
	if score == totalRounds {
		s.PerfectGames++
	}
}

// Accuracy returns the share of correct rounds as a percentage with two
// decimal places. Zero rounds gives zero.
func (s *Statistics) Accuracy() decimal.Decimal {
	if s.Rounds == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Correct)).
		Div(decimal.NewFromInt(int64(s.Rounds))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
