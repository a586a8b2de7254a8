package scripting

import "testing"

func TestStatisticsStreaks(t *testing.T) {
	s := NewStatistics()
	for _, c := range []bool{true, true, true, false, false, true} {
		s.RecordRound(c)
	}

	if s.Rounds != 6 || s.Correct != 4 || s.Incorrect != 2 {
		t.Errorf("counts: %+v", s)
	}
	if s.HighestStreak != 3 || s.LowestStreak != -2 || s.CurrentStreak != 1 {
		t.Errorf("streaks: highest=%d lowest=%d current=%d", s.HighestStreak, s.LowestStreak, s.CurrentStreak)
	}
}

func TestStatisticsGames(t *testing.T) {
	s := NewStatistics()
	s.RecordGame(2, 3)
	s.RecordGame(3, 3)
	s.RecordGame(1, 3)

	if s.Games != 3 || s.PerfectGames != 1 || s.BestScore != 3 || s.LastScore != 1 {
		t.Errorf("games: %+v", s)
	}

	s.Reset()
	if s.Games != 0 || s.BestScore != 0 {
		t.Errorf("reset left %+v", s)
	}
}

func TestStatisticsAccuracy(t *testing.T) {
	tests := []struct {
		correct []bool
		want    string
	}{
		{nil, "0.00"},
		{[]bool{true, true, false}, "66.67"},
		{[]bool{true, false}, "50.00"},
		{[]bool{true}, "100.00"},
	}
	for _, tt := range tests {
		s := NewStatistics()
		for _, c := range tt.correct {
			s.RecordRound(c)
		}
		if got := s.Accuracy().StringFixed(2); got != tt.want {
			t.Errorf("accuracy for %v = %s, want %s", tt.correct, got, tt.want)
		}
	}
}
