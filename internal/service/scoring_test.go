package service

import (
	"testing"

	"tla_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAnswersMatch(t *testing.T) {
	cases := []struct {
		name      string
		submitted string
		correct   string
		want      bool
	}{
		{"exact", "Application Programming Interface", "Application Programming Interface", true},
		{"case insensitive", "application programming interface", "Application Programming Interface", true},
		{"surrounding whitespace", "  Application Programming Interface  ", "Application Programming Interface", true},
		{"whitespace and case", " API ", "api", true},
		{"wrong answer", "Advanced Programming Interface", "Application Programming Interface", false},
		{"empty submission", "", "Application Programming Interface", false},
		{"internal whitespace differs", "Application  Programming Interface", "Application Programming Interface", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AnswersMatch(tc.submitted, tc.correct))
		})
	}
}

func TestComputeAccuracy(t *testing.T) {
	assert.Equal(t, float64(0), ComputeAccuracy(0, 0))
	assert.Equal(t, float64(100), ComputeAccuracy(3, 3))
	assert.Equal(t, float64(50), ComputeAccuracy(1, 2))
	assert.InDelta(t, 33.333, ComputeAccuracy(1, 3), 0.001)
}

func TestRoundAccuracy(t *testing.T) {
	assert.Equal(t, 33, RoundAccuracy(ComputeAccuracy(1, 3)))
	assert.Equal(t, 67, RoundAccuracy(ComputeAccuracy(2, 3)))
	assert.Equal(t, 0, RoundAccuracy(0))
	assert.Equal(t, 100, RoundAccuracy(100))
}

func TestAggregateAttempts(t *testing.T) {
	attempts := []model.ChallengeAttempt{
		{IsCorrect: true, XPEarned: 10},
		{IsCorrect: false, XPEarned: 0},
		{IsCorrect: true, XPEarned: 30},
	}

	agg := AggregateAttempts(attempts)
	assert.Equal(t, 3, agg.TotalAttempts)
	assert.Equal(t, 2, agg.CorrectAnswers)
	assert.Equal(t, 40, agg.TotalXP)
	assert.InDelta(t, 66.666, agg.Accuracy, 0.001)
}

func TestAggregateAttemptsEmpty(t *testing.T) {
	agg := AggregateAttempts(nil)
	assert.Equal(t, 0, agg.TotalAttempts)
	assert.Equal(t, float64(0), agg.Accuracy)
}
