package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/models"
)

func TestChatContextIsDeterministic(t *testing.T) {
	grades := Normalize([]models.GradeRecord{
		record(42, "MD-01", "Online Quiz 1: Logika Proposisi", "48,25"),
		record(42, "MD-01", "UTS", "80"),
	})

	ctx := NewChatContext(42, "Active Learner", 71.456, grades, "Visual")
	expected := "STUDENT: Student 42\n" +
		"ACADEMIC STATUS: Active Learner\n" +
		"MEAN SCORE: 71.5\n" +
		"MAIN WEAKNESS: Matematika Diskrit (topic: Logika Proposisi, score: 48.3)\n" +
		"LEARNING STYLE: Visual"
	require.Equal(t, expected, ctx.String())
	require.Equal(t, ctx.String(), NewChatContext(42, "Active Learner", 71.456, grades, "Visual").String())
}

func TestChatContextWithoutWeakness(t *testing.T) {
	ctx := NewChatContext(7, "Unknown", 0, nil, "Kinesthetic")
	require.Nil(t, ctx.Weakest)
	require.Equal(t, "none", ctx.WeakestPhrase())
}

func TestFormatScoreUsesOneDecimal(t *testing.T) {
	require.Equal(t, "40.0", FormatScore(40))
	require.Equal(t, "72.5", FormatScore(72.5))
	require.Equal(t, "48.3", FormatScore(48.25))
}
