package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/models"
)

func TestSelectWeakTopicsSkipsZeroAndAbsent(t *testing.T) {
	records := []models.GradeRecord{
		record(1, "MD-01", "Online Quiz 1: Logika", "0"),
		record(1, "MD-01", "Online Quiz 2: Pohon (Bagian 2)", "45"),
		record(1, "MD-01", "Online Quiz 3: Graf", ""),
		record(1, "MD-01", "Online Quiz 4: Relasi", "30,5"),
		record(1, "MD-01", "UTS", "90"),
	}

	weak := SelectWeakTopics(Normalize(records), DefaultWeakTopicLimit)
	require.Len(t, weak, 2)

	require.Equal(t, "Relasi", weak[0].Topic)
	require.Equal(t, 30.5, weak[0].Score)
	require.Equal(t, "Matematika Diskrit", weak[0].Course)
	require.Equal(t, "Matematika Diskrit materi Relasi", weak[0].SearchPhrase)

	require.Equal(t, "Pohon (Bagian 2)", weak[1].Topic)
	require.Equal(t, "Matematika Diskrit materi Pohon", weak[1].SearchPhrase)

	for _, topic := range weak {
		require.NotZero(t, topic.Score)
	}
}

func TestSelectWeakTopicsStableOnTies(t *testing.T) {
	records := []models.GradeRecord{
		record(1, "MD-01", "Online Quiz 5: Induksi", "50"),
		record(1, "MD-01", "Online Quiz 6: Rekurensi", "50"),
		record(1, "MD-01", "Online Quiz 7: Kombinasi", "50"),
	}

	weak := SelectWeakTopics(Normalize(records), 2)
	require.Len(t, weak, 2)
	require.Equal(t, "Induksi", weak[0].Topic)
	require.Equal(t, "Rekurensi", weak[1].Topic)
}

func TestWeakTopicsFallback(t *testing.T) {
	records := []models.GradeRecord{
		record(1, "MD-01", "Online Quiz 1: Logika", "0"),
		record(1, "MD-01", "UTS", ""),
	}

	require.Empty(t, SelectWeakTopics(Normalize(records), 2))

	weak := WeakTopicsOrFallback(Normalize(records), 2)
	require.Equal(t, []WeakTopic{FallbackWeakTopic()}, weak)
}
