package grading

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupingKeyMergesVariants(t *testing.T) {
	cases := map[string]string{
		"Midterm Exam (Tryout)":                      MidtermKey,
		"UTS Remedial":                               MidtermKey,
		"Final Exam":                                 FinalKey,
		"UAS Susulan":                                FinalKey,
		"Online Quiz 1: Logika Proposisi":            "Online Quiz 1: Logika Proposisi",
		"Online Quiz 1 (Remedial): Logika Proposisi": "Online Quiz 1: Logika Proposisi",
		"Online Quiz 2 (Remedial)":                   "Online Quiz 2",
		"Online Quiz 3 (Remedial: Graf":              "Online Quiz 3",
		"  Tugas Besar  ":                            "Tugas Besar",
	}

	for name, expected := range cases {
		require.Equal(t, expected, GroupingKey(name), name)
	}
}

func TestRulesAreEvaluatedInPriorityOrder(t *testing.T) {
	// Both markers present: the midterm rule sits above the final rule.
	require.Equal(t, CategoryMidterm, Classify("UTS Final Review"))
	require.Equal(t, CategoryQuiz, Classify("Online Quiz 4: Pohon"))
	require.Equal(t, CategoryOther, Classify("Praktikum 1"))
}

func TestDisplayLabel(t *testing.T) {
	require.Equal(t, "UTS", DisplayLabel("UTS"))
	require.Equal(t, "UAS", DisplayLabel("UAS"))
	require.Equal(t, "Q1: Logika Proposis", DisplayLabel("Online Quiz 1: Logika Proposisi"))
	require.Equal(t, "Q7: Relasi dan Fung", DisplayLabel("Online Quiz 7: Relasi dan Fungsi Lanjutan"))
	require.Equal(t, "Q2", DisplayLabel("Online Quiz 2"))
	require.Equal(t, "Praktikum Jarin", DisplayLabel("Praktikum Jaringan Komputer"))
}

func TestExtractTopicAndAnnotations(t *testing.T) {
	require.Equal(t, "Logika Proposisi", ExtractTopic("Online Quiz 1: Logika Proposisi"))
	require.Equal(t, "Pohon (Bagian 2)", ExtractTopic("Online Quiz 9: Pohon (Bagian 2)"))
	require.Equal(t, "Midterm Exam", ExtractTopic("Midterm Exam"))
	require.Equal(t, "Pohon", StripAnnotations("Pohon (Bagian 2)"))
	require.Equal(t, "Graf Berarah", StripAnnotations("Graf (a (b)) Berarah"))
}

func TestResolveTopic(t *testing.T) {
	topic := ResolveTopic("Online Quiz 1 (Remedial): Logika Proposisi")
	require.Equal(t, CategoryQuiz, topic.Category)
	require.Equal(t, "Online Quiz 1: Logika Proposisi", topic.Key)
	require.Equal(t, "Q1: Logika Proposis", topic.Label)
	require.Equal(t, "Logika Proposisi", topic.Subject)
}

func TestSortRankOrdersQuizzesBeforeExams(t *testing.T) {
	keys := []string{"UAS", "Online Quiz 10: Graf", "UTS", "Online Quiz 2: Relasi", "Tugas Besar", "Online Quiz 1: Logika"}
	sort.SliceStable(keys, func(i, j int) bool { return SortRank(keys[i]) < SortRank(keys[j]) })

	require.Equal(t, []string{
		"Online Quiz 1: Logika",
		"Online Quiz 2: Relasi",
		"Online Quiz 10: Graf",
		"Tugas Besar",
		"UTS",
		"UAS",
	}, keys)
}

func TestSortRankKeepsLargeQuizNumbersBeforeExams(t *testing.T) {
	keys := []string{"UAS", "UTS", "Online Quiz 2024: Rekap", "Online Quiz 1: Himpunan", "Online Quiz 99999999999999999999999"}
	sort.SliceStable(keys, func(i, j int) bool { return SortRank(keys[i]) < SortRank(keys[j]) })

	require.Equal(t, []string{
		"Online Quiz 1: Himpunan",
		"Online Quiz 2024: Rekap",
		"Online Quiz 99999999999999999999999",
		"UTS",
		"UAS",
	}, keys)
	require.Less(t, SortRank("Online Quiz 2024: Rekap"), SortRank(MidtermKey))
}
