package grading

import (
	"fmt"
	"strconv"
	"strings"
)

// ChatContext is the student summary handed to the chat assistant.
type ChatContext struct {
	StudentID     int64
	ClusterStatus string
	MeanScore     float64
	Weakest       *WeakTopic
	LearningStyle string
}

// NewChatContext picks the single weakest topic from grades. Every caller
// uses the same normalized grades as the recommendation path.
func NewChatContext(studentID int64, clusterStatus string, meanScore float64, grades []NormalizedGrade, learningStyle string) ChatContext {
	ctx := ChatContext{
		StudentID:     studentID,
		ClusterStatus: clusterStatus,
		MeanScore:     meanScore,
		LearningStyle: learningStyle,
	}
	if weak := SelectWeakTopics(grades, 1); len(weak) > 0 {
		ctx.Weakest = &weak[0]
	}
	return ctx
}

// WeakestPhrase renders the weakest topic, or "none" when there is nothing to flag.
func (c ChatContext) WeakestPhrase() string {
	if c.Weakest == nil {
		return "none"
	}
	return fmt.Sprintf("%s (topic: %s, score: %s)", c.Weakest.Course, c.Weakest.Topic, FormatScore(c.Weakest.Score))
}

func (c ChatContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "STUDENT: Student %d\n", c.StudentID)
	fmt.Fprintf(&b, "ACADEMIC STATUS: %s\n", c.ClusterStatus)
	fmt.Fprintf(&b, "MEAN SCORE: %s\n", FormatScore(c.MeanScore))
	fmt.Fprintf(&b, "MAIN WEAKNESS: %s\n", c.WeakestPhrase())
	fmt.Fprintf(&b, "LEARNING STYLE: %s", c.LearningStyle)
	return b.String()
}

// FormatScore renders a score with exactly one decimal, e.g. "72.5" or "40.0".
func FormatScore(score float64) string {
	return strconv.FormatFloat(Round1(score), 'f', 1, 64)
}
