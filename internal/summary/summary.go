// Package summary turns the task collection into the spoken status report.
package summary

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
)

// Fixed responses for the two degenerate collections.
const (
	NoTasks      = "You don't have any tasks scheduled yet. Press n to add a new task."
	AllCompleted = "Great job! You've completed all your tasks."
)

// maxEnumerated is the largest count of today's tasks read out one by one.
const maxEnumerated = 3

// Motivations are the closing sentences a summary picks from.
var Motivations = []string{
	"You're making great progress!",
	"Keep up the good work!",
	"Stay focused, you've got this!",
	"One task at a time leads to success!",
	"Remember to take breaks when needed.",
}

// Generator builds summaries. The zero value picks the closing sentence at random.
type Generator struct {
	// Pick returns an index in [0, n). Nil means math/rand/v2.IntN.
	Pick func(n int) int
}

// Generate builds the summary for tasks as of now.
func (g Generator) Generate(tasks []model.Task, now time.Time) string {
	if len(tasks) == 0 {
		return NoTasks
	}

	var pending []model.Task
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return AllCompleted
	}

	tomorrow := now.AddDate(0, 0, 1)
	var today, nextDay, high []model.Task
	for _, t := range pending {
		if t.DueOn(now) {
			today = append(today, t)
		}
		if t.DueOn(tomorrow) {
			nextDay = append(nextDay, t)
		}
		if t.Priority == model.PriorityHigh {
			high = append(high, t)
		}
	}

	var b strings.Builder
	b.WriteString("Here's your task summary: ")

	if len(today) > 0 {
		fmt.Fprintf(&b, "You have %s scheduled for today. ", plural(len(today), "task"))
		if len(today) <= maxEnumerated {
			items := make([]string, 0, len(today))
			for _, t := range today {
				items = append(items, t.Title+" due at "+dueTime(t))
			}
			b.WriteString(strings.Join(items, ", "))
			b.WriteString(". ")
		} else if n := countHigh(today); n > 0 {
			fmt.Fprintf(&b, "Including %s. ", plural(n, "high priority task"))
		}
	} else {
		b.WriteString("You don't have any tasks scheduled for today. ")
	}

	if len(nextDay) > 0 {
		fmt.Fprintf(&b, "For tomorrow, you have %s planned. ", plural(len(nextDay), "task"))
	}

	if len(high) > 0 {
		fmt.Fprintf(&b, "You have %s that need attention. ", plural(len(high), "high-priority task"))

		urgent := mostUrgent(high, now.Location())
		if due, err := urgent.DueInstant(now.Location()); err == nil {
			fmt.Fprintf(&b, "Most urgent is \"%s\" due %s. ", urgent.Title, model.Relative(due, now))
		} else {
			fmt.Fprintf(&b, "Most urgent is \"%s\". ", urgent.Title)
		}
		if urgent.Requirements != "" {
			fmt.Fprintf(&b, "You'll need: %s. ", urgent.Requirements)
		}
	}

	b.WriteString(Motivations[g.pick(len(Motivations))])
	return b.String()
}

func (g Generator) pick(n int) int {
	if g.Pick != nil {
		return g.Pick(n)
	}
	return rand.IntN(n)
}

// mostUrgent returns the task with the nearest due instant. Ties and
// unparsable instants keep collection order.
func mostUrgent(tasks []model.Task, loc *time.Location) model.Task {
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, errA := sorted[i].DueInstant(loc)
		b, errB := sorted[j].DueInstant(loc)
		if errA != nil || errB != nil {
			return errB != nil && errA == nil
		}
		return a.Before(b)
	})
	return sorted[0]
}

func countHigh(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Priority == model.PriorityHigh {
			n++
		}
	}
	return n
}

func dueTime(t model.Task) string {
	if t.DueTime == "" {
		return model.DefaultDueTime
	}
	return t.DueTime
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
