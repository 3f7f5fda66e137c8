package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/summary"
	"github.com/nhle/taskwhisper/tests/testutil"
)

var (
	now   = testutil.Date(2024, 6, 10, 9, 0)
	first = summary.Generator{Pick: func(int) int { return 0 }}
)

func TestGenerate_Empty(t *testing.T) {
	got := first.Generate(nil, now)
	assert.Equal(t, summary.NoTasks, got)
}

func TestGenerate_AllCompleted(t *testing.T) {
	a := testutil.Task("1", "A", "2024-06-10", "10:00")
	a.Completed = true
	b := testutil.Task("2", "B", "2024-06-11", "10:00")
	b.Completed = true

	got := first.Generate([]model.Task{a, b}, now)
	assert.Equal(t, "Great job! You've completed all your tasks.", got)
}

func TestGenerate_SingleTaskToday(t *testing.T) {
	tasks := []model.Task{testutil.Task("1", "Pay rent", "2024-06-10", "14:00")}

	got := first.Generate(tasks, now)
	assert.Equal(t,
		"Here's your task summary: You have 1 task scheduled for today. "+
			"Pay rent due at 14:00. You're making great progress!",
		got,
	)
}

func TestGenerate_EnumeratesUpToThree(t *testing.T) {
	tasks := []model.Task{
		testutil.Task("1", "Pay rent", "2024-06-10", "14:00"),
		testutil.Task("2", "Gym", "2024-06-10", "18:30"),
	}

	got := first.Generate(tasks, now)
	assert.Contains(t, got, "You have 2 tasks scheduled for today. Pay rent due at 14:00, Gym due at 18:30. ")
}

func TestGenerate_ManyTodayReportsHighCount(t *testing.T) {
	b := testutil.Task("2", "Passport", "2024-06-10", "14:00")
	b.Priority = model.PriorityHigh
	b.Requirements = "ID card"
	d := testutil.Task("4", "Taxes", "2024-06-10", "16:00")
	d.Priority = model.PriorityHigh

	tasks := []model.Task{
		testutil.Task("1", "A", "2024-06-10", "10:00"),
		b,
		testutil.Task("3", "C", "2024-06-10", "12:00"),
		d,
	}

	got := first.Generate(tasks, now)
	assert.Contains(t, got, "You have 4 tasks scheduled for today. Including 2 high priority tasks. ")
	assert.NotContains(t, got, "due at")
	assert.Contains(t, got, "You have 2 high-priority tasks that need attention. ")
	assert.Contains(t, got, `Most urgent is "Passport" due 5 hours from now. `)
	assert.Contains(t, got, "You'll need: ID card. ")
}

func TestGenerate_TomorrowOnly(t *testing.T) {
	tasks := []model.Task{testutil.Task("1", "Dentist", "2024-06-11", "09:00")}

	got := summary.Generator{Pick: func(int) int { return 1 }}.Generate(tasks, now)
	assert.Equal(t,
		"Here's your task summary: You don't have any tasks scheduled for today. "+
			"For tomorrow, you have 1 task planned. Keep up the good work!",
		got,
	)
}

func TestGenerate_MostUrgentUsesNearestDue(t *testing.T) {
	later := testutil.Task("1", "Later", "2024-06-20", "09:00")
	later.Priority = model.PriorityHigh
	sooner := testutil.Task("2", "Sooner", "2024-06-12", "09:00")
	sooner.Priority = model.PriorityHigh

	got := first.Generate([]model.Task{later, sooner}, now)
	assert.Contains(t, got, `Most urgent is "Sooner" due 2 days from now. `)
	assert.NotContains(t, got, "You'll need")
}

func TestGenerate_ClosesWithMotivation(t *testing.T) {
	tasks := []model.Task{testutil.Task("1", "Pay rent", "2024-06-10", "14:00")}

	for i, line := range summary.Motivations {
		g := summary.Generator{Pick: func(int) int { return i }}
		assert.Contains(t, g.Generate(tasks, now), line)
	}

	got := summary.Generator{}.Generate(tasks, now)
	matched := false
	for _, line := range summary.Motivations {
		if len(got) >= len(line) && got[len(got)-len(line):] == line {
			matched = true
		}
	}
	assert.True(t, matched)
}
