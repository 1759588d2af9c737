// Package progress derives everything the display shows from a single amount.
package progress

import "fmt"

// MaxFillPercent caps the drawn bar so large overshoots don't overflow the layout.
// The percentage label is never capped.
const MaxFillPercent = 150.0

// Milestone is a named threshold with an optional photo.
type Milestone struct {
	Name      string
	Threshold int64
	Image     string
}

// MilestoneView is a milestone with its derived display state.
type MilestoneView struct {
	Milestone
	Index    int
	Achieved bool
	// MarkerPosition is the threshold's share of the goal, in percent.
	MarkerPosition float64
	// DetailPosition spreads detail panels evenly by index, in percent.
	DetailPosition float64
}

// View is the derived display state for one amount.
type View struct {
	Amount     int64
	Goal       int64
	Percentage float64
	FillWidth  float64
	Milestones []MilestoneView

	// Next is nil once every milestone has been passed.
	Next        *Milestone
	Remaining   int64
	GoalReached bool
}

// Derive computes the view for amount against goal. milestones must be sorted
// by ascending threshold; the slice is not modified.
func Derive(amount, goal int64, milestones []Milestone) View {
	v := View{
		Amount:     amount,
		Goal:       goal,
		Percentage: percentOf(amount, goal),
		Milestones: make([]MilestoneView, len(milestones)),
	}
	v.FillWidth = min(v.Percentage, MaxFillPercent)
	if v.FillWidth < 0 {
		v.FillWidth = 0
	}

	for i, m := range milestones {
		v.Milestones[i] = MilestoneView{
			Milestone:      m,
			Index:          i,
			Achieved:       amount >= m.Threshold,
			MarkerPosition: percentOf(m.Threshold, goal),
			DetailPosition: detailPosition(i, len(milestones)),
		}
	}

	for i := range milestones {
		if milestones[i].Threshold > amount {
			next := milestones[i]
			v.Next = &next
			v.Remaining = next.Threshold - amount
			break
		}
	}
	v.GoalReached = v.Next == nil
	return v
}

// PercentLabel formats the unclamped percentage with one decimal.
func (v View) PercentLabel() string {
	return fmt.Sprintf("%.1f%%", v.Percentage)
}

// AchievedCount returns how many milestones have been reached.
func (v View) AchievedCount() int {
	n := 0
	for _, m := range v.Milestones {
		if m.Achieved {
			n++
		}
	}
	return n
}

func percentOf(value, goal int64) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(value) * 100 / float64(goal)
}

func detailPosition(index, count int) float64 {
	if count <= 1 {
		return 0
	}
	return float64(index) * 100 / float64(count-1)
}
