package activity

// Aggregate reduces entries into Stats. Entries without a year group or a class are only counted in the totals.
func Aggregate(entries []Entry) Stats {
	stats := Stats{
		YearGroups:    make(map[string]Counts),
		Classes:       make(map[string]Counts),
		SanctionTypes: make(map[string]int),
	}
	for _, e := range entries {
		if e.IsReward() {
			stats.TotalRewards++
			stats.RewardPoints += e.Points
		} else {
			stats.TotalSanctions++
			stats.SanctionPoints += e.Points
			if e.SanctionType != "" {
				stats.SanctionTypes[e.SanctionType]++
			}
		}
		if e.YearGroup != "" {
			stats.YearGroups[e.YearGroup] = count(stats.YearGroups[e.YearGroup], e.Activity)
		}
		if e.Class != "" {
			stats.Classes[e.Class] = count(stats.Classes[e.Class], e.Activity)
		}
	}
	return stats
}

func count(c Counts, a Activity) Counts {
	if a.IsReward() {
		c.Rewards++
	} else {
		c.Sanctions++
	}
	return c
}

// StudentTotals sums up the activities of a single student.
func StudentTotals(activities []Activity) Totals {
	var t Totals
	for _, a := range activities {
		if a.IsReward() {
			t.Rewards++
			t.RewardPoints += a.Points
		} else {
			t.Sanctions++
			t.SanctionPoints += a.Points
		}
	}
	return t
}
