package activity_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/user"
)

var _ = Describe("Aggregate", func() {
	entry := func(typ string, points int, sanctionType, yearGroup, class string) activity.Entry {
		return activity.Entry{
			Activity:  activity.Activity{Type: typ, Points: points, SanctionType: sanctionType},
			YearGroup: yearGroup,
			Class:     class,
		}
	}

	It("returns empty stats for no entries", func() {
		stats := activity.Aggregate(nil)
		Expect(stats.TotalRewards + stats.TotalSanctions).To(BeZero())
		Expect(stats.YearGroups).To(BeEmpty())
		Expect(stats.Classes).NotTo(BeNil())
		Expect(stats.SanctionTypes).NotTo(BeNil())
	})

	It("groups by year group, class & sanction type", func() {
		stats := activity.Aggregate([]activity.Entry{
			entry(activity.TypeReward, 5, "", "10", "10A"),
			entry(activity.TypeSanction, 2, "Late homework", "10", "10A"),
			entry(activity.TypeSanction, 1, "Detention", "10", "10B"),
			entry(activity.TypeSanction, 0, "", "", ""),
			entry(activity.TypeReward, 3, "", "9", "9A"),
		})
		Expect(stats).To(Equal(activity.Stats{
			TotalRewards:   2,
			TotalSanctions: 3,
			RewardPoints:   8,
			SanctionPoints: 3,
			YearGroups: map[string]activity.Counts{
				"10": {Rewards: 1, Sanctions: 2},
				"9":  {Rewards: 1},
			},
			Classes: map[string]activity.Counts{
				"10A": {Rewards: 1, Sanctions: 1},
				"10B": {Sanctions: 1},
				"9A":  {Rewards: 1},
			},
			SanctionTypes: map[string]int{"Late homework": 1, "Detention": 1},
		}))
	})
})

var _ = Describe("Enrich", func() {
	It("attaches the student of each activity", func() {
		students := []user.User{
			{ID: "3", FullName: "Emma Johnson", Role: user.Student{YearGroup: "10", Class: "10A"}},
		}
		entries := activity.Enrich([]activity.Activity{{ID: "a", StudentID: "3"}, {ID: "b", StudentID: "gone"}}, students)
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].StudentName).To(Equal("Emma Johnson"))
		Expect(entries[0].Class).To(Equal("10A"))
		Expect(entries[1].StudentName).To(BeEmpty())
	})
})

var _ = DescribeTable("RequiredPermission",
	func(typ string, want user.Permission) {
		Expect(activity.RequiredPermission(typ)).To(Equal(want))
	},
	Entry("reward", activity.TypeReward, user.PermSetRewards),
	Entry("sanction", activity.TypeSanction, user.PermSetSanctions),
)
