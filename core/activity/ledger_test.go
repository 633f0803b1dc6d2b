package activity_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/user"
	"github.com/trezcool/learnerair/storage/documents"
	"github.com/trezcool/learnerair/tests"
)

var _ = Describe("Ledger", func() {
	var (
		ctx     context.Context
		ledger  *activity.Ledger
		repo    activity.Repository
		usrSvc  *user.Service
		teacher user.User
		head    user.User
		seeded  []activity.Activity
	)

	BeforeEach(func() {
		ctx = context.Background()
		db := testutil.OpenDB(GinkgoT())
		repo = documents.NewActivityRepository(db)
		validate := testutil.NewValidate()
		usrSvc = user.NewService(documents.NewUserRepository(db), testutil.NewCipher(GinkgoT()), validate)
		ledger = activity.NewLedger(repo, usrSvc, validate)

		var err error
		teacher, err = usrSvc.GetByID(ctx, "2")
		Expect(err).NotTo(HaveOccurred())
		head, err = usrSvc.GetByID(ctx, user.BootstrapID)
		Expect(err).NotTo(HaveOccurred())
		seeded, err = repo.QueryAllActivities(ctx)
		Expect(err).NotTo(HaveOccurred())

		activity.NowFunc = func() time.Time { return time.Date(2023, 10, 2, 9, 0, 0, 0, time.UTC) }
		DeferCleanup(func() { activity.NowFunc = time.Now })
	})

	Describe("Add", func() {
		It("prepends the activity, dated today by default", func() {
			act, err := ledger.Add(ctx, activity.NewActivity{
				StudentID:   "3",
				Type:        "Reward",
				Description: " Great essay ",
				Points:      4,
			}, teacher)
			Expect(err).NotTo(HaveOccurred())
			Expect(act.ID).NotTo(BeEmpty())
			Expect(act.Date).To(Equal("2023-10-02"))
			Expect(act.Description).To(Equal("Great essay"))
			Expect(act.TeacherID).To(Equal("2"))
			Expect(act.TeacherName).To(Equal("John Smith"))

			all, err := repo.QueryAllActivities(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(4))
			Expect(all[0]).To(Equal(act))
		})

		It("keeps the sanction type of sanctions only", func() {
			rwd, err := ledger.Add(ctx, activity.NewActivity{
				StudentID: "3", Type: activity.TypeReward, Description: "Kind", Points: 1, SanctionType: "Detention",
			}, teacher)
			Expect(err).NotTo(HaveOccurred())
			Expect(rwd.SanctionType).To(BeEmpty())

			sct, err := ledger.Add(ctx, activity.NewActivity{
				StudentID: "3", Type: activity.TypeSanction, Description: "Rude", SanctionType: "Detention", Date: "2023-09-30",
			}, teacher)
			Expect(err).NotTo(HaveOccurred())
			Expect(sct.SanctionType).To(Equal("Detention"))
			Expect(sct.Points).To(BeZero())
			Expect(sct.Date).To(Equal("2023-09-30"))
		})

		It("requires the permission matching the type", func() {
			limited := user.User{ID: "9", FullName: "Sub", Role: user.Teacher{Granted: []user.Permission{user.PermSetSanctions}}}
			_, err := ledger.Add(ctx, activity.NewActivity{StudentID: "3", Type: activity.TypeReward, Description: "x", Points: 1}, limited)
			Expect(err).To(Equal(core.ErrPermissionDenied))

			_, err = ledger.Add(ctx, activity.NewActivity{StudentID: "3", Type: activity.TypeSanction, Description: "x"}, limited)
			Expect(err).NotTo(HaveOccurred())
		})

		It("only gives activities to students", func() {
			_, err := ledger.Add(ctx, activity.NewActivity{StudentID: "2", Type: activity.TypeReward, Description: "x", Points: 1}, head)
			Expect(core.IsNotFound(err)).To(BeTrue())
		})

		It("validates the new activity", func() {
			_, err := ledger.Add(ctx, activity.NewActivity{StudentID: "3", Type: "praise", Points: 101, Date: "02/10/2023"}, teacher)
			var verrs validator.ValidationErrors
			Expect(err).To(BeAssignableToTypeOf(verrs))
			tags := map[string]string{}
			for _, fe := range err.(validator.ValidationErrors) {
				tags[fe.Field()] = fe.Tag()
			}
			Expect(tags).To(Equal(map[string]string{
				"type": "oneof", "description": "required", "points": "max", "date": "date",
			}))

			_, err = ledger.Add(ctx, activity.NewActivity{StudentID: "3", Type: activity.TypeReward, Description: "x"}, teacher)
			Expect(err).To(HaveOccurred())
			Expect(err.(validator.ValidationErrors)[0].Tag()).To(Equal("rewardpoints"))
		})
	})

	Describe("Delete", func() {
		It("removes exactly the identified activity", func() {
			Expect(ledger.Delete(ctx, seeded[1].ID, head)).To(Succeed())

			all, err := repo.QueryAllActivities(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(Equal([]activity.Activity{seeded[0], seeded[2]}))
		})

		It("requires the permission matching the type", func() {
			rewarder := user.User{ID: "9", Role: user.Teacher{Granted: []user.Permission{user.PermSetRewards}}}
			Expect(ledger.Delete(ctx, seeded[1].ID, rewarder)).To(Equal(core.ErrPermissionDenied)) // a sanction
			Expect(ledger.Delete(ctx, seeded[0].ID, rewarder)).To(Succeed())
		})

		It("keeps identical activities with another id", func() {
			twin := seeded[0]
			twin.ID = "twin"
			Expect(repo.PrependActivity(ctx, twin)).To(Succeed())

			Expect(ledger.Delete(ctx, seeded[0].ID, head)).To(Succeed())

			all, err := repo.QueryAllActivities(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(Equal([]activity.Activity{twin, seeded[1], seeded[2]}))
		})

		It("fails on unknown activities", func() {
			Expect(ledger.Delete(ctx, "nope", head)).To(Equal(activity.ErrNotFound))
		})
	})

	Describe("List & Stats", func() {
		BeforeEach(func() {
			_, err := usrSvc.Create(ctx, user.NewUser{
				Username: "liam", FullName: "Liam Brown", Password: "hunter22!", Role: user.RoleStudent, YearGroup: "9", Class: "9B",
			})
			Expect(err).NotTo(HaveOccurred())
			students, err := usrSvc.Students(ctx, user.StudentFilter{Class: "9B"})
			Expect(err).NotTo(HaveOccurred())

			_, err = ledger.Add(ctx, activity.NewActivity{
				StudentID: students[0].ID, Type: activity.TypeSanction, Description: "Late", Points: 3, SanctionType: "Late homework",
			}, teacher)
			Expect(err).NotTo(HaveOccurred())
		})

		It("enriches the entries with their student", func() {
			entries, err := ledger.List(ctx, activity.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(4))
			Expect(entries[0].StudentName).To(Equal("Liam Brown"))
			Expect(entries[0].Class).To(Equal("9B"))
			Expect(entries[1].StudentName).To(Equal("Emma Johnson"))
			Expect(entries[1].YearGroup).To(Equal("10"))
		})

		It("filters the entries", func() {
			entries, err := ledger.List(ctx, activity.Filter{Type: "SANCTION"})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))

			entries, err = ledger.List(ctx, activity.Filter{Type: activity.TypeAll, YearGroup: "10", Date: "2023-09-15"})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ID).To(Equal(seeded[0].ID))

			_, err = ledger.List(ctx, activity.Filter{Type: "praise"})
			Expect(err).To(HaveOccurred())
		})

		It("aggregates the filtered entries", func() {
			_, stats, err := ledger.Stats(ctx, activity.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalRewards).To(Equal(2))
			Expect(stats.TotalSanctions).To(Equal(2))
			Expect(stats.RewardPoints).To(Equal(8))
			Expect(stats.SanctionPoints).To(Equal(5))
			Expect(stats.YearGroups).To(Equal(map[string]activity.Counts{
				"10": {Rewards: 2, Sanctions: 1},
				"9":  {Sanctions: 1},
			}))
			Expect(stats.SanctionTypes).To(Equal(map[string]int{"Late homework": 2}))

			entries, stats, err := ledger.Stats(ctx, activity.Filter{Class: "9B"})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(stats.Classes).To(Equal(map[string]activity.Counts{"9B": {Sanctions: 1}}))
		})

		It("counts a new reward exactly once", func() {
			_, before, err := ledger.Stats(ctx, activity.Filter{})
			Expect(err).NotTo(HaveOccurred())

			_, err = ledger.Add(ctx, activity.NewActivity{StudentID: "3", Type: activity.TypeReward, Description: "Helped out", Points: 2}, teacher)
			Expect(err).NotTo(HaveOccurred())

			_, after, err := ledger.Stats(ctx, activity.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(after.TotalRewards).To(Equal(before.TotalRewards + 1))
			Expect(after.TotalSanctions).To(Equal(before.TotalSanctions))
		})
	})

	It("lists the activities of a student", func() {
		acts, err := ledger.ForStudent(ctx, "3")
		Expect(err).NotTo(HaveOccurred())
		Expect(acts).To(Equal(seeded))
		Expect(activity.StudentTotals(acts)).To(Equal(activity.Totals{
			Rewards: 2, Sanctions: 1, RewardPoints: 8, SanctionPoints: 2,
		}))

		acts, err = ledger.ForStudent(ctx, "2")
		Expect(err).NotTo(HaveOccurred())
		Expect(acts).To(BeEmpty())
	})
})
