package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/user"
)

func Test_activityApi_query(t *testing.T) {
	app := setup(t)
	emma := app.getUser(t, "3")
	teacherToken := app.getToken(t, app.getUser(t, "2"))

	entries := activity.Enrich(app.activities(t), []user.User{emma})
	byType := func(typ string) []activity.Entry {
		matched := make([]activity.Entry, 0)
		for _, e := range entries {
			if e.Type == typ {
				matched = append(matched, e)
			}
		}
		return matched
	}
	ledger := func(es []activity.Entry) []byte {
		return marchallObj(t, map[string]interface{}{"activities": es, "stats": activity.Aggregate(es)})
	}

	tests := []httpTest{
		{
			name:     "students cannot browse the ledger",
			path:     "/v1/activities",
			token:    app.getToken(t, emma),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "everything",
			path:     "/v1/activities",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: ledger(entries),
		},
		{
			name:     "all type",
			path:     "/v1/activities?type=all&yearGroup=10",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: ledger(entries),
		},
		{
			name:     "rewards",
			path:     "/v1/activities?type=reward",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: ledger(byType(activity.TypeReward)),
		},
		{
			name:     "by date",
			path:     "/v1/activities?date=2023-09-10",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: ledger(byType(activity.TypeSanction)),
		},
		{
			name:     "no match",
			path:     "/v1/activities?class=9B",
			token:    teacherToken,
			wantCode: http.StatusOK,
			wantData: ledger([]activity.Entry{}),
		},
		{
			name:     "invalid filter",
			path:     "/v1/activities?type=bonus&date=yesterday",
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"type": "type must be one of [all reward sanction]",
				"date": "must be a date formatted as yyyy-mm-dd",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodGet
			app.run(t, tt)
		})
	}
}

func Test_activityApi_destroy(t *testing.T) {
	app := setup(t)
	acts := app.activities(t)
	var reward, sanction activity.Activity
	for _, a := range acts {
		if a.IsReward() && reward.ID == "" {
			reward = a
		}
		if !a.IsReward() {
			sanction = a
		}
	}
	rewarder := app.createUser(t, "Rewarder", "rewarder", user.Teacher{Granted: []user.Permission{user.PermSetRewards}})
	rewarderToken := app.getToken(t, rewarder)

	tests := []httpTest{
		{
			name:     "students cannot delete",
			path:     "/v1/activities/" + reward.ID,
			token:    app.getToken(t, app.getUser(t, "3")),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "sanction without set_sanctions",
			path:     "/v1/activities/" + sanction.ID,
			token:    rewarderToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "unknown id",
			path:     "/v1/activities/nope",
			token:    rewarderToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: activity.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodDelete
			app.run(t, tt)
		})
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/activities/"+reward.ID, rewarderToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		left := app.activities(t)
		assert.Len(t, left, len(acts)-1)
		for _, a := range left {
			assert.NotEqual(t, reward.ID, a.ID)
		}
	})
}
