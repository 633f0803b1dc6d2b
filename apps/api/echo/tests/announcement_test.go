package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/user"
	"github.com/trezcool/learnerair/storage/documents"
)

func (app *testApp) announcement(t *testing.T, id string) (announcement.Announcement, error) {
	return documents.NewAnnouncementRepository(app.db).GetAnnouncementByID(context.Background(), id)
}

func Test_announcementApi_query(t *testing.T) {
	app := setup(t)
	seeded := announcement.Seed()
	all, forStudents, forYear10 := seeded[0], seeded[1], seeded[2]
	liam := app.createUser(t, "Liam Brown", "liam", user.Student{YearGroup: "9", Class: "9B"})
	staffOnly := announcement.Announcement{
		ID: "4", Title: "Staff meeting", Content: "Monday 8am", Date: "2023-09-01",
		Author: "Head Teacher", AuthorID: user.BootstrapID, Target: announcement.TargetTeachers,
	}
	require.NoError(t, documents.NewAnnouncementRepository(app.db).PrependAnnouncement(context.Background(), staffOnly))

	tests := []httpTest{
		{
			name:     "no token",
			path:     "/v1/announcements",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "staff see everything",
			path:     "/v1/announcements",
			token:    app.getToken(t, app.getUser(t, "2")),
			wantCode: http.StatusOK,
			wantData: marchallList(t, staffOnly, all, forStudents, forYear10),
		},
		{
			name:     "year 10 student",
			path:     "/v1/announcements",
			token:    app.getToken(t, app.getUser(t, "3")),
			wantCode: http.StatusOK,
			wantData: marchallList(t, all, forStudents, forYear10),
		},
		{
			name:     "year 9 student",
			path:     "/v1/announcements",
			token:    app.getToken(t, liam),
			wantCode: http.StatusOK,
			wantData: marchallList(t, all, forStudents),
		},
		{
			name:     "search",
			path:     "/v1/announcements?search=SCIENCE",
			token:    app.getToken(t, liam),
			wantCode: http.StatusOK,
			wantData: marchallList(t, forStudents),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodGet
			app.run(t, tt)
		})
	}
}

func Test_announcementApi_create(t *testing.T) {
	announcement.NowFunc = func() time.Time { return time.Date(2023, 10, 2, 9, 0, 0, 0, time.UTC) }
	defer func() { announcement.NowFunc = time.Now }()

	app := setup(t)
	teacher := app.getUser(t, "2")
	teacherToken := app.getToken(t, teacher)

	tests := []httpTest{
		{
			name:     "students cannot announce",
			body:     marchallObj(t, map[string]string{"title": "Party", "content": "Friday"}),
			token:    app.getToken(t, app.getUser(t, "3")),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "missing fields",
			body:     marchallObj(t, map[string]string{}),
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":   "this field is required",
				"content": "this field is required",
			}),
		},
		{
			name:     "invalid target",
			body:     marchallObj(t, map[string]string{"title": "Trip", "content": "Museum", "target": "parents"}),
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"target": "invalid target"}),
		},
		{
			name:     "class target without a class",
			body:     marchallObj(t, map[string]string{"title": "Trip", "content": "Museum", "target": "class"}),
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"targetSpecific": "a year group or a class is required for this target",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/announcements"
			app.run(t, tt)
		})
	}

	t.Run("success", func(t *testing.T) {
		body := marchallObj(t, map[string]string{
			"title": " Trip ", "content": "Museum on Friday", "target": "CLASS", "targetSpecific": "10A",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", teacherToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var a announcement.Announcement
		unmarchall(t, rec.Body.Bytes(), &a)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, "Trip", a.Title)
		assert.Equal(t, announcement.TargetClass, a.Target)
		assert.Equal(t, "10A", a.TargetSpecific)
		assert.Equal(t, "2023-10-02", a.Date)
		assert.Equal(t, teacher.FullName, a.Author)
		assert.Equal(t, teacher.ID, a.AuthorID)

		stored, err := app.announcement(t, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a, stored)
	})
}

func Test_announcementApi_update(t *testing.T) {
	app := setup(t)
	teacherToken := app.getToken(t, app.getUser(t, "2"))
	headToken := app.getToken(t, app.getUser(t, user.BootstrapID))
	edit := marchallObj(t, map[string]string{"title": "Edited", "content": "New content", "target": "students"})

	tests := []httpTest{
		{
			name:     "not the author",
			path:     "/v1/announcements/1",
			body:     edit,
			token:    teacherToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "unknown id",
			path:     "/v1/announcements/nope",
			body:     edit,
			token:    headToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: announcement.ErrNotFound.Error()}),
		},
		{
			name:     "invalid",
			path:     "/v1/announcements/2",
			body:     marchallObj(t, map[string]string{"content": "New content"}),
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPut
			app.run(t, tt)
		})
	}

	for _, tc := range []struct {
		name, id, token string
	}{
		{"author", "2", teacherToken},
		{"moderator", "2", headToken},
	} {
		t.Run(tc.name, func(t *testing.T) {
			orig, err := app.announcement(t, tc.id)
			require.NoError(t, err)

			req, rec := newAuthRequest(http.MethodPut, "/v1/announcements/"+tc.id, tc.token, edit)
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			want := orig
			want.Title = "Edited"
			want.Content = "New content"
			want.Target = announcement.TargetStudents
			want.TargetSpecific = ""
			got, err := app.announcement(t, tc.id)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func Test_announcementApi_destroy(t *testing.T) {
	app := setup(t)
	teacherToken := app.getToken(t, app.getUser(t, "2"))
	headToken := app.getToken(t, app.getUser(t, user.BootstrapID))

	app.run(t, httpTest{
		method:   http.MethodDelete,
		path:     "/v1/announcements/1",
		token:    teacherToken,
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, errForbidden),
	})
	app.run(t, httpTest{method: http.MethodDelete, path: "/v1/announcements/2", token: teacherToken, wantCode: http.StatusNoContent})
	app.run(t, httpTest{method: http.MethodDelete, path: "/v1/announcements/1", token: headToken, wantCode: http.StatusNoContent})
	app.run(t, httpTest{
		method:   http.MethodDelete,
		path:     "/v1/announcements/1",
		token:    headToken,
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: announcement.ErrNotFound.Error()}),
	})

	_, err := app.announcement(t, "3")
	assert.NoError(t, err)
	_, err = app.announcement(t, "2")
	assert.Error(t, err)
}
