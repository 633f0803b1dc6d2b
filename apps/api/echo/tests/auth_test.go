package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/learnerair/apps/api/echo"
	"github.com/trezcool/learnerair/core/user"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Learnerair API!", rec.Body.String())
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	head := app.getUser(t, user.BootstrapID)

	badCreds := marchallObj(t, httpErr{Error: "invalid credentials"})

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     marchallObj(t, LoginRequest{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "unknown user",
			body:     marchallObj(t, LoginRequest{Username: "nobody", Password: "whatever"}),
			wantCode: http.StatusBadRequest,
			wantData: badCreds,
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Username: user.BootstrapUsername, Password: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: badCreds,
		},
		{
			name:     "username is case insensitive",
			body:     marchallObj(t, LoginRequest{Username: "  learnerAIR ", Password: user.BootstrapPassword}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/auth/login"
			rec := app.run(t, tt)

			if tt.wantCode == http.StatusOK {
				var resp struct {
					Token string   `json:"token"`
					User  userJSON `json:"user"`
				}
				unmarchall(t, rec.Body.Bytes(), &resp)
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, head.ID, resp.User.ID)
				assert.Equal(t, user.RoleHeadteacher, resp.User.Role)

				// the token opens the current session
				req, rec := newAuthRequest(http.MethodGet, "/v1/auth/session", resp.Token)
				app.ServeHTTP(rec, req)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

// userJSON is the part of a user's JSON the tests look at.
type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func Test_userApi_session(t *testing.T) {
	app := setup(t)
	student := app.getUser(t, "3")
	token := app.getToken(t, student)

	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "bad token",
			token:    "not.a.token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errInvalidToken),
		},
		{
			name:     "valid token",
			token:    token,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodGet
			tt.path = "/v1/auth/session"
			rec := app.run(t, tt)

			if tt.wantCode == http.StatusOK {
				var sess struct {
					ID   string   `json:"id"`
					User userJSON `json:"user"`
				}
				unmarchall(t, rec.Body.Bytes(), &sess)
				assert.Equal(t, "sess-"+student.ID, sess.ID)
				assert.Equal(t, student.Username, sess.User.Username)
			}
		})
	}
}

func Test_userApi_logout(t *testing.T) {
	app := setup(t)
	token := app.getToken(t, app.getUser(t, "2"))

	app.run(t, httpTest{method: http.MethodPost, path: "/v1/auth/logout", token: token, wantCode: http.StatusNoContent})

	// the token outlives its session, but is no longer honoured
	app.run(t, httpTest{
		method:   http.MethodGet,
		path:     "/v1/auth/session",
		token:    token,
		wantCode: http.StatusUnauthorized,
		wantData: marchallObj(t, errSessionExpired),
	})
	app.run(t, httpTest{
		method:   http.MethodPost,
		path:     "/v1/auth/logout",
		token:    token,
		wantCode: http.StatusUnauthorized,
		wantData: marchallObj(t, errSessionExpired),
	})
}
