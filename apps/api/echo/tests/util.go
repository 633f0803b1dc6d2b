package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/learnerair/apps/api/echo"
	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/homework"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
	"github.com/trezcool/learnerair/services/logger"
	"github.com/trezcool/learnerair/storage/documents"
	"github.com/trezcool/learnerair/tests"
)

var (
	errMissingToken   = httpErr{Error: "missing or malformed jwt"}
	errInvalidToken   = httpErr{Error: "invalid or expired jwt"}
	errSessionExpired = httpErr{Error: "session expired"}
	errForbidden      = httpErr{Error: "permission denied"}
	errNotFound       = httpErr{Error: "not found"}
)

// testApp is a server over a freshly seeded in-memory DB.
type testApp struct {
	*Server
	db      *documents.DB
	usrRepo user.Repository
	cipher  *user.Cipher
	sessSvc *session.Service
}

func setup(t *testing.T) *testApp {
	conf := *core.Conf
	conf.Debug = false
	conf.TestMode = true
	conf.Server.DisableReqLogs = true

	// set up DB & repos
	db := testutil.OpenDB(t)
	cipher := testutil.NewCipher(t)
	usrRepo := documents.NewUserRepository(db)
	validate, translator := testutil.NewValidation()

	// set up services
	usrSvc := user.NewService(usrRepo, cipher, validate)
	sessSvc := session.NewService(documents.NewSessionRepository(db), usrSvc)
	usrSvc.Observe(sessSvc)

	// set up server
	srv := NewServer(Options{
		Conf:            &conf,
		Logger:          logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), &conf),
		UserSvc:         usrSvc,
		SessionSvc:      sessSvc,
		Ledger:          activity.NewLedger(documents.NewActivityRepository(db), usrSvc, validate),
		HomeworkSvc:     homework.NewService(documents.NewHomeworkRepository(db), validate),
		AnnouncementSvc: announcement.NewService(documents.NewAnnouncementRepository(db), validate),
		Validate:        validate,
		Translator:      translator,
	})
	return &testApp{Server: srv, db: db, usrRepo: usrRepo, cipher: cipher, sessSvc: sessSvc}
}

func (app *testApp) createUser(t *testing.T, fullName, uname string, role user.Role) user.User {
	return testutil.CreateUser(t, app.usrRepo, app.cipher, fullName, uname, "pwd-"+uname, role)
}

func (app *testApp) getUser(t *testing.T, id string) user.User {
	return testutil.GetUser(t, app.usrRepo, id)
}

// getToken opens a session for usr and returns the token identifying it.
func (app *testApp) getToken(t *testing.T, usr user.User) string {
	sess := session.Session{ID: "sess-" + usr.ID, User: usr.Public(), CreatedAt: usr.CreatedAt}
	if err := documents.NewSessionRepository(app.db).SaveSession(context.Background(), sess); err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	token, err := GenerateToken(GetSessionClaims(sess))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarchall() failed: %v", err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

// checkCodeAndData checks the response code, and the response body unless tt.wantData is nil.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
