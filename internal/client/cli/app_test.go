package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/doccheck/internal/client/api"
	"github.com/dmitrijs2005/doccheck/internal/client/config"
	"github.com/dmitrijs2005/doccheck/internal/client/models"
	"github.com/dmitrijs2005/doccheck/internal/client/router"
	"github.com/dmitrijs2005/doccheck/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ fakes ------------

type fakeAPI struct {
	loginCred models.Credentials
	loginRes  *models.LoginResult
	loginErr  error

	uploadPath string
	uploadRes  *models.UploadResult

	history []models.HistoryItem
	result  *models.Result
	blob    *api.Blob
	fetched models.DocID

	err        error
	tokenValid bool
}

func (f *fakeAPI) Login(_ context.Context, cred models.Credentials) (*models.LoginResult, error) {
	f.loginCred = cred
	return f.loginRes, f.loginErr
}
func (f *fakeAPI) UploadFile(_ context.Context, path string) (*models.UploadResult, error) {
	f.uploadPath = path
	return f.uploadRes, f.err
}
func (f *fakeAPI) Download(_ context.Context, id models.DocID) (*api.Blob, error) {
	f.fetched = id
	return f.blob, f.err
}
func (f *fakeAPI) DownloadAnnotated(_ context.Context, id models.DocID) (*api.Blob, error) {
	f.fetched = id
	return f.blob, f.err
}
func (f *fakeAPI) History(context.Context) ([]models.HistoryItem, error) { return f.history, f.err }
func (f *fakeAPI) Result(_ context.Context, id models.DocID) (*models.Result, error) {
	f.fetched = id
	return f.result, f.err
}
func (f *fakeAPI) ValidateToken(context.Context) bool { return f.tokenValid }
func (f *fakeAPI) BaseURL() string                    { return "http://backend.test/api" }

type fakeSession struct {
	state   session.State
	logouts int
}

func (s *fakeSession) Login(_ context.Context, u models.User) error {
	s.state = session.State{User: &u, Authenticated: true}
	return nil
}
func (s *fakeSession) Logout(context.Context) error {
	s.logouts++
	s.state = session.State{}
	return nil
}
func (s *fakeSession) Check(context.Context) bool { return s.state.Authenticated }
func (s *fakeSession) State() session.State       { return s.state }
func (s *fakeSession) IsAuthenticated() bool      { return s.state.Authenticated }

func signedIn() *fakeSession {
	return &fakeSession{state: session.State{User: &models.User{ID: "1", Name: "Alice"}, Authenticated: true}}
}

func newTestApp(t *testing.T, fa *fakeAPI, fs *fakeSession, input string) (*App, *bytes.Buffer) {
	t.Helper()
	capturePrintln(t)
	var out bytes.Buffer
	a := NewApp(&config.Config{DownloadDir: t.TempDir()}, fa, fs, nil)
	a.reader = rdr(input)
	a.out = &out
	return a, &out
}

var unauthorized = &api.Error{Kind: api.KindAuth, Message: api.MsgAuthFailed, Code: "401", Status: 401}

// ------------ auth ------------

func TestApp_Login(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	fa := &fakeAPI{loginRes: &models.LoginResult{Token: "t", User: models.User{ID: "bob", Name: "bob"}}}
	fs := &fakeSession{}
	a, out := newTestApp(t, fa, fs, "bob\npw\n")

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, models.Credentials{Login: "bob", Password: "pw"}, fa.loginCred)
	assert.True(t, fs.IsAuthenticated())
	assert.Equal(t, router.PathHome, a.location.Path)
	assert.Contains(t, out.String(), "welcome bob")
}

func TestApp_Login_WipesTerminalBuffer(t *testing.T) {
	buf := []byte("s3cret")
	stubTerminal(t, true, buf, nil)
	fa := &fakeAPI{loginRes: &models.LoginResult{User: models.User{ID: "bob"}}}
	a, _ := newTestApp(t, fa, &fakeSession{}, "bob\n")

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, "s3cret", fa.loginCred.Password)
	assert.Equal(t, make([]byte, len("s3cret")), buf)
}

func TestApp_Login_Failure(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	fa := &fakeAPI{loginErr: unauthorized}
	fs := &fakeSession{}
	a, _ := newTestApp(t, fa, fs, "bob\nbad\n")

	err := a.Login(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, fs.IsAuthenticated())
	assert.Equal(t, router.PathLogin, a.location.Path)
}

func TestApp_Login_AlreadySignedIn(t *testing.T) {
	fa := &fakeAPI{}
	a, _ := newTestApp(t, fa, signedIn(), "")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, router.PathHome, a.location.Path)
	assert.Empty(t, fa.loginCred.Login, "no prompt, no request")
}

func TestApp_Logout(t *testing.T) {
	fs := signedIn()
	a, out := newTestApp(t, &fakeAPI{}, fs, "")

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, 1, fs.logouts)
	assert.Equal(t, router.PathLogin, a.location.Path)
	assert.Contains(t, out.String(), "Logged out")
}

func TestApp_Status(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		a, out := newTestApp(t, &fakeAPI{tokenValid: true}, signedIn(), "")
		require.NoError(t, a.Status(context.Background()))
		assert.Contains(t, out.String(), "Signed in as Alice (id 1)")
		assert.Contains(t, out.String(), "http://backend.test/api")
	})

	t.Run("expired token signs out", func(t *testing.T) {
		fs := signedIn()
		a, out := newTestApp(t, &fakeAPI{tokenValid: false}, fs, "")
		require.NoError(t, a.Status(context.Background()))
		assert.Contains(t, out.String(), "Session expired")
		assert.Equal(t, 1, fs.logouts)
		assert.Equal(t, router.PathLogin, a.location.Path)
	})

	t.Run("signed out", func(t *testing.T) {
		a, out := newTestApp(t, &fakeAPI{}, &fakeSession{}, "")
		require.NoError(t, a.Status(context.Background()))
		assert.Contains(t, out.String(), "Not signed in")
	})
}

// ------------ documents ------------

func TestApp_GuardBlocksSignedOut(t *testing.T) {
	fa := &fakeAPI{history: []models.HistoryItem{{ID: "1"}}}
	a, out := newTestApp(t, fa, &fakeSession{}, "")
	ctx := context.Background()

	require.NoError(t, a.History(ctx))
	require.NoError(t, a.Result(ctx, []string{"1"}))
	require.NoError(t, a.Download(ctx, []string{"1"}))
	require.NoError(t, a.Upload(ctx, []string{"x.docx"}))

	assert.Empty(t, fa.fetched)
	assert.Empty(t, fa.uploadPath)
	assert.Equal(t, router.PathLogin, a.location.Path)
	assert.Contains(t, out.String(), "Please login first")
}

func TestApp_Upload(t *testing.T) {
	fa := &fakeAPI{uploadRes: &models.UploadResult{ID: "9", Filename: "x.docx", Status: models.StatusProcessing}}
	a, out := newTestApp(t, fa, signedIn(), "")

	require.NoError(t, a.Upload(context.Background(), []string{"/tmp/x.docx"}))
	assert.Equal(t, "/tmp/x.docx", fa.uploadPath)
	assert.Contains(t, out.String(), "Uploaded x.docx: id 9, status processing")
}

func TestApp_History(t *testing.T) {
	fa := &fakeAPI{history: []models.HistoryItem{
		{ID: "1", Filename: "a.docx", UploadDate: models.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)}, Status: models.StatusCompleted, ErrorCounts: models.ErrorCounts{"margins": 2}},
		{ID: "2", Filename: "b.docx", Status: models.StatusProcessing},
	}}
	a, out := newTestApp(t, fa, signedIn(), "")

	require.NoError(t, a.History(context.Background()))

	s := out.String()
	assert.Contains(t, s, "ID  FILE")
	assert.Contains(t, s, "2024-05-01 10:00")
	assert.Contains(t, s, "completed")
	assert.Regexp(t, `a\.docx\s+2024-05-01 10:00\s+completed\s+2`, s)
	assert.Regexp(t, `b\.docx\s+-\s+processing\s+0`, s)
	assert.Equal(t, "/history", a.location.Path)
}

func TestApp_History_Empty(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, signedIn(), "")
	require.NoError(t, a.History(context.Background()))
	assert.Contains(t, out.String(), "No documents yet")
}

func TestApp_Result(t *testing.T) {
	fa := &fakeAPI{result: &models.Result{
		ID: "42", Filename: "c.docx", Status: models.StatusCompleted,
		ErrorCounts: models.ErrorCounts{"total": 3, "margins": 1, "fonts": 2},
		ErrorPoints: []string{"page 2: margin"}, FullReport: "Full report text",
	}}
	a, out := newTestApp(t, fa, signedIn(), "")

	require.NoError(t, a.Result(context.Background(), []string{"42"}))

	s := out.String()
	assert.Equal(t, models.DocID("42"), fa.fetched)
	assert.Contains(t, s, "Violations: 3")
	assert.Regexp(t, `(?s)fonts\s+2.*margins\s+1`, s)
	assert.Contains(t, s, "- page 2: margin")
	assert.Contains(t, s, "Full report text")
	assert.Equal(t, "/result/42", a.location.Path)
}

func TestApp_Download(t *testing.T) {
	fa := &fakeAPI{blob: &api.Blob{Data: []byte("PK"), Filename: "report.docx"}}
	a, out := newTestApp(t, fa, signedIn(), "")
	ctx := context.Background()

	require.NoError(t, a.Download(ctx, []string{"5"}))
	got, err := os.ReadFile(filepath.Join(a.config.DownloadDir, "report.docx"))
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), got)
	assert.Equal(t, models.DocID("5"), fa.fetched)

	// no server name: fallback, into an explicit directory
	fa.blob = &api.Blob{Data: []byte("X")}
	dir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, a.Annotated(ctx, []string{"5", dir}))
	_, err = os.Stat(filepath.Join(dir, "annotated_5"))
	require.NoError(t, err)

	require.NoError(t, a.Download(ctx, []string{"6", dir}))
	_, err = os.Stat(filepath.Join(dir, "document_6"))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Saved 1 bytes to")
}

func TestApp_UnauthorizedLogsOut(t *testing.T) {
	fs := signedIn()
	a, _ := newTestApp(t, &fakeAPI{err: unauthorized}, fs, "")

	err := a.History(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, fs.logouts)
	assert.False(t, fs.IsAuthenticated())
	assert.Equal(t, router.PathLogin, a.location.Path)
}

func TestApp_OtherErrorsKeepSession(t *testing.T) {
	fs := signedIn()
	a, _ := newTestApp(t, &fakeAPI{err: &api.Error{Kind: api.KindNetwork, Message: api.MsgNetwork}}, fs, "")

	err := a.History(context.Background())
	assert.ErrorIs(t, err, api.ErrNetwork)
	assert.Zero(t, fs.logouts)
	assert.True(t, fs.IsAuthenticated())
}

func TestApp_Usage(t *testing.T) {
	fa := &fakeAPI{}
	a, out := newTestApp(t, fa, signedIn(), "")
	lines := capturePrintln(t)
	ctx := context.Background()

	require.NoError(t, a.Upload(ctx, nil))
	require.NoError(t, a.Result(ctx, nil))
	require.NoError(t, a.Download(ctx, []string{"1", "2", "3"}))
	require.NoError(t, a.Annotated(ctx, nil))
	require.NoError(t, a.Go(ctx, nil))

	assert.Equal(t, "Usage: upload <path>\nUsage: result <id>\nUsage: download <id> [dir]\nUsage: annotated <id> [dir]\nUsage: go <path>\n", out.String())
	assert.Empty(t, *lines, "commands write to the app writer only")
	assert.Empty(t, fa.uploadPath)
	assert.Empty(t, fa.fetched)
}

// ------------ navigation ------------

func TestApp_Go(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, signedIn(), "")

	require.NoError(t, a.Go(context.Background(), []string{"/result/7"}))
	assert.Contains(t, out.String(), "At /result/7 (result) id=7")

	out.Reset()
	require.NoError(t, a.Go(context.Background(), []string{"/login"}))
	assert.Contains(t, out.String(), "Redirected to /")
	assert.Contains(t, out.String(), "At / (home)")
}

func TestApp_Developers(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, signedIn(), "")
	require.NoError(t, a.Developers(context.Background()))
	assert.Contains(t, out.String(), "http://backend.test/api")
	assert.Equal(t, "/developers", a.location.Path)
}

func TestApp_Report(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, signedIn(), "")
	a.report(nil)
	a.report(unauthorized)
	a.report(errors.New("plain"))
	assert.Equal(t, "Error: "+api.MsgAuthFailed+"\nError: plain\n", out.String())
}

func TestApp_Run(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	fa := &fakeAPI{
		loginRes: &models.LoginResult{User: models.User{ID: "u", Name: "Uma"}},
		history:  []models.HistoryItem{{ID: "3", Filename: "z.docx"}},
	}
	fs := &fakeSession{}
	a, out := newTestApp(t, fa, fs, "uma\npw\nhistory\nexit\n")

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, fs.IsAuthenticated())
	assert.Contains(t, out.String(), "z.docx")
	assert.Equal(t, "Uma /history", a.status())
}
