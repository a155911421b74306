package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// Upload is one file part received by the fake service.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Call records one request received by the fake service.
type Call struct {
	RequestID string
	UserAgent string
	Files     map[string]Upload
}

// Reply describes how the fake service answers a request.
type Reply struct {
	Status     int
	Body       []byte
	HasMatches string
}

// FakeService is an in-process stand-in for the generation service. By
// default it answers every well-formed request with a workbook body.
type FakeService struct {
	Server *httptest.Server

	mu    sync.Mutex
	reply Reply
	calls []Call
	gate  chan struct{}
}

// NewFakeService starts a fake service and registers its shutdown with t.
func NewFakeService(t testing.TB) *FakeService {
	t.Helper()
	f := &FakeService{
		reply: Reply{Status: http.StatusOK, Body: []byte("PK\x03\x04assignments")},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.POST("/api/secret-santa", f.handleGenerate)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Server.Close)
	// Runs before Close so held requests can finish.
	t.Cleanup(f.Release)
	return f
}

// URL returns the generation endpoint.
func (f *FakeService) URL() string { return f.Server.URL + "/api/secret-santa" }

// SetReply changes the answer for subsequent requests.
func (f *FakeService) SetReply(r Reply) {
	f.mu.Lock()
	f.reply = r
	f.mu.Unlock()
}

// Hold makes subsequent requests block until Release is called.
func (f *FakeService) Hold() {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.mu.Unlock()
}

// Release unblocks requests parked by Hold.
func (f *FakeService) Release() {
	f.mu.Lock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
	f.mu.Unlock()
}

// Calls returns a copy of the recorded requests.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeService) handleGenerate(c echo.Context) error {
	call := Call{
		RequestID: c.Request().Header.Get("X-Request-ID"),
		UserAgent: c.Request().UserAgent(),
		Files:     make(map[string]Upload),
	}
	for _, field := range []string{"employeeList", "lastYearList"} {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}
		call.Files[field] = Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	reply := f.reply
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	if len(call.Files) != 2 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Both files are required"})
	}
	if reply.HasMatches != "" {
		c.Response().Header().Set("X-Has-Matches", reply.HasMatches)
	}
	if reply.Status >= 200 && reply.Status < 300 {
		return c.Blob(reply.Status, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", reply.Body)
	}
	return c.Blob(reply.Status, echo.MIMEApplicationJSON, reply.Body)
}
