package pkg

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// recordingPanel keeps a copy of every frame drawn to it.
type recordingPanel struct {
	mu        sync.Mutex
	bounds    image.Rectangle
	frames    []*image.RGBA
	backlight bool
	drawErr   error
}

func newRecordingPanel(w, h int) *recordingPanel {
	return &recordingPanel{bounds: image.Rect(0, 0, w, h), backlight: true}
}

func (p *recordingPanel) String() string          { return "recording" }
func (p *recordingPanel) Halt() error             { return nil }
func (p *recordingPanel) Close() error            { return nil }
func (p *recordingPanel) ColorModel() color.Model { return color.RGBAModel }
func (p *recordingPanel) Bounds() image.Rectangle { return p.bounds }

func (p *recordingPanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawErr != nil {
		return p.drawErr
	}
	frame := image.NewRGBA(p.bounds)
	draw.Draw(frame, r, src, sp, draw.Src)
	p.frames = append(p.frames, frame)
	return nil
}

func (p *recordingPanel) SetBacklight(on bool) error {
	p.mu.Lock()
	p.backlight = on
	p.mu.Unlock()
	return nil
}

func (p *recordingPanel) Frames() []*image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*image.RGBA(nil), p.frames...)
}

func newTestServer(t *testing.T, panel Panel, clock clockwork.Clock) *Server {
	t.Helper()
	tf, err := FallbackTypeface()
	assert.NilError(t, err)
	s := NewServer(panel, ServerOpts{
		Preset:   "waveshare144",
		Size:     image.Pt(128, 128),
		Typeface: tf,
		Clock:    clock,
	})
	s.stats = func() (Stats, error) {
		return Stats{CPUPercent: 12, MemPercent: 55, DiskUsed: "3.1 GB", DiskTotal: "16 GB", DiskPercent: 19, IPv4: "10.0.0.2"}, nil
	}
	return s
}

func do(s *Server, method, target, contentType, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	var out map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(160, 128), nil)
	rec, out := do(s, "GET", "/health", "", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Content-Type"), "application/json")
	assert.DeepEqual(t, out, map[string]interface{}{"ok": true, "width": 160.0, "height": 128.0, "preset": "waveshare144"})
}

func TestHealthWithoutPanel(t *testing.T) {
	s := NewServer(nil, ServerOpts{Size: image.Pt(128, 128), Typeface: &Typeface{}})
	_, out := do(s, "GET", "/health", "", "")
	assert.Equal(t, out["preset"], "-")
	assert.Equal(t, out["width"], 128.0)
}

func TestPostDisplayJSON(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	s := newTestServer(t, panel, nil)

	rec, out := do(s, "POST", "/display", "application/json", `{"text": "  Hello  "}`)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.DeepEqual(t, out, map[string]interface{}{"ok": true, "displayed": "Hello"})
	assert.Equal(t, len(panel.Frames()), 1)

	rec, out = do(s, "GET", "/display", "", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, out["text"], "Hello")
}

func TestPostDisplayOtherEncodings(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(128, 128), nil)

	_, out := do(s, "POST", "/display", "application/x-www-form-urlencoded", url.Values{"text": {"from form"}}.Encode())
	assert.Equal(t, out["displayed"], "from form")

	_, out = do(s, "POST", "/display?text=from+query", "", "")
	assert.Equal(t, out["displayed"], "from query")

	_, out = do(s, "POST", "/display", "text/plain; charset=utf-8", "plain body\n")
	assert.Equal(t, out["displayed"], "plain body")

	_, out = do(s, "POST", "/display", "application/json", `{"text": 42}`)
	assert.Equal(t, out["displayed"], "42")

	_, out = do(s, "POST", "/display", "application/json", `{"text": true}`)
	assert.Equal(t, out["displayed"], "true")

	// a zero value is missing text, so the query string wins
	_, out = do(s, "POST", "/display?text=q0", "application/json", `{"text": 0}`)
	assert.Equal(t, out["displayed"], "q0")

	// an empty JSON field falls back to the query string
	_, out = do(s, "POST", "/display?text=q", "application/json", `{"text": ""}`)
	assert.Equal(t, out["displayed"], "q")
}

func TestPostDisplayMissingText(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	s := newTestServer(t, panel, nil)

	for _, tc := range []struct{ contentType, body string }{
		{"application/json", `{}`},
		{"application/json", `{"text": "   "}`},
		{"application/json", `not json`},
		{"application/json", `{"text": null}`},
		{"application/json", `{"text": 0}`},
		{"application/json", `{"text": false}`},
		{"application/json", `{"text": []}`},
		{"application/json", `{"text": {}}`},
		{"", ""},
		{"text/plain", "\n\t "},
	} {
		rec, out := do(s, "POST", "/display", tc.contentType, tc.body)
		assert.Equal(t, rec.Code, http.StatusBadRequest, tc.body)
		assert.DeepEqual(t, out, map[string]interface{}{"ok": false, "error": "Missing 'text'"})
	}
	assert.Equal(t, len(panel.Frames()), 0)
	assert.Equal(t, s.Text(), "")
}

func TestPostDisplayTruncates(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(128, 128), nil)
	long := strings.Repeat("å", 300)

	rec, out := do(s, "POST", "/display", "text/plain", long)
	assert.Equal(t, rec.Code, http.StatusOK)
	displayed := out["displayed"].(string)
	assert.Equal(t, len([]rune(displayed)), MaxTextLength)
	assert.Equal(t, s.Text(), displayed)
}

func TestPostDisplayMultipart(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(128, 128), nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	assert.NilError(t, mw.WriteField("text", "  from multipart "))
	assert.NilError(t, mw.Close())

	rec, out := do(s, "POST", "/display", mw.FormDataContentType(), body.String())
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, out["displayed"], "from multipart")
}

func TestPostDisplayLargeJSON(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(128, 128), nil)
	body := `{"text": "` + strings.Repeat("x", 70000) + `"}`

	rec, out := do(s, "POST", "/display", "application/json", body)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, len(out["displayed"].(string)), MaxTextLength)
}

func TestPostDisplayBodyTooLarge(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	s := newTestServer(t, panel, nil)
	body := `{"text": "` + strings.Repeat("x", maxBodySize) + `"}`

	rec, out := do(s, "POST", "/display", "application/json", body)
	assert.Equal(t, rec.Code, http.StatusRequestEntityTooLarge)
	assert.Equal(t, out["error"], ErrBodyTooLarge.Error())
	assert.Equal(t, len(panel.Frames()), 0)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, TruncateText("abc", 5), "abc")
	assert.Equal(t, TruncateText("abcdef", 3), "abc")
	assert.Equal(t, TruncateText("ååå", 2), "åå")
}

func TestPostDisplayDrawFailure(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	panel.drawErr = errors.New("spi: write failed")
	s := newTestServer(t, panel, nil)

	rec, out := do(s, "POST", "/display", "application/json", `{"text": "x"}`)
	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.DeepEqual(t, out, map[string]interface{}{"ok": false, "error": "spi: write failed"})
}

func TestPostDisplayWithoutPanel(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec, out := do(s, "POST", "/display", "application/json", `{"text": "x"}`)
	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.Equal(t, out["error"], ErrNoPanel.Error())
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(128, 128), nil)
	rec, _ := do(s, "DELETE", "/display", "", "")
	assert.Equal(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestRGB(t *testing.T) {
	panel := newRecordingPanel(32, 32)
	s := newTestServer(t, panel, nil)

	rec, _ := do(s, "POST", "/rgb", "application/json", `{"R": 10, "G": 20, "B": 30}`)
	assert.Equal(t, rec.Code, http.StatusOK)
	frames := panel.Frames()
	assert.Equal(t, len(frames), 1)
	assert.Equal(t, frames[0].RGBAAt(5, 5), color.RGBA{10, 20, 30, 255})

	rec, out := do(s, "POST", "/rgb", "application/json", `{"R": 300}`)
	assert.Equal(t, rec.Code, http.StatusBadRequest)
	assert.Check(t, is.Contains(out["error"].(string), "R, G, and B"))
}

func TestQR(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	s := newTestServer(t, panel, nil)

	rec, _ := do(s, "POST", "/qr?content=https://example.com", "", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	frames := panel.Frames()
	assert.Equal(t, len(frames), 1)
	assert.Equal(t, frames[0].RGBAAt(0, 0), White)
	assert.Assert(t, hasColor(frames[0], Black))

	rec, _ = do(s, "POST", "/qr", "", "")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestStats(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	s := newTestServer(t, panel, nil)

	rec, out := do(s, "GET", "/stats", "", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, out["disk_total"], "16 GB")
	assert.Equal(t, out["ipv4"], "10.0.0.2")
	assert.Equal(t, len(panel.Frames()), 0)

	rec, _ = do(s, "POST", "/stats", "", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, len(panel.Frames()), 1)
}

func TestUsageColor(t *testing.T) {
	assert.Equal(t, UsageColor(10), color.Color(color.RGBA{183, 225, 205, 255}))
	assert.Equal(t, UsageColor(55), color.Color(color.RGBA{252, 232, 178, 255}))
	assert.Equal(t, UsageColor(90), color.Color(color.RGBA{244, 199, 195, 255}))
}

func TestOff(t *testing.T) {
	panel := newRecordingPanel(16, 16)
	s := newTestServer(t, panel, nil)
	rec, _ := do(s, "POST", "/off", "", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, panel.Frames()[0].RGBAAt(3, 3), Black)
	assert.Assert(t, !panel.backlight)
}

func TestRecoverer(t *testing.T) {
	s := newTestServer(t, newRecordingPanel(16, 16), nil)
	s.stats = func() (Stats, error) { panic("sensor gone") }
	rec, out := do(s, "GET", "/stats", "", "")
	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.DeepEqual(t, out, map[string]interface{}{"ok": false, "error": "sensor gone"})
}

func rngFor(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestRandomPrice(t *testing.T) {
	for i := int64(0); i < 50; i++ {
		p := RandomPrice(rngFor(i))
		assert.Assert(t, is.Regexp(`^[1-9][0-9]{2} kr$`, p))
	}
}

func TestOverlayRestoresText(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, panel, clock)
	assert.NilError(t, s.Display("Hello"))

	done := make(chan error)
	go func() { done <- s.Overlay("123 kr", OverlayDuration) }()
	clock.BlockUntil(1)
	assert.Equal(t, len(panel.Frames()), 2)

	clock.Advance(OverlayDuration)
	assert.NilError(t, <-done)

	frames := panel.Frames()
	assert.Equal(t, len(frames), 3)
	assert.DeepEqual(t, frames[2].Pix, frames[0].Pix)
	assert.Assert(t, hasColor(frames[1], White))
	assert.Equal(t, s.Text(), "Hello")
}

func TestOverlayYieldsToNewerDraw(t *testing.T) {
	panel := newRecordingPanel(128, 128)
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, panel, clock)

	done := make(chan error)
	go func() { done <- s.Overlay("456 kr", time.Second) }()
	clock.BlockUntil(1)
	assert.NilError(t, s.Display("newer"))

	clock.Advance(time.Second)
	assert.NilError(t, <-done)
	assert.Equal(t, len(panel.Frames()), 2)
	assert.Equal(t, s.Text(), "newer")
}

func TestOverlayBlanksWithoutText(t *testing.T) {
	panel := newRecordingPanel(16, 16)
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, panel, clock)

	done := make(chan error)
	go func() { done <- s.Overlay("789 kr", time.Second) }()
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	assert.NilError(t, <-done)

	frames := panel.Frames()
	assert.Equal(t, len(frames), 2)
	assert.Equal(t, frames[1].RGBAAt(8, 8), Black)
}

func TestConcurrentDisplays(t *testing.T) {
	panel := newRecordingPanel(64, 64)
	s := newTestServer(t, panel, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(s, "POST", "/display", "text/plain", "hi")
		}()
	}
	wg.Wait()
	assert.Equal(t, len(panel.Frames()), 8)
}
