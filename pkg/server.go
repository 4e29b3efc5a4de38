package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// MaxTextLength is the number of characters kept from a posted message.
	MaxTextLength = 256
	// OverlayDuration is how long a button overlay stays on screen.
	OverlayDuration = 5 * time.Second
	// OverlayFontSize is the point size of overlay values.
	OverlayFontSize = 32

	maxBodySize = 1 << 20
)

var (
	// ErrMissingText is returned for a display request without usable text.
	ErrMissingText = errors.New("Missing 'text'")
	// ErrBodyTooLarge is returned when a request body exceeds 1 MiB.
	ErrBodyTooLarge = errors.New("request body too large")
)

// ServerOpts configures a Server.
type ServerOpts struct {
	Preset   string
	Size     image.Point // used for /health when no panel is open
	Typeface *Typeface
	Clock    clockwork.Clock
	Debug    bool
}

// Server renders posted text on the panel. mu serializes the current text
// and every draw.
type Server struct {
	panel    Panel
	bounds   image.Rectangle
	typeface *Typeface
	preset   string
	clock    clockwork.Clock
	debug    bool
	stats    func() (Stats, error)

	mu         sync.Mutex
	text       string
	generation uint64
}

// NewServer wraps panel, which may be nil when no display could be opened.
func NewServer(panel Panel, opts ServerOpts) *Server {
	s := &Server{
		panel:    panel,
		bounds:   image.Rectangle{Max: opts.Size},
		typeface: opts.Typeface,
		preset:   opts.Preset,
		clock:    opts.Clock,
		debug:    opts.Debug,
		stats:    CollectStats,
	}
	if panel != nil {
		s.bounds = panel.Bounds()
	}
	if s.typeface == nil {
		s.typeface = DefaultTypeface()
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s
}

// Text is the message last posted to /display.
func (s *Server) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverer)
	if s.debug {
		r.Use(requestLogger)
	}
	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/display", s.getDisplay).Methods("GET")
	r.HandleFunc("/display", s.postDisplay).Methods("POST")
	r.HandleFunc("/rgb", s.rgb).Methods("POST")
	r.HandleFunc("/qr", s.qr).Methods("POST")
	r.HandleFunc("/stats", s.getStats).Methods("GET")
	r.HandleFunc("/stats", s.postStats).Methods("POST")
	r.HandleFunc("/off", s.off).Methods("POST")
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{"ok": false, "error": err.Error()})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("%s %s: panic: %v", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, fmt.Errorf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	preset := s.preset
	if preset == "" {
		preset = "-"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"width":  s.bounds.Dx(),
		"height": s.bounds.Dy(),
		"preset": preset,
	})
}

func (s *Server) getDisplay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"text": s.Text()})
}

// requestText extracts the message from a JSON body, a plain text body, a
// form field or the query string, in that order.
func requestText(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", ErrBodyTooLarge
		}
		return "", errors.Wrap(err, "reading body")
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var msg string
	switch ct {
	case "application/json":
		msg = jsonText(body)
	case "text/plain":
		msg = string(body)
	case "application/x-www-form-urlencoded":
		if form, err := url.ParseQuery(string(body)); err == nil {
			msg = form.Get("text")
		}
	case "multipart/form-data":
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err := r.ParseMultipartForm(maxBodySize); err == nil {
			if v := r.MultipartForm.Value["text"]; len(v) > 0 {
				msg = v[0]
			}
		}
	}
	if strings.TrimSpace(msg) == "" {
		msg = r.URL.Query().Get("text")
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", ErrMissingText
	}
	return TruncateText(msg, MaxTextLength), nil
}

// jsonText reads the "text" member. Strings, non-zero numbers and true are
// used; zero, false, null, arrays and objects count as missing.
func jsonText(body []byte) string {
	var data map[string]interface{}
	if json.Unmarshal(body, &data) != nil {
		return ""
	}
	switch v := data["text"].(type) {
	case string:
		return v
	case float64:
		if v != 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	case bool:
		if v {
			return "true"
		}
	}
	return ""
}

// TruncateText keeps at most n characters of msg.
func TruncateText(msg string, n int) string {
	runes := []rune(msg)
	if len(runes) <= n {
		return msg
	}
	return string(runes[:n])
}

func (s *Server) postDisplay(w http.ResponseWriter, r *http.Request) {
	msg, err := requestText(w, r)
	switch {
	case err == ErrMissingText:
		writeError(w, http.StatusBadRequest, err)
		return
	case err == ErrBodyTooLarge:
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.Display(msg); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "displayed": msg})
}

// Display makes msg the current text and draws it.
func (s *Server) Display(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = msg
	s.generation++
	return s.show(RenderText(s.bounds, msg, ServerStyle, s.typeface))
}

// show draws img. The caller holds mu.
func (s *Server) show(img image.Image) error {
	if s.panel == nil {
		return ErrNoPanel
	}
	return Show(s.panel, img)
}

// drawFrame replaces whatever is on screen with img.
func (s *Server) drawFrame(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.show(img)
}

// RGB is a solid colour request.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

func (s *Server) rgb(w http.ResponseWriter, r *http.Request) {
	var c RGB
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("requires json body with R, G, and B keys, values 0-255"))
		return
	}
	if err := s.drawFrame(SolidFrame(s.bounds, RGBAColor(c))); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "color": c})
}

// QRFrame renders content as a QR code centred on white.
func QRFrame(bounds image.Rectangle, content string) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	side -= fitMargin
	frame := SolidFrame(bounds, White)
	code := q.Image(side)
	at := image.Pt((bounds.Dx()-code.Bounds().Dx())/2, (bounds.Dy()-code.Bounds().Dy())/2)
	drawOver(frame, code, at)
	return frame, nil
}

func (s *Server) qr(w http.ResponseWriter, r *http.Request) {
	content := r.URL.Query().Get("content")
	if content == "" {
		content = r.FormValue("content")
	}
	if content == "" {
		writeError(w, http.StatusBadRequest, errors.New("pass ?content= to render a QR code"))
		return
	}
	img, err := QRFrame(s.bounds, content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.drawFrame(img); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) postStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.drawFrame(StatsFrame(s.bounds, st, s.typeface)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) off(w http.ResponseWriter, r *http.Request) {
	if err := s.drawFrame(SolidFrame(s.bounds, Black)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	Backlight(s.panel, false)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// RandomPrice is the value shown by the centre button: "NNN kr".
func RandomPrice(r *rand.Rand) string {
	return fmt.Sprintf("%d kr", 100+r.Intn(900))
}

// Overlay shows value for d, then restores the current text unless something
// else was drawn in the meantime.
func (s *Server) Overlay(value string, d time.Duration) error {
	s.mu.Lock()
	gen := s.generation
	err := s.show(RenderFixedText(s.bounds, value, HelloStyle, s.typeface, OverlayFontSize))
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.clock.Sleep(d)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	if s.text == "" {
		return s.show(SolidFrame(s.bounds, Black))
	}
	return s.show(RenderText(s.bounds, s.text, ServerStyle, s.typeface))
}

// Listen opens the unix socket when one is configured, TCP otherwise.
func Listen(cfg ServerConfig) (net.Listener, error) {
	if cfg.Socket == "" {
		return net.Listen("tcp", cfg.Addr())
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Socket), 0755); err != nil {
		return nil, err
	}
	os.Remove(cfg.Socket)
	ln, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		return nil, err
	}
	os.Chmod(cfg.Socket, 0777)
	return ln, nil
}

// Serve handles requests on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}
