package pkg

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"
)

// LookupFunc reads one configuration value. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

const (
	DriverSPI   = "spi"
	DriverFBTFT = "fbtft"
)

// LCDConfig is the panel geometry and wiring read from lcd.env and the
// environment.
type LCDConfig struct {
	Preset string
	Driver string

	Port  int // SPI bus
	CS    int // chip select
	DC    int // BCM data/command line
	BL    int // BCM backlight line
	RST   int // BCM reset line, -1 when not wired
	Speed int // Hz

	Rotation int // degrees
	Width    int
	Height   int
	OffsetX  int
	OffsetY  int

	Invert              bool
	BacklightActiveHigh bool
	TestPattern         bool

	Framebuffer string // fbtft device, empty to auto-detect
}

// presets hold the values a named board implies. They only fill in keys that
// were not set explicitly.
var presets = map[string]map[string]string{
	"waveshare144": {
		"LCD_DC":     "25",
		"LCD_BL":     "24",
		"LCD_RST":    "27",
		"LCD_CS":     "0",
		"LCD_PORT":   "0",
		"LCD_ROT":    "0",
		"LCD_WIDTH":  "128",
		"LCD_HEIGHT": "128",
		"LCD_OX":     "2",
		"LCD_OY":     "3",
	},
}

var presetAliases = map[string]string{
	"waveshare144":   "waveshare144",
	"waveshare-1.44": "waveshare144",
	"waveshare":      "waveshare144",
}

type env struct {
	lookup LookupFunc
	preset map[string]string
}

func (e env) raw(key string) (string, bool) {
	if v, ok := e.lookup(key); ok {
		return strings.TrimSpace(v), true
	}
	if v, ok := e.preset[key]; ok {
		return v, true
	}
	return "", false
}

func (e env) Int(key string, def int) int {
	v, ok := e.raw(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("ignoring %s=%q: not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func (e env) Bool(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	return ParseBool(v)
}

func (e env) String(key, def string) string {
	v, ok := e.raw(key)
	if !ok || v == "" {
		return def
	}
	return v
}

// ParseBool accepts the spellings the shell scripts used for "on".
func ParseBool(v string) bool {
	switch strings.TrimSpace(v) {
	case "1", "true", "True", "yes", "on":
		return true
	}
	return false
}

// LoadLCDConfig reads the LCD_* keys, applying LCD_PRESET underneath them.
func LoadLCDConfig(lookup LookupFunc) LCDConfig {
	e := env{lookup: lookup}
	preset := strings.ToLower(e.String("LCD_PRESET", ""))
	if name, ok := presetAliases[preset]; ok {
		e.preset = presets[name]
	}
	return LCDConfig{
		Preset:              preset,
		Driver:              strings.ToLower(e.String("LCD_DRIVER", DriverSPI)),
		Port:                e.Int("LCD_PORT", 0),
		CS:                  e.Int("LCD_CS", 0),
		DC:                  e.Int("LCD_DC", 9),
		BL:                  e.Int("LCD_BL", 19),
		RST:                 e.Int("LCD_RST", -1),
		Speed:               e.Int("LCD_SPEED", 4000000),
		Rotation:            e.Int("LCD_ROT", 90),
		Width:               e.Int("LCD_WIDTH", 128),
		Height:              e.Int("LCD_HEIGHT", 128),
		OffsetX:             e.Int("LCD_OX", 0),
		OffsetY:             e.Int("LCD_OY", 0),
		Invert:              e.Bool("LCD_INVERT", false),
		BacklightActiveHigh: e.Bool("LCD_BL_ACTIVE", true),
		TestPattern:         e.Bool("LCD_TESTPAT", false),
		Framebuffer:         e.String("LCD_FB", ""),
	}
}

func (c LCDConfig) String() string {
	preset := c.Preset
	if preset == "" {
		preset = "-"
	}
	rst := "-"
	if c.RST >= 0 {
		rst = strconv.Itoa(c.RST)
	}
	return fmt.Sprintf("preset=%s driver=%s port=%d cs=%d dc=%d rst=%s bl=%d rot=%d speed=%d width=%d height=%d ox=%d oy=%d invert=%v bl_active_high=%v",
		preset, c.Driver, c.Port, c.CS, c.DC, rst, c.BL, c.Rotation, c.Speed, c.Width, c.Height, c.OffsetX, c.OffsetY, c.Invert, c.BacklightActiveHigh)
}

// Button is one named joystick direction or key.
type Button struct {
	Name string
	Pin  int
}

// ButtonNames lists the HAT inputs in display order.
var ButtonNames = []string{"BTN_UP", "BTN_DOWN", "BTN_LEFT", "BTN_RIGHT", "BTN_CENTER", "BTN_A", "BTN_B"}

var buttonDefaults = map[string]int{
	"BTN_UP":     6,
	"BTN_DOWN":   19,
	"BTN_LEFT":   5,
	"BTN_RIGHT":  26,
	"BTN_CENTER": 13,
	"BTN_A":      21,
	"BTN_B":      20,
}

// ButtonSet is the BTN_* mapping of the HAT.
type ButtonSet struct {
	Buttons   []Button
	ActiveLow bool
	Debounce  time.Duration
	Backend   string
}

// LoadButtonSet reads the BTN_* keys.
func LoadButtonSet(lookup LookupFunc) ButtonSet {
	e := env{lookup: lookup}
	set := ButtonSet{
		ActiveLow: e.Bool("BTN_ACTIVE_LOW", true),
		Debounce:  time.Duration(e.Int("BTN_DEBOUNCE_MS", 50)) * time.Millisecond,
		Backend:   strings.ToLower(e.String("BTN_BACKEND", BackendRPIO)),
	}
	for _, name := range ButtonNames {
		set.Buttons = append(set.Buttons, Button{Name: name, Pin: e.Int(name, buttonDefaults[name])})
	}
	return set
}

// Enabled drops buttons whose pin is negative.
func (s ButtonSet) Enabled() []Button {
	var out []Button
	for _, b := range s.Buttons {
		if b.Pin >= 0 {
			out = append(out, b)
		}
	}
	return out
}

// Lookup returns the button with the given name.
func (s ButtonSet) Lookup(name string) (Button, bool) {
	for _, b := range s.Buttons {
		if b.Name == name {
			return b, b.Pin >= 0
		}
	}
	return Button{}, false
}

// ServerConfig is the listen address of lcd-server.
type ServerConfig struct {
	Host   string
	Port   int
	Socket string
	Debug  bool
}

// LoadServerConfig reads HTTP_HOST, HTTP_PORT, LISTEN_SOCKET and HTTP_DEBUG.
func LoadServerConfig(lookup LookupFunc) ServerConfig {
	e := env{lookup: lookup}
	return ServerConfig{
		Host:   e.String("HTTP_HOST", "0.0.0.0"),
		Port:   e.Int("HTTP_PORT", 8080),
		Socket: e.String("LISTEN_SOCKET", ""),
		Debug:  e.Bool("HTTP_DEBUG", false),
	}
}

// Addr is the TCP address to listen on.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LookupInt reads an integer setting that is specific to one tool.
func LookupInt(lookup LookupFunc, key string, def int) int {
	return env{lookup: lookup}.Int(key, def)
}
