package pkg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// EnvFileName is the file every tool loads before reading its settings.
const EnvFileName = "lcd.env"

// EnvKeys are the keys lcd-config knows about, in prompt order.
var EnvKeys = []string{
	"LCD_PRESET",
	"LCD_PORT",
	"LCD_CS",
	"LCD_DC",
	"LCD_BL",
	"LCD_RST",
	"LCD_ROT",
	"LCD_SPEED",
	"LCD_WIDTH",
	"LCD_HEIGHT",
	"LCD_OX",
	"LCD_OY",
	"LCD_INVERT",
	"LCD_BL_ACTIVE",
	"LCD_DRIVER",
	"LCD_FB",
	"LCD_TESTPAT",
	"LCD_CYCLES",
	"LCD_DELAY_MS",
	"LCD_LOG_FILE",
	"BTN_UP",
	"BTN_DOWN",
	"BTN_LEFT",
	"BTN_RIGHT",
	"BTN_CENTER",
	"BTN_A",
	"BTN_B",
	"BTN_ACTIVE_LOW",
	"BTN_DEBOUNCE_MS",
	"BTN_BACKEND",
	"HTTP_HOST",
	"HTTP_PORT",
	"HTTP_DEBUG",
	"LISTEN_SOCKET",
}

// EnvDefaults match the Waveshare 1.44" HAT.
var EnvDefaults = map[string]string{
	"LCD_PRESET":      "waveshare144",
	"LCD_PORT":        "0",
	"LCD_CS":          "0",
	"LCD_DC":          "25",
	"LCD_BL":          "24",
	"LCD_RST":         "27",
	"LCD_ROT":         "0",
	"LCD_SPEED":       "4000000",
	"LCD_WIDTH":       "128",
	"LCD_HEIGHT":      "128",
	"LCD_OX":          "2",
	"LCD_OY":          "3",
	"LCD_INVERT":      "0",
	"LCD_BL_ACTIVE":   "1",
	"LCD_DRIVER":      DriverSPI,
	"LCD_FB":          "",
	"LCD_TESTPAT":     "0",
	"LCD_CYCLES":      "2",
	"LCD_DELAY_MS":    "500",
	LogFileKey:        "",
	"BTN_UP":          "6",
	"BTN_DOWN":        "19",
	"BTN_LEFT":        "5",
	"BTN_RIGHT":       "26",
	"BTN_CENTER":      "13",
	"BTN_A":           "21",
	"BTN_B":           "20",
	"BTN_ACTIVE_LOW":  "1",
	"BTN_DEBOUNCE_MS": "50",
	"BTN_BACKEND":     BackendRPIO,
	"HTTP_HOST":       "0.0.0.0",
	"HTTP_PORT":       "8080",
	"HTTP_DEBUG":      "0",
	"LISTEN_SOCKET":   "",
}

const (
	profileBlockBegin = "# >>> lcd.env (lcd-config) >>>"
	profileBlockEnd   = "# <<< lcd.env (lcd-config) <<<"
)

// DefaultEnvPaths is where tools look for lcd.env: $LCD_ENV_FILE, the working
// directory, then next to the executable.
func DefaultEnvPaths() []string {
	var paths []string
	if p := os.Getenv("LCD_ENV_FILE"); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, EnvFileName)
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), EnvFileName))
	}
	return paths
}

// LoadEnvFile loads the first existing file into the process environment
// without overriding variables that are already set. It returns the path it
// loaded, or "" when none exists.
func LoadEnvFile(paths ...string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return p, errors.Wrapf(err, "loading %s", p)
		}
		return p, nil
	}
	return "", nil
}

// ReadEnvFile parses an env file. A missing file yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if os.IsNotExist(errors.Cause(err)) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return values, nil
}

// WriteEnvFile writes the known keys present in values, in EnvKeys order.
func WriteEnvFile(path string, values map[string]string) error {
	lines := []string{"# Saved by lcd-config"}
	for _, k := range EnvKeys {
		if v, ok := values[k]; ok {
			lines = append(lines, fmt.Sprintf("%s=%s", k, v))
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ParseKVArgs splits KEY=VALUE arguments. Arguments without '=' are returned
// separately so the caller can report them.
func ParseKVArgs(args []string) (map[string]string, []string) {
	parsed := map[string]string{}
	var ignored []string
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			ignored = append(ignored, a)
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		parsed[k] = strings.TrimSpace(v)
	}
	return parsed, ignored
}

// ProfileBlock renders the export block appended to a shell profile.
func ProfileBlock(values map[string]string) string {
	lines := []string{profileBlockBegin}
	for _, k := range EnvKeys {
		if v, ok := values[k]; ok {
			lines = append(lines, fmt.Sprintf("export %s=%q", k, v))
		}
	}
	lines = append(lines, profileBlockEnd)
	return strings.Join(lines, "\n") + "\n"
}

// InstallProfileExports replaces any previous export block in profile with
// one built from values.
func InstallProfileExports(profile string, values map[string]string) error {
	data, err := os.ReadFile(profile)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "reading %s", profile)
	}
	txt := string(data)
	if begin := strings.Index(txt, profileBlockBegin); begin >= 0 {
		if end := strings.Index(txt[begin:], profileBlockEnd); end >= 0 {
			txt = txt[:begin] + txt[begin+end+len(profileBlockEnd):]
		}
	}
	txt = strings.TrimRight(txt, " \t\r\n") + "\n\n" + ProfileBlock(values)
	if err := os.WriteFile(profile, []byte(txt), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", profile)
	}
	return nil
}

// PromptValues asks for every key in EnvKeys on out, reading answers from in.
// An empty answer keeps the default, taken from existing, then lookup, then
// EnvDefaults.
func PromptValues(in io.Reader, out io.Writer, existing map[string]string, lookup LookupFunc) (map[string]string, error) {
	fmt.Fprintln(out, "LCD configuration (press Enter to accept defaults).")
	fmt.Fprintln(out)
	sc := bufio.NewScanner(in)
	values := map[string]string{}
	for _, k := range EnvKeys {
		def, ok := existing[k]
		if !ok {
			if def, ok = lookup(k); !ok {
				def = EnvDefaults[k]
			}
		}
		fmt.Fprintf(out, "%s [%s]: ", k, def)
		val := def
		if sc.Scan() {
			if answer := strings.TrimSpace(sc.Text()); answer != "" {
				val = answer
			}
		} else if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "reading answer")
		}
		values[k] = val
	}
	return values, nil
}

// SortedKeys is used when echoing values that are not in EnvKeys.
func SortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
