package pkg

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"net"
	"strings"

	human "github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"
)

// Stats is a snapshot of the host.
type Stats struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemPercent  float64 `json:"mem_percent"`
	DiskUsed    string  `json:"disk_used"`
	DiskTotal   string  `json:"disk_total"`
	DiskPercent float64 `json:"disk_percent"`
	IPv4        string  `json:"ipv4"`
}

// StatsMount is the filesystem reported by CollectStats.
var StatsMount = "/"

// CollectStats samples CPU, memory and disk usage and the first non-loopback
// IPv4 address.
func CollectStats() (Stats, error) {
	var st Stats
	cpuUsage, err := cpu.Percent(0, false)
	if err != nil {
		return st, errors.Wrap(err, "cpu usage")
	}
	if len(cpuUsage) > 0 {
		st.CPUPercent = cpuUsage[0]
	}
	v, err := mem.VirtualMemory()
	if err != nil {
		return st, errors.Wrap(err, "memory usage")
	}
	st.MemPercent = v.UsedPercent
	d, err := disk.Usage(StatsMount)
	if err != nil {
		return st, errors.Wrapf(err, "disk usage of %s", StatsMount)
	}
	st.DiskUsed = human.Bytes(d.Used)
	st.DiskTotal = human.Bytes(d.Total)
	st.DiskPercent = d.UsedPercent
	st.IPv4 = firstIPv4()
	return st, nil
}

func firstIPv4() string {
	interfaces, _ := net.Interfaces()
	for _, inter := range interfaces {
		if inter.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := inter.Addrs()
		for _, addr := range addrs {
			ip := addr.String()
			if strings.Contains(ip, ".") {
				if i := strings.IndexByte(ip, '/'); i >= 0 {
					ip = ip[:i]
				}
				return ip
			}
		}
	}
	return ""
}

var (
	statsBackground = color.RGBA{51, 51, 51, 255}
	statsLabel      = color.RGBA{160, 160, 160, 255}
	statsBar        = color.RGBA{70, 70, 70, 255}
)

// UsageColor is green up to 40%, amber up to 70% and red above.
func UsageColor(percent float64) color.Color {
	switch {
	case percent > 70:
		return color.RGBA{244, 199, 195, 255}
	case percent > 40:
		return color.RGBA{252, 232, 178, 255}
	}
	return color.RGBA{183, 225, 205, 255}
}

// StatsFrame draws CPU and memory percentages, a disk usage bar and the IP
// address.
func StatsFrame(bounds image.Rectangle, st Stats, tf *Typeface) image.Image {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetColor(statsBackground)
	dc.Clear()

	text := func(size float64, c color.Color, s string, x, y float64) {
		if face, err := tf.Face(size); err == nil {
			dc.SetFontFace(face)
		}
		dc.SetColor(c)
		dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
	}
	small, big := math.Max(8, h/12), math.Max(10, h/7)

	text(small, statsLabel, "CPU", w/4, h*0.1)
	text(big, UsageColor(st.CPUPercent), fmt.Sprintf("%v%%", math.Round(st.CPUPercent)), w/4, h*0.27)
	text(small, statsLabel, "MEM", w*3/4, h*0.1)
	text(big, UsageColor(st.MemPercent), fmt.Sprintf("%v%%", math.Round(st.MemPercent)), w*3/4, h*0.27)

	barX, barY, barW, barH := w*0.08, h*0.45, w*0.84, h*0.18
	dc.DrawRoundedRectangle(barX, barY, barW, barH, 3)
	dc.SetColor(statsLabel)
	dc.Fill()
	dc.DrawRoundedRectangle(barX+1, barY+1, barW-2, barH-2, 2)
	dc.SetColor(statsBackground)
	dc.Fill()
	dc.DrawRoundedRectangle(barX+1, barY+1, (st.DiskPercent/100)*(barW-2), barH-2, 2)
	dc.SetColor(statsBar)
	dc.Fill()
	text(small, statsLabel, fmt.Sprintf("%s / %s", st.DiskUsed, st.DiskTotal), w/2, barY+barH/2)

	ip := st.IPv4
	if ip == "" {
		ip = "Disconnected"
	}
	text(small, statsLabel, ip, w/2, h*0.82)
	return dc.Image()
}
