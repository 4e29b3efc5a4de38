package st7735

// ST7735 command set, as named in the Sitronix datasheet.
const (
	NOP     = 0x00
	SWRESET = 0x01
	RDDID   = 0x04
	RDDST   = 0x09

	SLPIN  = 0x10
	SLPOUT = 0x11
	PTLON  = 0x12
	NORON  = 0x13

	INVOFF  = 0x20
	INVON   = 0x21
	DISPOFF = 0x28
	DISPON  = 0x29

	CASET = 0x2A
	RASET = 0x2B
	RAMWR = 0x2C
	RAMRD = 0x2E

	PTLAR  = 0x30
	MADCTL = 0x36
	COLMOD = 0x3A

	FRMCTR1 = 0xB1
	FRMCTR2 = 0xB2
	FRMCTR3 = 0xB3
	INVCTR  = 0xB4
	DISSET5 = 0xB6

	PWCTR1 = 0xC0
	PWCTR2 = 0xC1
	PWCTR3 = 0xC2
	PWCTR4 = 0xC3
	PWCTR5 = 0xC4
	VMCTR1 = 0xC5

	GMCTRP1 = 0xE0
	GMCTRN1 = 0xE1
)

// MADCTL bits.
const (
	MADCTL_MY  = 0x80
	MADCTL_MX  = 0x40
	MADCTL_MV  = 0x20
	MADCTL_ML  = 0x10
	MADCTL_BGR = 0x08
	MADCTL_MH  = 0x04
)

// Rotation is the clock-wise orientation of the panel glass relative to the
// frames passed to Draw.
type Rotation uint8

const (
	NO_ROTATION  Rotation = 0
	ROTATION_90  Rotation = 1 // 90 degrees clock-wise rotation
	ROTATION_180 Rotation = 2
	ROTATION_270 Rotation = 3
)

// RotationFromDegrees maps 0/90/180/270 to a Rotation. Other values are
// rounded down to the previous quarter turn.
func RotationFromDegrees(deg int) Rotation {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return Rotation(deg / 90)
}

// Degrees returns the rotation as an angle.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}
