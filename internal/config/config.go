package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lightbar-service/internal/types"
)

const (
	MaxColors = 10

	// ValidityMarker is written as the last byte of every record.
	ValidityMarker = 0x0F

	// RecordSize is the packed size of the persisted record:
	// mode, brightness, colors[10], colorCount (int32 LE), effect, marker.
	RecordSize = 1 + 1 + MaxColors + 4 + 1 + 1

	offMode       = 0
	offBrightness = 1
	offColors     = 2
	offCount      = offColors + MaxColors
	offEffect     = offCount + 4
	offMarker     = offEffect + 1
)

var ErrInvalidRecord = errors.New("invalid configuration record")

// Config is the persisted lighting configuration.
type Config struct {
	Mode       types.Mode
	Brightness types.Brightness
	Colors     [MaxColors]types.Color
	ColorCount int
	Effect     types.Effect
}

// Default is what a device with no (or a corrupt) stored record runs with.
func Default() Config {
	c := Config{
		Mode:       types.ModeNormalPlusRGB,
		Brightness: types.BrightnessLow,
		ColorCount: 1,
		Effect:     types.EffectSingleFade,
	}
	c.Colors[0] = types.ColorWhite
	return c
}

// ActiveColors returns the configured color list.
func (c Config) ActiveColors() []types.Color {
	n := c.ColorCount
	if n < 0 {
		n = 0
	}
	if n > MaxColors {
		n = MaxColors
	}
	return c.Colors[:n]
}

func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: mode %d", ErrInvalidRecord, c.Mode)
	}
	if !c.Brightness.Valid() {
		return fmt.Errorf("%w: brightness %d", ErrInvalidRecord, c.Brightness)
	}
	if !c.Effect.Valid() {
		return fmt.Errorf("%w: effect %d", ErrInvalidRecord, c.Effect)
	}
	if c.ColorCount < 0 || c.ColorCount > MaxColors {
		return fmt.Errorf("%w: color count %d", ErrInvalidRecord, c.ColorCount)
	}
	for i, col := range c.Colors {
		if !col.Valid() {
			return fmt.Errorf("%w: color[%d] = %d", ErrInvalidRecord, i, col)
		}
	}
	return nil
}

func (c Config) MarshalBinary() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, RecordSize)
	buf[offMode] = byte(c.Mode)
	buf[offBrightness] = byte(c.Brightness)
	for i, col := range c.Colors {
		buf[offColors+i] = byte(col)
	}
	binary.LittleEndian.PutUint32(buf[offCount:], uint32(int32(c.ColorCount)))
	buf[offEffect] = byte(c.Effect)
	buf[offMarker] = ValidityMarker
	return buf, nil
}

func (c *Config) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: size %d, want %d", ErrInvalidRecord, len(data), RecordSize)
	}
	if data[offMarker] != ValidityMarker {
		return fmt.Errorf("%w: marker 0x%02x", ErrInvalidRecord, data[offMarker])
	}

	var out Config
	out.Mode = types.Mode(data[offMode])
	out.Brightness = types.Brightness(data[offBrightness])
	for i := range out.Colors {
		out.Colors[i] = types.Color(data[offColors+i])
	}
	out.ColorCount = int(int32(binary.LittleEndian.Uint32(data[offCount:])))
	out.Effect = types.Effect(data[offEffect])
	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// ColorList renders the active colors as "1,4,10" for status output.
func (c Config) ColorList() string {
	parts := make([]string, 0, c.ColorCount)
	for _, col := range c.ActiveColors() {
		parts = append(parts, strconv.Itoa(int(col)))
	}
	return strings.Join(parts, ",")
}

func (c Config) String() string {
	return fmt.Sprintf("mode=%s brightness=%s effect=%s colors=[%s]",
		c.Mode, c.Brightness, c.Effect, c.ColorList())
}

// ParseColorList reads the ColorList format back. An empty string is an
// empty list.
func ParseColorList(s string) ([]types.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > MaxColors {
		return nil, fmt.Errorf("%d colors, at most %d", len(parts), MaxColors)
	}
	out := make([]types.Color, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n >= types.PaletteSize {
			return nil, fmt.Errorf("invalid color %q", p)
		}
		out = append(out, types.Color(n))
	}
	return out, nil
}
