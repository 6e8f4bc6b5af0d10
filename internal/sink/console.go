package sink

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Property IDs understood by the console formatter.
const (
	PropSunStrength   timeline.PropertyID = "sun_strength"
	PropSunDirectionX timeline.PropertyID = "sun_direction_x"
	PropSunDirectionY timeline.PropertyID = "sun_direction_y"
	PropSunColor      timeline.PropertyID = "sun_color"
	PropBrightness    timeline.PropertyID = "brightness"
	PropContrast      timeline.PropertyID = "contrast"
	PropDesaturation  timeline.PropertyID = "desaturation"
	PropLightColor    timeline.PropertyID = "light_color"
	PropDarkColor     timeline.PropertyID = "dark_color"
	PropFogStart      timeline.PropertyID = "fog_start"
	PropFogColor      timeline.PropertyID = "fog_color"
	PropFOV           timeline.PropertyID = "fov"
)

// consoleCommands maps properties to console variables in output order.
// Sun direction and field of view are formatted separately.
var consoleCommands = []struct {
	id    timeline.PropertyID
	cmd   string
	color bool
}{
	{PropSunStrength, "r_lighttweaksunlight", false},
	{PropSunColor, "r_lighttweaksuncolor", true},
	{PropBrightness, "r_filmtweakbrightness", false},
	{PropContrast, "r_filmtweakcontrast", false},
	{PropDesaturation, "r_filmtweakdesaturation", false},
	{PropLightColor, "r_filmtweaklighttint", true},
	{PropDarkColor, "r_filmtweakdarktint", true},
	{PropFogStart, "mvm_fog_start", false},
	{PropFogColor, "mvm_fog_color", true},
}

// CommandSeparator joins the commands of one snapshot into a single batch.
const CommandSeparator = ";"

// ConsoleFormatter renders snapshots as console command batches.
//
// Sun direction is one command taking both axes. When a snapshot carries
// only one axis, the other is taken from the last direction the formatter
// rendered, starting at zero.
type ConsoleFormatter struct {
	mu   sync.Mutex
	dirX float64
	dirY float64
}

// Format returns the commands for snap, in a fixed order. Unknown
// properties and values of the wrong shape are skipped.
func (f *ConsoleFormatter) Format(snap timeline.Snapshot) []string {
	var lines []string

	for i, c := range consoleCommands {
		if c.color {
			lines = appendColor(lines, snap, c.id, c.cmd)
		} else if v, ok := scalar(snap, c.id); ok {
			lines = append(lines, fmt.Sprintf("%s %.2f", c.cmd, v))
		}
		if i == 0 {
			lines = f.appendDirection(lines, snap)
		}
	}

	if v, ok := scalar(snap, PropFOV); ok {
		lines = append(lines, fmt.Sprintf("cg_fov %d", int(v)))
	}
	return lines
}

func (f *ConsoleFormatter) appendDirection(lines []string, snap timeline.Snapshot) []string {
	x, hasX := scalar(snap, PropSunDirectionX)
	y, hasY := scalar(snap, PropSunDirectionY)
	if !hasX && !hasY {
		return lines
	}

	f.mu.Lock()
	if hasX {
		f.dirX = x
	}
	if hasY {
		f.dirY = y
	}
	x, y = f.dirX, f.dirY
	f.mu.Unlock()

	return append(lines, fmt.Sprintf("r_lighttweaksundirection %.2f %.2f", x, y))
}

// FormatBatch joins Format's output with CommandSeparator.
func (f *ConsoleFormatter) FormatBatch(snap timeline.Snapshot) string {
	return strings.Join(f.Format(snap), CommandSeparator)
}

func scalar(snap timeline.Snapshot, id timeline.PropertyID) (float64, bool) {
	v, ok := snap[id]
	if !ok {
		return 0, false
	}
	return v.Float()
}

func appendColor(lines []string, snap timeline.Snapshot, id timeline.PropertyID, cmd string) []string {
	v, ok := snap[id]
	if !ok {
		return lines
	}
	c, ok := v.Vec()
	if !ok {
		return lines
	}
	return append(lines, fmt.Sprintf("%s %.2f %.2f %.2f", cmd, c[0], c[1], c[2]))
}
