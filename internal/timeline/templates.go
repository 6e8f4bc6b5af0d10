package timeline

import (
	"fmt"
	"sort"
	"strings"
)

// Builtin template names.
const (
	TemplateSunrise     = "Sunrise"
	TemplateSunset      = "Sunset"
	TemplateFadeToBlack = "Fade to Black"
	TemplateFOVZoom     = "FOV Zoom"
	TemplateColorShift  = "Color Shift"
)

var templates = map[string]Timeline{
	TemplateSunrise: New(
		Keyframe{Time: 0, Easing: Linear, Values: Snapshot{
			"sun_direction_y": Scalar(-10), "brightness": Scalar(-0.5), "sun_color": Vector3(0.8, 0.6, 0.4)}},
		Keyframe{Time: 3, Easing: Smooth, Values: Snapshot{
			"sun_direction_y": Scalar(20), "brightness": Scalar(-0.2), "sun_color": Vector3(1.0, 0.8, 0.6)}},
		Keyframe{Time: 5, Easing: EaseOut, Values: Snapshot{
			"sun_direction_y": Scalar(45), "brightness": Scalar(0.1), "sun_color": Vector3(1.2, 1.0, 0.8)}},
	),
	TemplateSunset: New(
		Keyframe{Time: 0, Easing: Linear, Values: Snapshot{
			"sun_direction_y": Scalar(45), "brightness": Scalar(0.1), "sun_color": Vector3(1.2, 1.0, 0.8)}},
		Keyframe{Time: 3, Easing: Smooth, Values: Snapshot{
			"sun_direction_y": Scalar(10), "brightness": Scalar(-0.2), "sun_color": Vector3(1.5, 0.7, 0.4)}},
		Keyframe{Time: 5, Easing: EaseIn, Values: Snapshot{
			"sun_direction_y": Scalar(-10), "brightness": Scalar(-0.6), "sun_color": Vector3(0.8, 0.4, 0.2)}},
	),
	TemplateFadeToBlack: New(
		Keyframe{Time: 0, Easing: Linear, Values: Snapshot{"brightness": Scalar(0)}},
		Keyframe{Time: 2, Easing: EaseIn, Values: Snapshot{"brightness": Scalar(-1)}},
	),
	TemplateFOVZoom: New(
		Keyframe{Time: 0, Easing: Linear, Values: Snapshot{"fov": Scalar(65)}},
		Keyframe{Time: 1, Easing: Smooth, Values: Snapshot{"fov": Scalar(30)}},
		Keyframe{Time: 3, Easing: EaseOut, Values: Snapshot{"fov": Scalar(65)}},
	),
	TemplateColorShift: New(
		Keyframe{Time: 0, Easing: Linear, Values: Snapshot{
			"sun_color": Vector3(1, 1, 1), "light_color": Vector3(1, 1, 1)}},
		Keyframe{Time: 2, Easing: Smooth, Values: Snapshot{
			"sun_color": Vector3(2, 0.5, 0.5), "light_color": Vector3(1.5, 0.7, 0.7)}},
		Keyframe{Time: 4, Easing: Smooth, Values: Snapshot{
			"sun_color": Vector3(0.5, 0.5, 2), "light_color": Vector3(0.7, 0.7, 1.5)}},
	),
}

// Template returns the builtin timeline with the given name, matched
// case-insensitively.
func Template(name string) (Timeline, error) {
	for k, tl := range templates {
		if strings.EqualFold(k, name) {
			return tl, nil
		}
	}
	return Timeline{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// TemplateNames lists the builtin templates alphabetically.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for k := range templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
