package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementSample = "motion_sample"
	MeasurementEvent  = "motion_event"
)

// WriteSample records one emitted snapshot. Fields are the flattened
// property values (vectors as name_x, name_y, name_z); origin names the
// controller that emitted them.
//
//	client.WriteSample("flicker", map[string]any{"sun_strength": 0.42}, time.Now())
func (c *Client) WriteSample(origin string, fields map[string]any, ts time.Time) {
	if !c.IsConnected() || len(fields) == 0 {
		return
	}
	c.writeAPI.WritePoint(samplePoint(c.site, origin, fields, ts))
}

// WriteEvent records a discrete event such as a sequence step, so sample
// graphs can be annotated with what caused them.
//
//	client.WriteEvent("sequence_step", "Bombing Raid", "transition Night")
func (c *Client) WriteEvent(kind, name, detail string) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(eventPoint(c.site, kind, name, detail, time.Now()))
}

func samplePoint(site, origin string, fields map[string]any, ts time.Time) *write.Point {
	return write.NewPoint(MeasurementSample, tags(site, map[string]string{"origin": origin}), fields, ts)
}

func eventPoint(site, kind, name, detail string, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEvent,
		tags(site, map[string]string{"kind": kind, "name": name}),
		map[string]any{"detail": detail},
		ts,
	)
}

func tags(site string, t map[string]string) map[string]string {
	if site != "" {
		t["site"] = site
	}
	return t
}
