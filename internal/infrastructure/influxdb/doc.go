// Package influxdb records motion to InfluxDB for later review.
//
// Every snapshot the emitter delivers becomes a motion_sample point
// tagged with its origin (keyframes, flicker, transition, ...), and
// sequence steps become motion_event points. Graphing sun_strength over
// a sequence run shows exactly what the game was sent.
//
// Writes are non-blocking and batched by the client library; failures
// arrive on the SetOnError callback.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Site.ID)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // recording is optional
//	}
//	defer client.Close()
//
//	out := sink.NewRecorder(mqttSink, client)
package influxdb
