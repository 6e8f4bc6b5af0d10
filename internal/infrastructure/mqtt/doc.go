// Package mqtt connects the studio to an MQTT broker.
//
// The broker is how emitted snapshots reach the game: a bridge process
// next to the game subscribes to the snapshot and command topics and
// executes what it receives. The same bridge may report the values the
// game currently holds on the state report topic so effects start from
// the real baseline.
//
//	graymotion/state/snapshot   one batched message per emitted snapshot
//	graymotion/command          raw console command lines
//	graymotion/state/report     values reported back by the bridge
//	graymotion/system/status    retained online/offline, with an LWT
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, mqtt.NewTopics(cfg.Sink.TopicPrefix))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	out := sink.NewMQTTSink(client, sink.MQTTConfig{
//	    SnapshotTopic: client.Topics().StateSnapshot(),
//	    CommandTopic:  client.Topics().Command(),
//	})
package mqtt
