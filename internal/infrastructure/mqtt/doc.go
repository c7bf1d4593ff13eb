// Package mqtt connects gucfop to an MQTT broker.
//
// The ingest pump subscribes through it and `gucfop points publish` sends
// records through it. Subscriptions are remembered and re-established
// after an automatic reconnect. Each client announces itself with a
// retained status message and registers an offline Last Will.
//
// # Topics
//
//	gucfop/points/{measurement}   one JSON record per message
//	gucfop/status/{client_id}     retained online/offline status
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllPoints(), client.QoS(),
//	    func(topic string, payload []byte) error {
//	        record, err := timeseries.ParseRecord(payload)
//	        ...
//	    })
package mqtt
