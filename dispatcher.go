package main

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

type EventListener struct {
	ch chan []byte
}

// EventDispatcher fans state events out to websocket listeners; events
// with an mqtt/ source prefix are published to the broker instead.
type EventDispatcher struct {
	listeners  map[*EventListener]bool
	broadcast  chan []byte
	register   chan *EventListener
	deregister chan *EventListener
}

var Dispatcher *EventDispatcher = newEventDispatcher()

var mqttClient mqtt.Client

func newEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *EventListener),
		deregister: make(chan *EventListener),
		listeners:  make(map[*EventListener]bool),
	}
}

type broadcastEvent struct {
	Source string      `json:"source"`
	Data   interface{} `json:"data"`
}

func serializeEvent(source string, data interface{}) []byte {
	msg, _ := json.Marshal(&broadcastEvent{Source: source, Data: data})
	return msg
}

func (d *EventDispatcher) broadcastEvent(source string, data interface{}) {
	if strings.HasPrefix(source, "mqtt/") {
		if mqttClient != nil {
			topic := source[5:]
			value := fmt.Sprintf("%v", data)
			log.Debugf("MQTT PUB: %s -> %s", topic, value)
			_ = mqttClient.Publish(topic, 0, true, value)
		}
	} else {
		d.broadcast <- serializeEvent(source, data)
	}
}

func (h *EventDispatcher) run() {
	for {
		select {
		case listener := <-h.register:
			h.listeners[listener] = true
		case listener := <-h.deregister:
			if _, ok := h.listeners[listener]; ok {
				delete(h.listeners, listener)
				close(listener.ch)
			}
		case message := <-h.broadcast:
			for listener := range h.listeners {
				select {
				case listener.ch <- message:
				default:
					close(listener.ch)
					delete(h.listeners, listener)
				}
			}
		}
	}
}

// handle messages
// topics: mideair/SETTING/set
// where SETTING is power, mode, fan, temperature or deflector
func mqttMessageHandler(client mqtt.Client, msg mqtt.Message) {
	log.Infof("MQTT: received message: %s from topic: %s", msg.Payload(), msg.Topic())

	ts := strings.Split(msg.Topic(), "/")
	ps := string(msg.Payload())

	if len(ts) == 3 && ts[0] == "mideair" && ts[2] == "set" {
		_ = putState(ts[1], ps)
	} else {
		log.Errorf("mqtt received unexpected topic '%s'", msg.Topic())
	}
}

func ConnectMqtt(url string, password string) {

	// set mqtt client options
	co := mqtt.NewClientOptions()
	co.AddBroker(url)
	co.SetPassword(password)
	co.SetClientID("mideair_mqtt_client")

	// create client
	cl := mqtt.NewClient(co)

	// connect
	t := cl.Connect()
	t.Wait()
	if t.Error() != nil {
		log.Error("MQTT: failed to connect to MQTT broker: ", t.Error())
		return
	}
	log.Info("MQTT: connected to MQTT broker")
	mqttClient = cl

	// subscribe
	t = cl.Subscribe("mideair/+/set", 0, mqttMessageHandler)
	t.Wait()
	if t.Error() != nil {
		log.Error("MQTT: failed to subscribe for mideair/+/set: ", t.Error())
	} else {
		log.Info("MQTT: subscribe succeeded for mideair/+/set")
	}
}

func init() {
	go Dispatcher.run()
}
