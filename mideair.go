package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

var remote *Remote
var disp *display

func statsPoller() {
	for {
		s := remote.stats()
		log.Infof("#STATS# frames:%d repeats:%d busyRejects:%d", s.Frames, s.Repeats, s.BusyRejects)

		time.Sleep(time.Second * 15)
	}
}

func main() {
	httpPort := flag.Int("httpport", 8080, "HTTP port to listen on")
	irPin := flag.Int("irpin", 18, "GPIO pin driving the IR LED")
	activeLow := flag.Bool("activelow", false, "IR LED is wired active-low")
	displayPort := flag.String("display", "", "serial device of the 7-segment display (optional)")
	journalPath := flag.String("journal", "", "path to the transmit journal (optional)")
	mqttURL := flag.String("mqtt", "", "MQTT broker url, e.g. tcp://host:1883 (optional)")
	mqttPass := flag.String("mqttpass", "", "MQTT broker password")
	doDebugLog := flag.Bool("debug", false, "enable debug log level")

	flag.Parse()

	loglevel := log.InfoLevel
	if *doDebugLog {
		loglevel = log.DebugLevel
	}
	log.SetLevel(loglevel)

	line, err := openGPIOLine(*irPin, *activeLow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open IR output: %s\n", err.Error())
		os.Exit(1)
	}
	defer line.Close()

	txlog := openJournal(*journalPath)
	defer txlog.Close()

	remote = newRemote(line, &tickerTimer{}, txlog)

	disp = openDisplay(*displayPort)
	defer disp.Close()
	disp.showState(state.get())

	if *mqttURL != "" {
		ConnectMqtt(*mqttURL, *mqttPass)
	}

	// seed the caches so websocket subscribers always get a snapshot
	stateCache.update("acstate", state.snapshot())

	go statsPoller()
	webserver(*httpPort)
}
