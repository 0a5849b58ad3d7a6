package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gpsfeed/internal/config"
	"gpsfeed/internal/gps"
	"gpsfeed/internal/mqtt"
	"gpsfeed/internal/pps"
	"gpsfeed/internal/tracklog"
	"gpsfeed/internal/udp"
	"gpsfeed/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./gpsfeed.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := gps.New(gps.Config{
		Device: cfg.Serial.Device,
		Baud:   cfg.Serial.Baud,
		Replay: gps.ReplayConfig{
			Enable: cfg.Replay.Enable,
			Path:   cfg.Replay.Path,
			Speed:  cfg.Replay.Speed,
			Loop:   cfg.Replay.Loop,
		},
	})

	var forwarder *udp.Forwarder
	if cfg.Forward.Enable {
		forwarder, err = udp.NewForwarder(cfg.Forward.Dest)
		if err != nil {
			log.Fatalf("udp forwarder init failed: %v", err)
		}
		defer forwarder.Close()
		log.Printf("udp forward dest=%s", cfg.Forward.Dest)
	}

	var publisher *mqtt.Publisher
	if cfg.MQTT.Enable {
		publisher, err = mqtt.NewPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			log.Fatalf("mqtt init failed: %v", err)
		}
		defer publisher.Close()
		log.Printf("mqtt broker=%s topic=%s", cfg.MQTT.Broker, cfg.MQTT.Topic)
	}

	var track *tracklog.Log
	if cfg.TrackLog.Enable {
		track, err = tracklog.Open(cfg.TrackLog.Path)
		if err != nil {
			log.Fatalf("track log init failed: %v", err)
		}
		defer track.Close()
		log.Printf("track log path=%s", cfg.TrackLog.Path)
	}

	var hub *web.Hub
	if cfg.Web.Enable {
		hub = web.NewHub()
		defer hub.Close()
		go func() {
			if err := web.Serve(ctx, cfg.Web.Listen, svc.Snapshot, hub); err != nil && ctx.Err() == nil {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
		log.Printf("web listen=%s", cfg.Web.Listen)
	}

	if cfg.PPS.Enable {
		watcher := pps.NewWatcher()
		if err := watcher.Start(cfg.PPS.Chip, cfg.PPS.Line); err != nil {
			log.Printf("pps disabled: %v", err)
		} else {
			defer watcher.Close()
			log.Printf("pps chip=%s line=%d", cfg.PPS.Chip, cfg.PPS.Line)
		}
	}

	svc.OnFix = func(snap gps.Snapshot) {
		if publisher != nil {
			if err := publisher.Publish(snap); err != nil {
				log.Printf("mqtt publish failed: %v", err)
			}
		}
		if track != nil {
			if err := track.Record(time.Now(), snap); err != nil {
				log.Printf("track log write failed: %v", err)
			}
		}
		if hub != nil {
			hub.Broadcast(snap)
		}
	}
	if forwarder != nil {
		svc.OnSentence = func(sentence string) {
			if err := forwarder.Forward(sentence); err != nil {
				log.Printf("udp forward failed: %v", err)
			}
		}
	}

	if err := svc.Start(ctx); err != nil {
		log.Fatalf("gps feed start failed: %v", err)
	}
	defer svc.Close()

	log.Printf("gpsfeed starting")
	<-ctx.Done()
	log.Printf("gpsfeed stopping")
}
