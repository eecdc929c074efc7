package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtimeline/api"
	"github.com/matt-g-everett/ledtimeline/scene"
	"github.com/matt-g-everett/ledtimeline/stream"
	"github.com/matt-g-everett/ledtimeline/timeline"
	"golang.org/x/sync/errgroup"
)

type app struct {
	Config    stream.Config
	Client    mqtt.Client
	Publisher *stream.MqttPublisher
	Timeline  *timeline.Timeline
	Streamer  *stream.Streamer
	Api       *api.Api
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) buildTimeline() error {
	sc, err := scene.Load(a.Config.Scene)
	if err != nil {
		return err
	}
	opts, err := sc.Options()
	if err != nil {
		return err
	}
	a.Timeline = timeline.New(opts...)
	a.Timeline.OnStart(func() { log.Println("Timeline started") })
	a.Timeline.OnEnd(func() { log.Println("Timeline ended") })

	built, err := sc.Build(a.Timeline, scene.Hooks{
		Event: stream.EventSink(a.Publisher, a.Config.Mqtt.Topics.Events),
	})
	if err != nil {
		return err
	}

	now := time.Now()
	controller := stream.NewController(a.Config.Stream.Duration, a.Config.Stream.Loop, now)
	animation := stream.NewTimelineAnimation(a.Config.Stream.Pixels, built.Background, built.Layers)
	a.Streamer = stream.NewStreamer(a.Config, a.Publisher, a.Timeline, animation, controller, built.Tracks)
	a.Api = api.NewApi(controller, a.Streamer)
	return nil
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Streamer.Run(ctx) })
	g.Go(func() error { return a.Api.Serve(ctx, a.Config.Api.Listen) })
	return g.Wait()
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	a.Config = config
	log.Printf("Broker: %s, scene: %s", a.Config.Mqtt.URL, a.Config.Scene)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Publisher = stream.NewMqttPublisher(a.Client)

	if err := a.buildTimeline(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := a.run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
