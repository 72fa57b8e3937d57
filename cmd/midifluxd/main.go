// Command midifluxd runs the MIDIFlux dispatch daemon: it loads a
// profile, opens every MIDI device the profile references, and routes
// incoming events to actions until a termination signal arrives.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DavidGamba/go-getoptions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/midiflux/midiflux/internal/action/effector"
	"github.com/midiflux/midiflux/internal/diag"
	"github.com/midiflux/midiflux/internal/dispatch"
	"github.com/midiflux/midiflux/internal/hardware"
	"github.com/midiflux/midiflux/internal/metrics"
	"github.com/midiflux/midiflux/internal/profile"
	"github.com/midiflux/midiflux/internal/settings"
)

var (
	commit    string
	version   string
	buildTime string
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	opt := getoptions.New()
	opt.Self("midifluxd", "MIDI event dispatch engine")
	opt.HelpSynopsisArg("", "")
	opt.HelpCommand("help", opt.Alias("h"), opt.Description("Show this help"))
	opt.Bool("list-devices", false, opt.Alias("l"), opt.Description("List MIDI in/out ports and exit"))
	opt.Bool("list-profiles", false, opt.Description("List discoverable profile files and exit"))
	opt.Bool("version", false, opt.Alias("v"), opt.Description("Show version and exit"))
	profilePath := opt.StringOptional("profile", "", opt.Description("Path to the profile JSON file to load"))
	profilesDir := opt.StringOptional("profiles-dir", "", opt.Description("Directory profiles are resolved against"))
	logLevel := opt.StringOptional("log-level", "", opt.Description("Log level: trace, debug, info, warn, error"))
	diagAddr := opt.StringOptional("diag-addr", "", opt.Description("Diagnostics websocket bind address"))
	metricsAddr := opt.StringOptional("metrics-addr", "", opt.Description("Prometheus metrics bind address (empty disables)"))
	opt.Parse(os.Args[1:])

	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if opt.Called("version") {
		fmt.Printf("midifluxd %s, commit %s, built %s\n", version, commit, buildTime)
		os.Exit(0)
	}
	if opt.Called("list-devices") {
		ins, outs, err := hardware.Ports()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to enumerate MIDI ports")
		}
		for _, p := range ins {
			fmt.Printf("in:\t%s\n", p)
		}
		for _, p := range outs {
			fmt.Printf("out:\t%s\n", p)
		}
		os.Exit(0)
	}

	cfg, cfgPath, err := settings.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}
	log.Info().Str("path", cfgPath).Msg("Loaded settings")

	if *profilesDir != "" {
		cfg.ProfilesDir = *profilesDir
	}

	if opt.Called("list-profiles") {
		found, err := profile.Discover(cfg.ProfilesDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.ProfilesDir).Msg("Failed to discover profiles")
		}
		for _, p := range found {
			fmt.Println(p)
		}
		os.Exit(0)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *diagAddr != "" {
		cfg.DiagAddr = *diagAddr
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	path := cfg.ProfilePath()
	if *profilePath != "" {
		path = *profilePath
	}

	effectors := &effector.Set{
		Keyboard: effector.NewLoggingKeyboard(log.Logger),
		Mouse:    effector.NewLoggingMouse(log.Logger),
		Gamepad:  effector.NewLoggingGamepad(log.Logger),
		Process:  effector.NewLoggingProcess(log.Logger),
		Audio:    effector.NewLoggingAudio(log.Logger),
	}
	manager := profile.NewManager(effectors)

	result, err := manager.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load profile")
	}
	log.Info().Str("profile", result.Profile.Name).Int("warnings", len(result.Warnings)).Int("rejected", len(result.Rejected)).Msg("Profile loaded")

	if err := manager.WatchFile(path); err != nil {
		log.Warn().Err(err).Msg("Profile hot-reload watch failed to start")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)
	metrics.RegistrySize.Set(float64(manager.Current().Registry.Size()))

	engine := dispatch.New(manager, cfg.LatencyThreshold)

	diagServer := diag.NewServer(cfg.DiagAddr)
	engine.AddTap(diagServer.Tap)
	go func() {
		if err := diagServer.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("Diagnostics server stopped")
		}
	}()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	devices := openAndRoute(result.Profile.Devices, effectors)
	defer closeDevices(devices)
	listenAll(devices, engine)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down")
}

// openAndRoute opens every device and wires effectors.MidiOut to a router
// over them before anything starts listening, so a MIDI-out action can
// never fire against a nil router (§6 MidiOutput effector contract).
func openAndRoute(devices []profile.DeviceBlock, effectors *effector.Set) []*hardware.Device {
	out := make([]*hardware.Device, 0, len(devices))
	for _, d := range devices {
		dev := hardware.NewDevice(d.DeviceName, d.DeviceName, d.DeviceName)
		if err := dev.Open(); err != nil {
			log.Error().Err(err).Str("device", d.DeviceName).Msg("Failed to open MIDI device")
			continue
		}
		out = append(out, dev)
	}
	effectors.MidiOut = hardware.NewRouter(out...)
	return out
}

func listenAll(devices []*hardware.Device, engine *dispatch.Engine) {
	for _, dev := range devices {
		if err := dev.Listen(engine.Handle); err != nil {
			log.Error().Err(err).Str("device", dev.DeviceID).Msg("Failed to listen on MIDI device")
			continue
		}
		log.Info().Str("device", dev.DeviceID).Msg("Listening for MIDI events")
	}
}

func closeDevices(devices []*hardware.Device) {
	for _, d := range devices {
		if err := d.Close(); err != nil {
			log.Warn().Err(err).Str("device", d.DeviceID).Msg("Error closing MIDI device")
		}
	}
}
