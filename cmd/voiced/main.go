// voiced - utterance routing daemon with a voice-agent tool set
// Serves the routing API over HTTP and websockets.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/voiceagi/go-voiceagi/internal/config"
	"github.com/voiceagi/go-voiceagi/internal/log"
	"github.com/voiceagi/go-voiceagi/pkg/agent"
	"github.com/voiceagi/go-voiceagi/pkg/extract"
	"github.com/voiceagi/go-voiceagi/pkg/nlu"
	"github.com/voiceagi/go-voiceagi/pkg/router"
	"github.com/voiceagi/go-voiceagi/pkg/web"
)

type options struct {
	port     string
	nluURL   string
	nluModel string
	window   int
	noNLU    bool
	classify bool
	logLevel string
}

func main() {
	opts := parseFlags()
	log.Init(opts.logLevel)

	app, err := buildAgent(opts)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(app, opts.port)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		server.Shutdown()
	}()

	if err := server.Start(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags; env vars provide the defaults.
func parseFlags() options {
	var opts options
	flag.StringVar(&opts.port, "port", config.Port(), "HTTP listen port")
	flag.StringVar(&opts.nluURL, "nlu-url", config.NLUURL(), "OpenAI-compatible NLU endpoint")
	flag.StringVar(&opts.nluModel, "nlu-model", config.NLUModel(), "NLU model name")
	flag.IntVar(&opts.window, "window", config.Window(), "Conversation turn window per session")
	flag.BoolVar(&opts.noNLU, "no-nlu", false, "Disable the external NLU fallback (heuristics only)")
	flag.BoolVar(&opts.classify, "classify", false, "Attach advisory NLU intent labels to results")
	flag.StringVar(&opts.logLevel, "log-level", config.LogLevel(), "Log level: debug, info, warn, error")
	flag.Parse()
	return opts
}

// buildAgent wires the routing stack from the parsed options.
func buildAgent(opts options) (*agent.App, error) {
	var provider nlu.Provider
	if !opts.noNLU {
		client, err := nlu.NewClient(
			nlu.WithBaseURL(opts.nluURL),
			nlu.WithModel(opts.nluModel),
			nlu.WithAPIKey(config.NLUKey()),
		)
		if err != nil {
			return nil, err
		}
		provider = client
		log.Info("NLU fallback enabled", "url", opts.nluURL, "model", opts.nluModel)
	} else {
		log.Info("NLU fallback disabled, heuristics only")
	}

	extractorOpts := []extract.Option{}
	if provider != nil {
		extractorOpts = append(extractorOpts, extract.WithNLU(provider))
	}
	extractor, err := extract.NewExtractor(extractorOpts...)
	if err != nil {
		return nil, err
	}

	routerOpts := []router.Option{router.WithExtractor(extractor)}
	if opts.classify && provider != nil {
		routerOpts = append(routerOpts, router.WithClassifier(provider))
	}
	rt, err := router.New(routerOpts...)
	if err != nil {
		return nil, err
	}

	return agent.New(
		agent.WithRouter(rt),
		agent.WithWindow(opts.window),
	)
}
