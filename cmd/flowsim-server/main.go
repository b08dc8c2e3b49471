package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dd0wney/cluso-flowsim/pkg/api"
	"github.com/dd0wney/cluso-flowsim/pkg/flow"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/metrics"
	"github.com/dd0wney/cluso-flowsim/pkg/pubsub"
	"github.com/dd0wney/cluso-flowsim/pkg/server"
	"github.com/dd0wney/cluso-flowsim/pkg/sim"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	process := flag.String("process", "supply-chain", "Process type (supply-chain, maintenance, production)")
	chains := flag.Int("chains", sim.DefaultChainCount, "Number of process chains")
	speed := flag.Int("speed", 1, "Playback speed (1, 2 or 4)")
	perturb := flag.Bool("perturb", true, "Enable random blocked-state perturbation")
	templatePath := flag.String("template", "", "Optional YAML process template overriding the built-in one")
	flag.Parse()

	log := logging.DefaultLogger().With(logging.Component("flowsim-server"))

	var tmpl *flow.TemplateSpec
	if *templatePath != "" {
		var err error
		tmpl, err = flow.LoadTemplate(*templatePath)
		if err != nil {
			log.Error("load template", logging.Error(err))
			os.Exit(1)
		}
	}

	reg := metrics.NewRegistry()
	bus := pubsub.NewBus()
	defer bus.Shutdown()

	engine, err := sim.New(sim.Config{
		ProcessType:  flow.ProcessType(*process),
		Template:     tmpl,
		ChainCount:   *chains,
		Speed:        *speed,
		Perturbation: *perturb,
		Bus:          bus,
		Metrics:      reg,
	})
	if err != nil {
		log.Error("construct engine", logging.Error(err))
		os.Exit(1)
	}

	if err := engine.Start(); err != nil {
		log.Error("start engine", logging.Error(err))
		os.Exit(1)
	}
	defer engine.Stop()

	apiServer := api.NewServer(engine, bus, reg, logging.DefaultLogger())
	srv := server.NewGracefulServer(fmt.Sprintf(":%d", *port), apiServer.Handler(), logging.DefaultLogger())

	log.Info("flowsim server starting",
		logging.Int("port", *port),
		logging.ProcessType(*process),
		logging.RunID(engine.RunID()))

	if err := srv.Start(); err != nil {
		log.Error("server error", logging.Error(err))
		os.Exit(1)
	}
}
