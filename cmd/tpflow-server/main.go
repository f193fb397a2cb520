package main

import (
	"flag"
	"log"
	"os"

	"github.com/praxisware/tpflow/internal/application"
	"github.com/praxisware/tpflow/internal/consts"

	// Route registration and component builders hook in via init.
	_ "github.com/praxisware/tpflow/internal/api"
	_ "github.com/praxisware/tpflow/internal/registry_ext"
)

func main() {
	env := flag.String("env", envOrDefault(), "runtime environment (development|test|production)")
	cfgPath := flag.String("config", consts.DEFAULT_CONFIG_PATH, "config file path")
	flag.Parse()

	app := application.NewApp(*env, *cfgPath)
	if err := app.Run(); err != nil {
		log.Fatalf("tpflow-server: %v", err)
	}
}

func envOrDefault() string {
	if v := os.Getenv("TPFLOW_ENV"); v != "" {
		return v
	}
	return consts.ENV_DEVELOPMENT
}
