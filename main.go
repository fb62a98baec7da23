package main

import (
	"fmt"
	"os"

	"github.com/pisangijoevi/ongkir/app/cmd"
	"github.com/pisangijoevi/ongkir/app/configs"
	"go.uber.org/zap"
)

func main() {
	env := configs.LoadEnv()

	logger, err := configs.NewLogger(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !env.DotenvLoaded {
		logger.Info("No .env file found, using process environment")
	}

	if err := cmd.RunCli(env, logger, os.Args); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}
