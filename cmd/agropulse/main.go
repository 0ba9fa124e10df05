// Command agropulse es la herramienta de administración del catálogo AgroPulse:
// lista y edita productos contra la API y genera el reporte de inventario en PDF.
package main

import (
	"fmt"
	"os"

	"github.com/sandaruwank/AgroPulze/pkg/config"
	"github.com/sandaruwank/AgroPulze/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: os.Stderr})

	if err := newApp(cfg, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
