package main

import (
	"flag"
	"os"

	"SqliteViewer/internal/sample"
	"SqliteViewer/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	dbPath   = flag.String("db", "./data/database.sqlite", "Output SQLite database path")
	products = flag.Int("products", 20, "Number of products to generate")
	events   = flag.Int("events", 200, "Number of events to generate")
	seed     = flag.Int64("seed", 0, "Random seed (0 = time based)")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	logger.Setup(*debug, "")

	logrus.Infof("Generating sample database: %s", *dbPath)
	stats, err := sample.Generate(*dbPath, sample.Options{Products: *products, Events: *events, Seed: *seed})
	if err != nil {
		logrus.Errorf("Generate sample database failed: %v", err)
		os.Exit(1)
	}

	logrus.WithFields(logrus.Fields{
		"users":    stats.Users,
		"products": stats.Products,
		"events":   stats.Events,
		"notes":    stats.Notes,
		"seed":     stats.Seed,
	}).Info("Sample database ready")
}
