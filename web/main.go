package main

import (
	"log"
	"os"

	"github.com/df07/go-pinhole-raytracer/pkg/config"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/web/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(2)
	}
	if cfg.Help {
		config.PrintUsage(os.Stdout)
		return
	}

	var sink output.Sink
	if cfg.S3.Enabled() {
		s3Sink, err := output.NewS3Sink(cfg.S3, cfg.OutputFormat(), nil)
		if err != nil {
			log.Printf("Error creating S3 sink: %v", err)
			os.Exit(1)
		}
		sink = s3Sink
		log.Printf("Uploads enabled to bucket %s", cfg.S3.Bucket)
	}

	webServer := server.NewServer(cfg.Port, "scenes", sink)

	log.Printf("Pinhole Raytracer Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
