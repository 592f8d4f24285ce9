// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kevinzang/renderqueue/internal/api"
	"github.com/kevinzang/renderqueue/internal/config"
	"github.com/kevinzang/renderqueue/internal/job"
	"github.com/kevinzang/renderqueue/internal/logger"
	"github.com/kevinzang/renderqueue/internal/render"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	bind := flag.String("bind", "", "Bind address (overrides config)")
	rendererBin := flag.String("renderer", "", "Blender executable path (overrides config)")
	outputDir := flag.String("output", "", "Output root directory (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}

	bindAddr := cfg.Server.Bind
	if *bind != "" {
		bindAddr = *bind
	}
	rendererPath := cfg.Renderer.Path
	if *rendererBin != "" {
		rendererPath = *rendererBin
	}
	outputRoot := cfg.Output.Dir
	if *outputDir != "" {
		outputRoot = *outputDir
	}

	logger := logger.New("renderqueue ")

	discovered := false
	if rendererPath == "" {
		if path, ok := render.FindExecutable(); ok {
			rendererPath = path
			discovered = true
			logger.Info("renderer found at %s", path)
		} else {
			logger.Error("renderer executable not found, specify it per request or via config")
		}
	}

	var info render.Info
	if rendererPath != "" {
		var err error
		info, err = render.Detect(rendererPath)
		if err != nil {
			logger.Error("renderer detection: %v", err)
			info = render.Info{Binary: rendererPath}
		} else if info.Version != "" {
			logger.Info("renderer: Blender %s", info.Version)
		}
	}

	queue := job.New(render.DefaultValidator(), logger)

	handler := api.NewHandler(api.Config{
		Queue:             queue,
		Renderer:          info,
		Discovered:        discovered,
		DefaultOutputDir:  outputRoot,
		DefaultExecutable: rendererPath,
	})

	r := gin.Default()
	r.Use(gin.Recovery(), cors.Default())

	handler.Register(r.Group("/api/v1"))

	log.Printf("RenderQueue listening on %s", bindAddr)
	if err := r.Run(bindAddr); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
