/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package main

import (
	"flag"
	"fmt"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/hunter-stradley/vibe-print/pkg/server"
)

func main() {
	var configPath string
	pflag.StringVar(&configPath, "config", "", "path to the config file (optional, env vars work too)")

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)
	pflag.Parse()
	defer klog.Flush()

	s, err := server.NewServer(configPath)
	if err != nil {
		fmt.Println("failed to new server, err: ", err.Error())
		return
	}
	s.Start()
}
