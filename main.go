package main

/*
	SiteServ - Local static website preview server

	Serve a prebuilt website from the web root folder over plain
	HTTP. Running the binary with no arguments serves ./dist on
	port 8000 until interrupted.
*/

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

/* SIGTERM handler, do shutdown sequences before closing */
func SetupCloseHandler() {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-c
		ShutdownSeq()
		os.Exit(0)
	}()
}

func main() {
	//Parse startup flags
	flag.Parse()

	if *showver {
		fmt.Println(SYSTEM_NAME + " - Version " + SYSTEM_VERSION)
		os.Exit(0)
	}

	SetupCloseHandler()

	//Startup all modules, see start.go
	startupSequence()

	//Start accepting requests. Bind errors surface here
	err := staticWebServer.Start()
	if err != nil {
		SystemWideLogger.PrintAndLog("webserv", "Unable to start web server", err)
		ShutdownSeq()
		os.Exit(1)
	}

	//Block until interrupted. Shutdown is handled by the close handler
	select {}
}
