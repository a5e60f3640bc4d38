package main

import (
	"fmt"
	"os"
	"strconv"

	"imuslab.com/siteserv/mod/database"
	"imuslab.com/siteserv/mod/database/dbinc"
	"imuslab.com/siteserv/mod/info/logger"
	"imuslab.com/siteserv/mod/livereload"
	"imuslab.com/siteserv/mod/statistic"
	"imuslab.com/siteserv/mod/webserv"
)

/*
	Startup Sequence

	This function starts the startup sequence of all
	required modules
*/

func startupSequence() {
	//Create the system wide logger
	var err error
	if *logToFile {
		SystemWideLogger, err = logger.NewLogger(LOG_PREFIX, *path_logFile)
	} else {
		SystemWideLogger, err = logger.NewFmtLogger()
	}
	if err != nil {
		fmt.Println("Unable to create logger: " + err.Error())
		os.Exit(1)
	}

	//Create database
	backendType := dbinc.BackEndAuto
	switch *databaseBackend {
	case "leveldb":
		backendType = dbinc.BackendLevelDB
	case "boltdb", "auto":
		backendType = dbinc.BackendBoltDB
	default:
		SystemWideLogger.PrintAndLog("database", "Unknown database backend: "+*databaseBackend, nil)
		os.Exit(1)
	}
	db, err := database.NewDatabase(*databaseFile, backendType)
	if err != nil {
		SystemWideLogger.PrintAndLog("database", "Unable to create database", err)
		os.Exit(1)
	}
	sysdb = db
	sysdb.NewTable("settings")

	//Create a statistic collector
	statisticCollector, err = statistic.NewStatisticCollector(statistic.CollectorOption{
		Database:         sysdb,
		AutoSaveInterval: STATISTIC_AUTO_SAVE_INTERVAL,
	})
	if err != nil {
		SystemWideLogger.PrintAndLog("statistic", "Unable to create statistic collector", err)
		os.Exit(1)
	}

	//Create the static web server. This also ensures the web root exists
	staticWebServer = webserv.NewWebServer(&webserv.WebServerOptions{
		Port:                   strconv.Itoa(*port),
		WebRoot:                *webRoot,
		EnableDirectoryListing: *enableDirList,
		Sysdb:                  sysdb,
		Logger:                 SystemWideLogger,
		Collector:              statisticCollector,
	})

	//Create the live reload service if enabled
	if *enableLiveReload {
		liveReloadService, err = livereload.NewService(&livereload.Options{
			WebRoot: *webRoot,
			Logger:  SystemWideLogger,
		})
		if err != nil {
			//Watcher startup failure only disables the feature
			SystemWideLogger.PrintAndLog("livereload", "Unable to start live reload. Continuing without it", err)
			liveReloadService = nil
		} else {
			staticWebServer.SetLiveReloadService(liveReloadService)
		}
	}
}

/* Shutdown sequence, the reverse of startup */
func ShutdownSeq() {
	SystemWideLogger.PrintAndLog("system", "Shutting down "+SYSTEM_NAME, nil)
	if liveReloadService != nil {
		liveReloadService.Close()
	}
	if staticWebServer != nil {
		staticWebServer.Close()
	}
	if statisticCollector != nil {
		statisticCollector.Close()
	}
	if sysdb != nil {
		sysdb.Close()
	}
	SystemWideLogger.Close()
}
