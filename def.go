package main

/*
	Type and flag definations

	This file contains all the constant, flag and global
	handler definations
*/

import (
	"flag"

	"imuslab.com/siteserv/mod/database"
	"imuslab.com/siteserv/mod/info/logger"
	"imuslab.com/siteserv/mod/livereload"
	"imuslab.com/siteserv/mod/statistic"
	"imuslab.com/siteserv/mod/webserv"
)

const (
	/* Build Constants */
	SYSTEM_NAME    = "SiteServ"
	SYSTEM_VERSION = "1.0"

	/* System Constants */
	DEFAULT_PORT                 = 8000
	DEFAULT_WEB_ROOT             = "dist"
	LOG_PREFIX                   = "siteserv"
	STATISTIC_AUTO_SAVE_INTERVAL = 600 /* Seconds */
)

/* System Startup Flags */
var (
	port             = flag.Int("port", DEFAULT_PORT, "Web server listening port")
	webRoot          = flag.String("webroot", DEFAULT_WEB_ROOT, "Web root folder to serve, created if missing")
	enableDirList    = flag.Bool("dirlist", true, "Enable directory listing for folders without an index file")
	enableLiveReload = flag.Bool("livereload", false, "Reload connected browsers when the web root changes")
	databaseBackend  = flag.String("db", "auto", "Database backend to use (leveldb, boltdb, auto)")
	databaseFile     = flag.String("dbfile", "./sys.db", "Database file path")
	logToFile        = flag.Bool("logtofile", false, "Write a copy of the logs to file")
	path_logFile     = flag.String("log", "./log", "Log folder path")
	showver          = flag.Bool("version", false, "Show version of this server")
)

/* Global Variables and Handlers */
var (
	sysdb              *database.Database
	SystemWideLogger   *logger.Logger
	statisticCollector *statistic.Collector
	liveReloadService  *livereload.Service
	staticWebServer    *webserv.WebServer
)
