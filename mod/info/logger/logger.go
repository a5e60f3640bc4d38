package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

/*
	SiteServ Logger

	Managed logging for the static web server. Messages are
	always printed to STDOUT. When created with NewLogger, a
	copy of every message is appended to a monthly log file.
*/

type Logger struct {
	Prefix         string //Prefix for log files
	LogFolder      string //Folder to store the log file
	CurrentLogFile string //Current writing filename
	logger         *log.Logger
	file           *os.File
}

// Create a new logger that logs to STDOUT and a monthly log file
func NewLogger(logFilePrefix string, logFolder string) (*Logger, error) {
	err := os.MkdirAll(logFolder, 0775)
	if err != nil {
		return nil, err
	}

	thisLogger := Logger{
		Prefix:    logFilePrefix,
		LogFolder: logFolder,
	}

	//Create the log file if not exists
	logFilePath := thisLogger.getLogFilepath()
	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0755)
	if err != nil {
		return nil, err
	}
	thisLogger.CurrentLogFile = logFilePath
	thisLogger.file = f

	fileLogger := log.New(f, "", 0)
	thisLogger.logger = fileLogger
	return &thisLogger, nil
}

// Create a logger that only logs to STDOUT
func NewFmtLogger() (*Logger, error) {
	return &Logger{
		Prefix:         "",
		LogFolder:      "",
		CurrentLogFile: "",
		logger:         nil,
		file:           nil,
	}, nil
}

func (l *Logger) getLogFilepath() string {
	year, month, _ := time.Now().Date()
	return filepath.Join(l.LogFolder, l.Prefix+"_"+strconv.Itoa(year)+"-"+strconv.Itoa(int(month))+".log")
}

// PrintAndLog writes the message to the log file and prints it to STDOUT.
// Writes are synchronous so startup messages appear in emit order.
func (l *Logger) PrintAndLog(title string, message string, originalError error) {
	l.Log(title, message, originalError, true)
}

// Println is a fast snap-in replacement for log.Println
func (l *Logger) Println(v ...interface{}) {
	message := fmt.Sprint(v...)
	l.Log("internal", message, nil, true)
}

func (l *Logger) Log(title string, errorMessage string, originalError error, copyToSTDOUT bool) {
	l.ValidateAndUpdateLogFilepath()
	line := ""
	if originalError == nil {
		line = "[" + time.Now().Format("2006-01-02 15:04:05.000000") + "] [" + title + "] [system:info] " + errorMessage
	} else {
		line = "[" + time.Now().Format("2006-01-02 15:04:05.000000") + "] [" + title + "] [system:error] " + errorMessage + ": " + originalError.Error()
	}

	if l.logger == nil || copyToSTDOUT {
		//Use STDOUT instead of logger
		fmt.Println(line)
	}

	if l.logger != nil {
		l.logger.Println(line)
	}
}

// Validate if the logging target is still valid (detect any month change)
func (l *Logger) ValidateAndUpdateLogFilepath() {
	if l.file == nil {
		return
	}
	expectedCurrentLogFilepath := l.getLogFilepath()
	if l.CurrentLogFile != expectedCurrentLogFilepath {
		//Change of month. Update to a new log file
		l.file.Close()
		l.file = nil

		f, err := os.OpenFile(expectedCurrentLogFilepath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0755)
		if err != nil {
			log.Println("Unable to create new log. Logging to file is disabled: ", err.Error())
			l.logger = nil
			return
		}
		l.CurrentLogFile = expectedCurrentLogFilepath
		l.file = f
		l.logger = log.New(f, "", 0)
	}
}

func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}
