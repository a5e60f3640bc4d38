package statistic

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"imuslab.com/siteserv/mod/database"
)

/*
	Statistic Package

	Collect a per-day summary of the traffic served by the static
	web server and store it for future analysis. The summary is
	kept in memory and flushed to database on an interval and on
	shutdown, so a forceful restart resumes the same day.
*/

const defaultAutoSaveInterval = 600 //Seconds

// Interval summary for all requests of a single day
type DailySummary struct {
	TotalRequest int64     //Total request of the day
	NotFound     int64     //Requests answered with not found
	BytesServed  int64     //Total body bytes written to clients
	RequestURL   *sync.Map //Map that hold [request path]: hit counter
}

// Flattened DailySummary for JSON storage
type DailySummaryExport struct {
	TotalRequest int64
	NotFound     int64
	BytesServed  int64
	RequestURL   map[string]int64
}

type RequestInfo struct {
	RequestURL   string
	StatusCode   int
	BytesWritten int64
}

type CollectorOption struct {
	Database         *database.Database
	AutoSaveInterval int //Seconds between automatic summary flushes, 0 for default
}

type Collector struct {
	DailySummary *DailySummary
	Option       *CollectorOption

	summaryDate  string //Date key the current summary belongs to
	autosaveStop chan bool
	mu           sync.Mutex
}

func NewStatisticCollector(option CollectorOption) (*Collector, error) {
	option.Database.NewTable("stats")
	if option.AutoSaveInterval <= 0 {
		option.AutoSaveInterval = defaultAutoSaveInterval
	}

	thisCollector := Collector{
		DailySummary: newDailySummary(),
		Option:       &option,
		summaryDate:  dayKey(time.Now()),
	}

	//Load the stat if exists for today
	//This will exists if the program was forcefully restarted
	year, month, day := time.Now().Date()
	summary := thisCollector.LoadSummaryOfDay(year, month, day)
	if summary != nil {
		thisCollector.DailySummary = summary
	}

	//Schedule the periodic flush and midnight rollover
	thisCollector.autosaveStop = thisCollector.scheduleAutoSave()

	return &thisCollector, nil
}

// RecordRequest records one served request into the daily summary.
// Safe for concurrent use from request handlers.
func (c *Collector) RecordRequest(ri RequestInfo) {
	summary := c.DailySummary
	atomic.AddInt64(&summary.TotalRequest, 1)
	if ri.StatusCode == http.StatusNotFound {
		atomic.AddInt64(&summary.NotFound, 1)
	}
	atomic.AddInt64(&summary.BytesServed, ri.BytesWritten)

	counter, _ := summary.RequestURL.LoadOrStore(ri.RequestURL, new(int64))
	atomic.AddInt64(counter.(*int64), 1)
}

// Write the current in-memory summary to database file
func (c *Collector) SaveSummaryOfDay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	saveData := DailySummaryToExport(c.DailySummary)
	c.Option.Database.Write("stats", c.summaryDate, saveData)
}

// Load the summary of a given day, return nil if no summary was stored
func (c *Collector) LoadSummaryOfDay(year int, month time.Month, day int) *DailySummary {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	summaryKey := dayKey(date)
	if !c.Option.Database.KeyExists("stats", summaryKey) {
		return nil
	}
	targetSummaryExport := DailySummaryExport{}
	err := c.Option.Database.Read("stats", summaryKey, &targetSummaryExport)
	if err != nil {
		return nil
	}
	return DailySummaryExportToSummary(&targetSummaryExport)
}

func (c *Collector) Close() {
	//Stop the autosave ticker
	c.autosaveStop <- true

	//Write the buffered data into database
	c.SaveSummaryOfDay()
}

func (c *Collector) scheduleAutoSave() chan bool {
	stopChan := make(chan bool)
	ticker := time.NewTicker(time.Duration(c.Option.AutoSaveInterval) * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopChan:
				return
			case <-ticker.C:
				today := dayKey(time.Now())
				if today != c.summaryDate {
					//Day changed. Flush the finished day and start a new summary
					c.SaveSummaryOfDay()
					c.mu.Lock()
					c.DailySummary = newDailySummary()
					c.summaryDate = today
					c.mu.Unlock()
				} else {
					c.SaveSummaryOfDay()
				}
			}
		}
	}()
	return stopChan
}

func newDailySummary() *DailySummary {
	return &DailySummary{
		TotalRequest: 0,
		NotFound:     0,
		BytesServed:  0,
		RequestURL:   &sync.Map{},
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006_01_02")
}

// Convert the in-memory summary into a JSON serializable export
func DailySummaryToExport(summary *DailySummary) DailySummaryExport {
	export := DailySummaryExport{
		TotalRequest: atomic.LoadInt64(&summary.TotalRequest),
		NotFound:     atomic.LoadInt64(&summary.NotFound),
		BytesServed:  atomic.LoadInt64(&summary.BytesServed),
		RequestURL:   map[string]int64{},
	}

	summary.RequestURL.Range(func(key, value interface{}) bool {
		export.RequestURL[key.(string)] = atomic.LoadInt64(value.(*int64))
		return true
	})

	return export
}

// Convert a stored export back into an in-memory summary
func DailySummaryExportToSummary(export *DailySummaryExport) *DailySummary {
	summary := newDailySummary()
	summary.TotalRequest = export.TotalRequest
	summary.NotFound = export.NotFound
	summary.BytesServed = export.BytesServed
	for path, count := range export.RequestURL {
		counter := new(int64)
		*counter = count
		summary.RequestURL.Store(path, counter)
	}
	return summary
}
