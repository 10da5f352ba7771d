package scanner

// Options are global abapscan options
type Options struct {
	// Logging is logging options
	Logging Logging
	// Writer is result writer options
	Writer Writer
	// Scanner is scanning options
	Scanner Scanner
}

// Logging is log related options
type Logging struct {
	// Debug display debug level logging
	Debug bool
	// LogScanErrors log errors related to scanning
	LogScanErrors bool
	// Silence all logging
	Silence bool
}

// Writer options
type Writer struct {
	UserPath    string
	NoControlDb bool
	GlobalDbURI string
	Db          bool
	DbURI       string
	DbDebug     bool // enables verbose database logs
	Csv         bool
	CsvFile     string
	Jsonl       bool
	JsonlFile   string
	Elastic     bool
	ElasticURI  string
	Stdout      bool
	None        bool
}

// Scanner is scanning related options
type Scanner struct {
	// Path with the units or ABAP sources to scan
	Path string
	// Threads are the number of concurrent scan goroutines
	Threads int
}

// NewDefaultOptions returns Options with some default values
func NewDefaultOptions() *Options {
	return &Options{
		Scanner: Scanner{
			Threads: 6,
		},
		Logging: Logging{
			Debug:         true,
			LogScanErrors: true,
		},
	}
}
