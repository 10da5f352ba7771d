package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/gofrs/uuid"
	"github.com/helviojunior/abapscan/internal/ascii"
	"github.com/helviojunior/abapscan/internal/tools"
	"github.com/helviojunior/abapscan/pkg/models"
	"github.com/helviojunior/abapscan/pkg/rules"
	"github.com/helviojunior/abapscan/pkg/writers"
)

// Runner drains the Units channel with a pool of scan workers, pushes
// every result through the configured writers and keeps a terminal
// status line going.
type Runner struct {
	Detector *Detector

	// options for the Runner to consider
	options Options
	// writers are the result writers to use
	writers []writers.Writer
	// log handler
	log *slog.Logger

	// Units to scan.
	Units chan models.Unit

	// control database used to skip already scanned units; nil when
	// the control db is disabled
	control *gorm.DB

	// in case we need to bail
	ctx    context.Context
	cancel context.CancelFunc

	status *Status

	// scan session id
	uid string
}

type Status struct {
	Scanned    int
	Error      int
	Clean      int
	Flagged    int
	Direct     int
	Join       int
	Skipped    int
	Spin       string
	Running    bool
	IsTerminal bool
	log        *slog.Logger
	mutex      sync.Mutex
}

func (st *Status) Print() {
	if st.IsTerminal {
		st.Spin = ascii.GetNextSpinner(st.Spin)

		fmt.Fprintf(os.Stderr,
			"%s\n %s scanned: %d, failed: %d, skipped: %d, mem: %s               \n %s direct: %d, join: %d\r\033[A\033[A",
			"                                                                        ",
			ascii.ColoredSpin(st.Spin),
			st.Scanned,
			st.Error,
			st.Skipped,
			tools.Bytes(tools.ResidentMemory()),
			strings.Repeat(" ", 4-len(st.Spin)),
			st.Direct,
			st.Join)

	} else {
		st.log.Info("STATUS",
			"scanned", st.Scanned, "failed", st.Error, "skipped", st.Skipped,
			"direct", st.Direct, "join", st.Join)
	}
}

func (st *Status) AddResult(result *models.ScanResult) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	st.Scanned += 1
	if result.Failed {
		st.Error += 1
		return
	}
	if len(result.Findings) == 0 {
		st.Clean += 1
		return
	}
	st.Flagged += 1
	for _, f := range result.Findings {
		if f.IssueType == models.JoinIntroducedFieldAccess {
			st.Join += 1
		} else {
			st.Direct += 1
		}
	}
}

func (st *Status) AddSkipped() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.Skipped += 1
	st.Scanned += 1
}

func (st *Status) AddError() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.Scanned += 1
	st.Error += 1
}

// NewRunner gets a new Runner ready for scanning.
// It's up to the caller to call Close() on the runner.
func NewRunner(logger *slog.Logger, set *rules.Ruleset, opts Options, writers []writers.Writer, control *gorm.DB) (*Runner, error) {
	ctx, cancel := context.WithCancel(context.Background())

	uid, err := uuid.NewV4()
	if err != nil {
		cancel()
		return nil, err
	}

	return &Runner{
		Detector: NewDetector(set),
		options:  opts,
		writers:  writers,
		Units:    make(chan models.Unit),
		control:  control,
		log:      logger,
		ctx:      ctx,
		cancel:   cancel,
		uid:      uid.String(),
		status: &Status{
			Spin:       "",
			Running:    true,
			IsTerminal: term.IsTerminal(int(os.Stdin.Fd())),
			log:        logger,
		},
	}, nil
}

// runWriters takes a result and passes it to writers
func (run *Runner) runWriters(result *models.ScanResult) error {
	for _, writer := range run.writers {
		if err := writer.Write(result); err != nil {
			return err
		}
	}

	return nil
}

func (run *Runner) AddSkipped() {
	run.status.AddSkipped()
}

// alreadyScanned checks the control database for a previous clean run
// of the same unit content.
func (run *Runner) alreadyScanned(fingerprint string) bool {
	if run.control == nil {
		return false
	}

	var cnt int
	response := run.control.Raw(
		"SELECT count(id) as count FROM results WHERE failed = 0 AND fingerprint = ?",
		fingerprint)
	if response == nil {
		return false
	}
	_ = response.Row().Scan(&cnt)
	return cnt > 0
}

// ScanUnit runs the detector over one unit and fills in the session
// bookkeeping fields.
func (run *Runner) ScanUnit(unit models.Unit) *models.ScanResult {
	result := run.Detector.Scan(unit)
	return run.finish(&result)
}

func (run *Runner) finish(result *models.ScanResult) *models.ScanResult {
	result.ScanID = run.uid
	result.Fingerprint = tools.GetHash([]byte(result.Code))
	result.Shingle = tools.Shingle(result.Code)
	return result
}

// Run executes the runner, processing units as they arrive in the
// Units channel
func (run *Runner) Run() *Status {
	defer run.Close()

	ascii.HideCursor()
	wg := sync.WaitGroup{}
	swg := sync.WaitGroup{}

	if !run.options.Logging.Silence {
		swg.Add(1)
		go func() {
			defer swg.Done()
			for run.status.Running {
				select {
				case <-run.ctx.Done():
					return
				default:
					run.status.Print()
					if run.status.IsTerminal {
						time.Sleep(time.Duration(time.Second / 4))
					} else {
						time.Sleep(time.Duration(time.Second * 30))
					}
				}
			}
		}()
	}

	// will spawn Scanner.Threads number of "workers" as goroutines
	for w := 0; w < run.options.Scanner.Threads; w++ {
		wg.Add(1)

		// start a worker
		go func() {
			defer wg.Done()
			for run.status.Running {
				select {
				case <-run.ctx.Done():
					return
				case unit, ok := <-run.Units:
					if !ok || !run.status.Running {
						return
					}
					logger := run.log.With("pgm", unit.PgmName, "inc", unit.IncName)

					if !unit.Valid() {
						logger.Error("unit missing required fields")
						run.status.AddError()
						continue
					}

					fingerprint := tools.GetHash([]byte(unit.Code))
					if run.alreadyScanned(fingerprint) {
						logger.Debug("unit already scanned")
						run.AddSkipped()
						continue
					}

					if !run.Detector.MayMatch(unit.Code) {
						logger.Debug("prefilter: no rule keywords")
						shell := run.Detector.NewResult(unit)
						result := run.finish(&shell)
						run.status.AddResult(result)
						if err := run.runWriters(result); err != nil {
							logger.Error("failed to write result for unit", "err", err)
						}
						continue
					}

					logger.Debug("scanning unit")
					result := run.ScanUnit(unit)

					if run.status.Running {
						run.status.AddResult(result)
						if err := run.runWriters(result); err != nil {
							logger.Error("failed to write result for unit", "err", err)
						}
					}
				}
			}
		}()
	}

	wg.Wait()
	run.status.Running = false
	swg.Wait()

	return run.status
}

func (run *Runner) Close() {
	run.cancel()
	ascii.ClearLine()
	ascii.ShowCursor()
}
