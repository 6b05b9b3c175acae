package analyze

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/sirupsen/logrus"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/optquant/optcore/models"
)

// PositionReport pairs a revalued position with its analysis. Err carries the
// failure for that position without aborting the rest of the book.
type PositionReport struct {
	Position models.OptionsPosition `json:"position"`
	Analysis *StrategyAnalysis      `json:"analysis,omitempty"`
	Err      string                 `json:"error,omitempty"`
}

type bookJob struct {
	index    int
	position models.OptionsPosition
	market   MarketSnapshot
}

// AnalyzeBook revalues and analyzes every position in the book against the
// per-underlying snapshots. Positions are independent pure computations, so
// the book is mapped across a bounded worker pool; results keep input order.
// Positions with no snapshot for their underlying report an error entry.
func AnalyzeBook(positions []models.OptionsPosition, markets map[string]MarketSnapshot, showProgress bool) []PositionReport {
	log := logrus.WithField("positions", len(positions))
	if len(positions) == 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(positions) {
		numWorkers = len(positions)
	}
	log.WithField("workers", numWorkers).Info("analyzing position book")

	var bar *mpb.Bar
	var progress *mpb.Progress
	if showProgress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(positions)),
			mpb.PrependDecorators(
				decor.Name("Analyzing"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	stopMonitor := make(chan struct{})
	go monitorCPUUsage(stopMonitor)

	jobs := make(chan bookJob)
	reports := make([]PositionReport, len(positions))
	var wg sync.WaitGroup
	var failures int64

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				reports[j.index] = analyzeOne(j)
				if reports[j.index].Err != "" {
					atomic.AddInt64(&failures, 1)
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	start := time.Now()
	for i, p := range positions {
		jobs <- bookJob{index: i, position: p, market: markets[p.Strategy.Underlying]}
	}
	close(jobs)
	wg.Wait()
	close(stopMonitor)

	if progress != nil {
		progress.Wait()
	}
	log.WithFields(logrus.Fields{
		"elapsed":  time.Since(start),
		"failures": atomic.LoadInt64(&failures),
	}).Info("book analysis complete")

	return reports
}

func analyzeOne(j bookJob) PositionReport {
	if j.market.UnderlyingPrice == 0 && j.market.Volatility == 0 {
		return PositionReport{
			Position: j.position,
			Err:      "no market snapshot for underlying " + j.position.Strategy.Underlying,
		}
	}

	position, err := RevaluePosition(j.position, j.market)
	if err != nil {
		return PositionReport{Position: j.position, Err: err.Error()}
	}

	analysis, err := AnalyzeStrategy(position.Strategy, j.market)
	if err != nil {
		return PositionReport{Position: position, Err: err.Error()}
	}
	return PositionReport{Position: position, Analysis: analysis}
}

func monitorCPUUsage(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			percentage, err := cpu.Percent(time.Second, false)
			if err == nil && len(percentage) > 0 {
				logrus.WithField("cpu", percentage[0]).Debug("cpu usage")
			}
		}
	}
}
