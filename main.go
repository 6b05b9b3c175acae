package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/xhhuango/json"

	"github.com/optquant/optcore/analyze"
	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/performance"
)

const (
	defaultBookFile   = "book.json"
	defaultReportFile = "report.json"
	defaultRiskFree   = 0.0379
)

// book is the input snapshot prepared by the broker and market-data
// collaborators: open positions, closed trades and per-underlying market
// inputs. The core only transforms it; it fetches nothing.
type book struct {
	Positions []models.OptionsPosition          `json:"positions"`
	Trades    []models.HistoricalTrade          `json:"trades"`
	Markets   map[string]analyze.MarketSnapshot `json:"markets"`
}

type output struct {
	Positions   []analyze.PositionReport      `json:"positions"`
	Performance performance.PerformanceReport `json:"performance"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using environment")
	}

	bookFile := envOr("OPTCORE_BOOK", defaultBookFile)
	reportFile := envOr("OPTCORE_REPORT", defaultReportFile)

	riskFreeRate := defaultRiskFree
	if v := os.Getenv("OPTCORE_RISK_FREE_RATE"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logrus.WithError(err).Fatal("invalid OPTCORE_RISK_FREE_RATE")
		}
		riskFreeRate = parsed
	}

	raw, err := os.ReadFile(bookFile)
	if err != nil {
		logrus.WithError(err).Fatalf("reading book %s", bookFile)
	}
	var b book
	if err := json.Unmarshal(raw, &b); err != nil {
		logrus.WithError(err).Fatalf("parsing book %s", bookFile)
	}

	logrus.WithFields(logrus.Fields{
		"positions": len(b.Positions),
		"trades":    len(b.Trades),
		"markets":   len(b.Markets),
	}).Info("book loaded")

	reports := analyze.AnalyzeBook(b.Positions, b.Markets, true)

	perf, err := performance.BuildReport(b.Trades, riskFreeRate)
	if err != nil {
		logrus.WithError(err).Fatal("building performance report")
	}

	out, err := json.Marshal(output{Positions: reports, Performance: perf})
	if err != nil {
		logrus.WithError(err).Fatal("marshalling report")
	}
	if err := os.WriteFile(reportFile, out, 0644); err != nil {
		logrus.WithError(err).Fatalf("writing report %s", reportFile)
	}

	logrus.WithField("file", reportFile).Info("report written")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
