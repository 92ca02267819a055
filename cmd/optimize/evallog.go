package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

const evalLogFile = "optimize_log.csv"

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval                int     `csv:"eval"`
	Fitness             float64 `csv:"fitness"`
	Quality             float64 `csv:"quality"`
	MeanSurvival        float64 `csv:"mean_survival"`
	Extinct             int     `csv:"extinct_seeds"`
	FunctionallyExtinct int     `csv:"functional_extinct_seeds"`
	MaxHerbivores       float64 `csv:"max_herbivores"`
	MaxCarnivores       float64 `csv:"max_carnivores"`
	HerbivoreSeedScale  float64 `csv:"herbivore_seed_scale"`
	CarnivoreSeedScale  float64 `csv:"carnivore_seed_scale"`
	HungerRateScale     float64 `csv:"hunger_rate_scale"`
	HerbivoreReproScale float64 `csv:"herbivore_repro_scale"`
	CarnivoreReproScale float64 `csv:"carnivore_repro_scale"`
}

func newEvalRecord(n int, e Evaluation) evalRecord {
	v := e.Values
	return evalRecord{
		Eval:                n,
		Fitness:             e.Fitness,
		Quality:             e.Quality,
		MeanSurvival:        e.MeanSurvival(),
		Extinct:             e.Count(endExtinct),
		FunctionallyExtinct: e.Count(endFunctional),
		MaxHerbivores:       v[paramMaxHerbivores],
		MaxCarnivores:       v[paramMaxCarnivores],
		HerbivoreSeedScale:  v[paramHerbivoreSeedScale],
		CarnivoreSeedScale:  v[paramCarnivoreSeedScale],
		HungerRateScale:     v[paramHungerRateScale],
		HerbivoreReproScale: v[paramHerbivoreReproScale],
		CarnivoreReproScale: v[paramCarnivoreReproScale],
	}
}

// evalLog appends evaluation rows, writing the header with the first one.
type evalLog struct {
	file          *os.File
	headerWritten bool
}

func openEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &evalLog{file: f}, nil
}

func (l *evalLog) Write(rec evalRecord) error {
	rows := []evalRecord{rec}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(rows, l.file)
	}
	return gocsv.MarshalWithoutHeaders(rows, l.file)
}

func (l *evalLog) Close() error {
	return l.file.Close()
}
