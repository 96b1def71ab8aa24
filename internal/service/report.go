package service

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Режимы запуска
const (
	ModeCatchUp = "catchup"
	ModeDaily   = "daily"
	ModeDate    = "date"
)

// TargetFailure: цель запуска (год или дата), которую не удалось обработать
type TargetFailure struct {
	Target string
	Err    error
}

// RunReport: итог одного запуска
type RunReport struct {
	RunID    string
	Mode     string
	Started  time.Time
	Finished time.Time

	Targets    int
	NoResults  int
	Inserted   int
	Duplicates int
	Discarded  int
	Rejected   int
	Cancelled  bool
	Failures   []TargetFailure
}

func newRunReport(runID, mode string) *RunReport {
	return &RunReport{
		RunID:   runID,
		Mode:    mode,
		Started: time.Now(),
	}
}

// Duration возвращает длительность запуска
func (r *RunReport) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}

func (r *RunReport) count(outcome Outcome) {
	switch outcome {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeDuplicate:
		r.Duplicates++
	case OutcomeDiscarded:
		r.Discarded++
	}
}

func (r *RunReport) fail(target string, err error) {
	r.Failures = append(r.Failures, TargetFailure{Target: target, Err: err})
}

// MarshalLogObject позволяет писать отчет одним полем zap.Object
func (r *RunReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("run_id", r.RunID)
	enc.AddString("mode", r.Mode)
	enc.AddDuration("duration", r.Duration())
	enc.AddInt("targets", r.Targets)
	enc.AddInt("no_results", r.NoResults)
	enc.AddInt("inserted", r.Inserted)
	enc.AddInt("duplicates", r.Duplicates)
	enc.AddInt("discarded", r.Discarded)
	enc.AddInt("rejected", r.Rejected)
	enc.AddInt("failures", len(r.Failures))
	enc.AddBool("cancelled", r.Cancelled)
	return nil
}

var _ zapcore.ObjectMarshaler = (*RunReport)(nil)

func reportField(r *RunReport) zap.Field {
	return zap.Object("report", r)
}
