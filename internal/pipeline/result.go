package pipeline

import "time"

// Status is the terminal state of a run.
type Status string

const (
	StatusSuccess         Status = "Success"
	StatusAlreadyComplete Status = "Already Complete"
	StatusInterrupted     Status = "Interrupted"
)

// Progress is reported after every checkpoint write.
type Progress struct {
	Batch       int // 1-based, within this run
	Batches     int
	Completed   int // records in the checkpoint
	Total       int
	BatchFailed int
}

// EnhancementResult summarizes a RunEnhancement call.
type EnhancementResult struct {
	Status         Status
	RunID          string
	Total          int
	Resumed        int // records already checkpointed when the run started
	Processed      int // records translated by this run
	Failed         int // records of this run missing a translation
	Batches        int
	CheckpointPath string
	OutputPath     string
	Published      bool
	Duration       time.Duration
}

// RepairResult summarizes a RunRepair call.
type RepairResult struct {
	Status      Status
	Attempted   int
	Fixed       int
	StillFailed int
	Duration    time.Duration
}
