package model

import "time"

// SupervisedRow is one training/evaluation example. Features come from a bar
// whose indicators are all defined; the label is the close of the
// immediately following bar for the same symbol.
type SupervisedRow struct {
	Symbol   string    `json:"symbol"`
	TS       time.Time `json:"ts"`       // feature bar timestamp
	LabelTS  time.Time `json:"label_ts"` // label bar timestamp, strictly after TS
	Features []float64 `json:"features"`
	Label    float64   `json:"label"`
}

// Fold addresses contiguous train/test windows of a chronologically ordered
// row sequence by index, half-open [start, end). Train always ends where
// test begins, so train strictly precedes test in time.
type Fold struct {
	Number   int `json:"number"`
	TrainEnd int `json:"train_end"` // exclusive train end == inclusive test start
	TestEnd  int `json:"test_end"`  // exclusive
}

// Train returns the fold's training slice of rows. The slice shares the
// master sequence's backing array and must be treated as read-only.
func (f Fold) Train(rows []SupervisedRow) []SupervisedRow {
	return rows[:f.TrainEnd]
}

// Test returns the fold's test slice of rows, read-only as with Train.
func (f Fold) Test(rows []SupervisedRow) []SupervisedRow {
	return rows[f.TrainEnd:f.TestEnd]
}
