package entity

import "time"

// Stage is one step of the cargo-handling lifecycle
type Stage string

const (
	StageBongkaran    Stage = "bongkaran"
	StagePengajuan    Stage = "pengajuan"
	StageAccPengajuan Stage = "acc_pengajuan"
	StageRealisasi    Stage = "realisasi"
	StageObstacles    Stage = "obstacles"
)

// Stages in unlock order
var Stages = []Stage{StageBongkaran, StagePengajuan, StageAccPengajuan, StageRealisasi, StageObstacles}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// Endpoint is the update route segment of the stage
func (s Stage) Endpoint() string {
	if s == StageRealisasi {
		return "realisasi_shipside"
	}
	if s.Valid() {
		return string(s)
	}
	return ""
}

// StageTab is one tab of the edit form
type StageTab struct {
	Stage    Stage  `json:"stage"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// StageForm carries the values entered for a stage. Quantities missing from the
// map are sent as zero.
type StageForm struct {
	Quantities map[string]float64 `json:"quantities"`
	Obstacles  string             `json:"obstacles"`
}

// StageSubmission is one journaled stage save
type StageSubmission struct {
	ID         uint      `json:"id"`
	RecordID   int64     `json:"record_id"`
	VoyageID   int64     `json:"voyage_id"`
	Stage      Stage     `json:"stage"`
	Payload    string    `json:"payload"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Violations int       `json:"violations"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	SubmissionSucceeded = "succeeded"
	SubmissionRejected  = "rejected"
	SubmissionFailed    = "failed"
)
