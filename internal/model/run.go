package model

import "time"

// RunStatus tracks a discovery run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunParams is the user input a discovery run starts from.
type RunParams struct {
	UserName        string `json:"userName"`
	TargetCompany   string `json:"targetCompany"`
	PreviousCompany string `json:"previousCompany"`
	School          string `json:"school"`
}

// RunStats summarizes what a run did at each stage.
type RunStats struct {
	QueriesIssued       int `json:"queriesIssued"`
	ResultsFetched      int `json:"resultsFetched"`
	CandidatesExtracted int `json:"candidatesExtracted"`
	ContactsReturned    int `json:"contactsReturned"`
	EmailsVerified      int `json:"emailsVerified"`
}

// RunResult is the payload persisted for a finished run.
type RunResult struct {
	Connections []FinalConnection `json:"connections"`
	Stats       RunStats          `json:"stats"`
}

// DiscoveryRun is one recorded execution of the pipeline.
type DiscoveryRun struct {
	ID        string     `json:"id"`
	Params    RunParams  `json:"params"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
