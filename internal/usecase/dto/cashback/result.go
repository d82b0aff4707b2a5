package cashbackdto

// SubmissionResult is the structured outcome of one ledger submission.
// Submission failures land here instead of propagating as errors so
// batch sweeps can continue past one bad row.
type SubmissionResult struct {
	CashbackID  string
	Success     bool
	TxHash      string
	BlockNumber int64
	Error       string
}

type BatchResult struct {
	TotalProcessed int
	Successful     int
	Failed         int
	Results        []SubmissionResult
}

func (b *BatchResult) Add(result SubmissionResult) {
	b.TotalProcessed++
	if result.Success {
		b.Successful++
	} else {
		b.Failed++
	}
	b.Results = append(b.Results, result)
}
