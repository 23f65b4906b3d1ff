package testutil

// Progress records what a transfer reported through s3types.ProgressTracker.
type Progress struct {
	Done  bool
	Err   error
	Bytes int64
	Total int64
	Calls int
}

func (p *Progress) Update(transferred, total int64) {
	p.Bytes, p.Total = transferred, total
	p.Calls++
}

func (p *Progress) Complete() { p.Done = true }

func (p *Progress) Error(err error) { p.Err = err }

// Failed reports whether Error was called.
func (p *Progress) Failed() bool { return p.Err != nil }
