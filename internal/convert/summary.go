package convert

import "path/filepath"

type Failure struct {
	Input   string
	Name    string
	Message string
}

// Summary is the end-of-batch report shown to the user.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
	// OutputDir is the folder of the first outcome when it succeeded.
	OutputDir string
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.OK() {
			s.Succeeded++
			continue
		}
		s.Failed++
		s.Failures = append(s.Failures, Failure{
			Input:   o.Input,
			Name:    filepath.Base(o.Input),
			Message: o.Err.Error(),
		})
	}
	if len(outcomes) > 0 && outcomes[0].OK() {
		s.OutputDir = filepath.Dir(outcomes[0].Output)
	}
	return s
}
