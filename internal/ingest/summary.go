package ingest

import "fmt"

const maxErrorSamples = 10

// Summary is what a run reports at exit.
type Summary struct {
	Found    int
	Mapped   int
	Skipped  int
	Inserted int
	Updated  int
	Failed   int
	// PageErrors counts pages that contributed nothing because fetch or parse failed.
	PageErrors int
	Errors     []string
}

func (s *Summary) Add(o Summary) {
	s.Found += o.Found
	s.Mapped += o.Mapped
	s.Skipped += o.Skipped
	s.Inserted += o.Inserted
	s.Updated += o.Updated
	s.Failed += o.Failed
	s.PageErrors += o.PageErrors
	for _, e := range o.Errors {
		s.addError(e)
	}
}

func (s *Summary) addError(msg string) {
	if len(s.Errors) < maxErrorSamples {
		s.Errors = append(s.Errors, msg)
	}
}

// AddPageError records a skipped page.
func (s *Summary) AddPageError(err error) {
	s.PageErrors++
	s.addError(err.Error())
}

func (s Summary) String() string {
	return fmt.Sprintf("Found=%d, mapped=%d, inserted=%d, updated=%d, skipped=%d, failed=%d, page errors=%d",
		s.Found, s.Mapped, s.Inserted, s.Updated, s.Skipped, s.Failed, s.PageErrors)
}
