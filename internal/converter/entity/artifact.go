package entity

import "time"

// Artifact is a converted file ready for download.
type Artifact struct {
	ID         string
	SourceName string
	FileName   string
	MIME       string
	Target     Format
	Content    []byte
	CreatedAt  time.Time
}

// Size returns the artifact length in bytes.
func (a *Artifact) Size() int {
	return len(a.Content)
}
